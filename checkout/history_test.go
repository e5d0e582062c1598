package checkout

import (
	"strings"
	"testing"
	"time"

	"github.com/junaidrashid-git/modelstore-api/models"
	"github.com/junaidrashid-git/modelstore-api/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func order(id string, status models.OrderStatus) models.Order {
	return models.Order{
		ID: id,
		Items: []models.CartLine{
			{Product: product("1", "100"), Quantity: 2},
			{Product: product("2", "50"), Quantity: 1},
		},
		Total:  decimal.NewFromInt(390),
		Status: status,
		Date:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

func orderIDs(orders []models.Order) []string {
	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	return ids
}

func TestVisible_MergesAndDedupes(t *testing.T) {
	h := NewHistory(storage.NewMemory(), nil)
	require.NoError(t, h.Add(order("B", models.OrderStatusProcessing)))
	require.NoError(t, h.Add(order("C", models.OrderStatusProcessing)))

	remote := []models.Order{order("A", models.OrderStatusDelivered), order("B", models.OrderStatusShipped)}
	visible := h.Visible(remote)

	assert.Equal(t, []string{"A", "B", "C"}, orderIDs(visible))
	assert.Equal(t, models.OrderStatusShipped, visible[1].Status)
}

func TestVisible_NilRemoteUsesCache(t *testing.T) {
	h := NewHistory(storage.NewMemory(), nil)
	require.NoError(t, h.Add(order("A", models.OrderStatusProcessing)))

	assert.Equal(t, []string{"A"}, orderIDs(h.Visible(nil)))
}

func TestRequestReturn_HidesOrder(t *testing.T) {
	h := NewHistory(storage.NewMemory(), nil)
	o := order("A", models.OrderStatusDelivered)
	require.NoError(t, h.Add(o))

	req, created, err := h.RequestReturn(o, "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, strings.HasPrefix(req.ID, "RET-"))
	assert.Equal(t, "A", req.OrderID)
	assert.Equal(t, DefaultReturnReason, req.Reason)
	assert.Equal(t, models.ReturnStatusPending, req.Status)
	assert.True(t, req.Total.Equal(o.Total))

	assert.Empty(t, h.Visible([]models.Order{o}))
	assert.Equal(t, models.OrderStatusReturnRequested, h.Orders()[0].Status)
	assert.False(t, h.EligibleForReturn(o))
}

func TestRequestReturn_IsIdempotent(t *testing.T) {
	h := NewHistory(storage.NewMemory(), nil)
	o := order("A", models.OrderStatusDelivered)

	first, created, err := h.RequestReturn(o, "Llegó dañado")
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := h.RequestReturn(o, "otra razón")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Llegó dañado", second.Reason)
	assert.Len(t, h.Returns(), 1)
}

func TestRequestReturn_SelectedItems(t *testing.T) {
	h := NewHistory(storage.NewMemory(), nil)

	req, _, err := h.RequestReturn(order("A", models.OrderStatusDelivered), "Defectuoso", "2")
	require.NoError(t, err)
	require.Len(t, req.Items, 1)
	assert.Equal(t, "2", req.Items[0].ID)
	// 50 plus 16% tax; shipping stays with the order.
	assert.True(t, req.Total.Equal(decimal.NewFromInt(58)), req.Total.String())
}

func TestRequestReturn_AllItemsSelectedUsesOrderTotal(t *testing.T) {
	h := NewHistory(storage.NewMemory(), nil)

	req, _, err := h.RequestReturn(order("A", models.OrderStatusDelivered), "", "1", "2")
	require.NoError(t, err)
	assert.Len(t, req.Items, 2)
	assert.True(t, req.Total.Equal(decimal.NewFromInt(390)), req.Total.String())
}

func TestRequestReturn_UnknownItems(t *testing.T) {
	h := NewHistory(storage.NewMemory(), nil)
	o := order("A", models.OrderStatusDelivered)
	require.NoError(t, h.Add(o))

	_, created, err := h.RequestReturn(o, "", "does-not-exist")
	assert.ErrorIs(t, err, ErrNoReturnItems)
	assert.False(t, created)
	assert.Empty(t, h.Returns())
	assert.Equal(t, []string{"A"}, orderIDs(h.Visible(nil)))
	assert.Equal(t, models.OrderStatusDelivered, h.Orders()[0].Status)

	// The order can still be returned with a valid selection.
	req, created, err := h.RequestReturn(o, "", "1")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Len(t, req.Items, 1)
}

func TestRequestReturn_NotEligible(t *testing.T) {
	for _, status := range []models.OrderStatus{models.OrderStatusReturned, models.OrderStatusReturnRequested} {
		t.Run(string(status), func(t *testing.T) {
			h := NewHistory(storage.NewMemory(), nil)
			remote := order("A", status)

			_, created, err := h.RequestReturn(remote, "")
			assert.ErrorIs(t, err, ErrNotEligible)
			assert.False(t, created)
			assert.Empty(t, h.Returns())
		})
	}
}

func TestEligibleForReturn(t *testing.T) {
	h := NewHistory(storage.NewMemory(), nil)

	assert.True(t, h.EligibleForReturn(order("A", models.OrderStatusDelivered)))
	assert.True(t, h.EligibleForReturn(order("A", models.OrderStatusProcessing)))
	assert.False(t, h.EligibleForReturn(order("A", models.OrderStatusReturned)))
	assert.False(t, h.EligibleForReturn(order("A", models.OrderStatusReturnRequested)))
}

func TestHistory_PersistsAndReloads(t *testing.T) {
	store := storage.NewMemory()
	h := NewHistory(store, nil)
	o := order("A", models.OrderStatusDelivered)
	require.NoError(t, h.Add(o))
	_, _, err := h.RequestReturn(o, "")
	require.NoError(t, err)

	reloaded := NewHistory(store, nil)
	require.NoError(t, reloaded.Load())
	assert.Len(t, reloaded.Orders(), 1)
	assert.Len(t, reloaded.Returns(), 1)
	assert.Empty(t, reloaded.Visible(nil))
}

func TestHistory_Clear(t *testing.T) {
	store := storage.NewMemory()
	h := NewHistory(store, nil)
	o := order("A", models.OrderStatusDelivered)
	require.NoError(t, h.Add(o))
	_, _, err := h.RequestReturn(o, "")
	require.NoError(t, err)

	require.NoError(t, h.ClearReturns())
	assert.Empty(t, h.Returns())
	assert.Equal(t, []string{"A"}, orderIDs(h.Visible(nil)))

	require.NoError(t, h.ClearOrders())
	assert.Empty(t, h.Orders())
	_, ok := store.Raw(OrdersKey)
	assert.False(t, ok)
}
