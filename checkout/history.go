package checkout

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/modelstore-api/cart"
	"github.com/junaidrashid-git/modelstore-api/models"
	"github.com/junaidrashid-git/modelstore-api/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	OrdersKey  = "3d-models-orders"
	ReturnsKey = "3d-models-returns"

	DefaultReturnReason = "Solicitud directa desde pedidos"
)

var (
	ErrNotEligible   = errors.New("checkout: order is not eligible for return")
	ErrNoReturnItems = errors.New("checkout: none of the selected items are in the order")
)

// History is the local order and return cache. Orders are kept newest first,
// returns in request order.
type History struct {
	mu      sync.RWMutex
	orders  []models.Order
	returns []models.ReturnRequest
	store   storage.Store
	log     *zap.Logger
	now     func() time.Time
}

func NewHistory(store storage.Store, log *zap.Logger) *History {
	if log == nil {
		log = zap.NewNop()
	}
	return &History{store: store, log: log, now: time.Now}
}

// Load restores both collections. Each is loaded independently; errors are
// joined.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.orders, h.returns = nil, nil
	var orders []models.Order
	var returns []models.ReturnRequest

	_, errOrders := h.store.Get(OrdersKey, &orders)
	if errOrders == nil {
		h.orders = orders
	}
	_, errReturns := h.store.Get(ReturnsKey, &returns)
	if errReturns == nil {
		h.returns = returns
	}
	if err := errors.Join(errOrders, errReturns); err != nil {
		h.log.Warn("⚠️ Failed to load order history", zap.Error(err))
		return fmt.Errorf("history: load: %w", err)
	}
	return nil
}

// Orders returns the cached orders, newest first.
func (h *History) Orders() []models.Order {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return cloneOrders(h.orders)
}

// Add puts order at the front of the cache, replacing an older copy with the
// same id.
func (h *History) Add(order models.Order) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	order.Items = models.CloneLines(order.Items)
	kept := make([]models.Order, 0, len(h.orders)+1)
	kept = append(kept, order)
	for _, o := range h.orders {
		if o.ID != order.ID {
			kept = append(kept, o)
		}
	}
	h.orders = kept
	return h.persist(OrdersKey, h.orders)
}

// Visible merges remote orders with the local cache, keeps the first copy of
// every id and drops orders that have a return request.
func (h *History) Visible(remote []models.Order) []models.Order {
	h.mu.RLock()
	defer h.mu.RUnlock()

	returned := h.returnedIDs()
	seen := make(map[string]bool)
	out := []models.Order{}
	for _, list := range [][]models.Order{remote, h.orders} {
		for _, o := range list {
			if seen[o.ID] {
				continue
			}
			seen[o.ID] = true
			if returned[o.ID] {
				continue
			}
			o.Items = models.CloneLines(o.Items)
			out = append(out, o)
		}
	}
	return out
}

// RequestReturn records a return for order. Only one request exists per order
// id: a repeated call returns the existing request and created=false. Orders
// already returned or awaiting a return fail with ErrNotEligible. When itemIDs
// is empty every line is returned; ids that match no line fail with
// ErrNoReturnItems. The cached order, if any, moves to return-requested.
//
// The return total is the returned lines plus their tax. Shipping is only
// refunded when every line comes back, in which case the total is the order
// total.
func (h *History) RequestReturn(order models.Order, reason string, itemIDs ...string) (req models.ReturnRequest, created bool, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, r := range h.returns {
		if r.OrderID == order.ID {
			return cloneReturn(r), false, nil
		}
	}

	if !statusEligible(order.Status) {
		return models.ReturnRequest{}, false, ErrNotEligible
	}
	items, total := returnItems(order, itemIDs)
	if len(items) == 0 && len(itemIDs) > 0 {
		return models.ReturnRequest{}, false, ErrNoReturnItems
	}

	if reason == "" {
		reason = DefaultReturnReason
	}
	now := h.now().UTC()
	req = models.ReturnRequest{
		ID:          "RET-" + now.Format("20060102150405") + "-" + uuid.NewString()[:8],
		OrderID:     order.ID,
		OrderDate:   order.Date,
		Items:       items,
		Total:       total,
		Status:      models.ReturnStatusPending,
		RequestDate: now,
		Reason:      reason,
	}
	h.returns = append(h.returns, req)

	for i := range h.orders {
		if h.orders[i].ID == order.ID {
			h.orders[i].Status = models.OrderStatusReturnRequested
		}
	}

	h.log.Info("↩️ Return requested",
		zap.String("return_id", req.ID),
		zap.String("order_id", order.ID),
	)

	err = errors.Join(h.persist(ReturnsKey, h.returns), h.persist(OrdersKey, h.orders))
	return cloneReturn(req), true, err
}

// Returns lists the return requests in the order they were made.
func (h *History) Returns() []models.ReturnRequest {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]models.ReturnRequest, len(h.returns))
	for i, r := range h.returns {
		out[i] = cloneReturn(r)
	}
	return out
}

// EligibleForReturn reports whether a return may still be requested for order.
func (h *History) EligibleForReturn(order models.Order) bool {
	if !statusEligible(order.Status) {
		return false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return !h.returnedIDs()[order.ID]
}

func (h *History) ClearOrders() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.orders = nil
	if err := h.store.Delete(OrdersKey); err != nil {
		return fmt.Errorf("history: %w: %v", storage.ErrPersist, err)
	}
	return nil
}

func (h *History) ClearReturns() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.returns = nil
	if err := h.store.Delete(ReturnsKey); err != nil {
		return fmt.Errorf("history: %w: %v", storage.ErrPersist, err)
	}
	return nil
}

func statusEligible(status models.OrderStatus) bool {
	return status != models.OrderStatusReturnRequested && status != models.OrderStatusReturned
}

func (h *History) returnedIDs() map[string]bool {
	ids := make(map[string]bool, len(h.returns))
	for _, r := range h.returns {
		ids[r.OrderID] = true
	}
	return ids
}

func (h *History) persist(key string, value any) error {
	if err := h.store.Set(key, value); err != nil {
		h.log.Warn("⚠️ Failed to persist history", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("history: %w", err)
	}
	return nil
}

func returnItems(order models.Order, itemIDs []string) ([]models.CartLine, decimal.Decimal) {
	if len(itemIDs) == 0 {
		return models.CloneLines(order.Items), order.Total
	}
	wanted := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}
	var items []models.CartLine
	for _, l := range order.Items {
		if wanted[l.ID] {
			items = append(items, l.Clone())
		}
	}
	if len(items) == len(order.Items) {
		return items, order.Total
	}
	return items, cart.Subtotal(items).Add(cart.Tax(items))
}

func cloneOrders(orders []models.Order) []models.Order {
	out := make([]models.Order, len(orders))
	for i, o := range orders {
		o.Items = models.CloneLines(o.Items)
		out[i] = o
	}
	return out
}

func cloneReturn(r models.ReturnRequest) models.ReturnRequest {
	r.Items = models.CloneLines(r.Items)
	return r
}
