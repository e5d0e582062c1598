package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/junaidrashid-git/modelstore-api/cart"
	"github.com/junaidrashid-git/modelstore-api/models"
	"github.com/junaidrashid-git/modelstore-api/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	calls   atomic.Int32
	err     error
	entered chan struct{}
	release chan struct{}
}

func (f *fakeAPI) CreateOrder(ctx context.Context, req models.OrderRequest) (models.Order, error) {
	if f.calls.Add(1) == 1 && f.entered != nil {
		close(f.entered)
		<-f.release
	}
	if f.err != nil {
		return models.Order{}, f.err
	}
	return models.Order{
		ID:           "ORD-20260301120000-abc",
		UserID:       "u1",
		Items:        req.Items,
		Total:        req.Total,
		ShippingInfo: req.ShippingInfo,
		Status:       models.OrderStatusProcessing,
		Date:         time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

func validInfo() models.ShippingInfo {
	return models.ShippingInfo{
		Name:    "Ana Pérez",
		Email:   "ana@demo.com",
		Phone:   "5551234567",
		Address: "Calle 1 #23",
		City:    "CDMX",
		ZipCode: "01000",
	}
}

func product(id, price string) models.Product {
	return models.Product{
		ID:     id,
		Name:   "Model " + id,
		Price:  decimal.RequireFromString(price),
		Images: []string{"/assets/products/" + id + ".png"},
	}
}

type fixture struct {
	cart    *cart.Cart
	history *History
	api     *fakeAPI
	service *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := storage.NewMemory()
	f := &fixture{
		cart:    cart.New(store, nil),
		history: NewHistory(store, nil),
		api:     &fakeAPI{},
	}
	f.service = NewService(f.cart, f.history, f.api, WithPaymentDelay(0))
	require.NoError(t, f.cart.Add(product("1", "100"), 2))
	require.NoError(t, f.cart.Add(product("2", "50"), 1))
	return f
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return string(raw)
}

func TestCheckout_Success(t *testing.T) {
	f := newFixture(t)
	snapshot := f.cart.Lines()

	order, err := f.service.Checkout(context.Background(), validInfo())
	require.NoError(t, err)

	assert.Equal(t, "ORD-20260301120000-abc", order.ID)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(390)))
	assert.Equal(t, models.PaymentCreditCard, order.ShippingInfo.PaymentMethod)
	assert.Zero(t, f.cart.Len())

	orders := f.history.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
	assert.JSONEq(t, mustJSON(t, snapshot), mustJSON(t, orders[0].Items))
}

func TestCheckout_NewestOrderFirst(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.history.Add(models.Order{ID: "ORD-old"}))

	_, err := f.service.Checkout(context.Background(), validInfo())
	require.NoError(t, err)

	orders := f.history.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-20260301120000-abc", orders[0].ID)
	assert.Equal(t, "ORD-old", orders[1].ID)
}

func TestCheckout_RemoteFailureLeavesCartUntouched(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("connection refused")
	f.api.err = boom

	_, err := f.service.Checkout(context.Background(), validInfo())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, f.cart.Len())
	assert.Equal(t, 3, f.cart.ItemCount())
	assert.Empty(t, f.history.Orders())
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.cart.Clear())

	_, err := f.service.Checkout(context.Background(), validInfo())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, f.api.calls.Load())
}

func TestCheckout_InvalidShippingInfo(t *testing.T) {
	f := newFixture(t)
	info := validInfo()
	info.City = "  "

	_, err := f.service.Checkout(context.Background(), info)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "city")
	assert.Zero(t, f.api.calls.Load())
	assert.Equal(t, 2, f.cart.Len())
}

func TestSubmit_RecomputesTotal(t *testing.T) {
	f := newFixture(t)
	lines := []models.CartLine{{Product: product("9", "1000.01"), Quantity: 1}}

	order, err := f.service.Submit(context.Background(), lines, validInfo())
	require.NoError(t, err)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("1160.0116")))
}

func TestSubmit_CancelledDuringPayment(t *testing.T) {
	f := newFixture(t)
	f.service = NewService(f.cart, f.history, f.api, WithPaymentDelay(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.service.Checkout(ctx, validInfo())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, f.api.calls.Load())
	assert.Equal(t, 2, f.cart.Len())
}

func TestSubmit_CancelWhileWaitingForPayment(t *testing.T) {
	f := newFixture(t)
	f.service = NewService(f.cart, f.history, f.api, WithPaymentDelay(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := f.service.Checkout(ctx, validInfo())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, f.cart.Len())
	assert.Never(t, func() bool { return f.api.calls.Load() > 0 }, 100*time.Millisecond, 10*time.Millisecond)
}

func TestSubmit_JoinedCallerOutlivesFirstCancel(t *testing.T) {
	f := newFixture(t)
	f.api.entered = make(chan struct{})
	f.api.release = make(chan struct{})
	lines := f.cart.Lines()

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := f.service.Submit(firstCtx, lines, validInfo())
		firstErr <- err
	}()
	<-f.api.entered

	type result struct {
		order models.Order
		err   error
	}
	second := make(chan result, 1)
	go func() {
		o, err := f.service.Submit(context.Background(), lines, validInfo())
		second <- result{o, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(f.api.release)
	res := <-second
	require.NoError(t, res.err)
	assert.NotEmpty(t, res.order.ID)
	assert.Equal(t, int32(1), f.api.calls.Load())
	assert.Zero(t, f.cart.Len())
}

func TestSubmit_DoubleSubmitSharesOneWrite(t *testing.T) {
	f := newFixture(t)
	f.api.entered = make(chan struct{})
	f.api.release = make(chan struct{})
	lines := f.cart.Lines()

	var wg sync.WaitGroup
	results := make([]models.Order, 2)
	errs := make([]error, 2)
	submit := func(i int) {
		defer wg.Done()
		results[i], errs[i] = f.service.Submit(context.Background(), lines, validInfo())
	}

	wg.Add(2)
	go submit(0)
	<-f.api.entered
	go submit(1)
	time.Sleep(50 * time.Millisecond)
	close(f.api.release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, int32(1), f.api.calls.Load())
	assert.Equal(t, results[0].ID, results[1].ID)
	assert.Len(t, f.history.Orders(), 1)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.ShippingInfo)
		fields []string
	}{
		{"valid", func(*models.ShippingInfo) {}, nil},
		{"all empty", func(i *models.ShippingInfo) { *i = models.ShippingInfo{} },
			[]string{"name", "email", "phone", "address", "city", "zipCode"}},
		{"bad email", func(i *models.ShippingInfo) { i.Email = "ana.demo.com" }, []string{"email"}},
		{"unknown payment", func(i *models.ShippingInfo) { i.PaymentMethod = "cash" }, []string{"paymentMethod"}},
		{"paypal", func(i *models.ShippingInfo) { i.PaymentMethod = models.PaymentPayPal }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := validInfo()
			tt.mutate(&info)

			_, err := Validate(info)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Len(t, verrs, len(tt.fields))
			for _, f := range tt.fields {
				assert.Contains(t, verrs, f)
			}
		})
	}
}

func TestValidate_TrimsFields(t *testing.T) {
	info := validInfo()
	info.Name = "  Ana  "
	info.Email = " ana@demo.com "

	got, err := Validate(info)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, "ana@demo.com", got.Email)
	assert.Equal(t, models.PaymentCreditCard, got.PaymentMethod)
}

func TestValidationErrors_Message(t *testing.T) {
	err := ValidationErrors{"city": "Ciudad requerida", "name": "Nombre requerido"}
	assert.Equal(t, "checkout: invalid shipping info (city: Ciudad requerida; name: Nombre requerido)", err.Error())
}
