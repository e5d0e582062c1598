package storefront

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/junaidrashid-git/modelstore-api/auth"
	"github.com/junaidrashid-git/modelstore-api/catalog"
	"github.com/junaidrashid-git/modelstore-api/checkout"
	orderControllers "github.com/junaidrashid-git/modelstore-api/controllers/order"
	"github.com/junaidrashid-git/modelstore-api/models"
	"github.com/junaidrashid-git/modelstore-api/routes"
	"github.com/junaidrashid-git/modelstore-api/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newAPI starts the real API router over an in-memory database.
func newAPI(t *testing.T) (string, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Order{}))

	cat, err := catalog.Default()
	require.NoError(t, err)

	r := gin.New()
	routes.SetupRoutes(r, routes.Deps{
		DB:      db,
		Catalog: catalog.NewLive(cat),
		Tokens:  auth.NewTokens("test-secret", time.Hour),
		Hub:     orderControllers.NewHub(nil, nil),
	})
	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		srv.Close()
		sqlDB.Close()
	})
	return srv.URL + "/api", db
}

func shipping() models.ShippingInfo {
	return models.ShippingInfo{
		Name:    "Ana Pérez",
		Email:   "ana@example.com",
		Phone:   "5551234567",
		Address: "Av. Reforma 100",
		City:    "CDMX",
		ZipCode: "06600",
	}
}

func TestApp_CheckoutAndReturn(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	apiURL, _ := newAPI(t)
	app, err := New(Options{APIURL: apiURL, Store: store})
	require.NoError(t, err)

	_, err = app.Session.Register(ctx, models.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secreto"})
	require.NoError(t, err)

	p, err := app.Product("4")
	require.NoError(t, err)
	require.NoError(t, app.Cart.Add(p, 2))

	order, err := app.Checkout.Checkout(ctx, shipping())
	require.NoError(t, err)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("255.56")), order.Total.String())
	assert.Zero(t, app.Cart.Len())

	orders := app.Orders(ctx)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	req, created, err := app.RequestReturn(ctx, order.ID, "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, checkout.DefaultReturnReason, req.Reason)
	assert.True(t, req.Total.Equal(decimal.RequireFromString("255.56")), req.Total.String())

	assert.Empty(t, app.Orders(ctx))

	again, created, err := app.RequestReturn(ctx, order.ID, "otra razón")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, req.ID, again.ID)

	_, _, err = app.RequestReturn(ctx, "ORD-missing", "")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func newSignedInApp(t *testing.T) (*App, *gorm.DB) {
	t.Helper()
	apiURL, db := newAPI(t)
	app, err := New(Options{APIURL: apiURL, Store: storage.NewMemory()})
	require.NoError(t, err)
	_, err = app.Session.Register(context.Background(), models.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secreto"})
	require.NoError(t, err)
	return app, db
}

func placeOrder(t *testing.T, app *App) models.Order {
	t.Helper()
	p, err := app.Product("4")
	require.NoError(t, err)
	require.NoError(t, app.Cart.Add(p, 2))
	order, err := app.Checkout.Checkout(context.Background(), shipping())
	require.NoError(t, err)
	return order
}

func TestApp_RequestReturn_RemoteOrderAlreadyReturned(t *testing.T) {
	ctx := context.Background()
	app, db := newSignedInApp(t)
	order := placeOrder(t, app)
	require.NoError(t, app.History.ClearOrders())

	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("status", models.OrderStatusReturned).Error)

	_, created, err := app.RequestReturn(ctx, order.ID, "")
	assert.ErrorIs(t, err, checkout.ErrNotEligible)
	assert.False(t, created)
	assert.Empty(t, app.History.Returns())
}

func TestApp_RequestReturn_UnknownItemsKeepsOrder(t *testing.T) {
	ctx := context.Background()
	app, _ := newSignedInApp(t)
	order := placeOrder(t, app)

	_, created, err := app.RequestReturn(ctx, order.ID, "", "does-not-exist")
	assert.ErrorIs(t, err, checkout.ErrNoReturnItems)
	assert.False(t, created)
	assert.Len(t, app.Orders(ctx), 1)

	req, created, err := app.RequestReturn(ctx, order.ID, "", "4")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Len(t, req.Items, 1)
}

func TestApp_OrdersFallBackToLocal(t *testing.T) {
	store := storage.NewMemory()
	require.NoError(t, store.Set(checkout.OrdersKey, []models.Order{{
		ID:     "ORD-local",
		Total:  decimal.NewFromInt(10),
		Status: models.OrderStatusProcessing,
	}}))
	require.NoError(t, store.Set("auth-token", "stale"))
	require.NoError(t, store.Set("auth-user", models.User{ID: "u1", Name: "Ana"}))

	// Nothing listens on this address.
	app, err := New(Options{APIURL: "http://127.0.0.1:1/api", Store: store})
	require.NoError(t, err)
	require.True(t, app.Session.Authenticated())

	orders := app.Orders(context.Background())
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD-local", orders[0].ID)
}

func TestApp_RestoresState(t *testing.T) {
	store := storage.NewMemory()
	first, err := New(Options{Store: store})
	require.NoError(t, err)

	p, err := first.Product("7")
	require.NoError(t, err)
	require.NoError(t, first.Cart.Add(p, 3))
	_, err = first.Wishlist.Toggle(p)
	require.NoError(t, err)

	second, err := New(Options{Store: store})
	require.NoError(t, err)
	assert.Equal(t, 3, second.Cart.QuantityOf("7"))
	assert.True(t, second.Wishlist.Contains("7"))

	_, err = second.Product("999")
	assert.Error(t, err)
}

func runCLI(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Main(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func TestMain_EndToEnd(t *testing.T) {
	apiURL, _ := newAPI(t)
	t.Setenv("STOREFRONT_API_URL", apiURL)
	t.Setenv("STOREFRONT_DATA_DIR", t.TempDir())
	t.Setenv("PAYMENT_DELAY", "0s")

	out, _, code := runCLI(t, "products", "--search", "dragón")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "2 productos")

	out, _, code = runCLI(t, "whoami")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "No has iniciado sesión")

	_, errOut, code := runCLI(t, "checkout", "--name", "Ana")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "error:")

	_, errOut, code = runCLI(t, "register", "--name", "Ana", "--email", "ana@example.com", "--password", "secreto")
	require.Equal(t, 0, code, errOut)

	out, _, code = runCLI(t, "cart", "add", "4", "--qty", "2")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Total: $255.56")

	out, _, code = runCLI(t, "wishlist", "toggle", "4")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "agregado")

	out, _, code = runCLI(t, "checkout", "--name", "Ana", "--email", "no-es-email",
		"--phone", "555", "--address", "Calle 1", "--city", "CDMX", "--zip", "01000")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Email inválido")

	out, errOut, code = runCLI(t, "checkout", "--name", "Ana", "--email", "ana@example.com",
		"--phone", "555", "--address", "Calle 1", "--city", "CDMX", "--zip", "01000")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "confirmado")

	out, _, code = runCLI(t, "cart")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "vacío")

	out, _, code = runCLI(t, "orders")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "processing")

	out, _, code = runCLI(t, "logout")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Sesión cerrada")

	_, _, code = runCLI(t, "bogus")
	assert.Equal(t, 2, code)
}
