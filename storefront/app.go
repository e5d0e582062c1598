// Package storefront wires the shopper-side components: catalog, cart,
// wishlist, session, checkout and order history over one local store.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/junaidrashid-git/modelstore-api/cart"
	"github.com/junaidrashid-git/modelstore-api/catalog"
	"github.com/junaidrashid-git/modelstore-api/checkout"
	"github.com/junaidrashid-git/modelstore-api/client"
	"github.com/junaidrashid-git/modelstore-api/models"
	"github.com/junaidrashid-git/modelstore-api/storage"
	"github.com/junaidrashid-git/modelstore-api/wishlist"
	"go.uber.org/zap"
)

var ErrOrderNotFound = errors.New("storefront: order not found")

type Options struct {
	APIURL       string
	Store        storage.Store
	Catalog      *catalog.Catalog
	PaymentDelay time.Duration
	HTTPClient   *http.Client
	Log          *zap.Logger
}

// App is created once per process. Its components share Options.Store.
type App struct {
	Catalog  *catalog.Catalog
	Cart     *cart.Cart
	Wishlist *wishlist.Wishlist
	History  *checkout.History
	Session  *client.Session
	Checkout *checkout.Service

	log *zap.Logger
}

// New builds the app and restores persisted state. State that fails to load
// starts empty; the load errors are logged and returned joined alongside a
// usable App.
func New(opts Options) (*App, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Store == nil {
		opts.Store = storage.NewMemory()
	}
	if opts.Catalog == nil {
		cat, err := catalog.Default()
		if err != nil {
			return nil, err
		}
		opts.Catalog = cat
	}

	clientOpts := []client.Option{client.WithLogger(log)}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, client.WithHTTPClient(opts.HTTPClient))
	}
	api := client.New(opts.APIURL, clientOpts...)

	a := &App{
		Catalog:  opts.Catalog,
		Cart:     cart.New(opts.Store, log),
		Wishlist: wishlist.New(opts.Store, log),
		History:  checkout.NewHistory(opts.Store, log),
		Session:  client.NewSession(api, opts.Store),
		log:      log,
	}
	a.Checkout = checkout.NewService(a.Cart, a.History, a.Session,
		checkout.WithPaymentDelay(opts.PaymentDelay),
		checkout.WithLogger(log),
	)

	err := errors.Join(a.Cart.Load(), a.Wishlist.Load(), a.History.Load(), a.Session.Load())
	return a, err
}

// Product looks a product up by id in the catalog.
func (a *App) Product(id string) (models.Product, error) {
	p, ok := a.Catalog.ByID(id)
	if !ok {
		return models.Product{}, fmt.Errorf("storefront: product %q not found", id)
	}
	return p, nil
}

// Orders merges the signed-in user's remote orders with the local cache.
// When the API cannot be reached only the cache is used.
func (a *App) Orders(ctx context.Context) []models.Order {
	var remote []models.Order
	if a.Session.Authenticated() {
		orders, err := a.Session.Orders(ctx)
		if err != nil {
			a.log.Warn("⚠️ Using local orders only", zap.Error(err))
		} else {
			remote = orders
		}
	}
	return a.History.Visible(remote)
}

// RequestReturn asks to return a visible order. Selecting no items returns
// the whole order.
func (a *App) RequestReturn(ctx context.Context, orderID, reason string, itemIDs ...string) (models.ReturnRequest, bool, error) {
	for _, o := range a.Orders(ctx) {
		if o.ID == orderID {
			return a.History.RequestReturn(o, reason, itemIDs...)
		}
	}
	for _, r := range a.History.Returns() {
		if r.OrderID == orderID {
			return r, false, nil
		}
	}
	return models.ReturnRequest{}, false, ErrOrderNotFound
}
