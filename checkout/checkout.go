// Package checkout turns a cart into an order: shipping validation, a
// simulated payment wait, the remote write and the local order history.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/junaidrashid-git/modelstore-api/cart"
	"github.com/junaidrashid-git/modelstore-api/models"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var (
	ErrEmptyCart        = errors.New("checkout: cart is empty")
	ErrNotAuthenticated = errors.New("checkout: sign in to place an order")
)

// DefaultPaymentDelay simulates payment processing.
const DefaultPaymentDelay = 2 * time.Second

// OrderAPI durably records an order and returns the canonical copy.
type OrderAPI interface {
	CreateOrder(ctx context.Context, req models.OrderRequest) (models.Order, error)
}

type Service struct {
	cart    *cart.Cart
	history *History
	api     OrderAPI
	delay   time.Duration
	log     *zap.Logger

	inflight singleflight.Group
	mu       sync.Mutex
	flight   *flight
}

// flight is the context of the shared submission. It is cancelled when the
// last waiting caller gives up.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

type Option func(*Service)

func WithPaymentDelay(d time.Duration) Option {
	return func(s *Service) { s.delay = d }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func NewService(c *cart.Cart, h *History, api OrderAPI, opts ...Option) *Service {
	s := &Service{
		cart:    c,
		history: h,
		api:     api,
		delay:   DefaultPaymentDelay,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout submits the current cart contents.
func (s *Service) Checkout(ctx context.Context, info models.ShippingInfo) (models.Order, error) {
	return s.Submit(ctx, s.cart.Lines(), info)
}

// Submit places an order for lines. The total is recomputed from lines. Only
// after the remote write succeeds is the order added to history and the cart
// cleared; on any failure the cart is untouched.
//
// Overlapping calls share a single remote write and all receive its result.
// A caller whose ctx ends stops waiting and gets ctx.Err(); the shared write
// keeps going while any other caller still waits and is cancelled once none do.
//
// If the order was placed but local state could not be saved, the order is
// returned together with an error wrapping storage.ErrPersist.
func (s *Service) Submit(ctx context.Context, lines []models.CartLine, info models.ShippingInfo) (models.Order, error) {
	if len(lines) == 0 {
		return models.Order{}, ErrEmptyCart
	}
	info, err := Validate(info)
	if err != nil {
		return models.Order{}, err
	}

	req := models.OrderRequest{
		Items:        models.CloneLines(lines),
		Total:        cart.Total(lines),
		ShippingInfo: info,
	}

	if err := ctx.Err(); err != nil {
		return models.Order{}, err
	}

	f := s.join(ctx)
	defer s.leave(f)

	ch := s.inflight.DoChan("submit", func() (any, error) {
		return s.submit(f.ctx, req)
	})
	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return models.Order{}, ctx.Err()
	}
	if res.Shared {
		s.log.Debug("🔁 Joined in-flight order submission")
	}
	order, _ := res.Val.(models.Order)
	if res.Err != nil && order.ID == "" {
		return models.Order{}, res.Err
	}
	order.Items = models.CloneLines(order.Items)
	return order, res.Err
}

func (s *Service) join(ctx context.Context) *flight {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.flight == nil {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		s.flight = &flight{ctx: fctx, cancel: cancel}
	}
	s.flight.waiters++
	return s.flight
}

func (s *Service) leave(f *flight) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f.waiters--
	if f.waiters == 0 {
		f.cancel()
		if s.flight == f {
			s.flight = nil
		}
	}
}

func (s *Service) submit(ctx context.Context, req models.OrderRequest) (models.Order, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return models.Order{}, ctx.Err()
		case <-timer.C:
		}
	}

	order, err := s.api.CreateOrder(ctx, req)
	if err != nil {
		s.log.Warn("❌ Failed to create order", zap.Error(err))
		return models.Order{}, fmt.Errorf("checkout: create order: %w", err)
	}
	if len(order.Items) == 0 {
		order.Items = models.CloneLines(req.Items)
	}

	s.log.Info("✅ Order placed",
		zap.String("order_id", order.ID),
		zap.String("total", order.Total.StringFixed(2)),
	)

	err = errors.Join(s.history.Add(order), s.cart.Clear())
	return order, err
}
