// Package cart is the shopping cart state container. Every mutation is
// persisted synchronously to the injected store.
package cart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/junaidrashid-git/modelstore-api/models"
	"github.com/junaidrashid-git/modelstore-api/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StorageKey is where the cart snapshot lives.
const StorageKey = "3d-models-cart"

var ErrInvalidQuantity = errors.New("cart: quantity must be at least 1")

type Cart struct {
	mu    sync.RWMutex
	lines []models.CartLine
	store storage.Store
	log   *zap.Logger
}

func New(store storage.Store, log *zap.Logger) *Cart {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cart{store: store, log: log}
}

// Load replaces the in-memory lines with the persisted snapshot. On a read
// error the cart is left empty and the error is returned.
func (c *Cart) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
	var lines []models.CartLine
	found, err := c.store.Get(StorageKey, &lines)
	if err != nil {
		c.log.Warn("⚠️ Failed to load cart", zap.Error(err))
		return fmt.Errorf("cart: load: %w", err)
	}
	if !found {
		return nil
	}
	for _, l := range lines {
		if l.Quantity >= 1 {
			c.lines = append(c.lines, l)
		}
	}
	return nil
}

// Add increments the line for p by quantity, appending a new line when p is
// not in the cart yet.
func (c *Cart) Add(p models.Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(p.ID); i >= 0 {
		c.lines[i].Quantity += quantity
	} else {
		c.lines = append(c.lines, models.CartLine{Product: p.Clone(), Quantity: quantity})
	}
	return c.persist()
}

// Remove drops the line for productID. Removing an absent product is a no-op.
func (c *Cart) Remove(productID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(productID)
	if i < 0 {
		return nil
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return c.persist()
}

// SetQuantity overwrites the quantity of an existing line. A quantity of zero
// or less removes the line.
func (c *Cart) SetQuantity(productID string, quantity int) error {
	if quantity <= 0 {
		return c.Remove(productID)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(productID)
	if i < 0 {
		return nil
	}
	c.lines[i].Quantity = quantity
	return c.persist()
}

func (c *Cart) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
	return c.persist()
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []models.CartLine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return models.CloneLines(c.lines)
}

func (c *Cart) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lines)
}

// ItemCount is the sum of all quantities.
func (c *Cart) ItemCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Contains(productID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexOf(productID) >= 0
}

// QuantityOf returns 0 for products not in the cart.
func (c *Cart) QuantityOf(productID string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexOf(productID); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

func (c *Cart) Subtotal() decimal.Decimal { return c.Summary().Subtotal }
func (c *Cart) Tax() decimal.Decimal      { return c.Summary().Tax }
func (c *Cart) Shipping() decimal.Decimal { return c.Summary().Shipping }
func (c *Cart) Total() decimal.Decimal    { return c.Summary().Total }

// Summary recomputes pricing from the current lines.
func (c *Cart) Summary() Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Summarize(c.lines)
}

func (c *Cart) indexOf(productID string) int {
	for i, l := range c.lines {
		if l.ID == productID {
			return i
		}
	}
	return -1
}

// persist must be called with mu held. The in-memory change stands even when
// the write fails.
func (c *Cart) persist() error {
	lines := c.lines
	if lines == nil {
		lines = []models.CartLine{}
	}
	if err := c.store.Set(StorageKey, lines); err != nil {
		c.log.Warn("⚠️ Failed to persist cart", zap.Error(err))
		return fmt.Errorf("cart: %w", err)
	}
	return nil
}
