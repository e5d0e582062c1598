// Package wishlist keeps products saved for later, persisted on every change.
package wishlist

import (
	"fmt"
	"sync"
	"time"

	"github.com/junaidrashid-git/modelstore-api/models"
	"github.com/junaidrashid-git/modelstore-api/storage"
	"go.uber.org/zap"
)

const StorageKey = "3d-models-wishlist"

type Wishlist struct {
	mu      sync.RWMutex
	entries []models.WishlistEntry
	store   storage.Store
	log     *zap.Logger
	now     func() time.Time
}

func New(store storage.Store, log *zap.Logger) *Wishlist {
	if log == nil {
		log = zap.NewNop()
	}
	return &Wishlist{store: store, log: log, now: time.Now}
}

// Load restores the persisted entries. A read error leaves the list empty.
func (w *Wishlist) Load() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.entries = nil
	var entries []models.WishlistEntry
	if _, err := w.store.Get(StorageKey, &entries); err != nil {
		w.log.Warn("⚠️ Failed to load wishlist", zap.Error(err))
		return fmt.Errorf("wishlist: load: %w", err)
	}
	w.entries = entries
	return nil
}

// Add saves p unless it is already present.
func (w *Wishlist) Add(p models.Product) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.indexOf(p.ID) >= 0 {
		return nil
	}
	w.add(p)
	return w.persist()
}

func (w *Wishlist) Remove(productID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := w.indexOf(productID)
	if i < 0 {
		return nil
	}
	w.remove(i)
	return w.persist()
}

// Toggle adds p when absent and removes it when present, under a single lock.
// It reports whether p is in the wishlist afterwards.
func (w *Wishlist) Toggle(p models.Product) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	present := false
	if i := w.indexOf(p.ID); i >= 0 {
		w.remove(i)
	} else {
		w.add(p)
		present = true
	}
	return present, w.persist()
}

func (w *Wishlist) Contains(productID string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.indexOf(productID) >= 0
}

func (w *Wishlist) Clear() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.entries = nil
	return w.persist()
}

// Items returns copies of the saved entries, oldest first.
func (w *Wishlist) Items() []models.WishlistEntry {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]models.WishlistEntry, len(w.entries))
	for i, e := range w.entries {
		e.Product = e.Product.Clone()
		out[i] = e
	}
	return out
}

func (w *Wishlist) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.entries)
}

func (w *Wishlist) add(p models.Product) {
	w.entries = append(w.entries, models.WishlistEntry{Product: p.Clone(), AddedAt: w.now().UTC()})
}

func (w *Wishlist) remove(i int) {
	w.entries = append(w.entries[:i], w.entries[i+1:]...)
}

func (w *Wishlist) indexOf(productID string) int {
	for i, e := range w.entries {
		if e.ID == productID {
			return i
		}
	}
	return -1
}

func (w *Wishlist) persist() error {
	entries := w.entries
	if entries == nil {
		entries = []models.WishlistEntry{}
	}
	if err := w.store.Set(StorageKey, entries); err != nil {
		w.log.Warn("⚠️ Failed to persist wishlist", zap.Error(err))
		return fmt.Errorf("wishlist: %w", err)
	}
	return nil
}
