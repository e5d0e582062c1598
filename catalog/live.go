package catalog

import "sync/atomic"

// Live holds the catalog currently served. Replacing it never mutates the
// previous catalog, so readers holding it keep a consistent view.
type Live struct {
	current atomic.Pointer[Catalog]
}

func NewLive(c *Catalog) *Live {
	l := &Live{}
	l.current.Store(c)
	return l
}

func (l *Live) Current() *Catalog { return l.current.Load() }

// Replace swaps in c and returns the catalog it replaced.
func (l *Live) Replace(c *Catalog) *Catalog { return l.current.Swap(c) }
