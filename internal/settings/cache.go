// Package settings holds the in-process snapshot of the singleton admin
// configuration. Pricing flows read one snapshot per computation; the store
// watcher swaps in new snapshots as admins edit. A change mid-checkout never
// reprices an already-created order, only the next quote.
package settings

import (
	"sync"

	"github.com/galwaybites/storefront/internal/models"
)

type Cache struct {
	mu  sync.RWMutex
	cur models.Settings
}

func NewCache(initial models.Settings) *Cache {
	return &Cache{cur: initial}
}

// Snapshot returns the current settings by value.
func (c *Cache) Snapshot() models.Settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cur
}

// Update replaces the snapshot. Wired as the store watcher's callback.
func (c *Cache) Update(s models.Settings) {
	c.mu.Lock()
	c.cur = s
	c.mu.Unlock()
}
