// Package cache keeps recent predictions in memory for the web UI.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/custodia-labs/failcast/internal/core/domain"
	"github.com/custodia-labs/failcast/internal/core/ports/driven"
)

// DefaultTTL is how long a prediction stays available.
const DefaultTTL = 30 * time.Minute

// Ensure ResultCache implements the interface.
var _ driven.ResultCache = (*ResultCache)(nil)

// ResultCache is a TTL cache of predictions keyed by run ID.
type ResultCache struct {
	items *gocache.Cache
}

// NewResultCache creates a cache whose entries expire after ttl.
// Expired entries are purged every ttl.
func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResultCache{items: gocache.New(ttl, ttl)}
}

// Put stores p under its run ID.
func (c *ResultCache) Put(p *domain.Prediction) {
	if p == nil || p.RunID == "" {
		return
	}
	c.items.Set(p.RunID, p, gocache.DefaultExpiration)
}

// Get returns the prediction for runID if it has not expired.
func (c *ResultCache) Get(runID string) (*domain.Prediction, bool) {
	v, ok := c.items.Get(runID)
	if !ok {
		return nil, false
	}
	p, ok := v.(*domain.Prediction)
	return p, ok
}

// Len returns the number of cached predictions, including expired ones
// not yet purged.
func (c *ResultCache) Len() int {
	return c.items.ItemCount()
}
