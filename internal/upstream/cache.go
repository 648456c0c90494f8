package upstream

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/xenking/giftshop-storefront/internal/domain/catalog"
)

// FetchFunc loads the full product set from the backend.
type FetchFunc func(ctx context.Context) ([]catalog.Product, error)

// ProductCache holds the full product set the catalog view filters over,
// refreshed lazily with a TTL. Concurrent refreshes collapse into a single
// backend call.
type ProductCache struct {
	fetch FetchFunc
	ttl   time.Duration
	now   func() time.Time

	sf singleflight.Group

	mu        sync.RWMutex
	products  []catalog.Product
	fetchedAt time.Time
}

// NewProductCache creates a cache over fetch with the given TTL.
func NewProductCache(fetch FetchFunc, ttl time.Duration) *ProductCache {
	return &ProductCache{
		fetch: fetch,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Products returns the cached product set, refreshing it from the backend
// when stale. On a refresh failure a previously cached set is NOT served:
// the caller surfaces the error, matching the storefront's no-silent-retry
// policy.
func (c *ProductCache) Products(ctx context.Context) ([]catalog.Product, error) {
	c.mu.RLock()
	if c.products != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		products := c.products
		c.mu.RUnlock()
		return products, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.sf.Do("products", func() (any, error) {
		// Re-check under the flight: another caller may have refreshed while
		// this one waited.
		c.mu.RLock()
		if c.products != nil && c.now().Sub(c.fetchedAt) < c.ttl {
			products := c.products
			c.mu.RUnlock()
			return products, nil
		}
		c.mu.RUnlock()

		products, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}
		if products == nil {
			// An empty catalog is still a cacheable result.
			products = []catalog.Product{}
		}

		c.mu.Lock()
		c.products = products
		c.fetchedAt = c.now()
		c.mu.Unlock()
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]catalog.Product), nil
}

// Invalidate drops the cached set. Admin mutations call this so the next
// read reflects the change.
func (c *ProductCache) Invalidate() {
	c.mu.Lock()
	c.products = nil
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}
