// Package ratecache holds the exchange rate cache backends.
package ratecache

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/SscSPs/donation_ledger/internal/core/ports/external"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryCache is an in-process cache with per-entry expiry and a size bound.
type MemoryCache struct {
	lru *expirable.LRU[string, domain.CachedRate]
	ttl time.Duration
}

// NewMemoryCache creates a cache holding at most size entries for ttl each.
// A non-positive size means no bound.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size < 0 {
		size = 0
	}
	return &MemoryCache{
		lru: expirable.NewLRU[string, domain.CachedRate](size, nil, ttl),
		ttl: ttl,
	}
}

var _ external.RateCache = (*MemoryCache)(nil)

func (c *MemoryCache) Get(_ context.Context, key string) (domain.CachedRate, bool, error) {
	v, ok := c.lru.Get(key)
	return v, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, rate domain.CachedRate) error {
	c.lru.Add(key, rate)
	return nil
}

func (c *MemoryCache) Stats(_ context.Context) (domain.RateCacheStats, error) {
	keys := c.lru.Keys()
	sort.Strings(keys)
	return domain.RateCacheStats{Size: len(keys), Keys: keys, TTL: c.ttl}, nil
}

func (c *MemoryCache) Clear(_ context.Context) error {
	c.lru.Purge()
	return nil
}
