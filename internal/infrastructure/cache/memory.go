package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/hszk-dev/cinegraph/internal/infrastructure/metrics"
)

// memoryEntry carries its own expiry because the LRU's cache-wide TTL is
// only an upper bound across all TTL classes.
type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryResponseCache implements ResponseCache with a size-bounded,
// expirable in-process LRU. Suitable for single-instance deployments
// where Redis would be overhead.
type MemoryResponseCache struct {
	lru *expirable.LRU[string, memoryEntry]
}

// NewMemoryResponseCache creates an in-memory response cache holding at
// most maxEntries entries. maxTTL must cover the longest TTL class in use;
// entries with shorter TTLs expire individually on read.
func NewMemoryResponseCache(maxEntries int, maxTTL time.Duration) *MemoryResponseCache {
	return &MemoryResponseCache{
		lru: expirable.NewLRU[string, memoryEntry](maxEntries, nil, maxTTL),
	}
}

// Get retrieves cached bytes. Returns found=false on miss or expiry.
func (c *MemoryResponseCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	entry, ok := c.lru.Get(key)
	if !ok || time.Now().After(entry.expiresAt) {
		if ok {
			c.lru.Remove(key)
		}
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss, metrics.CacheBackendMemory).Inc()
		return nil, false, nil
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit, metrics.CacheBackendMemory).Inc()
	return entry.data, true, nil
}

// Set stores bytes with the specified TTL.
func (c *MemoryResponseCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	c.lru.Add(key, memoryEntry{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	})
	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess, metrics.CacheBackendMemory).Inc()
	return nil
}
