// Package cache provides the response cache for catalog query results.
package cache

import (
	"context"
	"strings"
	"time"
)

// ResponseCache stores materialized catalog responses as opaque bytes with
// a per-entry TTL. Implementations must be safe for concurrent use.
type ResponseCache interface {
	// Get returns the cached bytes for key, with found=false on a miss or
	// expired entry. A backend error never masquerades as a hit.
	Get(ctx context.Context, key string) (data []byte, found bool, err error)

	// Set stores data under key for the given TTL, replacing any existing
	// entry in place.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
}

// Key builds the cache key for a catalog query. Entries are keyed by
// query kind, parameters, and language so that translated responses never
// collide.
func Key(kind, params, language string) string {
	return strings.Join([]string{"catalog", kind, language, params}, ":")
}
