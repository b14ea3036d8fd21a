// Package cache stores query responses between runs.
//
// [Cache] is a byte-oriented key/value store with per-entry TTL. Three
// backends ship with the package:
//
//   - [FileCache] keeps entries as JSON files, used by the CLI
//   - [RedisCache] shares entries between server instances
//   - [NullCache] never stores anything, used when caching is disabled
//
// Keys are built by a [Keyer] so that the same query and variables map to
// the same entry regardless of map ordering:
//
//	k := cache.NewDefaultKeyer()
//	key := k.QueryKey(endpoint, query, vars)
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data
//	}
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for serialized responses.
type Cache interface {
	// Get returns the data stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}
