// Package cache stores small derived facts about local files between runs.
//
// beatcut uses it to remember image dimensions, so regenerating a spec over
// a large image library does not decode every overlay header again. Keys are
// content-addressed from the file's path, size and modification time (see
// [ProbeKey]); a changed file therefore never hits a stale entry.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
