// Package cache stores search results and rendered artifacts between runs.
//
// A [Cache] is a byte-oriented key-value store with per-entry expiry. Three
// backends are provided:
//
//   - [FileCache]: one file per entry below a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, used when caching is disabled
//
// Keys are derived by a [Keyer] from the content hash of the precedence graph
// and every search parameter that influences the result, so a cached run is
// only reused for an identical graph, configuration and seed.
package cache

import (
	"context"
	"time"
)

// Cache time-to-live defaults.
const (
	// TTLRun is how long a solved run is kept. Runs are deterministic for a
	// given graph, configuration and seed, so entries never go stale; the
	// TTL only bounds storage.
	TTLRun = 7 * 24 * time.Hour

	// TTLArtifact is how long rendered images are kept.
	TTLArtifact = 24 * time.Hour
)

// Cache is a key-value store for serialized results.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any held resources.
	Close() error
}
