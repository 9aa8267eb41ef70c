// Package cache stores conversion results keyed by a hash of their input.
//
// # Backends
//
// All backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [BadgerCache]: an embedded badger key-value store
//   - [RedisCache]: a shared Redis server, for API deployments
//   - [MongoCache]: a MongoDB collection, for API deployments
//   - [NullCache]: stores nothing, used when caching is disabled
//
// # Keys
//
// A [Keyer] derives cache keys from the SHA-256 of the input automaton and
// every option that influences the output. [ScopedKeyer] prefixes keys so
// several deployments can share one backend.
//
// # Retries
//
// Network backends wrap transient failures with [Retryable]; callers can
// use [RetryWithBackoff] to retry them.
package cache

import (
	"context"
	"time"
)

// ResultTTL is how long conversion results are kept. Conversions are
// deterministic, so the TTL only bounds storage growth.
const ResultTTL = 30 * 24 * time.Hour

// Cache is a byte-oriented key-value store with optional expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend's resources.
	Close() error
}

// Clearer is implemented by local backends that can drop every entry.
type Clearer interface {
	// Clear removes every entry and returns how many were deleted.
	Clear() (int, error)
}
