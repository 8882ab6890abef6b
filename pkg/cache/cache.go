// Package cache provides byte-oriented key/value stores with per-entry TTL.
//
// zbuilder uses a [Cache] as its session storage: the last known library
// version and the last rendered module fragment live here (see package
// session). Backends:
//
//   - [FileCache]: one JSON file per key, for CLI use across invocations
//   - [MemoryCache]: bounded in-process LRU, for a single server instance
//   - [RedisCache]: shared storage for multi-instance server deployments
//   - [NullCache]: stores nothing; every read is a miss
//
// All backends are safe for concurrent use.
package cache

import (
	"context"
	"time"
)

// Cache is the storage contract shared by all backends.
type Cache interface {
	// Get returns the value stored under key. A miss is reported as
	// (nil, false, nil); errors are reserved for backend failures.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
