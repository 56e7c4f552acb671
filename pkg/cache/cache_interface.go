package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer. Implementations: Redis in
// production, the in-memory fake in tests.
type Cache interface {
	// Get reads a key and unmarshals it into dest.
	// found=false means cache miss; dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from the cache.
	Delete(ctx context.Context, keys ...string) error

	// Ping checks the connection.
	Ping(ctx context.Context) error

	// DeletePattern removes all keys matching a glob pattern.
	DeletePattern(ctx context.Context, pattern string) error

	Increment(ctx context.Context, key string) (int64, error)
	Exists(ctx context.Context, key string) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}
