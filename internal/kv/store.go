// Package kv holds the shared key-value primitives behind the distributed rate limiter
// and the response cache.
package kv

import (
	"context"
	"time"
)

const (
	rateLimitPrefix = "ratelimit:"
	cachePrefix     = "cache:"
)

// Store is the subset of key-value service semantics the assistant relies on.
type Store interface {
	// IncrWithExpiry increments key and, when the result is 1, sets its expiry to ttl.
	// Both steps happen atomically.
	IncrWithExpiry(ctx context.Context, key string, ttl time.Duration) (int64, error)
	// Get returns the value and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set overwrites key unconditionally.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
