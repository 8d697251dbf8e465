package kv

import (
	"context"
	"time"

	"github.com/futig/consult-assistant/internal/entity"
)

// RateLimiter counts hits per key in fixed windows held by the shared Store.
// The window starts at the first hit and the counter resets once its TTL lapses.
type RateLimiter struct {
	store Store
}

func NewRateLimiter(store Store) *RateLimiter {
	return &RateLimiter{store: store}
}

func (l *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (entity.RateLimitResult, error) {
	count, err := l.store.IncrWithExpiry(ctx, rateLimitPrefix+key, window)
	if err != nil {
		return entity.RateLimitResult{}, err
	}

	return entity.RateLimitResult{
		Allowed:   count <= int64(limit),
		Remaining: int(max(0, int64(limit)-count)),
	}, nil
}
