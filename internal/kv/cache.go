package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache stores JSON values with a TTL under the cache namespace.
type Cache struct {
	store Store
}

func NewCache(store Store) *Cache {
	return &Cache{store: store}
}

// Get decodes the cached value into dst. It reports false when the key is absent.
func (c *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := c.store.Get(ctx, cachePrefix+key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cached %s: %w", key, err)
	}
	return c.store.Set(ctx, cachePrefix+key, string(raw), ttl)
}
