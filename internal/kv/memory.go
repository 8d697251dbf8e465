package kv

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore is an in-process Store for mock mode and single-instance runs.
type MemoryStore struct {
	mu    sync.Mutex
	cache *gocache.Cache
}

func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

func (s *MemoryStore) IncrWithExpiry(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Add only succeeds when the key is absent or expired, which opens a new window.
	if err := s.cache.Add(key, int64(1), time.Duration(ttlSeconds(ttl))*time.Second); err == nil {
		return 1, nil
	}
	return s.cache.IncrementInt64(key, 1)
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return "", false, nil
	}
	str, ok := v.(string)
	return str, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	s.cache.Set(key, value, ttl)
	return nil
}
