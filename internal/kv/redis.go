package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrExpireScript increments the counter and applies the expiry in the same step.
// A counter found without TTL (left behind by a non-atomic writer) gets one as well.
var incrExpireScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 or redis.call("TTL", KEYS[1]) == -1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return count
`)

type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisClient parses a redis:// or rediss:// URL. A non-empty password overrides the URL's.
func NewRedisClient(url, password string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse cache url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	return redis.NewClient(opts), nil
}

func (s *RedisStore) IncrWithExpiry(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := incrExpireScript.Run(ctx, s.client, []string{key}, ttlSeconds(ttl)).Int64()
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", key, err)
	}
	return count, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// ttlSeconds rounds up to whole seconds, with a floor of one.
func ttlSeconds(ttl time.Duration) int64 {
	secs := int64((ttl + time.Second - 1) / time.Second)
	return max(secs, 1)
}
