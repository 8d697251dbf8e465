package kv_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/futig/consult-assistant/internal/kv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*kv.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return kv.NewRedisStore(client), mr
}

func stores(t *testing.T) map[string]kv.Store {
	redisStore, _ := newRedisStore(t)
	return map[string]kv.Store{
		"redis":  redisStore,
		"memory": kv.NewMemoryStore(time.Minute),
	}
}

func TestRateLimiter_Allow(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			limiter := kv.NewRateLimiter(store)
			ctx := context.Background()

			for i := 1; i <= 5; i++ {
				res, err := limiter.Allow(ctx, "visitor-1", 5, time.Minute)
				require.NoError(t, err)
				assert.True(t, res.Allowed, "call %d", i)
				assert.Equal(t, 5-i, res.Remaining, "call %d", i)
			}

			res, err := limiter.Allow(ctx, "visitor-1", 5, time.Minute)
			require.NoError(t, err)
			assert.False(t, res.Allowed)
			assert.Equal(t, 0, res.Remaining)

			other, err := limiter.Allow(ctx, "visitor-2", 5, time.Minute)
			require.NoError(t, err)
			assert.True(t, other.Allowed)
			assert.Equal(t, 4, other.Remaining)
		})
	}
}

func TestRateLimiter_WindowResets(t *testing.T) {
	store, mr := newRedisStore(t)
	limiter := kv.NewRateLimiter(store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := limiter.Allow(ctx, "k", 2, 60*time.Second)
		require.NoError(t, err)
	}
	assert.Equal(t, 60*time.Second, mr.TTL("ratelimit:k"))

	mr.FastForward(61 * time.Second)

	res, err := limiter.Allow(ctx, "k", 2, 60*time.Second)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 1, res.Remaining)
}

func TestRateLimiter_WindowRoundsUpToSeconds(t *testing.T) {
	store, mr := newRedisStore(t)
	limiter := kv.NewRateLimiter(store)

	_, err := limiter.Allow(context.Background(), "k", 1, 1500*time.Millisecond)
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, mr.TTL("ratelimit:k"))
}

func TestRateLimiter_RepairsCounterWithoutExpiry(t *testing.T) {
	store, mr := newRedisStore(t)
	limiter := kv.NewRateLimiter(store)

	// A counter written without TTL, as a non-atomic INCR/EXPIRE pair could leave it.
	require.NoError(t, mr.Set("ratelimit:stuck", "7"))

	res, err := limiter.Allow(context.Background(), "stuck", 10, time.Minute)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Remaining)
	assert.Equal(t, time.Minute, mr.TTL("ratelimit:stuck"))
}

func TestMemoryStore_WindowExpires(t *testing.T) {
	limiter := kv.NewRateLimiter(kv.NewMemoryStore(time.Minute))
	ctx := context.Background()

	res, err := limiter.Allow(ctx, "k", 1, time.Second)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = limiter.Allow(ctx, "k", 1, time.Second)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	time.Sleep(1100 * time.Millisecond)

	res, err = limiter.Allow(ctx, "k", 1, time.Second)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

type cachedValue struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

func TestCache_GetSet(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			cache := kv.NewCache(store)
			ctx := context.Background()

			var got cachedValue
			found, err := cache.Get(ctx, "missing", &got)
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, cache.Set(ctx, "k", cachedValue{Name: "a", Score: 0.5}, time.Minute))
			require.NoError(t, cache.Set(ctx, "k", cachedValue{Name: "b", Score: 0.9}, time.Minute))

			found, err = cache.Get(ctx, "k", &got)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, cachedValue{Name: "b", Score: 0.9}, got)
		})
	}
}

func TestCache_NamespacedApartFromRateLimits(t *testing.T) {
	store, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, kv.NewCache(store).Set(ctx, "shared", cachedValue{Name: "x"}, time.Minute))
	_, err := kv.NewRateLimiter(store).Allow(ctx, "shared", 1, time.Minute)
	require.NoError(t, err)

	assert.True(t, mr.Exists("cache:shared"))
	assert.True(t, mr.Exists("ratelimit:shared"))

	counter, err := mr.Get("ratelimit:shared")
	require.NoError(t, err)
	assert.Equal(t, "1", counter)
}

func TestCache_Expires(t *testing.T) {
	store, mr := newRedisStore(t)
	cache := kv.NewCache(store)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", cachedValue{Name: "a"}, 10*time.Second))
	mr.FastForward(11 * time.Second)

	var got cachedValue
	found, err := cache.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
