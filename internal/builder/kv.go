package builder

import (
	"context"
	"fmt"
	"time"

	"github.com/futig/consult-assistant/internal/config"
	"github.com/futig/consult-assistant/internal/kv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// setupKV connects to the key-value service, or falls back to the in-process store when
// no CACHE_URL is set. Configuration validation only allows the fallback in mock mode.
func setupKV(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (kv.Store, *redis.Client, error) {
	if cfg.URL == "" {
		logger.Warn("CACHE_URL is not set, using in-process key-value store")
		return kv.NewMemoryStore(time.Minute), nil, nil
	}

	client, err := kv.NewRedisClient(cfg.URL, cfg.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("create cache client: %w", err)
	}

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping cache: %w", err)
	}

	logger.Info("key-value service connected", zap.String("addr", client.Options().Addr))
	return kv.NewRedisStore(client), client, nil
}
