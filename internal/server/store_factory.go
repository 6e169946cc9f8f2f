package server

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/worldcup-sim/internal/app/forecasts"
	"github.com/preston-bernstein/worldcup-sim/internal/config"
	"github.com/preston-bernstein/worldcup-sim/internal/store"
)

var openRedisStore = func(ctx context.Context, url, key string) (forecasts.Store, func() error, error) {
	rs, err := store.OpenRedisStore(ctx, url, key)
	if err != nil {
		return nil, nil, err
	}
	return rs, rs.Close, nil
}

// buildStore picks the current-forecast store. A redis store that cannot be reached
// falls back to memory so the service still starts.
func buildStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (forecasts.Store, func() error) {
	if cfg.Store.Backend != config.StoreRedis {
		return store.NewMemoryStore(), nil
	}
	s, closeFn, err := openRedisStore(ctx, cfg.Store.RedisURL, cfg.Store.RedisKey)
	if err != nil {
		if logger != nil {
			logger.Warn("redis store unavailable, using memory", "err", err)
		}
		return store.NewMemoryStore(), nil
	}
	if logger != nil {
		logger.Info("using redis forecast store", slog.String("key", cfg.Store.RedisKey))
	}
	return s, closeFn
}
