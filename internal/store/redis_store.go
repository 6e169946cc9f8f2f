package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/preston-bernstein/worldcup-sim/internal/domain/forecast"
)

// RedisStore keeps the current forecast as a JSON document under a single key,
// so several service replicas can share one forecast.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// OpenRedisStore connects to the server at url (redis://...) and verifies it answers.
func OpenRedisStore(ctx context.Context, url, key string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedisStore(client, key), nil
}

// Current loads and decodes the stored forecast. A missing key is not an error.
func (s *RedisStore) Current(ctx context.Context) (forecast.Forecast, bool, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return forecast.Forecast{}, false, nil
	}
	if err != nil {
		return forecast.Forecast{}, false, fmt.Errorf("get %s: %w", s.key, err)
	}
	var f forecast.Forecast
	if err := json.Unmarshal(raw, &f); err != nil {
		return forecast.Forecast{}, false, fmt.Errorf("decode %s: %w", s.key, err)
	}
	return f, true, nil
}

// Save encodes and stores f without expiry.
func (s *RedisStore) Save(ctx context.Context, f forecast.Forecast) error {
	raw, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode forecast: %w", err)
	}
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", s.key, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
