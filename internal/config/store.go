package config

import "strings"

// Store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// StoreConfig selects where the current forecast lives.
type StoreConfig struct {
	Backend  string
	RedisURL string
	RedisKey string
}

func loadStore() StoreConfig {
	return StoreConfig{
		Backend:  strings.ToLower(envOrDefault(envStore, defaultStore)),
		RedisURL: envOrDefault(envRedisURL, ""),
		RedisKey: envOrDefault(envRedisKey, defaultRedisKey),
	}
}
