package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/TuanPhamVN/CloudSentry/internal/pkg/env"
)

var (
	client *redis.Client
	ctx    = context.Background()
)

// SetupCache initializes the connection to the Redis cache server.
func SetupCache() {
	host := env.GetEnv("CACHE_HOST", "localhost")
	port := env.GetEnv("CACHE_PORT", "6379")

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: "",
		DB:       0,
	})

	if pong, err := client.Ping(ctx).Result(); err != nil {
		log.Warnf("Could not connect to Redis cache: %v", err)
	} else {
		log.Infof("Connected to Redis cache: %s", pong)
	}
}

// GetClient returns the Redis client instance.
func GetClient() *redis.Client {
	if client == nil {
		SetupCache()
	}
	return client
}

// Set stores a value in the cache with the given key and expiration time.
func Set(key string, value interface{}, expiration time.Duration) error {
	return GetClient().Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value from the cache by key.
func Get(key string) (string, error) {
	return GetClient().Get(ctx, key).Result()
}

// HIncrBy increments a field of a cache hash by the given delta.
func HIncrBy(key, field string, delta int64) error {
	return GetClient().HIncrBy(ctx, key, field, delta).Err()
}

// HGetAll returns all fields of a cache hash.
func HGetAll(key string) (map[string]string, error) {
	return GetClient().HGetAll(ctx, key).Result()
}

// Delete removes a value from the cache by key.
func Delete(key string) error {
	return GetClient().Del(ctx, key).Err()
}
