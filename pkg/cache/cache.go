package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/OumaCavin/DataLinkCRM/pkg/config"

	"github.com/redis/go-redis/v9"
)

// ErrNotInitialized is returned when the cache backend is not configured.
// Callers treat it like a miss and fall through to the database.
var ErrNotInitialized = errors.New("cache: client not initialized")

var client *redis.Client

// Init connects to the Redis cache backend. A connection failure is returned
// to the caller; the service can run without the cache.
func Init(cfg *config.Config) error {
	c := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis at %s: %w", cfg.Redis.Addr, err)
	}

	client = c
	return nil
}

// Get retrieves a cached value. Returns redis.Nil on a miss.
func Get(ctx context.Context, key string) (string, error) {
	if client == nil {
		return "", ErrNotInitialized
	}
	return client.Get(ctx, key).Result()
}

// Set stores a value with a TTL
func Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if client == nil {
		return ErrNotInitialized
	}
	return client.Set(ctx, key, value, ttl).Err()
}

// Delete removes keys from the cache
func Delete(ctx context.Context, keys ...string) error {
	if client == nil {
		return ErrNotInitialized
	}
	return client.Del(ctx, keys...).Err()
}

// DashboardDataKey is the cache key for an account's dashboard summary
func DashboardDataKey(userID uint) string {
	return fmt.Sprintf("dashboard:data:%d", userID)
}

// InvalidateDashboard drops the cached dashboard summary for an account.
// Called after writes that change what the dashboard shows.
func InvalidateDashboard(ctx context.Context, userID uint) error {
	return Delete(ctx, DashboardDataKey(userID))
}

// Ping verifies the cache connection is alive
func Ping(ctx context.Context) error {
	if client == nil {
		return ErrNotInitialized
	}
	return client.Ping(ctx).Err()
}
