// Package cache mirrors reminders into Redis so that each reminder key expires
// when the reminder falls due.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/example/todo-reminders/internal/metrics"
	"github.com/redis/go-redis/v9"
)

// ReminderCache is the subset of key-value store commands the mirror needs.
type ReminderCache interface {
	// Set stores value under key without an expiry.
	Set(ctx context.Context, key, value string) error
	// Expire sets a key's time to live.
	Expire(ctx context.Context, key string, ttl time.Duration) error
	// Del removes a key. Removing a missing key is not an error.
	Del(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// RedisCache implements ReminderCache on a go-redis client.
type RedisCache struct {
	client *redis.Client
}

var _ ReminderCache = (*RedisCache)(nil)

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		Addr:   "localhost:6379",
		Prefix: DefaultPrefix,
	}
}

// NewRedisClient opens a pooled client for cfg. It does not dial.
func NewRedisClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     50,
		MinIdleConns: 5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

// New wraps an existing client.
func New(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Set stores value under key with no expiry.
func (c *RedisCache) Set(ctx context.Context, key, value string) error {
	err := c.client.Set(ctx, key, value, 0).Err()
	metrics.RecordCacheOp("set", err)
	if err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}
	return nil
}

// Expire sets key's TTL.
func (c *RedisCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	err := c.client.Expire(ctx, key, ttl).Err()
	metrics.RecordCacheOp("expire", err)
	if err != nil {
		return fmt.Errorf("cache expire error: %w", err)
	}
	return nil
}

// Del removes key.
func (c *RedisCache) Del(ctx context.Context, key string) error {
	err := c.client.Del(ctx, key).Err()
	metrics.RecordCacheOp("del", err)
	if err != nil {
		return fmt.Errorf("cache delete error: %w", err)
	}
	return nil
}

// Ping checks if the Redis connection is healthy.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
