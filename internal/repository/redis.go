package repository

import (
	"context"
	"fmt"
	"time"

	"truckrental/internal/config"

	"github.com/redis/go-redis/v9"
)

const loginAttemptsPrefix = "login_attempts:"

// RedisAttemptLimiter counts attempts with INCR and lets the key expire with the window.
type RedisAttemptLimiter struct {
	client *redis.Client
	prefix string
}

// NewRedisClient builds a client from the redis section of the config.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisAttemptLimiter(client *redis.Client) *RedisAttemptLimiter {
	return &RedisAttemptLimiter{
		client: client,
		prefix: loginAttemptsPrefix,
	}
}

func (r *RedisAttemptLimiter) key(k string) string {
	return r.prefix + k
}

// Allow records an attempt and reports whether it is within limit for the current window.
func (r *RedisAttemptLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	k := r.key(key)
	count, err := r.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment attempts: %w", err)
	}

	if count == 1 {
		if err := r.client.Expire(ctx, k, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set attempts window: %w", err)
		}
	}

	return count <= int64(limit), nil
}

// Reset clears the counter, e.g. after a successful sign-in.
func (r *RedisAttemptLimiter) Reset(ctx context.Context, key string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to reset attempts: %w", err)
	}
	return nil
}

// Ping checks the redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close closes the redis client.
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
