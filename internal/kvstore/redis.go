package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "chatclient:"

// redisBackend keeps values in Redis with a sliding TTL, for shared-host
// deployments where the client state should outlive the local disk.
type redisBackend struct {
	client        *redis.Client
	ttl           time.Duration
	maxValueBytes int
}

func newRedisBackend(cfg *config) *redisBackend {
	ttl := cfg.redisTTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &redisBackend{
		client:        cfg.redisClient,
		ttl:           ttl,
		maxValueBytes: cfg.maxValueBytes,
	}
}

func (r *redisBackend) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get key %s: %w", key, err)
	}

	// Refresh TTL on read
	_ = r.client.Expire(ctx, redisKeyPrefix+key, r.ttl).Err()

	return value, nil
}

func (r *redisBackend) Set(ctx context.Context, key, value string) error {
	if err := checkQuota(value, r.maxValueBytes); err != nil {
		return err
	}

	if err := r.client.Set(ctx, redisKeyPrefix+key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

func (r *redisBackend) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (r *redisBackend) Close() error {
	return r.client.Close()
}
