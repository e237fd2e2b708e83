package kvstore

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// Option configures a storage backend.
type Option func(*config)

type config struct {
	path          string
	maxValueBytes int
	redisClient   *redis.Client
	redisTTL      time.Duration
}

// WithPath sets the on-disk location for file-backed drivers
// (the database file for SQLite, the data directory for Badger).
func WithPath(path string) Option {
	return func(c *config) {
		c.path = path
	}
}

// WithMaxValueBytes caps the size of a single stored value. Writes above
// the cap fail with ErrQuotaExceeded. Zero means unlimited.
func WithMaxValueBytes(n int) Option {
	return func(c *config) {
		c.maxValueBytes = n
	}
}

// WithRedisClient sets the client for the Redis driver.
func WithRedisClient(client *redis.Client) Option {
	return func(c *config) {
		c.redisClient = client
	}
}

// WithRedisTTL sets the expiry for Redis keys. Defaults to 30 days,
// roughly matching how long an idle browser profile keeps local storage.
func WithRedisTTL(ttl time.Duration) Option {
	return func(c *config) {
		c.redisTTL = ttl
	}
}
