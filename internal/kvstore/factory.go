package kvstore

// Driver selects a storage backend implementation.
type Driver string

const (
	DriverMemory Driver = "memory"
	DriverSQLite Driver = "sqlite"
	DriverBadger Driver = "badger"
	DriverRedis  Driver = "redis"
)

// NewBackend creates a Backend for the given driver.
// SQLite and Badger require WithPath; Redis requires WithRedisClient.
func NewBackend(driver Driver, opts ...Option) (Backend, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	switch driver {
	case DriverMemory:
		return newMemoryBackend(cfg), nil

	case DriverSQLite:
		if cfg.path == "" {
			return nil, ErrInvalidConfig
		}
		return newSQLiteBackend(cfg)

	case DriverBadger:
		if cfg.path == "" {
			return nil, ErrInvalidConfig
		}
		return newBadgerBackend(cfg)

	case DriverRedis:
		if cfg.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		return newRedisBackend(cfg), nil

	default:
		return nil, ErrInvalidDriver
	}
}
