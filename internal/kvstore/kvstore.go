// Package kvstore provides the string-keyed, string-valued durable storage
// the session and transcript layers persist through. Callers treat every
// backend as a flat key/value namespace; drivers exist for in-memory use,
// SQLite, Badger, and Redis.
package kvstore

import (
	"context"
	"errors"
)

var (
	// ErrKeyNotFound is returned by Get when no value is stored under a key.
	ErrKeyNotFound = errors.New("kvstore: key not found")

	// ErrQuotaExceeded is returned by Set when a value exceeds the backend's
	// configured quota. Callers are expected to degrade, not fail.
	ErrQuotaExceeded = errors.New("kvstore: quota exceeded")

	// ErrInvalidDriver is returned by NewBackend for an unknown driver name.
	ErrInvalidDriver = errors.New("kvstore: invalid driver")

	// ErrInvalidConfig is returned by NewBackend when a driver is missing a
	// required option.
	ErrInvalidConfig = errors.New("kvstore: invalid configuration")
)

// Backend is the capability the session and transcript layers depend on.
type Backend interface {
	// Get retrieves the value stored under key. Returns ErrKeyNotFound when
	// nothing is stored.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// checkQuota enforces a per-value byte limit shared by all drivers.
func checkQuota(value string, maxValueBytes int) error {
	if maxValueBytes > 0 && len(value) > maxValueBytes {
		return ErrQuotaExceeded
	}
	return nil
}
