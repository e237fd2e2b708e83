package kvstore

import (
	"context"
	"sync"
)

// memoryBackend keeps values in a plain map. It backs the transient-session
// variant (nothing survives the process) and most tests.
type memoryBackend struct {
	mu            sync.RWMutex
	values        map[string]string
	maxValueBytes int
}

func newMemoryBackend(cfg *config) *memoryBackend {
	return &memoryBackend{
		values:        make(map[string]string),
		maxValueBytes: cfg.maxValueBytes,
	}
}

func (m *memoryBackend) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

func (m *memoryBackend) Set(_ context.Context, key, value string) error {
	if err := checkQuota(value, m.maxValueBytes); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.values == nil {
		return ErrInvalidConfig
	}
	m.values[key] = value
	return nil
}

func (m *memoryBackend) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

func (m *memoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values = nil
	return nil
}
