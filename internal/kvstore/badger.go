package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// badgerBackend stores values in an embedded Badger database. Suited to
// kiosk deployments where SQLite's single-file model is a poor fit.
type badgerBackend struct {
	db            *badger.DB
	maxValueBytes int
}

func newBadgerBackend(cfg *config) (*badgerBackend, error) {
	opts := badger.DefaultOptions(cfg.path).
		WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	return &badgerBackend{db: db, maxValueBytes: cfg.maxValueBytes}, nil
}

func (b *badgerBackend) Get(_ context.Context, key string) (string, error) {
	var value string
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return value, nil
}

func (b *badgerBackend) Set(_ context.Context, key, value string) error {
	if err := checkQuota(value, b.maxValueBytes); err != nil {
		return err
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

func (b *badgerBackend) Delete(_ context.Context, key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (b *badgerBackend) Close() error {
	return b.db.Close()
}
