package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Store is a durable string key-value slot. Writes overwrite prior values.
type Store interface {
	// Get returns ErrNotFound if key was never set or was deleted.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
