package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

// Store persists named collections as opaque serialized values.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, filter ListFilter) ([]Entry, error)
	Close() error
}
