package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// Store is the persistence port for small JSON blobs keyed by string.
// Implemented by MemoryStore (tests, single process) and RedisStore.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
