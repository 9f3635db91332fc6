// Package storage provides the device-local key/value stores the notebook is
// persisted in. Every implementation returns (nil, nil) from Get for a key
// that was never set.
package storage

import (
	"context"
	"fmt"
)

// Store is a durable key/value store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
	Close() error
}

// Kind selects a Store implementation.
type Kind string

const (
	KindSQLite Kind = "sqlite"
	KindBolt   Kind = "bolt"
	KindMemory Kind = "memory"
)

// Open opens the store of the given kind at path. An empty kind means sqlite.
// path is ignored for the memory store.
func Open(ctx context.Context, kind Kind, path string) (Store, error) {
	switch kind {
	case "", KindSQLite:
		return OpenSQLite(ctx, path)
	case KindBolt:
		return OpenBolt(path)
	case KindMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", kind)
	}
}
