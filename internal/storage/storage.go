// Package storage provides the key/value primitives the history store is
// built on: get, set and remove of whole values under string keys.
package storage

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
)

var ErrNotFound = goerr.New("key not found")

// Store is a device-local key/value store
type Store interface {
	// Get returns the value for key, or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set replaces the value for key
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	Close() error
}

// Watcher is implemented by stores that can report writes made by other processes
type Watcher interface {
	// Watch emits after key changes on disk until ctx is done
	Watch(ctx context.Context, key string) (<-chan struct{}, error)
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open creates a store for the named backend rooted at dir
func Open(backend, dir string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(dir)
	case BackendSQLite:
		return NewSQLiteStore(dir)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, goerr.New("unknown storage backend", goerr.V("backend", backend))
	}
}
