// Package kv is the durable string-keyed store behind reading progress and the session slot.
//
// Three backends share one contract: Badger (default), SQLite, and an in-process map.
package kv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	domainerrors "github.com/bookshelfapp/bookshelf/internal/errors"
)

// ErrKeyNotFound is returned by Get when the key has no value.
var ErrKeyNotFound = errors.New("kv: key not found")

// Store is a synchronous string-keyed byte store. Every Set is durable when it returns.
type Store interface {
	// Get returns the value for key or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the value for key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists keys starting with prefix in ascending byte order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	// Close releases the backend.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

const sqliteFile = "bookshelf.db"

// Open creates the store selected by backend under dataPath.
func Open(backend, dataPath string, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	switch backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendBadger, BackendSQLite:
	default:
		return nil, domainerrors.Validationf("unknown storage backend %q", backend)
	}

	if err := os.MkdirAll(dataPath, 0o750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	if backend == BackendSQLite {
		return OpenSQLite(filepath.Join(dataPath, sqliteFile), logger)
	}
	return OpenBadger(dataPath, logger)
}
