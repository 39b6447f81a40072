// Package kv is the durable, origin-scoped key-value medium the tracker
// persists its collections into. Values are opaque strings.
package kv

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrQuotaExceeded is returned by Set when the write would exceed the store's byte budget.
	ErrQuotaExceeded = errors.New("kv: storage quota exceeded")
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("kv: store closed")
)

// Store is a string-keyed durable map. Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value under key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key; removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	Close() error
}

const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// Config selects and configures a backend.
type Config struct {
	Backend string
	// Dir holds the badger directory or the sqlite file.
	Dir string
	// QuotaBytes bounds the memory backend; 0 means unbounded.
	QuotaBytes int64
	Logger     *zap.Logger
}

// Open creates the configured store: badger when Backend is empty.
func Open(cfg Config) (Store, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = BackendBadger
	}

	switch backend {
	case BackendMemory:
		return NewMemoryStore(cfg.QuotaBytes), nil
	case BackendBadger:
		if cfg.Dir == "" {
			return nil, errors.New("kv: badger backend requires a directory")
		}
		return OpenBadger(filepath.Join(cfg.Dir, "badger"), log)
	case BackendSQLite:
		if cfg.Dir == "" {
			return nil, errors.New("kv: sqlite backend requires a directory")
		}
		return OpenSQLite(filepath.Join(cfg.Dir, "watchpicker.db"))
	default:
		return nil, fmt.Errorf("kv: unknown backend %q", cfg.Backend)
	}
}
