package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/julianstephens/micromind/internal/kv"
	"github.com/julianstephens/micromind/internal/kv/postgres"
	"github.com/julianstephens/micromind/internal/kv/sqlite"
)

// MemoryPath selects the in-process backend. Nothing is persisted.
const MemoryPath = ":memory:"

// Open returns the backend for path without initializing or loading it.
//
//   - ":memory:" keeps everything in process memory
//   - "*.json" uses a single JSON document
//   - a postgres:// or postgresql:// URL uses PostgreSQL
//   - anything else is a SQLite database file
func Open(path string) (Provider, error) {
	switch {
	case path == MemoryPath:
		return kv.NewMemoryStore(), nil
	case postgres.IsConnString(path):
		if err := postgres.ValidateConnString(path); err != nil {
			return nil, err
		}
		return postgres.New(path), nil
	case strings.EqualFold(filepath.Ext(path), ".json"):
		store, err := kv.NewFileStore(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open storage: %w", err)
		}
		return store, nil
	default:
		return sqlite.NewStore(path), nil
	}
}

// Watch blocks until ctx is done, notifying subscribers of p about changes
// made by other processes. Backends without a change feed return immediately.
func Watch(ctx context.Context, p Provider) error {
	switch s := p.(type) {
	case *postgres.Store:
		return s.Listen(ctx)
	case *kv.FileStore:
		return kv.Watch(ctx, s.Path(), s)
	case *sqlite.Store:
		return kv.Watch(ctx, s.Path(), s)
	default:
		return nil
	}
}
