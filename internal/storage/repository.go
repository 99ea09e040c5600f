package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrNotFound       = errors.New("storage: not found")
	ErrUnknownBackend = errors.New("storage: unknown backend")
)

// Keys under which the application keeps its state.
const (
	TasksKey = "focusflow_tasks"
	// RecapCheckpointKey is versioned: bump the suffix whenever the recap
	// gating logic or the stored format changes so old markers are ignored.
	RecapCheckpointKey = "last_recap_date_v3"
)

const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Repository is a durable key/value store. Each Put is a full overwrite of
// the value under key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open builds the repository for backend rooted at path. For the sqlite
// backend path is the database file, for the file backend a directory.
func Open(backend, path string) (Repository, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendSQLite, "":
		repo, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		if err := MigrateUp(repo.db); err != nil {
			_ = repo.Close()
			return nil, fmt.Errorf("migrate %s: %w", filepath.Base(path), err)
		}
		return repo, nil
	case BackendFile:
		return NewFileRepository(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
