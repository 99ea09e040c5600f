package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "focusflow-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func TestSQLitePutGetDelete(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	written := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return written }

	if _, err := repo.Get(ctx, TasksKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before first put, got: %v", err)
	}

	if err := repo.Put(ctx, TasksKey, []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := repo.Put(ctx, TasksKey, []byte(`[{"id":"b"}]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, err := repo.Get(ctx, TasksKey)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != `[{"id":"b"}]` {
		t.Fatalf("unexpected value after overwrite: %s", got)
	}

	var raw string
	if err := repo.db.QueryRowContext(ctx, `SELECT updated_at FROM kv_entries WHERE key = ?`, TasksKey).Scan(&raw); err != nil {
		t.Fatalf("updated at: %v", err)
	}
	if at, err := time.Parse(sqliteTimeLayout, raw); err != nil || !at.Equal(written) {
		t.Fatalf("unexpected updated_at: %s", raw)
	}

	if err := repo.Delete(ctx, TasksKey); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, TasksKey); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on second delete, got: %v", err)
	}
}

func TestSQLiteKeysAreIndependent(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.Put(ctx, TasksKey, []byte(`[]`)); err != nil {
		t.Fatalf("put tasks: %v", err)
	}
	if err := repo.Put(ctx, RecapCheckpointKey, []byte(`2026-02-09`)); err != nil {
		t.Fatalf("put checkpoint: %v", err)
	}

	tasks, err := repo.Get(ctx, TasksKey)
	if err != nil || string(tasks) != `[]` {
		t.Fatalf("unexpected tasks value: %q err=%v", tasks, err)
	}
	checkpoint, err := repo.Get(ctx, RecapCheckpointKey)
	if err != nil || string(checkpoint) != `2026-02-09` {
		t.Fatalf("unexpected checkpoint value: %q err=%v", checkpoint, err)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()

	sqliteRepo, err := Open(BackendSQLite, filepath.Join(dir, "nested", "focusflow.db"))
	if err != nil {
		t.Fatalf("open sqlite backend: %v", err)
	}
	defer sqliteRepo.Close()
	if _, ok := sqliteRepo.(*SQLiteRepository); !ok {
		t.Fatalf("expected *SQLiteRepository, got %T", sqliteRepo)
	}

	fileRepo, err := Open(BackendFile, filepath.Join(dir, "files"))
	if err != nil {
		t.Fatalf("open file backend: %v", err)
	}
	if _, ok := fileRepo.(*FileRepository); !ok {
		t.Fatalf("expected *FileRepository, got %T", fileRepo)
	}

	if _, err := Open("redis", dir); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}
