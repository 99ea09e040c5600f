package storage

import (
	"database/sql"
	"path/filepath"
	"slices"
	"testing"
)

func openRawDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateUpRecordsVersions(t *testing.T) {
	db := openRawDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("repeated migrate up should be a no-op: %v", err)
	}

	versions, err := AppliedVersions(db)
	if err != nil {
		t.Fatalf("applied versions: %v", err)
	}
	if !slices.Equal(versions, []int{1}) {
		t.Fatalf("unexpected versions %v", versions)
	}
}

func TestMigrateDownThenUpKeepsRepositoryUsable(t *testing.T) {
	db := openRawDB(t)
	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if versions, _ := AppliedVersions(db); len(versions) != 0 {
		t.Fatalf("expected no versions after down, got %v", versions)
	}
	if _, err := db.Exec(`SELECT 1 FROM kv_entries`); err == nil {
		t.Fatal("kv_entries should be gone after down")
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up again: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	if err := repo.Put(t.Context(), TasksKey, []byte(`[]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := repo.Get(t.Context(), TasksKey)
	if err != nil || string(got) != `[]` {
		t.Fatalf("get = %q, %v", got, err)
	}
}

func TestListMigrationsOrdersByVersion(t *testing.T) {
	ups, err := listMigrations(".up.sql")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ups) == 0 || ups[0].version != 1 {
		t.Fatalf("unexpected migrations %+v", ups)
	}
}
