package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type migration struct {
	version int
	name    string
}

// MigrateUp applies every embedded migration newer than the recorded schema
// version, each in its own transaction.
func MigrateUp(db *sql.DB) error {
	if err := ensureVersionTable(db); err != nil {
		return err
	}
	applied, err := AppliedVersions(db)
	if err != nil {
		return err
	}
	pending, err := listMigrations(".up.sql")
	if err != nil {
		return err
	}
	for _, m := range pending {
		if slices.Contains(applied, m.version) {
			continue
		}
		err := runMigration(db, m, `INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)`,
			m.version, time.Now().UTC().Format(sqliteTimeLayout))
		if err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown reverts every applied migration, newest first.
func MigrateDown(db *sql.DB) error {
	if err := ensureVersionTable(db); err != nil {
		return err
	}
	applied, err := AppliedVersions(db)
	if err != nil {
		return err
	}
	downs, err := listMigrations(".down.sql")
	if err != nil {
		return err
	}
	slices.Reverse(downs)
	for _, m := range downs {
		if !slices.Contains(applied, m.version) {
			continue
		}
		if err := runMigration(db, m, `DELETE FROM schema_migrations WHERE version = ?`, m.version); err != nil {
			return err
		}
	}
	return nil
}

// AppliedVersions lists recorded schema versions in ascending order.
func AppliedVersions(db *sql.DB) ([]int, error) {
	rows, err := db.Query(`SELECT version FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("read schema versions: %w", err)
	}
	defer rows.Close()
	var out []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan schema version: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func ensureVersionTable(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

// listMigrations returns the embedded files with suffix, ordered by their
// numeric prefix (0001_name.up.sql).
func listMigrations(suffix string) ([]migration, error) {
	names, err := fs.Glob(migrationFiles, "migrations/*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("glob migrations: %w", err)
	}
	out := make([]migration, 0, len(names))
	for _, name := range names {
		prefix, _, ok := strings.Cut(path.Base(name), "_")
		if !ok {
			return nil, fmt.Errorf("migration %s: missing version prefix", name)
		}
		v, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("migration %s: bad version: %w", name, err)
		}
		out = append(out, migration{version: v, name: name})
	}
	slices.SortFunc(out, func(a, b migration) int { return a.version - b.version })
	return out, nil
}

func runMigration(db *sql.DB, m migration, record string, args ...any) error {
	body, err := migrationFiles.ReadFile(m.name)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", m.name, err)
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", m.name, err)
	}
	if _, err := tx.Exec(string(body)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("apply migration %s: %w", m.name, err)
	}
	if _, err := tx.Exec(record, args...); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration %s: %w", m.name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", m.name, err)
	}
	return nil
}
