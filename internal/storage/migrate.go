package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const versionTable = `CREATE TABLE IF NOT EXISTS schema_versions (
    version TEXT PRIMARY KEY
)`

// MigrateUp applies every pending up migration in name order. Applied
// versions are recorded so repeated calls are no-ops.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(versionTable); err != nil {
		return fmt.Errorf("create schema_versions: %w", err)
	}
	names, err := migrationNames(".up.sql")
	if err != nil {
		return err
	}
	for _, name := range names {
		version := strings.TrimSuffix(path.Base(name), ".up.sql")
		var seen int
		if err := db.QueryRow(`SELECT COUNT(1) FROM schema_versions WHERE version = ?`, version).Scan(&seen); err != nil {
			return fmt.Errorf("check migration %s: %w", version, err)
		}
		if seen > 0 {
			continue
		}
		if err := runMigration(db, name, func(tx *sql.Tx) error {
			_, err := tx.Exec(`INSERT INTO schema_versions (version) VALUES (?)`, version)
			return err
		}); err != nil {
			return err
		}
	}
	return nil
}

// MigrateDown reverts every migration, newest first, and forgets the
// recorded versions.
func MigrateDown(db *sql.DB) error {
	names, err := migrationNames(".down.sql")
	if err != nil {
		return err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	for _, name := range names {
		version := strings.TrimSuffix(path.Base(name), ".down.sql")
		if err := runMigration(db, name, func(tx *sql.Tx) error {
			_, err := tx.Exec(`DELETE FROM schema_versions WHERE version = ?`, version)
			return err
		}); err != nil {
			return err
		}
	}
	return nil
}

func migrationNames(suffix string) ([]string, error) {
	names, err := fs.Glob(migrationFiles, "migrations/*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("glob migrations: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func runMigration(db *sql.DB, name string, record func(*sql.Tx) error) error {
	body, err := migrationFiles.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", name, err)
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", name, err)
	}
	if _, err := tx.Exec(string(body)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("apply migration %s: %w", name, err)
	}
	if err := record(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration %s: %w", name, err)
	}
	return tx.Commit()
}
