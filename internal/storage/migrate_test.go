package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func TestMigrateRoundTripCompatibility(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate-roundtrip.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("repeated migrate up failed: %v", err)
	}

	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}

	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}

	store, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Put(t.Context(), "events", []byte(`[]`)); err != nil {
		t.Fatalf("put after roundtrip failed: %v", err)
	}
	got, err := store.Get(t.Context(), "events")
	if err != nil {
		t.Fatalf("get after roundtrip failed: %v", err)
	}
	if string(got) != "[]" {
		t.Fatalf("unexpected value after roundtrip: %q", got)
	}
}

func TestMigrateUpRecordsVersionsOnce(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "versions.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	for i := 0; i < 3; i++ {
		if err := MigrateUp(db); err != nil {
			t.Fatalf("migrate up %d: %v", i, err)
		}
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(1) FROM schema_versions`).Scan(&n); err != nil {
		t.Fatalf("count versions: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one recorded version, got %d", n)
	}

	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if err := db.QueryRow(`SELECT COUNT(1) FROM schema_versions`).Scan(&n); err != nil {
		t.Fatalf("count versions after down: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no versions after down, got %d", n)
	}
}
