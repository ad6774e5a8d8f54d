package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "timetable-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func storeImplementations(t *testing.T) map[string]Store {
	return map[string]Store{
		"sqlite": setupStore(t),
		"memory": NewMemoryStore(),
	}
}

func TestStorePutGetOverwrite(t *testing.T) {
	for name, store := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := store.Get(ctx, "events"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			if err := store.Put(ctx, "events", []byte(`[{"id":"a"}]`)); err != nil {
				t.Fatalf("put: %v", err)
			}
			if err := store.Put(ctx, "events", []byte(`[{"id":"b"}]`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			got, err := store.Get(ctx, "events")
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if string(got) != `[{"id":"b"}]` {
				t.Fatalf("unexpected value: %s", got)
			}
		})
	}
}

func TestStoreDelete(t *testing.T) {
	for name, store := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := store.Put(ctx, "calendarUrl", []byte(`"x"`)); err != nil {
				t.Fatalf("put: %v", err)
			}
			if err := store.Delete(ctx, "calendarUrl"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if err := store.Delete(ctx, "calendarUrl"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound on second delete, got %v", err)
			}
		})
	}
}

func TestStoreListPrefixAndPagination(t *testing.T) {
	for name, store := range storeImplementations(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, key := range []string{"events", "eventsBackup", "importedEvents", "selectedDate"} {
				if err := store.Put(ctx, key, []byte("1")); err != nil {
					t.Fatalf("put %s: %v", key, err)
				}
			}
			got, err := store.List(ctx, ListFilter{Prefix: "events"})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != 2 || got[0].Key != "events" || got[1].Key != "eventsBackup" {
				t.Fatalf("unexpected prefix list: %#v", got)
			}

			page, err := store.List(ctx, ListFilter{Limit: 2, Offset: 1})
			if err != nil {
				t.Fatalf("list page: %v", err)
			}
			if len(page) != 2 || page[0].Key != "eventsBackup" || page[1].Key != "importedEvents" {
				t.Fatalf("unexpected page: %#v", page)
			}

			tail, err := store.List(ctx, ListFilter{Offset: 3})
			if err != nil {
				t.Fatalf("list tail: %v", err)
			}
			if len(tail) != 1 || tail[0].Key != "selectedDate" {
				t.Fatalf("unexpected tail: %#v", tail)
			}
		})
	}
}

func TestSQLiteStoreRejectsEmptyKey(t *testing.T) {
	store := setupStore(t)
	if err := store.Put(context.Background(), " ", []byte("x")); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	first, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Put(context.Background(), "weekStart", []byte(`"2026-02-09"`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	got, err := second.Get(context.Background(), "weekStart")
	if err != nil || string(got) != `"2026-02-09"` {
		t.Fatalf("unexpected value %q err %v", got, err)
	}
}
