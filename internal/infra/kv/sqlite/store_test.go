package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestStoreSnapshotSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "state.db")
	store, err := New(path)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	ctx := context.Background()
	if err := store.Put(ctx, "warburtons-kpis", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Put(ctx, "warburtons-kpis", []byte(`[]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	payload, ok, err := reopened.Get(ctx, "warburtons-kpis")
	if err != nil || !ok || string(payload) != "[]" {
		t.Fatalf("expected persisted payload, got %q ok=%v err=%v", payload, ok, err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("db file missing: %v", err)
	}
	if reopened.Path() != path {
		t.Fatalf("unexpected path %s", reopened.Path())
	}
}

func TestStoreKeysAndDelete(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	defer func() { _ = store.Close() }()
	ctx := context.Background()
	for _, k := range []string{"warburtons-users", "warburtons-holidays"} {
		if err := store.Put(ctx, k, nil); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}
	keys, err := store.Keys(ctx)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "warburtons-holidays" {
		t.Fatalf("unexpected keys %v", keys)
	}
	if err := store.Delete(ctx, "warburtons-users"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, err := store.Get(ctx, "warburtons-users"); err != nil || ok {
		t.Fatalf("expected deleted key, ok=%v err=%v", ok, err)
	}
	if _, _, err := store.Get(ctx, " "); err == nil {
		t.Fatalf("expected empty key error")
	}
}
