package kv

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, Config{Driver: "Memory"})
	if err != nil {
		t.Fatalf("open memory: %v", err)
	}
	if store.Driver() != DriverMemory {
		t.Fatalf("expected memory driver, got %s", store.Driver())
	}

	path := filepath.Join(t.TempDir(), "kv.db")
	store, err = Open(ctx, Config{SQLitePath: path})
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	defer func() { _ = store.Close() }()
	if store.Driver() != DriverSQLite {
		t.Fatalf("expected sqlite default, got %s", store.Driver())
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "redis"})
	if err == nil || !strings.Contains(err.Error(), "unknown kv driver") {
		t.Fatalf("expected unknown driver error, got %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Driver != DriverSQLite || cfg.SQLitePath == "" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}
