package memory

import (
	"context"
	"errors"
	"testing"

	"warburtonsos/internal/kv/core"
)

func TestStoreCopiesPayloads(t *testing.T) {
	ctx := context.Background()
	s := New()
	payload := []byte(`[{"id":"1"}]`)
	if err := s.Put(ctx, "warburtons-repairs", payload); err != nil {
		t.Fatalf("put: %v", err)
	}
	payload[0] = 'x'
	got, ok, err := s.Get(ctx, "warburtons-repairs")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != `[{"id":"1"}]` {
		t.Fatalf("stored payload aliased caller buffer: %s", got)
	}
	got[0] = 'y'
	again, _, _ := s.Get(ctx, "warburtons-repairs")
	if again[0] != '[' {
		t.Fatalf("returned payload aliased stored buffer")
	}
}

func TestStoreKeysDeleteAndEmptyKey(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.Put(ctx, "b", nil)
	_ = s.Put(ctx, "a", nil)
	keys, _ := s.Keys(ctx)
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("unexpected keys %v", keys)
	}
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "missing"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "a"); ok {
		t.Fatalf("expected a removed")
	}
	if _, _, err := s.Get(ctx, ""); !errors.Is(err, core.ErrEmptyKey) {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}
	if s.Driver() != core.DriverMemory || s.Close() != nil {
		t.Fatalf("unexpected driver/close")
	}
}
