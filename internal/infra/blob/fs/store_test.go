package fs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"warburtonsos/internal/blob/core"
)

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "archive")
	s, err := New(root)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if s.Driver() != core.DriverFilesystem || s.Root() != root {
		t.Fatalf("unexpected driver/root %s %s", s.Driver(), s.Root())
	}
	info, err := s.Put(ctx, "reports/inventory/r1.html", strings.NewReader("<table></table>"), core.PutOptions{ContentType: "text/html", Metadata: map[string]string{"title": "Inventory Count"}})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != int64(len("<table></table>")) || len(info.ETag) != 64 {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := os.Stat(filepath.Join(root, "reports", "inventory", "r1.html.meta")); err != nil {
		t.Fatalf("expected sidecar: %v", err)
	}
	if _, err := s.Put(ctx, "reports/inventory/r1.html", strings.NewReader("again"), core.PutOptions{}); !errors.Is(err, core.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}

	got, rc, err := s.Get(ctx, "reports/inventory/r1.html")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "<table></table>" || got.Metadata["title"] != "Inventory Count" || got.ETag != info.ETag {
		t.Fatalf("unexpected get %q %+v", body, got)
	}

	if _, err := s.Put(ctx, "reports/kpi/r2.csv", strings.NewReader("a"), core.PutOptions{}); err != nil {
		t.Fatalf("put second: %v", err)
	}
	list, err := s.List(ctx, "reports/inventory/")
	if err != nil || len(list) != 1 || list[0].Key != "reports/inventory/r1.html" {
		t.Fatalf("unexpected list %+v err=%v", list, err)
	}
	all, _ := s.List(ctx, "")
	if len(all) != 2 || all[1].Key != "reports/kpi/r2.csv" {
		t.Fatalf("unexpected full list %+v", all)
	}

	if ok, err := s.Delete(ctx, "reports/inventory/r1.html"); err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	if ok, err := s.Delete(ctx, "reports/inventory/r1.html"); err != nil || ok {
		t.Fatalf("repeat delete: ok=%v err=%v", ok, err)
	}
	if _, _, err := s.Get(ctx, "reports/inventory/r1.html"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreRejectsUnsafeKeys(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, key := range []string{"", "  ", "/etc/passwd", "../escape", "a/../../b", "x.meta"} {
		if _, err := s.Put(context.Background(), key, strings.NewReader("x"), core.PutOptions{}); !errors.Is(err, core.ErrInvalidKey) {
			t.Fatalf("key %q: expected ErrInvalidKey, got %v", key, err)
		}
	}
}

func TestStoreReportsCorruptSidecar(t *testing.T) {
	root := t.TempDir()
	s, _ := New(root)
	ctx := context.Background()
	if _, err := s.Put(ctx, "bad", strings.NewReader("x"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "bad.meta"), []byte("{"), 0o600); err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	if _, _, err := s.Get(ctx, "bad"); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := s.List(ctx, ""); err == nil {
		t.Fatalf("expected list decode error")
	}
}
