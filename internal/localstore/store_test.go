package localstore

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "local.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGetMissingKey(t *testing.T) {
	store := newTestStore(t)

	value, ok, err := store.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() ok = true for missing key")
	}
	if value != "" {
		t.Errorf("Get() value = %q, want empty", value)
	}
}

func TestSetAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "demo_mode", "true"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, ok, err := store.Get(ctx, "demo_mode")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() ok = false after Set")
	}
	if value != "true" {
		t.Errorf("Get() value = %q, want %q", value, "true")
	}
}

func TestSetOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "settings", `{"dark_mode":false}`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Set(ctx, "settings", `{"dark_mode":true}`); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, _, err := store.Get(ctx, "settings")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if value != `{"dark_mode":true}` {
		t.Errorf("Get() value = %q, want latest write", value)
	}
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "demo_mode", "true"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := store.Remove(ctx, "demo_mode"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	_, ok, err := store.Get(ctx, "demo_mode")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() ok = true after Remove")
	}

	// Removing an absent key must not error
	if err := store.Remove(ctx, "demo_mode"); err != nil {
		t.Errorf("Remove() of absent key error = %v", err)
	}
}
