// SPDX-License-Identifier: MPL-2.0

package sqlitestore

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "glyphs.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreSetGet(t *testing.T) {
	store := openTestStore(t)

	if err := store.Set(context.Background(), "ion:home", []byte("<svg/>"), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}

	value, found, err := store.Get(context.Background(), "ion:home")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found {
		t.Fatal("expected entry to be found")
	}
	if !bytes.Equal(value, []byte("<svg/>")) {
		t.Fatalf("expected %q, got %q", "<svg/>", value)
	}
}

func TestStoreGetMissing(t *testing.T) {
	store := openTestStore(t)

	_, found, err := store.Get(context.Background(), "ion:missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatal("expected entry to be absent")
	}
}

func TestStoreExpiredRowReadsAsAbsent(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }
	if err := store.Set(context.Background(), "ion:home", []byte("<svg/>"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	store.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, found, err := store.Get(context.Background(), "ion:home")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatal("expected expired row to read as absent")
	}

	// The expired row is removed on read.
	var count int
	row := store.sqlDB.QueryRow(`SELECT COUNT(*) FROM icon_cache WHERE key = ?`, "ion:home")
	if err := row.Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected expired row to be deleted, found %d", count)
	}
}

func TestStoreZeroTTLNeverExpires(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }
	if err := store.Set(context.Background(), "ion:home", []byte("<svg/>"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}

	store.now = func() time.Time { return base.AddDate(10, 0, 0) }
	_, found, err := store.Get(context.Background(), "ion:home")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found {
		t.Fatal("expected row without ttl to survive")
	}
}

func TestStoreSetOverwrites(t *testing.T) {
	store := openTestStore(t)

	if err := store.Set(context.Background(), "ion:home", []byte("old"), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(context.Background(), "ion:home", []byte("new"), time.Hour); err != nil {
		t.Fatalf("set overwrite: %v", err)
	}

	value, found, err := store.Get(context.Background(), "ion:home")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found {
		t.Fatal("expected entry to be found")
	}
	if string(value) != "new" {
		t.Fatalf("expected %q, got %q", "new", value)
	}
}

func TestStoreDelete(t *testing.T) {
	store := openTestStore(t)

	if err := store.Set(context.Background(), "ion:home", []byte("<svg/>"), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Delete(context.Background(), "ion:home"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(context.Background(), "ion:home"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}

	_, found, err := store.Get(context.Background(), "ion:home")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found {
		t.Fatal("expected entry to be absent after delete")
	}
}

func TestStoreClear(t *testing.T) {
	store := openTestStore(t)

	for _, key := range []string{"ion:home", "hero:bell", "fa:user"} {
		if err := store.Set(context.Background(), key, []byte("<svg/>"), time.Hour); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}
	if err := store.Clear(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}

	for _, key := range []string{"ion:home", "hero:bell", "fa:user"} {
		_, found, err := store.Get(context.Background(), key)
		if err != nil {
			t.Fatalf("get %s: %v", key, err)
		}
		if found {
			t.Fatalf("expected %s to be absent after clear", key)
		}
	}
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glyphs.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Set(context.Background(), "ion:home", []byte("<svg/>"), time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()

	value, found, err := reopened.Get(context.Background(), "ion:home")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found {
		t.Fatal("expected entry to survive reopen")
	}
	if string(value) != "<svg/>" {
		t.Fatalf("expected %q, got %q", "<svg/>", value)
	}
}

func TestStoreOpenEmptyPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error")
	}
}

func TestStoreCloseNil(t *testing.T) {
	var store *Store
	if err := store.Close(); err != nil {
		t.Fatalf("close nil store: %v", err)
	}
}

func TestStoreCanceledContext(t *testing.T) {
	store := openTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := store.Get(ctx, "ion:home"); err == nil {
		t.Fatal("expected error")
	}
	if err := store.Set(ctx, "ion:home", []byte("<svg/>"), time.Hour); err == nil {
		t.Fatal("expected error")
	}
	if err := store.Delete(ctx, "ion:home"); err == nil {
		t.Fatal("expected error")
	}
	if err := store.Clear(ctx); err == nil {
		t.Fatal("expected error")
	}
}
