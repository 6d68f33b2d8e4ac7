package store

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"dockboard/pkg/db"
)

func TestSQLiteStore(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	// Init DB
	d, err := db.Init(dbPath)
	if err != nil {
		t.Fatalf("Failed to init DB: %v", err)
	}
	defer d.Close()

	store := NewSQLiteStore(d)
	ctx := context.Background()

	testState(t, ctx, store)
	testCache(t, ctx, store)
}

func testState(t *testing.T, ctx context.Context, store *SQLiteStore) {
	t.Run("State", func(t *testing.T) {
		if err := store.SetState(ctx, "playback_ledger", `{"e1":{}}`); err != nil {
			t.Errorf("SetState failed: %v", err)
		}

		val, ok := store.GetState(ctx, "playback_ledger")
		if !ok {
			t.Fatal("GetState returned not found")
		}
		if val != `{"e1":{}}` {
			t.Errorf("State mismatch: %s", val)
		}

		// Overwrite
		if err := store.SetState(ctx, "playback_ledger", "{}"); err != nil {
			t.Errorf("SetState overwrite failed: %v", err)
		}
		val, _ = store.GetState(ctx, "playback_ledger")
		if val != "{}" {
			t.Errorf("Expected overwritten value, got %s", val)
		}

		// Missing key
		if _, ok := store.GetState(ctx, "missing"); ok {
			t.Error("Expected missing key to report not found")
		}

		// Delete
		if err := store.DeleteState(ctx, "playback_ledger"); err != nil {
			t.Errorf("DeleteState failed: %v", err)
		}
		if _, ok := store.GetState(ctx, "playback_ledger"); ok {
			t.Error("Expected deleted key to report not found")
		}
	})
}

func testCache(t *testing.T, ctx context.Context, store *SQLiteStore) {
	t.Run("Cache", func(t *testing.T) {
		// Large enough that gzip actually kicks in
		payload := bytes.Repeat([]byte("synthesized audio frame "), 100)

		if err := store.SetCache(ctx, "speech:abc", payload); err != nil {
			t.Errorf("SetCache failed: %v", err)
		}

		got, ok := store.GetCache(ctx, "speech:abc")
		if !ok {
			t.Fatal("GetCache returned not found")
		}
		if !bytes.Equal(got, payload) {
			t.Error("Cache roundtrip mismatch after transparent compression")
		}

		if _, ok := store.GetCache(ctx, "speech:missing"); ok {
			t.Error("Expected missing cache key to report not found")
		}
	})
}
