package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cubeforge/collab/storage"
)

func TestReadWriteDelete(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := context.Background()

	data, err := store.Read(ctx, storage.RecordSession)
	if err != nil || data != nil {
		t.Errorf("Read(absent) = %v, %v", data, err)
	}

	if err := store.Write(ctx, storage.RecordSession, []byte(`{"id":"s1"}`)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	data, err = store.Read(ctx, storage.RecordSession)
	if err != nil || string(data) != `{"id":"s1"}` {
		t.Errorf("Read = %s, %v", data, err)
	}

	if err := store.Delete(ctx, storage.RecordSession); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, storage.RecordSession); err != nil {
		t.Errorf("deleting an absent record must be a no-op: %v", err)
	}
}

func TestWriteIsAtomicReplacement(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	store.Write(ctx, storage.RecordPending, []byte("first"))
	store.Write(ctx, storage.RecordPending, []byte("second"))

	data, _ := store.Read(ctx, storage.RecordPending)
	if string(data) != "second" {
		t.Errorf("Read = %s, want second", data)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		for _, e := range entries {
			t.Logf("leftover: %s", e.Name())
		}
		t.Errorf("%d files in state dir, want 1", len(entries))
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")
	if _, err := New(dir); err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("state dir not created: %v", err)
	}
}
