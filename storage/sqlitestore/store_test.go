package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cubeforge/collab/storage"
)

func TestReadWriteDelete(t *testing.T) {
	store, err := New(Config{DataSourceName: ":memory:"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	data, err := store.Read(ctx, storage.RecordPending)
	if err != nil || data != nil {
		t.Errorf("Read(absent) = %v, %v", data, err)
	}

	if err := store.Write(ctx, storage.RecordPending, []byte("[]")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	// Upsert replaces.
	if err := store.Write(ctx, storage.RecordPending, []byte(`[{"id":"a"}]`)); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}

	data, err = store.Read(ctx, storage.RecordPending)
	if err != nil || string(data) != `[{"id":"a"}]` {
		t.Errorf("Read = %s, %v", data, err)
	}

	if err := store.Delete(ctx, storage.RecordPending); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	data, _ = store.Read(ctx, storage.RecordPending)
	if data != nil {
		t.Error("record survived Delete")
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "collab.db")

	store, err := New(Config{DataSourceName: path})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := store.Write(ctx, storage.RecordParticipant, []byte("p1")); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = New(Config{DataSourceName: path})
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	data, err := store.Read(ctx, storage.RecordParticipant)
	if err != nil || string(data) != "p1" {
		t.Errorf("record lost across reopen: %s, %v", data, err)
	}
}
