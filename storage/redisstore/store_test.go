package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/cubeforge/collab/storage"
)

func setupTestRedis(t *testing.T) *Store {
	t.Helper()
	s := miniredis.RunT(t)
	store, err := New("redis://" + s.Addr())
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNew(t *testing.T) {
	store := setupTestRedis(t)
	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestNewRejectsBadURL(t *testing.T) {
	if _, err := New("not-a-url"); err == nil {
		t.Error("invalid URL must be rejected")
	}
}

func TestReadWriteDelete(t *testing.T) {
	store := setupTestRedis(t)
	ctx := context.Background()

	// Absent record reads as nil without error.
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
	data, err = store.Read(ctx, storage.RecordSession)
	if err != nil || data != nil {
		t.Errorf("Read after delete = %v, %v", data, err)
	}

	// Deleting again is a no-op.
	if err := store.Delete(ctx, storage.RecordSession); err != nil {
		t.Errorf("repeated Delete failed: %v", err)
	}
}

func TestRecordsAreIndependent(t *testing.T) {
	store := setupTestRedis(t)
	ctx := context.Background()

	store.Write(ctx, storage.RecordSession, []byte("session"))
	store.Write(ctx, storage.RecordParticipant, []byte("p1"))
	store.Delete(ctx, storage.RecordSession)

	data, err := store.Read(ctx, storage.RecordParticipant)
	if err != nil || string(data) != "p1" {
		t.Errorf("participant record affected by sibling delete: %s, %v", data, err)
	}
}

func TestPrefixIsolation(t *testing.T) {
	s := miniredis.RunT(t)

	a, err := New("redis://"+s.Addr(), WithPrefix("a:"))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	b, err := New("redis://"+s.Addr(), WithPrefix("b:"))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	ctx := context.Background()
	a.Write(ctx, storage.RecordParticipant, []byte("pa"))
	b.Write(ctx, storage.RecordParticipant, []byte("pb"))

	data, _ := a.Read(ctx, storage.RecordParticipant)
	if string(data) != "pa" {
		t.Errorf("prefix a sees %s", data)
	}
}
