// Package storage defines the persistence surface of the collaboration
// engine: a byte-record Store contract implemented by the backends in the
// subpackages, the flattened serialization of the session graph, and the
// Adapter that degrades every failure to a safe default so a broken
// autosave can never take down an editing session.
package storage

import "context"

// Record names one of the three independently stored state records.
// Each record degrades to its empty default on its own; corruption in one
// never affects the others.
type Record string

const (
	RecordSession     Record = "session"
	RecordParticipant Record = "participant"
	RecordPending     Record = "pending_actions"
)

// Store is the raw storage contract. Implementations persist opaque bytes
// per record and stay ignorant of the engine's types, which keeps the
// medium swappable (file, SQLite, Redis, in-memory).
type Store interface {
	// Read returns the record's bytes, or (nil, nil) when absent.
	Read(ctx context.Context, rec Record) ([]byte, error)

	// Write persists the record's bytes, replacing any previous value.
	Write(ctx context.Context, rec Record, data []byte) error

	// Delete removes a record. Deleting an absent record is a no-op.
	Delete(ctx context.Context, rec Record) error

	// Close releases the backend's resources.
	Close() error
}
