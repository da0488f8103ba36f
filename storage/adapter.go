package storage

import (
	"context"

	"github.com/cubeforge/collab/action"
	"github.com/cubeforge/collab/errors"
	"github.com/cubeforge/collab/logging"
	"github.com/cubeforge/collab/session"
)

// Adapter wraps a Store with the engine's degradation policy: a parse
// failure on load yields the record's empty default, and a write failure
// is logged and swallowed. The engine never sees a storage error.
type Adapter struct {
	store Store
	log   *logging.Logger
}

// NewAdapter wraps a store. A nil logger discards log records.
func NewAdapter(store Store, log *logging.Logger) *Adapter {
	if log == nil {
		log = logging.Discard()
	}
	return &Adapter{store: store, log: log.WithComponent("storage")}
}

// LoadSession reads the persisted session, or nil when the record is
// absent or unreadable.
func (a *Adapter) LoadSession(ctx context.Context) *session.Session {
	data := a.read(ctx, RecordSession)
	if data == nil {
		return nil
	}
	s, err := DecodeSession(data)
	if err != nil {
		a.log.LogError(ctx, errors.NewStorageError(errors.OpLoad, err), "discarding corrupt session record")
		return nil
	}
	return s
}

// LoadParticipantID reads the persisted local participant id, or "" when
// absent.
func (a *Adapter) LoadParticipantID(ctx context.Context) string {
	return string(a.read(ctx, RecordParticipant))
}

// LoadPending reads the persisted pending-action queue, or nil when the
// record is absent or unreadable.
func (a *Adapter) LoadPending(ctx context.Context) []action.Action {
	data := a.read(ctx, RecordPending)
	if data == nil {
		return nil
	}
	pending, err := DecodePending(data)
	if err != nil {
		a.log.LogError(ctx, errors.NewStorageError(errors.OpLoad, err), "discarding corrupt pending-action record")
		return nil
	}
	return pending
}

// SaveSession persists the session record. A nil session deletes it.
func (a *Adapter) SaveSession(ctx context.Context, s *session.Session) {
	if s == nil {
		a.delete(ctx, RecordSession)
		return
	}
	data, err := EncodeSession(s)
	if err != nil {
		a.log.LogError(ctx, errors.NewStorageError(errors.OpSave, err), "session record not saved")
		return
	}
	a.write(ctx, RecordSession, data)
}

// SaveParticipantID persists the local participant id. An empty id
// deletes the record.
func (a *Adapter) SaveParticipantID(ctx context.Context, id string) {
	if id == "" {
		a.delete(ctx, RecordParticipant)
		return
	}
	a.write(ctx, RecordParticipant, []byte(id))
}

// SavePending persists the pending-action queue.
func (a *Adapter) SavePending(ctx context.Context, pending []action.Action) {
	data, err := EncodePending(pending)
	if err != nil {
		a.log.LogError(ctx, errors.NewStorageError(errors.OpSave, err), "pending-action record not saved")
		return
	}
	a.write(ctx, RecordPending, data)
}

// Clear removes all three records.
func (a *Adapter) Clear(ctx context.Context) {
	a.delete(ctx, RecordSession)
	a.delete(ctx, RecordParticipant)
	a.delete(ctx, RecordPending)
}

// Close closes the underlying store.
func (a *Adapter) Close() error {
	return a.store.Close()
}

func (a *Adapter) read(ctx context.Context, rec Record) []byte {
	data, err := a.store.Read(ctx, rec)
	if err != nil {
		a.log.LogError(ctx, errors.NewStorageError(errors.OpLoad, err), "read failed, using empty default")
		return nil
	}
	return data
}

func (a *Adapter) write(ctx context.Context, rec Record, data []byte) {
	if err := a.store.Write(ctx, rec, data); err != nil {
		a.log.LogError(ctx, errors.NewStorageError(errors.OpSave, err), "write failed, state not persisted")
	}
}

func (a *Adapter) delete(ctx context.Context, rec Record) {
	if err := a.store.Delete(ctx, rec); err != nil {
		a.log.LogError(ctx, errors.NewStorageError(errors.OpSave, err), "delete failed")
	}
}
