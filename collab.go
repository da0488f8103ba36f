// Package collab implements the collaborative session and
// conflict-resolution engine for a shared document of cube objects. It
// applies local edits optimistically, queues them for synchronization,
// reconciles remote edits that arrive out of order or in conflict, and
// notifies observers of every state transition through a typed event bus.
//
// The engine owns its state exclusively: callers only ever receive deep
// copies. Delivery of actions between participants is a collaborator's
// responsibility; remote actions enter through Receive and local actions
// leave through PendingActions and the action_applied event.
package collab

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cubeforge/collab/action"
	"github.com/cubeforge/collab/errors"
	"github.com/cubeforge/collab/events"
	"github.com/cubeforge/collab/logging"
	"github.com/cubeforge/collab/resolve"
	"github.com/cubeforge/collab/session"
	"github.com/cubeforge/collab/storage"
)

// State is a point-in-time snapshot of the engine.
type State struct {
	Session            *session.Session
	LocalParticipantID string
	Connection         session.ConnectionState
	PendingActions     []action.Action
	LastSyncedActionID string
	Err                string
}

// ConflictResolution is the payload of conflict_resolved events.
type ConflictResolution struct {
	Incoming action.Action
	Pending  action.Action
	Resolved action.Action
	Decision string
	Reasons  []string
}

// ParticipantChange is the payload of participant lifecycle events.
type ParticipantChange struct {
	Participant session.Participant
	Reason      string
}

// Engine is the collaboration core. All exported methods are safe for
// concurrent use; internally a single writer lock guards the session's
// maps and the pending queue.
type Engine struct {
	mu       sync.RWMutex
	cfg      Config
	store    *storage.Adapter
	bus      *events.Bus
	resolver resolve.Resolver
	log      *logging.Logger

	sess         *session.Session
	localID      string
	conn         session.ConnectionState
	pending      []action.Action
	lastSyncedID string
	lastErr      string

	cursorStop chan struct{}
	closed     bool
}

// New constructs an engine backed by the given store, restoring any
// previously persisted state. A corrupt or unreadable store degrades to
// an empty state rather than failing construction; the only construction
// error is an invalid configuration.
func New(store storage.Store, cfg *Config) (*Engine, error) {
	c := cfg.withDefaults()

	resolver, err := resolve.NewResolver(c.ConflictPolicy)
	if err != nil {
		return nil, err
	}

	log := c.Logger
	if log == nil {
		log = logging.Discard()
	}

	adapter := storage.NewAdapter(store, log)

	e := &Engine{
		cfg:      *c,
		store:    adapter,
		bus:      events.NewBus(),
		resolver: resolver,
		log:      log.WithComponent("engine"),
		conn:     session.Disconnected,
	}
	e.restore()
	return e, nil
}

// restore loads the three persisted records, each degrading independently.
func (e *Engine) restore() {
	ctx := context.Background()
	e.sess = e.store.LoadSession(ctx)
	e.localID = e.store.LoadParticipantID(ctx)
	e.pending = e.store.LoadPending(ctx)

	// A participant id or pending queue without a session is stale
	// residue from a crash mid-clear; drop it.
	if e.sess == nil {
		e.localID = ""
		e.pending = nil
	}

	// A queue persisted under a larger bound is trimmed oldest-first so
	// the configured maximum holds from the first call on.
	if max := e.cfg.MaxPendingActions; max > 0 && len(e.pending) > max {
		over := len(e.pending) - max
		e.pending = append(e.pending[:0:0], e.pending[over:]...)
	}
}

// Subscribe registers a handler for one event type and returns a cancel
// function.
func (e *Engine) Subscribe(t events.Type, h events.Handler) (cancel func()) {
	return e.bus.Subscribe(t, h)
}

// SetConnectionState records the transport collaborator's link state and
// notifies observers.
func (e *Engine) SetConnectionState(cs session.ConnectionState) {
	var err error
	defer e.rescue(errors.OpSetConnection, &err)

	var evs []events.Event
	defer func() { e.emitAll(evs) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.conn != cs {
		evs = append(evs, events.Event{Type: events.ConnectionChanged, Payload: cs})
	}
	e.conn = cs
}

// ConnectionState returns the current link state.
func (e *Engine) ConnectionState() session.ConnectionState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.conn
}

// Session returns a deep copy of the active session, or nil.
func (e *Engine) Session() *session.Session {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sess.Clone()
}

// Participants returns the session members ordered by join time.
func (e *Engine) Participants() []*session.Participant {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.sess == nil {
		return nil
	}
	out := make([]*session.Participant, 0, len(e.sess.Participants))
	for _, p := range e.sess.Participants {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// LocalParticipant returns a copy of the local participant, or nil.
func (e *Engine) LocalParticipant() *session.Participant {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.sess == nil {
		return nil
	}
	return e.sess.Participants[e.localID].Clone()
}

// Cubes returns a deep copy of the document's cube map.
func (e *Engine) Cubes() map[string]*session.Cube {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.sess == nil {
		return nil
	}
	out := make(map[string]*session.Cube, len(e.sess.Cubes))
	for id, c := range e.sess.Cubes {
		out[id] = c.Clone()
	}
	return out
}

// Cube returns a deep copy of one cube.
func (e *Engine) Cube(id string) (*session.Cube, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.sess == nil {
		return nil, false
	}
	c, ok := e.sess.Cubes[id]
	if !ok {
		return nil, false
	}
	return c.Clone(), true
}

// PendingActions returns copies of the not-yet-synchronized actions in
// queue order. This is the outward-transmission surface for the transport
// collaborator.
func (e *Engine) PendingActions() []action.Action {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]action.Action, len(e.pending))
	for i, a := range e.pending {
		out[i] = a.Clone()
	}
	return out
}

// GetState returns a snapshot of the whole engine state.
func (e *Engine) GetState() State {
	e.mu.RLock()
	defer e.mu.RUnlock()

	st := State{
		Session:            e.sess.Clone(),
		LocalParticipantID: e.localID,
		Connection:         e.conn,
		LastSyncedActionID: e.lastSyncedID,
		Err:                e.lastErr,
	}
	st.PendingActions = make([]action.Action, len(e.pending))
	for i, a := range e.pending {
		st.PendingActions[i] = a.Clone()
	}
	return st
}

// Close stops the cursor broadcaster, drops every subscription, and
// closes the storage backend. Idempotent.
func (e *Engine) Close() (err error) {
	defer e.rescue(errors.OpClose, &err)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	e.stopCursorLocked()

	e.bus.Close()
	if cerr := e.store.Close(); cerr != nil {
		return errors.NewWithComponent(errors.OpClose, "storage", errors.KindStorageFailure, cerr)
	}
	return nil
}

// emitAll delivers collected events after the engine lock is released so
// a handler reading engine state cannot deadlock.
func (e *Engine) emitAll(evs []events.Event) {
	for _, ev := range evs {
		e.bus.Emit(ev)
	}
}

// rescue converts a panic that escaped an operation into a failure
// result; an uncaught exception must never abort the editing session.
// Every operation registers it before taking the engine lock, and the
// deferred unlock runs first, so the engine stays usable afterwards.
func (e *Engine) rescue(op errors.Operation, errp *error) {
	if r := recover(); r != nil {
		*errp = e.recordPanic(op, r)
	}
}

// rescueBool is rescue for the bool-returning registry operations, which
// report a recovered panic as a rejection.
func (e *Engine) rescueBool(op errors.Operation, okp *bool) {
	if r := recover(); r != nil {
		e.recordPanic(op, r)
		*okp = false
	}
}

func (e *Engine) recordPanic(op errors.Operation, r any) error {
	err := errors.NewKind(op, errors.KindInternal, fmt.Errorf("panic: %v", r))
	e.log.LogError(context.Background(), err, "operation panicked")
	e.mu.Lock()
	e.lastErr = err.Error()
	e.mu.Unlock()
	e.bus.Emit(events.Event{Type: events.EngineError, Payload: err})
	return err
}
