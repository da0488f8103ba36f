package collab

import (
	"context"
	"fmt"

	"github.com/cubeforge/collab/action"
	"github.com/cubeforge/collab/errors"
	"github.com/cubeforge/collab/events"
	"github.com/cubeforge/collab/resolve"
	"github.com/cubeforge/collab/session"
)

// Apply runs a locally originated action through the optimistic path: the
// action mutates the replica immediately and, when it modifies a shared
// cube, joins the pending queue for outward transmission. The returned
// bool reports whether the action changed any state; an update against a
// missing cube succeeds without applying and is neither queued nor
// announced.
func (e *Engine) Apply(ctx context.Context, a action.Action) (applied action.Action, mutated bool, err error) {
	defer e.rescue(errors.OpApply, &err)

	// Events collected under the lock are delivered once it is released
	// so a handler reading engine state cannot deadlock.
	var evs []events.Event
	defer func() { e.emitAll(evs) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return action.Action{}, false, errors.NewKind(errors.OpApply, errors.KindEngineClosed, fmt.Errorf("engine is closed"))
	}
	if e.sess == nil {
		return action.Action{}, false, errors.NotInSession(errors.OpApply)
	}
	if a.Payload == nil || a.Payload.Kind() != a.Type {
		return action.Action{}, false, errors.NewKind(errors.OpApply, errors.KindInvalidAction,
			fmt.Errorf("payload does not match action type %q", a.Type))
	}

	mutated, evs = e.processAction(ctx, a)
	if mutated && a.ModifiesDocument() {
		// The queue owns its copy; the caller keeps the original.
		e.enqueuePending(a.Clone())
	}
	e.persistAll(ctx)
	if mutated {
		evs = append(evs, events.Event{Type: events.ActionApplied, Payload: a.Clone()})
	}
	return a, mutated, nil
}

// Receive runs a remotely originated action through conflict detection
// against the pending queue and applies the resolved action. The resolved
// action's id becomes the last-synced marker.
func (e *Engine) Receive(ctx context.Context, a action.Action) (applied action.Action, err error) {
	defer e.rescue(errors.OpReceive, &err)

	var evs []events.Event
	defer func() { e.emitAll(evs) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return action.Action{}, errors.NewKind(errors.OpReceive, errors.KindEngineClosed, fmt.Errorf("engine is closed"))
	}
	if e.sess == nil {
		return action.Action{}, errors.NotInSession(errors.OpReceive)
	}
	if a.Payload == nil || a.Payload.Kind() != a.Type {
		return action.Action{}, errors.NewKind(errors.OpReceive, errors.KindInvalidAction,
			fmt.Errorf("payload does not match action type %q", a.Type))
	}

	evs = append(evs, events.Event{Type: events.ActionReceived, Payload: a.Clone()})

	resolved := a
	if i, ok := resolve.Detect(a, e.pending); ok {
		out, rerr := e.resolver.Resolve(resolve.Conflict{Incoming: a, Pending: e.pending[i]})
		if rerr != nil {
			return action.Action{}, errors.WrapKind(rerr, errors.OpResolve, "resolver", errors.KindInternal)
		}
		evs = append(evs, events.Event{Type: events.ConflictResolved, Payload: ConflictResolution{
			Incoming: a.Clone(),
			Pending:  e.pending[i].Clone(),
			Resolved: out.Resolved.Clone(),
			Decision: out.Decision,
			Reasons:  out.Reasons,
		}})
		if out.DiscardPending {
			e.pending = append(e.pending[:i], e.pending[i+1:]...)
		}
		resolved = out.Resolved
	}

	mutated, pevs := e.processAction(ctx, resolved)
	evs = append(evs, pevs...)
	e.lastSyncedID = resolved.ID
	e.persistAll(ctx)
	if mutated {
		evs = append(evs, events.Event{Type: events.ActionApplied, Payload: resolved.Clone()})
	}
	return resolved, nil
}

// LastSyncedActionID returns the id of the most recently reconciled
// remote action.
func (e *Engine) LastSyncedActionID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastSyncedID
}

// enqueuePending appends under the configured bound, evicting the oldest
// entry first. Caller holds the write lock.
func (e *Engine) enqueuePending(a action.Action) {
	e.pending = append(e.pending, a)
	if max := e.cfg.MaxPendingActions; max > 0 && len(e.pending) > max {
		over := len(e.pending) - max
		e.pending = append(e.pending[:0:0], e.pending[over:]...)
	}
}

// processAction is the state machine over the nine action kinds. It
// mutates the session in place, stamps ModifiedAt, and returns the
// lifecycle events the mutation implies. Caller holds the write lock and
// has verified an active session.
func (e *Engine) processAction(ctx context.Context, a action.Action) (bool, []events.Event) {
	applied := true
	var evs []events.Event

	switch p := a.Payload.(type) {
	case *action.CubeCreate:
		cube := p.Cube.Clone()
		if cube.CreatedAt.IsZero() {
			cube.CreatedAt = a.Timestamp
		}
		cube.ModifiedAt = a.Timestamp
		e.sess.Cubes[cube.ID] = cube

	case *action.CubeUpdate:
		c, ok := e.sess.Cubes[p.CubeID]
		if !ok {
			// Tolerated: the target may have been deleted by an
			// action that arrived first.
			e.log.DebugContext(ctx, "update target missing, ignoring",
				"cube_id", p.CubeID, "action_id", a.ID)
			applied = false
			break
		}
		c.Merge(p.Changes, a.Timestamp)

	case *action.CubeDelete:
		delete(e.sess.Cubes, p.CubeID)

	case *action.CubeSelect:
		pt, ok := e.sess.Participants[a.ParticipantID]
		if !ok {
			applied = false
			break
		}
		if pt.Cursor == nil {
			pt.Cursor = &session.Cursor{}
		}
		pt.Cursor.SelectedCubeID = p.CubeID
		pt.LastActiveAt = a.Timestamp

	case *action.CursorMove:
		pt, ok := e.sess.Participants[a.ParticipantID]
		if !ok {
			applied = false
			break
		}
		cur := p.Cursor
		pt.Cursor = &cur
		pt.LastActiveAt = a.Timestamp

	case *action.ParticipantJoin:
		joined := p.Participant.Clone()
		e.sess.Participants[joined.ID] = joined
		evs = append(evs, events.Event{Type: events.ParticipantJoined,
			Payload: ParticipantChange{Participant: *joined.Clone()}})

	case *action.ParticipantLeave:
		pt, ok := e.sess.Participants[p.ParticipantID]
		if !ok {
			applied = false
			break
		}
		delete(e.sess.Participants, p.ParticipantID)
		evs = append(evs, events.Event{Type: events.ParticipantLeft,
			Payload: ParticipantChange{Participant: *pt.Clone(), Reason: p.Reason}})

	case *action.ParticipantUpdate:
		pt, ok := e.sess.Participants[p.ParticipantID]
		if !ok {
			applied = false
			break
		}
		if p.Status != nil {
			pt.Status = *p.Status
		}
		if p.Role != nil {
			pt.Role = *p.Role
		}
		pt.LastActiveAt = a.Timestamp
		evs = append(evs, events.Event{Type: events.ParticipantUpdated,
			Payload: ParticipantChange{Participant: *pt.Clone()}})

	case *action.SettingsUpdate:
		e.sess.Settings.Apply(p.Changes)
		evs = append(evs, events.Event{Type: events.SessionUpdated, Payload: e.sess.Clone()})

	default:
		e.log.DebugContext(ctx, "unhandled action type", "type", string(a.Type))
		applied = false
	}

	if applied {
		e.sess.ModifiedAt = a.Timestamp
	}
	return applied, evs
}

// persistAll writes the session and pending queue. Write failures degrade
// inside the adapter. Caller holds the write lock.
func (e *Engine) persistAll(ctx context.Context) {
	e.store.SaveSession(ctx, e.sess)
	e.store.SavePending(ctx, e.pending)
}
