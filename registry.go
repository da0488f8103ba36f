package collab

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cubeforge/collab/action"
	"github.com/cubeforge/collab/errors"
	"github.com/cubeforge/collab/events"
	"github.com/cubeforge/collab/session"
)

// fallbackName is assigned when a participant joins without a name and
// the session allows anonymous members.
const fallbackName = "Anonymous"

// CreateSession starts a new session owned by the calling participant,
// replacing any active session and clearing the pending queue. The
// settings override is applied on top of the engine defaults.
func (e *Engine) CreateSession(ctx context.Context, participantName string, override *session.SettingsPatch) (s *session.Session, err error) {
	defer e.rescue(errors.OpCreateSession, &err)

	var evs []events.Event
	defer func() { e.emitAll(evs) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, errors.NewKind(errors.OpCreateSession, errors.KindEngineClosed, fmt.Errorf("engine is closed"))
	}

	now := time.Now().UTC()
	name := strings.TrimSpace(participantName)
	if name == "" {
		name = fallbackName
	}

	owner := &session.Participant{
		ID:           action.NewParticipantID(),
		Name:         name,
		Color:        session.ColorFor(0),
		Role:         session.RoleOwner,
		Status:       session.StatusOnline,
		JoinedAt:     now,
		LastActiveAt: now,
	}

	settings := session.Settings{
		Name:            fmt.Sprintf("%s's session", name),
		MaxParticipants: e.cfg.DefaultMaxParticipants,
		Open:            true,
		AllowAnonymous:  true,
	}
	if override != nil {
		settings.Apply(*override)
	}

	e.stopCursorLocked()
	e.sess = &session.Session{
		ID:           action.NewSessionID(),
		Code:         action.NewJoinCode(),
		Settings:     settings,
		OwnerID:      owner.ID,
		Participants: map[string]*session.Participant{owner.ID: owner},
		Cubes:        map[string]*session.Cube{},
		CreatedAt:    now,
		ModifiedAt:   now,
	}
	e.localID = owner.ID
	e.pending = nil
	e.lastSyncedID = ""
	e.lastErr = ""

	e.persistAll(ctx)
	e.store.SaveParticipantID(ctx, e.localID)

	s = e.sess.Clone()
	evs = append(evs, events.Event{Type: events.SessionCreated, Payload: e.sess.Clone()})
	return s, nil
}

// JoinSession adopts a session snapshot obtained out of band and adds the
// caller as an editor. The join is announced through a participant_join
// action so observers on every replica see the same transition.
func (e *Engine) JoinSession(ctx context.Context, code, participantName string, snapshot *session.Session) (s *session.Session, p *session.Participant, err error) {
	defer e.rescue(errors.OpJoinSession, &err)

	var evs []events.Event
	defer func() { e.emitAll(evs) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, nil, errors.NewKind(errors.OpJoinSession, errors.KindEngineClosed, fmt.Errorf("engine is closed"))
	}
	if snapshot == nil {
		return nil, nil, errors.NotFound(errors.OpJoinSession, "session snapshot")
	}
	if !strings.EqualFold(strings.TrimSpace(code), snapshot.Code) {
		return nil, nil, errors.NewKind(errors.OpJoinSession, errors.KindInvalidCode,
			fmt.Errorf("join code does not match session %s", snapshot.ID))
	}
	if !snapshot.Settings.Open {
		return nil, nil, errors.NewKind(errors.OpJoinSession, errors.KindSessionClosed,
			fmt.Errorf("session %s is not accepting joins", snapshot.ID))
	}
	if snapshot.Full() {
		return nil, nil, errors.NewKind(errors.OpJoinSession, errors.KindSessionFull,
			fmt.Errorf("session %s is at its participant limit", snapshot.ID))
	}

	name := strings.TrimSpace(participantName)
	if name == "" {
		if !snapshot.Settings.AllowAnonymous {
			return nil, nil, errors.NewKind(errors.OpJoinSession, errors.KindInvalidAction,
				fmt.Errorf("session %s requires a participant name", snapshot.ID))
		}
		name = fallbackName
	}

	now := time.Now().UTC()
	joiner := session.Participant{
		ID:           action.NewParticipantID(),
		Name:         name,
		Color:        session.ColorFor(len(snapshot.Participants)),
		Role:         session.RoleEditor,
		Status:       session.StatusOnline,
		JoinedAt:     now,
		LastActiveAt: now,
	}

	e.stopCursorLocked()
	e.sess = snapshot.Clone()
	e.localID = joiner.ID
	e.pending = nil
	e.lastSyncedID = ""
	e.lastErr = ""

	join := action.New(action.TypeParticipantJoin, joiner.ID, e.sess.ID,
		&action.ParticipantJoin{Participant: joiner})
	_, joinEvs := e.processAction(ctx, join)

	e.persistAll(ctx)
	e.store.SaveParticipantID(ctx, e.localID)

	s = e.sess.Clone()
	p = joiner.Clone()

	evs = append(evs, events.Event{Type: events.SessionJoined, Payload: e.sess.Clone()})
	evs = append(evs, joinEvs...)
	evs = append(evs, events.Event{Type: events.ActionApplied, Payload: join.Clone()})
	return s, p, nil
}

// LeaveSession announces the local participant's departure, stops the
// cursor broadcaster, and clears all local and persisted state. Calling
// with no active session is a no-op.
func (e *Engine) LeaveSession(ctx context.Context) (err error) {
	defer e.rescue(errors.OpLeaveSession, &err)

	var evs []events.Event
	defer func() { e.emitAll(evs) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return errors.NewKind(errors.OpLeaveSession, errors.KindEngineClosed, fmt.Errorf("engine is closed"))
	}
	if e.sess == nil {
		return nil
	}

	e.stopCursorLocked()

	leave := action.New(action.TypeParticipantLeave, e.localID, e.sess.ID,
		&action.ParticipantLeave{ParticipantID: e.localID, Reason: action.LeaveReasonLeft})
	_, evs = e.processAction(ctx, leave)

	sessionID := e.sess.ID
	e.sess = nil
	e.localID = ""
	e.pending = nil
	e.lastSyncedID = ""
	e.lastErr = ""
	e.store.Clear(ctx)

	evs = append(evs, events.Event{Type: events.SessionLeft, Payload: sessionID})
	return nil
}

// UpdateSessionSettings applies a partial settings update. Only the owner
// may change settings.
func (e *Engine) UpdateSessionSettings(ctx context.Context, patch session.SettingsPatch) (err error) {
	defer e.rescue(errors.OpUpdateSettings, &err)

	var evs []events.Event
	defer func() { e.emitAll(evs) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return errors.NewKind(errors.OpUpdateSettings, errors.KindEngineClosed, fmt.Errorf("engine is closed"))
	}
	if e.sess == nil {
		return errors.NotInSession(errors.OpUpdateSettings)
	}
	local, ok := e.sess.Participants[e.localID]
	if !ok || !session.Can(local.Role, session.OpUpdateSettings) {
		role := ""
		if ok {
			role = string(local.Role)
		}
		return errors.PermissionDenied(errors.OpUpdateSettings, role)
	}

	a := action.New(action.TypeSettingsUpdate, e.localID, e.sess.ID,
		&action.SettingsUpdate{Changes: patch})
	_, evs = e.processAction(ctx, a)
	e.persistAll(ctx)
	evs = append(evs, events.Event{Type: events.ActionApplied, Payload: a.Clone()})
	return nil
}

// UpdateParticipantRole reassigns a member's role. Only the owner may
// call it, the owner's own role can never be reassigned, and no member
// can be promoted to owner through this path. Returns false on any
// rejection.
func (e *Engine) UpdateParticipantRole(ctx context.Context, participantID string, role session.Role) (ok bool) {
	defer e.rescueBool(errors.OpUpdateRole, &ok)

	var evs []events.Event
	defer func() { e.emitAll(evs) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.sess == nil {
		return false
	}
	local, present := e.sess.Participants[e.localID]
	if !present || !session.Can(local.Role, session.OpManageParticipants) {
		return false
	}
	if participantID == e.sess.OwnerID || role == session.RoleOwner {
		return false
	}
	if role != session.RoleEditor && role != session.RoleViewer {
		return false
	}
	if _, present := e.sess.Participants[participantID]; !present {
		return false
	}

	r := role
	a := action.New(action.TypeParticipantUpdate, e.localID, e.sess.ID,
		&action.ParticipantUpdate{ParticipantID: participantID, Role: &r})
	_, evs = e.processAction(ctx, a)
	e.persistAll(ctx)
	evs = append(evs, events.Event{Type: events.ActionApplied, Payload: a.Clone()})
	return true
}

// KickParticipant removes a member from the session. Only the owner may
// call it and the owner can never be kicked. Returns false on any
// rejection.
func (e *Engine) KickParticipant(ctx context.Context, participantID string) (ok bool) {
	defer e.rescueBool(errors.OpKick, &ok)

	var evs []events.Event
	defer func() { e.emitAll(evs) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed || e.sess == nil {
		return false
	}
	local, present := e.sess.Participants[e.localID]
	if !present || !session.Can(local.Role, session.OpManageParticipants) {
		return false
	}
	if participantID == e.sess.OwnerID {
		return false
	}
	if _, present := e.sess.Participants[participantID]; !present {
		return false
	}

	a := action.New(action.TypeParticipantLeave, e.localID, e.sess.ID,
		&action.ParticipantLeave{ParticipantID: participantID, Reason: action.LeaveReasonKicked})
	_, evs = e.processAction(ctx, a)
	e.persistAll(ctx)
	evs = append(evs, events.Event{Type: events.ActionApplied, Payload: a.Clone()})
	return true
}

// UpdateStatus records the local participant's presence status and
// replicates it through a participant_update action.
func (e *Engine) UpdateStatus(ctx context.Context, status session.Status) (err error) {
	defer e.rescue(errors.OpApply, &err)

	var evs []events.Event
	defer func() { e.emitAll(evs) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return errors.NewKind(errors.OpApply, errors.KindEngineClosed, fmt.Errorf("engine is closed"))
	}
	if e.sess == nil {
		return errors.NotInSession(errors.OpApply)
	}
	if _, ok := e.sess.Participants[e.localID]; !ok {
		return errors.NotFound(errors.OpApply, e.localID)
	}

	st := status
	a := action.New(action.TypeParticipantUpdate, e.localID, e.sess.ID,
		&action.ParticipantUpdate{ParticipantID: e.localID, Status: &st})
	_, evs = e.processAction(ctx, a)
	e.persistAll(ctx)
	evs = append(evs, events.Event{Type: events.ActionApplied, Payload: a.Clone()})
	return nil
}
