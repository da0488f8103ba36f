// Package action defines the immutable, typed edit records that are the
// sole unit of mutation for a collaborative session, together with their
// JSON wire form and identifier generators.
package action

import "time"

// Type discriminates the closed set of action kinds.
type Type string

const (
	TypeCubeCreate        Type = "cube_create"
	TypeCubeUpdate        Type = "cube_update"
	TypeCubeDelete        Type = "cube_delete"
	TypeCubeSelect        Type = "cube_select"
	TypeCursorMove        Type = "cursor_move"
	TypeParticipantJoin   Type = "participant_join"
	TypeParticipantLeave  Type = "participant_leave"
	TypeParticipantUpdate Type = "participant_update"
	TypeSettingsUpdate    Type = "session_settings_update"
)

// Types lists every action kind.
var Types = []Type{
	TypeCubeCreate,
	TypeCubeUpdate,
	TypeCubeDelete,
	TypeCubeSelect,
	TypeCursorMove,
	TypeParticipantJoin,
	TypeParticipantLeave,
	TypeParticipantUpdate,
	TypeSettingsUpdate,
}

// Action is one immutable edit or lifecycle record. Actions are created by
// the builders in this package and never modified afterwards.
type Action struct {
	ID            string    `json:"id"`
	Type          Type      `json:"type"`
	ParticipantID string    `json:"participantId"`
	SessionID     string    `json:"sessionId"`
	Timestamp     time.Time `json:"timestamp"`
	Payload       Payload   `json:"payload"`
}

// New builds an action with a fresh id and a UTC timestamp. The payload's
// kind must match t; mismatches surface at marshal time.
func New(t Type, participantID, sessionID string, p Payload) Action {
	return Action{
		ID:            NewID(),
		Type:          t,
		ParticipantID: participantID,
		SessionID:     sessionID,
		Timestamp:     time.Now().UTC(),
		Payload:       p,
	}
}

// ModifiesDocument reports whether the action mutates a shared cube
// object. Only these actions enter the pending queue and participate in
// conflict detection.
func (a Action) ModifiesDocument() bool {
	switch a.Type {
	case TypeCubeCreate, TypeCubeUpdate, TypeCubeDelete:
		return true
	default:
		return false
	}
}

// TargetCubeID returns the id of the cube the action operates on, if any.
func (a Action) TargetCubeID() (string, bool) {
	switch p := a.Payload.(type) {
	case *CubeCreate:
		return p.Cube.ID, true
	case *CubeUpdate:
		return p.CubeID, true
	case *CubeDelete:
		return p.CubeID, true
	case *CubeSelect:
		if p.CubeID == "" {
			return "", false
		}
		return p.CubeID, true
	default:
		return "", false
	}
}

// Clone returns a deep copy of the action. Needed wherever an action is
// handed across the engine boundary.
func (a Action) Clone() Action {
	cp := a
	if a.Payload != nil {
		cp.Payload = a.Payload.clone()
	}
	return cp
}
