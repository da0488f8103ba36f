package action

import (
	"maps"

	"github.com/cubeforge/collab/session"
)

// Payload is the type-specific body of an action. Each implementation
// reports the action kind it belongs to and knows how to deep-copy itself.
type Payload interface {
	Kind() Type
	clone() Payload
}

// CubeCreate inserts a new cube into the document.
type CubeCreate struct {
	Cube session.Cube `json:"cube"`
}

func (p *CubeCreate) Kind() Type { return TypeCubeCreate }

func (p *CubeCreate) clone() Payload {
	cp := *p
	cp.Cube = *p.Cube.Clone()
	return &cp
}

// CubeUpdate shallow-merges Changes into an existing cube's parameters.
type CubeUpdate struct {
	CubeID  string         `json:"cubeId"`
	Changes map[string]any `json:"changes"`
}

func (p *CubeUpdate) Kind() Type { return TypeCubeUpdate }

func (p *CubeUpdate) clone() Payload {
	cp := *p
	if p.Changes != nil {
		cp.Changes = maps.Clone(p.Changes)
	}
	return &cp
}

// CubeDelete removes a cube from the document.
type CubeDelete struct {
	CubeID string `json:"cubeId"`
}

func (p *CubeDelete) Kind() Type { return TypeCubeDelete }

func (p *CubeDelete) clone() Payload {
	cp := *p
	return &cp
}

// CubeSelect records which cube the acting participant has selected. An
// empty CubeID clears the selection.
type CubeSelect struct {
	CubeID string `json:"cubeId,omitempty"`
}

func (p *CubeSelect) Kind() Type { return TypeCubeSelect }

func (p *CubeSelect) clone() Payload {
	cp := *p
	return &cp
}

// CursorMove updates the acting participant's cursor.
type CursorMove struct {
	Cursor session.Cursor `json:"cursor"`
}

func (p *CursorMove) Kind() Type { return TypeCursorMove }

func (p *CursorMove) clone() Payload {
	cp := *p
	return &cp
}

// ParticipantJoin adds a participant to the session.
type ParticipantJoin struct {
	Participant session.Participant `json:"participant"`
}

func (p *ParticipantJoin) Kind() Type { return TypeParticipantJoin }

func (p *ParticipantJoin) clone() Payload {
	cp := *p
	cp.Participant = *p.Participant.Clone()
	return &cp
}

// Leave reasons carried by ParticipantLeave.
const (
	LeaveReasonLeft   = "left"
	LeaveReasonKicked = "kicked"
)

// ParticipantLeave removes a participant from the session.
type ParticipantLeave struct {
	ParticipantID string `json:"participantId"`
	Reason        string `json:"reason,omitempty"`
}

func (p *ParticipantLeave) Kind() Type { return TypeParticipantLeave }

func (p *ParticipantLeave) clone() Payload {
	cp := *p
	return &cp
}

// ParticipantUpdate mutates a participant's presence status or role. Nil
// fields are left untouched.
type ParticipantUpdate struct {
	ParticipantID string          `json:"participantId"`
	Status        *session.Status `json:"status,omitempty"`
	Role          *session.Role   `json:"role,omitempty"`
}

func (p *ParticipantUpdate) Kind() Type { return TypeParticipantUpdate }

func (p *ParticipantUpdate) clone() Payload {
	cp := *p
	if p.Status != nil {
		s := *p.Status
		cp.Status = &s
	}
	if p.Role != nil {
		r := *p.Role
		cp.Role = &r
	}
	return &cp
}

// SettingsUpdate shallow-merges a patch into the session settings.
type SettingsUpdate struct {
	Changes session.SettingsPatch `json:"changes"`
}

func (p *SettingsUpdate) Kind() Type { return TypeSettingsUpdate }

func (p *SettingsUpdate) clone() Payload {
	cp := *p
	cp.Changes = clonePatch(p.Changes)
	return &cp
}

func clonePatch(in session.SettingsPatch) session.SettingsPatch {
	out := session.SettingsPatch{}
	if in.Name != nil {
		v := *in.Name
		out.Name = &v
	}
	if in.MaxParticipants != nil {
		v := *in.MaxParticipants
		out.MaxParticipants = &v
	}
	if in.Open != nil {
		v := *in.Open
		out.Open = &v
	}
	if in.AllowAnonymous != nil {
		v := *in.AllowAnonymous
		out.AllowAnonymous = &v
	}
	return out
}
