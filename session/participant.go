package session

import "time"

// Role expresses what a participant may do inside a session.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Op is a permission-gated operation.
type Op string

const (
	OpView               Op = "view"
	OpEditCubes          Op = "edit_cubes"
	OpUpdateSettings     Op = "update_settings"
	OpManageParticipants Op = "manage_participants"
)

// Can reports whether a role is allowed to perform the operation.
func Can(role Role, op Op) bool {
	switch role {
	case RoleOwner:
		return true
	case RoleEditor:
		return op == OpView || op == OpEditCubes
	case RoleViewer:
		return op == OpView
	default:
		return false
	}
}

// NormalizeRole maps arbitrary input to a valid role, defaulting to viewer.
func NormalizeRole(role string) Role {
	switch Role(role) {
	case RoleOwner, RoleEditor, RoleViewer:
		return Role(role)
	default:
		return RoleViewer
	}
}

// Status is a participant's presence state.
type Status string

const (
	StatusOnline  Status = "online"
	StatusAway    Status = "away"
	StatusOffline Status = "offline"
)

// ConnectionState describes the engine's link to the rest of the session.
type ConnectionState string

const (
	Disconnected ConnectionState = "disconnected"
	Connecting   ConnectionState = "connecting"
	Connected    ConnectionState = "connected"
	ConnError    ConnectionState = "error"
)

// Position is a cursor location on the editing surface.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Cursor is a participant's pointer state. SelectedCubeID is empty when
// nothing is selected.
type Cursor struct {
	Position       Position `json:"position"`
	SelectedCubeID string   `json:"selectedCubeId,omitempty"`
}

// Participant is one session member.
type Participant struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Color        string    `json:"color"`
	Role         Role      `json:"role"`
	Status       Status    `json:"status"`
	JoinedAt     time.Time `json:"joinedAt"`
	LastActiveAt time.Time `json:"lastActiveAt"`
	Cursor       *Cursor   `json:"cursor,omitempty"`
}

// Clone returns a deep copy of the participant.
func (p *Participant) Clone() *Participant {
	if p == nil {
		return nil
	}
	cp := *p
	if p.Cursor != nil {
		cur := *p.Cursor
		cp.Cursor = &cur
	}
	return &cp
}

// palette holds the colors assigned to participants for UI disambiguation.
var palette = []string{
	"#e6194b", "#3cb44b", "#4363d8", "#f58231", "#911eb4",
	"#46f0f0", "#f032e6", "#bcf60c", "#fabebe", "#008080",
}

// ColorFor picks a stable color for the nth participant to join.
func ColorFor(n int) string {
	if n < 0 {
		n = -n
	}
	return palette[n%len(palette)]
}
