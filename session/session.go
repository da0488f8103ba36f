// Package session defines the shared editing context: the session itself,
// its participants, and the cube objects being edited. The types here are
// plain data; all mutation goes through the engine's action pipeline.
package session

import (
	"maps"
	"time"
)

// Settings configures how a session admits and limits participants.
type Settings struct {
	Name string `json:"name"`

	// MaxParticipants caps the session size. Zero or negative means
	// unlimited.
	MaxParticipants int `json:"maxParticipants"`

	// Open sessions accept joins; closed sessions reject them.
	Open bool `json:"open"`

	AllowAnonymous bool `json:"allowAnonymous"`
}

// SettingsPatch is a partial settings update. Nil fields are left
// untouched.
type SettingsPatch struct {
	Name            *string `json:"name,omitempty"`
	MaxParticipants *int    `json:"maxParticipants,omitempty"`
	Open            *bool   `json:"open,omitempty"`
	AllowAnonymous  *bool   `json:"allowAnonymous,omitempty"`
}

// Apply merges the patch into the settings.
func (s *Settings) Apply(patch SettingsPatch) {
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.MaxParticipants != nil {
		s.MaxParticipants = *patch.MaxParticipants
	}
	if patch.Open != nil {
		s.Open = *patch.Open
	}
	if patch.AllowAnonymous != nil {
		s.AllowAnonymous = *patch.AllowAnonymous
	}
}

// Cube is one procedurally-defined document object. Its visual parameters
// live in Params as an open key set so the engine stays agnostic of the
// renderer's vocabulary.
type Cube struct {
	ID         string         `json:"id"`
	CreatedBy  string         `json:"createdBy,omitempty"`
	Params     map[string]any `json:"params,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	ModifiedAt time.Time      `json:"modifiedAt"`
}

// Merge shallow-merges a changeset into the cube's parameters.
func (c *Cube) Merge(changes map[string]any, at time.Time) {
	if len(changes) == 0 {
		return
	}
	if c.Params == nil {
		c.Params = make(map[string]any, len(changes))
	}
	maps.Copy(c.Params, changes)
	c.ModifiedAt = at
}

// Clone returns a deep copy of the cube.
func (c *Cube) Clone() *Cube {
	if c == nil {
		return nil
	}
	cp := *c
	if c.Params != nil {
		cp.Params = maps.Clone(c.Params)
	}
	return &cp
}

// Session is a shared editing context identified by an id and a
// human-shareable join code.
type Session struct {
	ID           string                  `json:"id"`
	Code         string                  `json:"code"`
	Settings     Settings                `json:"settings"`
	OwnerID      string                  `json:"ownerId"`
	Participants map[string]*Participant `json:"participants"`
	Cubes        map[string]*Cube        `json:"cubes"`
	CreatedAt    time.Time               `json:"createdAt"`
	ModifiedAt   time.Time               `json:"modifiedAt"`
}

// Owner returns the owning participant, or nil if absent.
func (s *Session) Owner() *Participant {
	if s == nil {
		return nil
	}
	return s.Participants[s.OwnerID]
}

// Full reports whether the session has reached its participant cap.
func (s *Session) Full() bool {
	if s.Settings.MaxParticipants <= 0 {
		return false
	}
	return len(s.Participants) >= s.Settings.MaxParticipants
}

// Clone returns a deep copy of the session, including its participant and
// cube maps. Callers outside the engine only ever see clones.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Participants = make(map[string]*Participant, len(s.Participants))
	for id, p := range s.Participants {
		cp.Participants[id] = p.Clone()
	}
	cp.Cubes = make(map[string]*Cube, len(s.Cubes))
	for id, c := range s.Cubes {
		cp.Cubes[id] = c.Clone()
	}
	return &cp
}
