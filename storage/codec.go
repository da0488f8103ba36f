package storage

import (
	"encoding/json"
	"time"

	"github.com/cubeforge/collab/action"
	"github.com/cubeforge/collab/session"
)

// persistedSession is the storable shape of a session: the participant and
// cube maps are flattened to entry arrays so the blob stays stable across
// backends that have no native map ordering.
type persistedSession struct {
	ID           string                `json:"id"`
	Code         string                `json:"code"`
	Settings     session.Settings      `json:"settings"`
	OwnerID      string                `json:"ownerId"`
	Participants []session.Participant `json:"participants"`
	Cubes        []session.Cube        `json:"cubes"`
	CreatedAt    time.Time             `json:"createdAt"`
	ModifiedAt   time.Time             `json:"modifiedAt"`
}

// EncodeSession serializes a session with its maps flattened.
func EncodeSession(s *session.Session) ([]byte, error) {
	ps := persistedSession{
		ID:         s.ID,
		Code:       s.Code,
		Settings:   s.Settings,
		OwnerID:    s.OwnerID,
		CreatedAt:  s.CreatedAt,
		ModifiedAt: s.ModifiedAt,
	}
	ps.Participants = make([]session.Participant, 0, len(s.Participants))
	for _, p := range s.Participants {
		ps.Participants = append(ps.Participants, *p.Clone())
	}
	ps.Cubes = make([]session.Cube, 0, len(s.Cubes))
	for _, c := range s.Cubes {
		ps.Cubes = append(ps.Cubes, *c.Clone())
	}
	return json.Marshal(ps)
}

// DecodeSession reverses EncodeSession, rebuilding the keyed maps.
func DecodeSession(data []byte) (*session.Session, error) {
	var ps persistedSession
	if err := json.Unmarshal(data, &ps); err != nil {
		return nil, err
	}
	s := &session.Session{
		ID:           ps.ID,
		Code:         ps.Code,
		Settings:     ps.Settings,
		OwnerID:      ps.OwnerID,
		Participants: make(map[string]*session.Participant, len(ps.Participants)),
		Cubes:        make(map[string]*session.Cube, len(ps.Cubes)),
		CreatedAt:    ps.CreatedAt,
		ModifiedAt:   ps.ModifiedAt,
	}
	for i := range ps.Participants {
		p := ps.Participants[i]
		s.Participants[p.ID] = &p
	}
	for i := range ps.Cubes {
		c := ps.Cubes[i]
		s.Cubes[c.ID] = &c
	}
	return s, nil
}

// EncodePending serializes the pending-action queue.
func EncodePending(pending []action.Action) ([]byte, error) {
	if pending == nil {
		pending = []action.Action{}
	}
	return json.Marshal(pending)
}

// DecodePending reverses EncodePending.
func DecodePending(data []byte) ([]action.Action, error) {
	var pending []action.Action
	if err := json.Unmarshal(data, &pending); err != nil {
		return nil, err
	}
	return pending, nil
}
