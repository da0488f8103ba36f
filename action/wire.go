package action

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Maximum allowed size for a wire action payload.
const maxWirePayloadSize = 256 * 1024 // 256 KB

var (
	registry   = map[Type]func() Payload{}
	registryMu sync.RWMutex
)

// RegisterPayload installs a constructor for a payload kind. The built-in
// kinds are registered at init; callers only need this when extending the
// wire format.
func RegisterPayload(t Type, ctor func() Payload) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[t] = ctor
}

func lookupPayload(t Type) (func() Payload, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	ctor, ok := registry[t]
	return ctor, ok
}

func init() {
	RegisterPayload(TypeCubeCreate, func() Payload { return &CubeCreate{} })
	RegisterPayload(TypeCubeUpdate, func() Payload { return &CubeUpdate{} })
	RegisterPayload(TypeCubeDelete, func() Payload { return &CubeDelete{} })
	RegisterPayload(TypeCubeSelect, func() Payload { return &CubeSelect{} })
	RegisterPayload(TypeCursorMove, func() Payload { return &CursorMove{} })
	RegisterPayload(TypeParticipantJoin, func() Payload { return &ParticipantJoin{} })
	RegisterPayload(TypeParticipantLeave, func() Payload { return &ParticipantLeave{} })
	RegisterPayload(TypeParticipantUpdate, func() Payload { return &ParticipantUpdate{} })
	RegisterPayload(TypeSettingsUpdate, func() Payload { return &SettingsUpdate{} })
}

// wireAction is the transport shape: the payload stays raw until the type
// discriminator selects a concrete payload struct.
type wireAction struct {
	ID            string          `json:"id"`
	Type          Type            `json:"type"`
	ParticipantID string          `json:"participantId"`
	SessionID     string          `json:"sessionId"`
	Timestamp     string          `json:"timestamp"`
	Payload       json.RawMessage `json:"payload"`
}

// MarshalJSON encodes the action in its wire form with an ISO-8601
// timestamp.
func (a Action) MarshalJSON() ([]byte, error) {
	if a.Payload == nil {
		return nil, fmt.Errorf("action %s has no payload", a.ID)
	}
	if a.Payload.Kind() != a.Type {
		return nil, fmt.Errorf("action %s: payload kind %s does not match type %s", a.ID, a.Payload.Kind(), a.Type)
	}
	data, err := json.Marshal(a.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", a.Type, err)
	}
	return json.Marshal(wireAction{
		ID:            a.ID,
		Type:          a.Type,
		ParticipantID: a.ParticipantID,
		SessionID:     a.SessionID,
		Timestamp:     a.Timestamp.UTC().Format(time.RFC3339Nano),
		Payload:       data,
	})
}

// UnmarshalJSON decodes the wire form, selecting the payload struct by the
// type discriminator.
func (a *Action) UnmarshalJSON(data []byte) error {
	var w wireAction
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if len(w.Payload) > maxWirePayloadSize {
		return fmt.Errorf("action payload too large: %d bytes", len(w.Payload))
	}
	ctor, ok := lookupPayload(w.Type)
	if !ok {
		return fmt.Errorf("unknown action type: %q", w.Type)
	}

	ts, err := time.Parse(time.RFC3339Nano, w.Timestamp)
	if err != nil {
		// Accept plain RFC3339 without fractional seconds.
		ts, err = time.Parse(time.RFC3339, w.Timestamp)
		if err != nil {
			return fmt.Errorf("invalid action timestamp %q: %w", w.Timestamp, err)
		}
	}

	p := ctor()
	if len(w.Payload) > 0 {
		if err := json.Unmarshal(w.Payload, p); err != nil {
			return fmt.Errorf("unmarshal %s payload: %w", w.Type, err)
		}
	}

	a.ID = w.ID
	a.Type = w.Type
	a.ParticipantID = w.ParticipantID
	a.SessionID = w.SessionID
	a.Timestamp = ts
	a.Payload = p
	return nil
}
