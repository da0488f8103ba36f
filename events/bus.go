// Package events provides the typed publish/subscribe bus the surrounding
// UI uses to react to engine state transitions without polling.
package events

import (
	"sync"
	"time"
)

// Type enumerates the event categories the engine emits.
type Type string

const (
	SessionCreated Type = "session_created"
	SessionJoined  Type = "session_joined"
	SessionLeft    Type = "session_left"
	SessionUpdated Type = "session_updated"

	ParticipantJoined  Type = "participant_joined"
	ParticipantLeft    Type = "participant_left"
	ParticipantUpdated Type = "participant_updated"

	ActionReceived   Type = "action_received"
	ActionApplied    Type = "action_applied"
	ConflictResolved Type = "conflict_resolved"

	ConnectionChanged Type = "connection_changed"
	EngineError       Type = "error"
)

// Event is one notification. Payload carries a type-specific value; see
// the emitting call sites in the root package for the concrete types.
type Event struct {
	Type    Type
	Time    time.Time
	Payload any
}

// Handler receives events. Handlers run synchronously on the emitting
// goroutine; a panicking handler is recovered and never interrupts
// delivery to the remaining handlers.
type Handler func(Event)

// Bus is an enum-keyed subscription table.
type Bus struct {
	mu     sync.RWMutex
	subs   map[Type]map[uint64]Handler
	nextID uint64
	closed bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Type]map[uint64]Handler)}
}

// Subscribe registers a handler for one event type and returns a cancel
// function. Cancel is idempotent.
func (b *Bus) Subscribe(t Type, h Handler) (cancel func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || h == nil {
		return func() {}
	}

	b.nextID++
	id := b.nextID
	if b.subs[t] == nil {
		b.subs[t] = make(map[uint64]Handler)
	}
	b.subs[t][id] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[t], id)
		})
	}
}

// Emit delivers the event to every handler registered for its type.
// Handler panics are swallowed so one broken listener cannot destabilize
// the emitting pipeline.
func (b *Bus) Emit(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now().UTC()
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[e.Type]))
	for _, h := range b.subs[e.Type] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		func() {
			defer func() {
				_ = recover()
			}()
			h(e)
		}()
	}
}

// ListenerCount returns the number of handlers registered for a type.
func (b *Bus) ListenerCount(t Type) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[t])
}

// Close drops every subscription. Subsequent Subscribe calls are no-ops
// and subsequent Emit calls deliver to nobody.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = make(map[Type]map[uint64]Handler)
}
