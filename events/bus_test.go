package events

import "testing"

func TestSubscribeAndEmit(t *testing.T) {
	b := NewBus()

	var got []Event
	b.Subscribe(ActionApplied, func(e Event) {
		got = append(got, e)
	})

	b.Emit(Event{Type: ActionApplied, Payload: "a1"})
	b.Emit(Event{Type: SessionLeft}) // different type, not delivered

	if len(got) != 1 {
		t.Fatalf("delivered %d events, want 1", len(got))
	}
	if got[0].Payload != "a1" {
		t.Errorf("payload = %v", got[0].Payload)
	}
	if got[0].Time.IsZero() {
		t.Error("emit must stamp a time")
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	b := NewBus()

	calls := 0
	cancel := b.Subscribe(SessionUpdated, func(Event) { calls++ })

	b.Emit(Event{Type: SessionUpdated})
	cancel()
	cancel()
	b.Emit(Event{Type: SessionUpdated})

	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
	if b.ListenerCount(SessionUpdated) != 0 {
		t.Error("cancelled handler still registered")
	}
}

func TestPanickingHandlerDoesNotStopDelivery(t *testing.T) {
	b := NewBus()

	delivered := 0
	b.Subscribe(ConflictResolved, func(Event) { panic("broken listener") })
	b.Subscribe(ConflictResolved, func(Event) { delivered++ })
	b.Subscribe(ConflictResolved, func(Event) { delivered++ })

	b.Emit(Event{Type: ConflictResolved}) // must not panic

	if delivered != 2 {
		t.Errorf("delivered to %d healthy handlers, want 2", delivered)
	}
}

func TestMultipleSubscribersSameType(t *testing.T) {
	b := NewBus()

	a, c := 0, 0
	b.Subscribe(ParticipantJoined, func(Event) { a++ })
	b.Subscribe(ParticipantJoined, func(Event) { c++ })

	b.Emit(Event{Type: ParticipantJoined})

	if a != 1 || c != 1 {
		t.Errorf("deliveries = %d, %d; want 1, 1", a, c)
	}
}

func TestCloseDropsSubscriptions(t *testing.T) {
	b := NewBus()

	calls := 0
	b.Subscribe(EngineError, func(Event) { calls++ })
	b.Close()

	b.Emit(Event{Type: EngineError})
	b.Subscribe(EngineError, func(Event) { calls++ })
	b.Emit(Event{Type: EngineError})

	if calls != 0 {
		t.Errorf("closed bus delivered %d events", calls)
	}
}
