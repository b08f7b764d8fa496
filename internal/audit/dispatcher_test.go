package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

type memWriter struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (w *memWriter) Write(_ context.Context, ev Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fail {
		return errors.New("db down")
	}
	w.events = append(w.events, ev)
	return nil
}

func TestDispatcherDeliversOnClose(t *testing.T) {
	w := &memWriter{}
	d := NewDispatcher(w, zerolog.Nop())

	d.Dispatch(Event{Action: "recall_dismissed", Entity: "patient", EntityID: "123"})
	d.Dispatch(Event{Action: "notification_read", Entity: "notification", EntityID: "abc"})
	d.Close()

	if len(w.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(w.events))
	}
	if w.events[0].Action != "recall_dismissed" {
		t.Fatalf("unexpected order: %+v", w.events)
	}
}

func TestDispatcherSurvivesWriterErrors(t *testing.T) {
	w := &memWriter{fail: true}
	d := NewDispatcher(w, zerolog.Nop())

	d.Dispatch(Event{Action: "appointment_completed"})
	d.Close()

	if len(w.events) != 0 {
		t.Fatalf("failing writer must not record, got %d", len(w.events))
	}
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Action: "anything"})
}
