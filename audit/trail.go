package audit

import (
	"context"
	"sync"
)

// Trail is an in-memory Recorder that keeps every event it receives.
// Useful for tests and single-process deployments that inspect the trail
// directly.
type Trail struct {
	mu     sync.Mutex
	events []*Event
}

// NewTrail creates an empty Trail.
func NewTrail() *Trail { return &Trail{} }

// Record implements Recorder.
func (t *Trail) Record(_ context.Context, event *Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
	return nil
}

// Events returns a snapshot of all recorded events in arrival order.
func (t *Trail) Events() []*Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Event, len(t.events))
	copy(out, t.events)
	return out
}

// Len returns the number of recorded events.
func (t *Trail) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.events)
}
