// Package events publishes inventory notifications from the request
// handling layer. The inventory service itself only returns values.
package events

import (
	"context"
	"log/slog"
	"sync"
)

// Type names an inventory event.
type Type string

const (
	SweetCreated   Type = "sweet.created"
	SweetUpdated   Type = "sweet.updated"
	SweetDeleted   Type = "sweet.deleted"
	SweetPurchased Type = "sweet.purchased"
	SweetRestocked Type = "sweet.restocked"
)

// Event describes a completed mutation.
type Event struct {
	Type      Type
	SweetID   string
	SubjectID string
	Quantity  int
}

// Emitter receives events after a mutation has been persisted.
type Emitter interface {
	Emit(ctx context.Context, event Event)
}

// LogEmitter writes events to a structured logger.
type LogEmitter struct {
	logger *slog.Logger
}

// NewLogEmitter creates an Emitter that logs at info level.
func NewLogEmitter(logger *slog.Logger) *LogEmitter {
	return &LogEmitter{logger: logger}
}

func (e *LogEmitter) Emit(ctx context.Context, event Event) {
	e.logger.InfoContext(ctx, "inventory event",
		"type", string(event.Type),
		"sweet_id", event.SweetID,
		"subject_id", event.SubjectID,
		"quantity", event.Quantity,
	)
}

// Recorder keeps emitted events in memory. Useful in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(_ context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
