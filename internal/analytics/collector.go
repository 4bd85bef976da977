// Package analytics records interaction events from the About page. The
// Collector is always injected, never a global, so components stay testable
// and the whole concern can be swapped for a no-op.
package analytics

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// EventKind enumerates the interaction events the page reports.
type EventKind string

const (
	EventPageView       EventKind = "page_view"
	EventSectionView    EventKind = "section_view"
	EventJump           EventKind = "jump"
	EventAutoplayToggle EventKind = "autoplay_toggle"
)

// Event is one recorded interaction.
type Event struct {
	Kind      EventKind `json:"kind"`
	VisitorID string    `json:"visitor_id"`
	Section   string    `json:"section,omitempty"`
	EntryID   string    `json:"entry_id,omitempty"`
	Index     int       `json:"index,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Collector records events. Record must never block page rendering; slow
// sinks buffer or drop.
type Collector interface {
	Record(ctx context.Context, event Event)
}

// NopCollector discards everything.
type NopCollector struct{}

func (NopCollector) Record(context.Context, Event) {}

// LogCollector writes events to the structured log. It is the default sink
// when no analytics database is configured.
type LogCollector struct{}

func (LogCollector) Record(ctx context.Context, event Event) {
	slog.InfoContext(ctx, "analytics event",
		"kind", event.Kind,
		"visitor_id", event.VisitorID,
		"section", event.Section,
		"entry_id", event.EntryID,
		"index", event.Index,
	)
}

// MemoryCollector accumulates events in memory for tests.
type MemoryCollector struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

func (c *MemoryCollector) Record(_ context.Context, event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

// Events returns a copy of everything recorded so far.
func (c *MemoryCollector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

// Kinds returns the recorded event kinds in order, a convenience for
// assertions.
func (c *MemoryCollector) Kinds() []EventKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]EventKind, len(c.events))
	for i, e := range c.events {
		out[i] = e.Kind
	}
	return out
}
