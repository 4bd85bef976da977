package analytics

import (
	"context"
	"log/slog"

	"github.com/surrealdb/surrealdb.go"

	"github.com/halcyonlabs/halcyon/internal/database"
	"github.com/halcyonlabs/halcyon/internal/pubsub"
)

// SurrealSink subscribes to recorded events and persists them. Write failures
// are logged and the event dropped; analytics is best-effort.
type SurrealSink struct {
	db         *surrealdb.DB
	subscriber pubsub.Subscriber
}

func NewSurrealSink(db *surrealdb.DB, subscriber pubsub.Subscriber) *SurrealSink {
	return &SurrealSink{db: db, subscriber: subscriber}
}

// Start begins consuming events. It returns immediately; consumption stops
// when ctx is cancelled.
func (s *SurrealSink) Start(ctx context.Context) error {
	return pubsub.Subscribe(ctx, s.subscriber, EventRecorded, func(ctx context.Context, event Event) error {
		err := database.Execute(ctx, s.db, "CREATE interaction CONTENT $event", map[string]any{
			"event": map[string]any{
				"kind":       string(event.Kind),
				"visitor_id": event.VisitorID,
				"section":    event.Section,
				"entry_id":   event.EntryID,
				"index":      event.Index,
				"timestamp":  event.Timestamp,
			},
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to persist analytics event",
				"kind", event.Kind, "error", err)
		}
		return nil
	})
}
