package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/halcyonlabs/halcyon/internal/pubsub"
)

// EventRecorded is the typed event carrying every recorded interaction, so
// sinks subscribe instead of being called inline by page handlers.
var EventRecorded = pubsub.NewEvent[Event](
	"analytics.event.recorded",
	"An About page interaction event was recorded",
)

// PubSubCollector publishes events to the message bus. Sinks (logging, the
// database writer) subscribe independently; a slow sink never stalls the
// page.
type PubSubCollector struct {
	publisher pubsub.Publisher
}

func NewPubSubCollector(publisher pubsub.Publisher) *PubSubCollector {
	return &PubSubCollector{publisher: publisher}
}

func (c *PubSubCollector) Record(ctx context.Context, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := pubsub.Publish(ctx, c.publisher, EventRecorded, event); err != nil {
		// Analytics must never take the page down with it.
		slog.ErrorContext(ctx, "failed to publish analytics event",
			"kind", event.Kind, "error", err)
	}
}
