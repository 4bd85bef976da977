package analytics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyonlabs/halcyon/internal/pubsub"
)

func TestMemoryCollector(t *testing.T) {
	c := NewMemoryCollector()
	c.Record(context.Background(), Event{Kind: EventPageView, VisitorID: "v1"})
	c.Record(context.Background(), Event{Kind: EventJump, VisitorID: "v1", Section: "timeline", Index: 3})

	events := c.Events()
	require.Len(t, events, 2)
	assert.Equal(t, []EventKind{EventPageView, EventJump}, c.Kinds())
	assert.Equal(t, "timeline", events[1].Section)
}

func TestNopAndLogCollectorsAreSafe(t *testing.T) {
	NopCollector{}.Record(context.Background(), Event{Kind: EventPageView})
	LogCollector{}.Record(context.Background(), Event{Kind: EventPageView, VisitorID: "v1"})
}

func TestPubSubCollector_DeliversToSubscribers(t *testing.T) {
	bus := pubsub.NewWatermillBridge()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var received []Event
	err := pubsub.Subscribe(ctx, bus, EventRecorded, func(_ context.Context, event Event) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, event)
		return nil
	})
	require.NoError(t, err)

	collector := NewPubSubCollector(bus)
	collector.Record(ctx, Event{Kind: EventSectionView, VisitorID: "v1", Section: "history", EntryID: "2019"})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, EventSectionView, received[0].Kind)
	assert.Equal(t, "2019", received[0].EntryID)
	assert.False(t, received[0].Timestamp.IsZero(), "collector stamps events")
}
