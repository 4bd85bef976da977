package pubsub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermillBridge_RoundTrip(t *testing.T) {
	bridge := NewWatermillBridge()
	defer bridge.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var received []Message

	err := bridge.Subscribe(ctx, "test.topic", func(ctx context.Context, msg Message) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, msg)
		return nil
	})
	require.NoError(t, err)

	err = bridge.Publish(ctx, Message{
		Topic:     "test.topic",
		VisitorID: "visitor-1",
		Payload:   []byte("hello"),
		Metadata:  map[string]string{"kind": "greeting"},
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "test.topic", received[0].Topic)
	assert.Equal(t, "visitor-1", received[0].VisitorID)
	assert.Equal(t, []byte("hello"), received[0].Payload)
	assert.Equal(t, "greeting", received[0].Metadata["kind"])
}

type testPayload struct {
	Index    int    `json:"index"`
	EntryID  string `json:"entry_id"`
	Progress int    `json:"progress"`
}

func TestTypedPublishSubscribe(t *testing.T) {
	bridge := NewWatermillBridge()
	defer bridge.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	event := NewEvent[testPayload]("pubsubtest.entry.changed", "test event")

	got := make(chan testPayload, 1)
	err := Subscribe(ctx, bridge, event, func(ctx context.Context, p testPayload) error {
		got <- p
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, Publish(ctx, bridge, event, testPayload{Index: 3, EntryID: "2019", Progress: 60}))

	select {
	case p := <-got:
		assert.Equal(t, 3, p.Index)
		assert.Equal(t, "2019", p.EntryID)
		assert.Equal(t, 60, p.Progress)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for typed event")
	}
}

func TestSetupOTel_DisabledReturnsNoop(t *testing.T) {
	tracer, cleanup, err := SetupOTel(context.Background(), DefaultTracingConfig())
	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, tracer)
}
