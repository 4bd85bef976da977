package pubsub

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.opentelemetry.io/otel/trace"
)

// WatermillBridge implements the Publisher and Subscriber interfaces using
// watermill's in-memory GoChannel transport.
type WatermillBridge struct {
	pub    message.Publisher
	sub    message.Subscriber
	logger watermill.LoggerAdapter
}

const (
	// Metadata keys used to transfer our Message structure fields through watermill's message.
	metaKeyVisitorID = "visitor_id"
	metaKeyTopic     = "topic"
)

// NewWatermillBridge initializes the in-memory Pub/Sub bridge.
func NewWatermillBridge() *WatermillBridge {
	logger := watermill.NewStdLogger(false, false)
	goChannel := gochannel.NewGoChannel(
		gochannel.Config{},
		logger,
	)

	return &WatermillBridge{
		pub:    goChannel,
		sub:    goChannel,
		logger: logger,
	}
}

// WithTracing wraps the bridge's publisher with OpenTelemetry spans. A no-op
// tracer leaves behavior unchanged.
func (wb *WatermillBridge) WithTracing(tracer trace.Tracer) *WatermillBridge {
	wb.pub = NewPublisherTracingMiddleware(wb.pub, tracer)
	return wb
}

// mapToWatermillMessage converts our pubsub.Message to a watermill message.
func mapToWatermillMessage(msg Message) *message.Message {
	wmMsg := message.NewMessage(watermill.NewUUID(), msg.Payload)

	wmMsg.Metadata.Set(metaKeyVisitorID, msg.VisitorID)
	wmMsg.Metadata.Set(metaKeyTopic, msg.Topic)

	for k, v := range msg.Metadata {
		wmMsg.Metadata.Set(k, v)
	}

	return wmMsg
}

// mapToPubSubMessage converts a watermill message back to our internal pubsub.Message.
func mapToPubSubMessage(wmMsg *message.Message) Message {
	visitorID := wmMsg.Metadata.Get(metaKeyVisitorID)
	topic := wmMsg.Metadata.Get(metaKeyTopic)

	// Copy remaining metadata, excluding the reserved keys.
	metadata := make(map[string]string)
	for k, v := range wmMsg.Metadata {
		if k != metaKeyVisitorID && k != metaKeyTopic {
			metadata[k] = v
		}
	}

	return Message{
		Topic:     topic,
		VisitorID: visitorID,
		Payload:   wmMsg.Payload,
		Metadata:  metadata,
	}
}

// Publish implements the Publisher interface.
func (wb *WatermillBridge) Publish(ctx context.Context, msg Message) error {
	wmMsg := mapToWatermillMessage(msg)
	wmMsg.SetContext(ctx)
	return wb.pub.Publish(msg.Topic, wmMsg)
}

// Subscribe implements the Subscriber interface. It returns once the
// subscription is active; message processing continues in the background
// until ctx is canceled.
func (wb *WatermillBridge) Subscribe(ctx context.Context, topic string, handler Handler) error {
	messages, err := wb.sub.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	go func() {
		for wmMsg := range messages {
			msg := mapToPubSubMessage(wmMsg)

			if err := handler(ctx, msg); err != nil {
				slog.Error("Failed to handle message", "topic", topic, "msg_id", wmMsg.UUID, "error", err)
				// For the in-memory transport there is no redelivery; nack so
				// a future durable transport can retry.
				wmMsg.Nack()
			} else {
				wmMsg.Ack()
			}
		}
		slog.Debug("Subscription message loop ended", "topic", topic)
	}()

	return nil
}

// Close implements the Publisher and Subscriber interfaces.
func (wb *WatermillBridge) Close() error {
	return wb.sub.Close()
}
