package about

import (
	"context"
	"encoding/json"
	"log/slog"

	"maragu.dev/gomponents"

	"github.com/halcyonlabs/halcyon/internal/modules/about/topics"
	"github.com/halcyonlabs/halcyon/internal/pubsub"
	"github.com/halcyonlabs/halcyon/internal/rendering"
	"github.com/halcyonlabs/halcyon/internal/websocket"
)

// Subscriber receives the page's client actions from the bus, routes each
// visitor's events into that visitor's session, and pushes the fragments the
// trackers produce back over the bridge as direct messages.
type Subscriber struct {
	subscriber pubsub.Subscriber
	publisher  pubsub.Publisher
	renderer   rendering.Renderer
	sessions   *Sessions
}

// NewSubscriber wires the subscriber to its collaborators.
func NewSubscriber(sub pubsub.Subscriber, pub pubsub.Publisher, renderer rendering.Renderer, sessions *Sessions) *Subscriber {
	return &Subscriber{
		subscriber: sub,
		publisher:  pub,
		renderer:   renderer,
		sessions:   sessions,
	}
}

// Start subscribes to every page action plus the disconnect lifecycle event.
// Subscriptions run until ctx is cancelled.
func (s *Subscriber) Start(ctx context.Context) {
	slog.Info("Starting about module subscriber")

	subscriptions := map[string]pubsub.Handler{
		topics.TopicProgress.Name():              s.handleProgress,
		topics.TopicIntersect.Name():             s.handleIntersect,
		topics.TopicJump.Name():                  s.handleJump,
		topics.TopicInteract.Name():              s.handleInteract,
		topics.TopicAutoplay.Name():              s.handleAutoplay,
		topics.TopicMotion.Name():                s.handleMotion,
		websocket.TopicClientDisconnected.Name(): s.handleDisconnect,
	}

	for topic, handler := range subscriptions {
		topic, handler := topic, handler
		go func() {
			err := s.subscriber.Subscribe(ctx, topic, handler)
			if err != nil && err != context.Canceled {
				slog.Error("About subscriber stopped with error", "topic", topic, "error", err)
			}
		}()
	}
}

// session resolves (or creates) the sender's session with a push function
// bound to their visitor ID.
func (s *Subscriber) session(visitorID string) *Session {
	return s.sessions.GetOrCreate(visitorID, s.pushFor(visitorID))
}

// pushFor renders a fragment and sends it to one visitor via the bridge's
// direct topic.
func (s *Subscriber) pushFor(visitorID string) pushFunc {
	return func(node gomponents.Node) {
		ctx := context.Background()
		html, err := s.renderer.RenderComponent(ctx, node)
		if err != nil {
			slog.Error("Failed to render about fragment", "visitorID", visitorID, "error", err)
			return
		}
		msg := websocket.NewHTMLMessage(html, "")
		payload, err := json.Marshal(msg)
		if err != nil {
			slog.Error("Failed to marshal about fragment", "visitorID", visitorID, "error", err)
			return
		}
		err = s.publisher.Publish(ctx, pubsub.Message{
			Topic:    websocket.TopicHTMLDirect.Name(),
			Payload:  payload,
			Metadata: map[string]string{websocket.MetaRecipientID: visitorID},
		})
		if err != nil {
			slog.Error("Failed to publish about fragment", "visitorID", visitorID, "error", err)
		}
	}
}

func (s *Subscriber) handleProgress(ctx context.Context, msg pubsub.Message) error {
	var payload struct {
		Section  string  `json:"section"`
		Progress float64 `json:"progress"`
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		slog.Debug("Dropping malformed progress payload", "visitorID", msg.VisitorID, "error", err)
		return nil
	}
	s.session(msg.VisitorID).HandleProgress(payload.Section, payload.Progress)
	return nil
}

func (s *Subscriber) handleIntersect(ctx context.Context, msg pubsub.Message) error {
	var payload struct {
		Section string  `json:"section"`
		Index   int     `json:"index"`
		Ratio   float64 `json:"ratio"`
		Visible bool    `json:"visible"`
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		slog.Debug("Dropping malformed intersect payload", "visitorID", msg.VisitorID, "error", err)
		return nil
	}
	s.session(msg.VisitorID).HandleIntersect(payload.Section, payload.Index, payload.Ratio, payload.Visible)
	return nil
}

func (s *Subscriber) handleJump(ctx context.Context, msg pubsub.Message) error {
	var payload struct {
		Section   string `json:"section"`
		Index     int    `json:"index"`
		Direction string `json:"direction"`
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		slog.Debug("Dropping malformed jump payload", "visitorID", msg.VisitorID, "error", err)
		return nil
	}
	s.session(msg.VisitorID).HandleJump(payload.Section, payload.Index, payload.Direction)
	return nil
}

func (s *Subscriber) handleInteract(ctx context.Context, msg pubsub.Message) error {
	var payload struct {
		Section string `json:"section"`
		Visible bool   `json:"visible"`
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		slog.Debug("Dropping malformed interact payload", "visitorID", msg.VisitorID, "error", err)
		return nil
	}
	s.session(msg.VisitorID).HandleInteract(payload.Section, payload.Visible)
	return nil
}

func (s *Subscriber) handleAutoplay(ctx context.Context, msg pubsub.Message) error {
	var payload struct {
		Section string `json:"section"`
		Enabled bool   `json:"enabled"`
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		slog.Debug("Dropping malformed autoplay payload", "visitorID", msg.VisitorID, "error", err)
		return nil
	}
	s.session(msg.VisitorID).HandleAutoplay(payload.Section, payload.Enabled)
	return nil
}

// handleMotion records the reduced-motion preference. The shim sends it on
// connect before any other action, and again whenever the OS preference
// changes; a changed preference rebuilds the visitor's session.
func (s *Subscriber) handleMotion(ctx context.Context, msg pubsub.Message) error {
	var payload struct {
		Reduced bool `json:"reduced"`
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		slog.Debug("Dropping malformed motion payload", "visitorID", msg.VisitorID, "error", err)
		return nil
	}
	s.sessions.SetReducedMotion(msg.VisitorID, payload.Reduced)
	return nil
}

// handleDisconnect tears the visitor's session down as soon as their last
// connection closes, instead of waiting for the idle reaper.
func (s *Subscriber) handleDisconnect(ctx context.Context, msg pubsub.Message) error {
	s.sessions.Close(msg.VisitorID)
	return nil
}
