package about

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/halcyonlabs/halcyon/internal/analytics"
	"github.com/halcyonlabs/halcyon/internal/content"
	"github.com/halcyonlabs/halcyon/internal/module"
	"github.com/halcyonlabs/halcyon/internal/modules/about/topics"
	"github.com/halcyonlabs/halcyon/internal/pubsub"
	"github.com/halcyonlabs/halcyon/internal/registry"
	"github.com/halcyonlabs/halcyon/internal/rendering"
	"github.com/halcyonlabs/halcyon/internal/websocket"
)

// Module is the About page feature module.
type Module struct {
	module.BaseModule

	doc       *content.Document
	publisher pubsub.Publisher
	subscr    pubsub.Subscriber
	renderer  rendering.Renderer
	bridge    *websocket.Bridge
	collector analytics.Collector

	sessions *Sessions
}

// Dependencies holds everything the module needs, injected by the app wiring.
type Dependencies struct {
	Document   *content.Document
	Publisher  pubsub.Publisher
	Subscriber pubsub.Subscriber
	Renderer   rendering.Renderer
	Bridge     *websocket.Bridge
	Collector  analytics.Collector
}

// New creates the module.
func New(deps Dependencies) *Module {
	return &Module{
		doc:       deps.Document,
		publisher: deps.Publisher,
		subscr:    deps.Subscriber,
		renderer:  deps.Renderer,
		bridge:    deps.Bridge,
		collector: deps.Collector,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "about"
}

// Boot whitelists the page's client actions, starts the session manager and
// subscriber, and registers the routes.
func (m *Module) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	slog.Info("Booting about module")

	for _, action := range topics.ClientActions() {
		if err := m.bridge.AllowAction(action); err != nil {
			return err
		}
	}

	m.sessions = NewSessions(m.doc, m.collector)
	m.sessions.Start(ctx)

	subscriber := NewSubscriber(m.subscr, m.publisher, m.renderer, m.sessions)
	subscriber.Start(ctx)

	handler := NewHandler(m.doc, m.renderer, m.collector)
	g.GET("", handler.AboutGet)

	return nil
}

// Shutdown tears down every live visitor session.
func (m *Module) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down about module")
	if m.sessions != nil {
		m.sessions.CloseAll()
	}
	return nil
}
