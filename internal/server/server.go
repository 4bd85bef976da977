// Package server assembles the application: core services, modules, routes,
// and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/afero"
	"github.com/surrealdb/surrealdb.go"

	"github.com/halcyonlabs/halcyon/internal/analytics"
	"github.com/halcyonlabs/halcyon/internal/app"
	"github.com/halcyonlabs/halcyon/internal/config"
	"github.com/halcyonlabs/halcyon/internal/content"
	"github.com/halcyonlabs/halcyon/internal/database"
	"github.com/halcyonlabs/halcyon/internal/logging"
	"github.com/halcyonlabs/halcyon/internal/middleware"
	"github.com/halcyonlabs/halcyon/internal/module"
	"github.com/halcyonlabs/halcyon/internal/pubsub"
	"github.com/halcyonlabs/halcyon/internal/registry"
	"github.com/halcyonlabs/halcyon/internal/rendering"
	"github.com/halcyonlabs/halcyon/internal/websocket"
	"github.com/halcyonlabs/halcyon/web"
)

// Registry keys for the core services.
const (
	PublisherKey  = registry.Key[pubsub.Publisher](registry.PublisherKeyName)
	SubscriberKey = registry.Key[pubsub.Subscriber](registry.SubscriberKeyName)
	RendererKey   = registry.Key[rendering.Renderer](registry.RendererKeyName)
	BridgeKey     = registry.Key[*websocket.Bridge](registry.BridgeKeyName)
	CollectorKey  = registry.Key[analytics.Collector](registry.CollectorKeyName)
	ContentKey    = registry.Key[*content.Document](registry.ContentKeyName)
)

// Server holds the assembled application.
type Server struct {
	E   *echo.Echo
	Cfg config.Provider

	registry  *registry.Registry
	bus       *pubsub.WatermillBridge
	bridge    *websocket.Bridge
	renderer  *rendering.UniversalRenderer
	document  *content.Document
	loader    *content.Loader
	collector analytics.Collector
	analytics *surrealdb.DB
	modules   []module.Module

	otelCleanup func()
}

// New loads configuration and builds every core service. It does not bind
// the listener; call Boot then Start.
func New(ctx context.Context) (*Server, error) {
	logging.New()
	cfg := config.New()

	tracer, otelCleanup, err := pubsub.SetupOTel(ctx, pubsub.TracingConfig{
		Enabled:     cfg.GetTracingEnabled(),
		ServiceName: "halcyon-site",
		ZipkinURL:   cfg.GetZipkinURL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}

	bus := pubsub.NewWatermillBridge()
	if cfg.GetTracingEnabled() {
		bus = bus.WithTracing(tracer)
	}

	renderer := rendering.NewUniversalRenderer()

	loader, err := content.NewLoader(afero.NewOsFs(), cfg.GetScriptsDir())
	if err != nil {
		return nil, err
	}
	doc, err := loader.Load(ctx, cfg.GetContentPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}

	bridge := websocket.NewBridge(websocket.BridgeDependencies{
		Publisher:  bus,
		Subscriber: bus,
	})

	s := &Server{
		Cfg:         cfg,
		registry:    registry.New(cfg),
		bus:         bus,
		bridge:      bridge,
		renderer:    renderer,
		document:    doc,
		loader:      loader,
		otelCleanup: otelCleanup,
	}

	// The analytics database is optional. Without it events go to the
	// structured log only.
	if cfg.GetAnalyticsDBURL() != "" {
		db, err := database.NewDB(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect analytics database: %w", err)
		}
		s.analytics = db
		s.collector = analytics.NewPubSubCollector(bus)
	} else {
		s.collector = analytics.LogCollector{}
	}

	s.buildEcho()
	return s, nil
}

// setupErrorHandling installs an HTTP error handler that logs unhandled
// errors with a stack trace before delegating to Echo's default handler.
func setupErrorHandling(e *echo.Echo) {
	defaultHandler := e.HTTPErrorHandler
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		var httpErr *echo.HTTPError
		if !errors.As(err, &httpErr) {
			slog.Error("Internal Server Error (Unhandled)",
				"error", err,
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"stack_trace", string(debug.Stack()),
			)
		}
		defaultHandler(err, c)
	}
}

func (s *Server) buildEcho() {
	e := echo.New()
	e.HideBanner = true
	setupErrorHandling(e)
	e.Use(echomw.Recover())
	e.Use(middleware.Logger)

	store := sessions.NewCookieStore([]byte(s.Cfg.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
	}
	e.Use(session.Middleware(store))
	e.Use(middleware.Visitor)

	e.StaticFS("/static", web.Static())
	e.Renderer = s.renderer

	s.E = e
}

// Boot publishes the core services into the registry, starts the bridge and
// background services, and boots every module.
func (s *Server) Boot(ctx context.Context) error {
	registry.Set(s.registry, PublisherKey, pubsub.Publisher(s.bus))
	registry.Set(s.registry, SubscriberKey, pubsub.Subscriber(s.bus))
	registry.Set(s.registry, RendererKey, rendering.Renderer(s.renderer))
	registry.Set(s.registry, BridgeKey, s.bridge)
	registry.Set(s.registry, CollectorKey, s.collector)
	registry.Set(s.registry, ContentKey, s.document)

	if err := s.bridge.Start(ctx); err != nil {
		return fmt.Errorf("failed to start websocket bridge: %w", err)
	}

	if s.analytics != nil {
		sink := analytics.NewSurrealSink(s.analytics, s.bus)
		if err := sink.Start(ctx); err != nil {
			return fmt.Errorf("failed to start analytics sink: %w", err)
		}
	}

	// Hot-reload for content derivation rules during development.
	if err := s.loader.Rules().StartWatcher(ctx); err != nil {
		slog.Warn("rules watcher unavailable", "error", err)
	}

	s.modules = app.NewModules(app.Dependencies{
		Document:   s.document,
		Publisher:  s.bus,
		Subscriber: s.bus,
		Renderer:   s.renderer,
		Bridge:     s.bridge,
		Collector:  s.collector,
	})

	for _, m := range s.modules {
		if err := m.Register(s.registry); err != nil {
			return fmt.Errorf("failed to register module %s: %w", m.Name(), err)
		}
	}

	s.RegisterRoutes()

	for _, m := range s.modules {
		group := s.E.Group("/" + m.Name())
		if err := m.Boot(ctx, group, s.registry); err != nil {
			return fmt.Errorf("failed to boot module %s: %w", m.Name(), err)
		}
		slog.Info("module booted", "module", m.Name())
	}

	return nil
}

// Bridge exposes the WebSocket bridge, useful for tests.
func (s *Server) Bridge() *websocket.Bridge {
	return s.bridge
}

// Document exposes the loaded content document, useful for tests.
func (s *Server) Document() *content.Document {
	return s.document
}
