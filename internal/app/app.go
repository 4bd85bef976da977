// Package app wires the application's modules to the core services. It is
// the single source of truth for which features are enabled.
package app

import (
	"github.com/halcyonlabs/halcyon/internal/analytics"
	"github.com/halcyonlabs/halcyon/internal/content"
	"github.com/halcyonlabs/halcyon/internal/module"
	"github.com/halcyonlabs/halcyon/internal/modules/about"
	"github.com/halcyonlabs/halcyon/internal/pubsub"
	"github.com/halcyonlabs/halcyon/internal/rendering"
	"github.com/halcyonlabs/halcyon/internal/websocket"
)

// Dependencies holds the core services the application's modules require.
// The server entrypoint fills this in and hands it to NewModules.
type Dependencies struct {
	Document   *content.Document
	Publisher  pubsub.Publisher
	Subscriber pubsub.Subscriber
	Renderer   rendering.Renderer
	Bridge     *websocket.Bridge
	Collector  analytics.Collector
}

// NewModules creates the list of all active modules.
func NewModules(deps Dependencies) []module.Module {
	return []module.Module{
		about.New(about.Dependencies{
			Document:   deps.Document,
			Publisher:  deps.Publisher,
			Subscriber: deps.Subscriber,
			Renderer:   deps.Renderer,
			Bridge:     deps.Bridge,
			Collector:  deps.Collector,
		}),
	}
}
