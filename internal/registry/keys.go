package registry

// Shared service key names. Modules declare their own typed registry.Key
// constants with these values so two modules can never collide on a name.
const (
	PublisherKeyName  = "pubsub.publisher"
	SubscriberKeyName = "pubsub.subscriber"
	RendererKeyName   = "rendering.renderer"
	BridgeKeyName     = "websocket.bridge"
	CollectorKeyName  = "analytics.collector"
	ContentKeyName    = "content.catalog"
)
