package websocket

import (
	"github.com/halcyonlabs/halcyon/internal/topicmgr"
)

// Framework topics for WebSocket communication. Modules publish rendered
// fragments to these topics; the bridge fans them out to connected clients.
var (
	// TopicHTMLBroadcast broadcasts an HTML fragment to every connected client.
	TopicHTMLBroadcast = topicmgr.Default().MustRegister(topicmgr.DefineFramework(topicmgr.TopicConfig{
		Name:        "ws.html.broadcast",
		Description: "Broadcast an HTML fragment to all connected clients",
		Metadata: map[string]interface{}{
			"routing_type": "broadcast",
		},
	}))

	// TopicHTMLDirect sends an HTML fragment to a single visitor. The
	// recipient must be named in the message metadata as "recipient_id".
	TopicHTMLDirect = topicmgr.Default().MustRegister(topicmgr.DefineFramework(topicmgr.TopicConfig{
		Name:        "ws.html.direct",
		Description: "Send an HTML fragment to a specific visitor",
		Metadata: map[string]interface{}{
			"routing_type": "direct",
			"requires":     []string{"recipient_id"},
		},
	}))
)

// Lifecycle topics. Modules that keep per-visitor state subscribe to these
// to set up and tear down.
var (
	// TopicClientConnected fires when a visitor's connection registers.
	TopicClientConnected = topicmgr.Default().MustRegister(topicmgr.DefineFramework(topicmgr.TopicConfig{
		Name:        "ws.client.connected",
		Description: "A client WebSocket connection was registered",
	}))

	// TopicClientDisconnected fires when a visitor's last connection drops.
	TopicClientDisconnected = topicmgr.Default().MustRegister(topicmgr.DefineFramework(topicmgr.TopicConfig{
		Name:        "ws.client.disconnected",
		Description: "A visitor's last WebSocket connection closed",
	}))
)

// MetaRecipientID is the metadata key naming the target visitor of a direct message.
const MetaRecipientID = "recipient_id"
