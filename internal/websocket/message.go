package websocket

import "encoding/json"

// ClientEnvelope is the shape of every message a browser sends over the
// socket: a whitelisted action name plus an action-specific payload.
type ClientEnvelope struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

// Message represents a generic outbound WebSocket message.
type Message struct {
	Type    string      `json:"type"` // Message type (e.g., "html", "command")
	Target  string      `json:"target,omitempty"`
	Payload interface{} `json:"payload"`
}

// MarshalJSON customizes JSON marshaling to handle both string and []byte payloads.
func (m Message) MarshalJSON() ([]byte, error) {
	// Alias avoids recursing into this method.
	type Alias Message
	msg := struct {
		*Alias
		Payload interface{} `json:"payload"`
	}{
		Alias: (*Alias)(&m),
	}

	if b, ok := m.Payload.([]byte); ok {
		msg.Payload = string(b)
	} else {
		msg.Payload = m.Payload
	}

	return json.Marshal(msg)
}

// NewHTMLMessage creates an outbound HTML fragment message. Target names the
// DOM element the client should swap.
func NewHTMLMessage(html []byte, target string) *Message {
	return &Message{Type: "html", Target: target, Payload: html}
}

// NewCommand creates an outbound command message (e.g. "reload").
func NewCommand(name string) *Message {
	return &Message{Type: "command", Payload: name}
}

// Common command names.
const (
	CmdReload    = "reload"
	CmdReconnect = "reconnect"
)
