package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/halcyonlabs/halcyon/internal/middleware"
	"github.com/halcyonlabs/halcyon/internal/pubsub"
)

// Client represents a single connected WebSocket client.
type Client struct {
	// VisitorID identifies the visitor; one visitor can hold several
	// connections (multiple tabs).
	VisitorID string
	// ConnID uniquely identifies this connection.
	ConnID string

	conn   *websocket.Conn
	send   chan []byte
	bridge *Bridge
}

// BridgeDependencies holds everything a Bridge needs to run.
type BridgeDependencies struct {
	Publisher  pubsub.Publisher
	Subscriber pubsub.Subscriber
	// Whitelist restricts which actions clients may publish. When nil, an
	// empty whitelist is used and every client action is dropped.
	Whitelist *clientWhitelist
}

// Bridge manages all WebSocket connections and routes messages between
// connected clients and the Pub/Sub message bus.
type Bridge struct {
	publisher  pubsub.Publisher
	subscriber pubsub.Subscriber
	whitelist  *clientWhitelist

	// clients maps visitor IDs to their active connections.
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	direct     chan directMessage

	mu      sync.RWMutex
	started bool
}

type directMessage struct {
	visitorID string
	payload   []byte
}

// NewBridge initializes a new Bridge, ready to handle connections.
func NewBridge(deps BridgeDependencies) *Bridge {
	wl := deps.Whitelist
	if wl == nil {
		wl = NewClientWhitelist()
	}
	return &Bridge{
		publisher:  deps.Publisher,
		subscriber: deps.Subscriber,
		whitelist:  wl,
		clients:    make(map[string][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		direct:     make(chan directMessage, 256),
	}
}

// AllowAction adds an action to the client whitelist.
func (b *Bridge) AllowAction(action string) error {
	return b.whitelist.AddAction(action)
}

// Start subscribes the bridge to its routing topics and launches the run
// loop. It must be called once before serving connections.
func (b *Bridge) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return fmt.Errorf("websocket bridge already started")
	}
	b.started = true
	b.mu.Unlock()

	if err := b.subscriber.Subscribe(ctx, TopicHTMLBroadcast.Name(), func(ctx context.Context, msg pubsub.Message) error {
		b.Broadcast(msg.Payload)
		return nil
	}); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", TopicHTMLBroadcast.Name(), err)
	}

	if err := b.subscriber.Subscribe(ctx, TopicHTMLDirect.Name(), func(ctx context.Context, msg pubsub.Message) error {
		recipient := msg.Metadata[MetaRecipientID]
		if recipient == "" {
			slog.Warn("Direct message without recipient_id dropped", "topic", msg.Topic)
			return nil
		}
		b.SendDirect(recipient, msg.Payload)
		return nil
	}); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", TopicHTMLDirect.Name(), err)
	}

	go b.run(ctx)
	return nil
}

// run is the main bridge goroutine managing client lifecycle and routing.
func (b *Bridge) run(ctx context.Context) {
	slog.Info("WebSocket bridge runner started")
	for {
		select {
		case <-ctx.Done():
			b.closeAll()
			return

		case client := <-b.register:
			b.mu.Lock()
			b.clients[client.VisitorID] = append(b.clients[client.VisitorID], client)
			b.mu.Unlock()
			slog.Info("Client registered", "visitorID", client.VisitorID, "connID", client.ConnID)
			b.publishLifecycle(ctx, TopicClientConnected.Name(), client)

		case client := <-b.unregister:
			b.mu.Lock()
			lastConnection := false
			if clients, ok := b.clients[client.VisitorID]; ok {
				for i, c := range clients {
					if c == client {
						b.clients[client.VisitorID] = append(clients[:i], clients[i+1:]...)
						close(client.send)
						break
					}
				}
				if len(b.clients[client.VisitorID]) == 0 {
					delete(b.clients, client.VisitorID)
					lastConnection = true
				}
			}
			b.mu.Unlock()
			slog.Info("Client unregistered", "visitorID", client.VisitorID, "connID", client.ConnID)
			if lastConnection {
				b.publishLifecycle(ctx, TopicClientDisconnected.Name(), client)
			}

		case payload := <-b.broadcast:
			b.mu.RLock()
			for _, clients := range b.clients {
				for _, client := range clients {
					select {
					case client.send <- payload:
					default:
						slog.Warn("Client send channel full, dropping broadcast", "visitorID", client.VisitorID)
					}
				}
			}
			b.mu.RUnlock()

		case msg := <-b.direct:
			b.mu.RLock()
			for _, client := range b.clients[msg.visitorID] {
				select {
				case client.send <- msg.payload:
				default:
					slog.Warn("Client send channel full, dropping direct message", "visitorID", client.VisitorID)
				}
			}
			b.mu.RUnlock()
		}
	}
}

func (b *Bridge) publishLifecycle(ctx context.Context, topic string, client *Client) {
	err := b.publisher.Publish(ctx, pubsub.Message{
		Topic:     topic,
		VisitorID: client.VisitorID,
		Payload:   []byte(`{}`),
		Metadata:  map[string]string{"conn_id": client.ConnID},
	})
	if err != nil {
		slog.Error("Failed to publish lifecycle event", "topic", topic, "visitorID", client.VisitorID, "error", err)
	}
}

func (b *Bridge) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, clients := range b.clients {
		for _, client := range clients {
			close(client.send)
		}
	}
	b.clients = make(map[string][]*Client)
}

// Handler returns an echo.HandlerFunc that upgrades requests to WebSocket
// connections. The visitor ID comes from the Visitor middleware; anonymous
// connections without a session still get a usable per-connection identity.
func (b *Bridge) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		visitorID := middleware.VisitorID(c)
		if visitorID == "" {
			visitorID = uuid.NewString()
		}

		conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
			InsecureSkipVerify: true, // In production, check origin.
		})
		if err != nil {
			slog.Error("Failed to upgrade connection to WebSocket", "error", err)
			return err
		}

		client := &Client{
			VisitorID: visitorID,
			ConnID:    uuid.NewString(),
			conn:      conn,
			send:      make(chan []byte, 256),
			bridge:    b,
		}
		b.register <- client

		go client.writePump()
		go client.readPump()

		return nil
	}
}

// ConnectionCount reports the number of active connections, for tests and
// health endpoints.
func (b *Bridge) ConnectionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, clients := range b.clients {
		n += len(clients)
	}
	return n
}

// Broadcast sends a payload to every connected client.
func (b *Bridge) Broadcast(payload []byte) {
	b.broadcast <- payload
}

// SendDirect sends a payload to every connection held by one visitor.
func (b *Bridge) SendDirect(visitorID string, payload []byte) {
	b.direct <- directMessage{visitorID: visitorID, payload: payload}
}

// handleIncoming validates a client envelope against the whitelist and
// publishes it on the bus using the action as the topic.
func (b *Bridge) handleIncoming(client *Client, raw []byte) {
	var env ClientEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		slog.Debug("Dropping malformed client message", "visitorID", client.VisitorID, "error", err)
		return
	}

	if !b.whitelist.IsAllowed(env.Action) {
		slog.Warn("Dropping non-whitelisted client action", "visitorID", client.VisitorID, "action", env.Action)
		return
	}

	msg := pubsub.Message{
		Topic:     env.Action,
		VisitorID: client.VisitorID,
		Payload:   env.Payload,
		Metadata: map[string]string{
			"conn_id":   client.ConnID,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}
	if err := b.publisher.Publish(context.Background(), msg); err != nil {
		slog.Error("Failed to publish client action", "visitorID", client.VisitorID, "action", env.Action, "error", err)
	}
}

// readPump pumps messages from the WebSocket connection onto the bus.
func (c *Client) readPump() {
	defer func() {
		c.bridge.unregister <- c
		c.conn.Close(websocket.StatusNormalClosure, "Client disconnected")
	}()

	for {
		_, message, err := c.conn.Read(context.Background())
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				slog.Info("WebSocket closed normally by client", "visitorID", c.VisitorID)
			} else if err != io.EOF {
				slog.Debug("WebSocket read error", "visitorID", c.VisitorID, "error", err)
			}
			break
		}

		c.bridge.handleIncoming(c, message)
	}
}

// writePump pumps messages from the client's send channel to the connection.
func (c *Client) writePump() {
	defer func() {
		c.conn.Close(websocket.StatusNormalClosure, "Server-side cleanup")
	}()

	for message := range c.send {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := c.conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			slog.Debug("WebSocket write error", "visitorID", c.VisitorID, "error", err)
			return
		}
	}
}
