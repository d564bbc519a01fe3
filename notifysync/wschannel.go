package notifysync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/madrasa-platform/madrasa_backend/models"
)

// wireMessage mirrors the frames the server hub writes.
type wireMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// WebSocketChannel implements EventChannel over the server's /api/ws
// endpoint using a gorilla dialer.
type WebSocketChannel struct {
	endpoint string
	token    string

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewWebSocketChannel builds a channel for the given ws:// or wss://
// endpoint, authenticating with the bearer token.
func NewWebSocketChannel(endpoint, token string) *WebSocketChannel {
	return &WebSocketChannel{endpoint: endpoint, token: token}
}

// Connect dials the hub and starts the read loop. The returned stream
// is closed when the connection drops or Close is called; a
// disconnected event is emitted first so the engine can flip its
// health flag.
func (ch *WebSocketChannel) Connect(ctx context.Context, userID string) (<-chan Event, error) {
	u, err := url.Parse(ch.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid websocket endpoint: %w", err)
	}
	q := u.Query()
	q.Set("token", ch.token)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial websocket: %w", err)
	}

	ch.mu.Lock()
	if ch.conn != nil {
		ch.conn.Close()
	}
	ch.conn = conn
	ch.mu.Unlock()

	events := make(chan Event, 16)
	go ch.readLoop(conn, events)
	return events, nil
}

func (ch *WebSocketChannel) readLoop(conn *websocket.Conn, events chan<- Event) {
	defer close(events)
	for {
		var msg wireMessage
		if err := conn.ReadJSON(&msg); err != nil {
			events <- Event{Type: EventDisconnected}
			return
		}

		switch msg.Event {
		case EventConnected:
			events <- Event{Type: EventConnected}
		case EventNotification, EventSystemAnnouncement:
			var n models.Notification
			if err := json.Unmarshal(msg.Data, &n); err != nil {
				continue
			}
			events <- Event{Type: msg.Event, Notification: &n}
		}
	}
}

// Close tears down the underlying connection.
func (ch *WebSocketChannel) Close() error {
	ch.mu.Lock()
	defer ch.mu.Unlock()
	if ch.conn == nil {
		return nil
	}
	err := ch.conn.Close()
	ch.conn = nil
	return err
}
