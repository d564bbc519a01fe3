package websocket

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/madrasa-platform/madrasa_backend/models"
)

// Event names written to connected clients
const (
	EventConnected          = "connected"
	EventNotification       = "notification"
	EventSystemAnnouncement = "system_announcement"
)

// Message is a single frame sent over WebSocket.
type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// Client represents a connected WebSocket client.
type Client struct {
	UserID primitive.ObjectID
	Conn   *websocket.Conn
}

// Hub maintains the set of active clients keyed by user and delivers
// per-user pushes and announcements.
type Hub struct {
	clients    map[primitive.ObjectID]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[primitive.ObjectID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop. A second registration for the same
// user replaces the previous connection, so a user never holds two
// live subscriptions.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[client.UserID]; ok && old != client {
				old.Conn.Close()
			}
			h.clients[client.UserID] = client
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.UserID]; ok && current == client {
				delete(h.clients, client.UserID)
			}
			client.Conn.Close()
			h.mu.Unlock()
		}
	}
}

// SendToUser sends a message to a specific user
func (h *Hub) SendToUser(userID primitive.ObjectID, msg Message) error {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user not connected")
	}

	return client.Conn.WriteJSON(msg)
}

// NotifyUser pushes a stored notification to its owner, if connected.
func (h *Hub) NotifyUser(n models.Notification) error {
	return h.SendToUser(n.UserID, Message{
		Event: EventNotification,
		Data:  n,
	})
}

