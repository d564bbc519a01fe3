// Package notifysync keeps a per-session view of a user's notifications
// consistent across real-time pushes and REST fetches. The Engine is
// constructed once per session with its transports injected, so tests
// can run it against fakes.
package notifysync

import (
	"context"
	"errors"

	"github.com/madrasa-platform/madrasa_backend/models"
)

// ErrUnauthorized marks a REST call rejected with HTTP 401. The engine
// swallows it: these calls may fire before login completes, so a 401 is
// a not-yet-authenticated state rather than a failure.
var ErrUnauthorized = errors.New("notifysync: unauthorized")

// Event kinds delivered over the event channel.
const (
	EventConnected          = "connected"
	EventDisconnected       = "disconnected"
	EventNotification       = "notification"
	EventSystemAnnouncement = "system_announcement"
)

// Event is a single delivery from the real-time channel.
type Event struct {
	Type         string
	Notification *models.Notification
}

// EventChannel is the real-time transport the engine subscribes to.
// Connect joins the per-user channel and returns a stream of events;
// the stream is closed when the connection drops or Close is called.
type EventChannel interface {
	Connect(ctx context.Context, userID string) (<-chan Event, error)
	Close() error
}

// API is the REST surface the engine confirms its mutations against.
// Implementations return ErrUnauthorized for 401 responses.
type API interface {
	List(ctx context.Context, filter models.NotificationFilter) (models.NotificationListData, error)
	UnreadCount(ctx context.Context) (int64, error)
	MarkAsRead(ctx context.Context, id string) error
	MarkAllAsRead(ctx context.Context) error
	Delete(ctx context.Context, id string) error
	BulkMarkAsRead(ctx context.Context, ids []string) error
	BulkDelete(ctx context.Context, ids []string) error
}
