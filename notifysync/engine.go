package notifysync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/madrasa-platform/madrasa_backend/models"
)

// ToastFunc is called exactly once for every newly delivered
// notification so the UI can surface it.
type ToastFunc func(n models.Notification)

// ErrorFunc is called with a user-facing message when a REST call fails
// for any reason other than not being authenticated yet.
type ErrorFunc func(msg string)

// Engine maintains the session-local notification cache, the unread
// counter and the connection-health flag. All mutations are
// fire-and-confirm: the cache changes only after the server
// acknowledged the call.
type Engine struct {
	channel EventChannel
	api     API
	onToast ToastFunc
	onError ErrorFunc

	mu            sync.Mutex
	notifications []models.Notification
	unreadCount   int64
	connected     bool
	subscribed    bool
}

// NewEngine builds an engine around the given transports. Either
// callback may be nil.
func NewEngine(channel EventChannel, api API, onToast ToastFunc, onError ErrorFunc) *Engine {
	return &Engine{
		channel: channel,
		api:     api,
		onToast: onToast,
		onError: onError,
	}
}

// Connect joins the per-user channel and starts consuming events.
// Calling it again while a subscription is live is a no-op, so a
// double Connect never produces duplicate deliveries.
func (e *Engine) Connect(ctx context.Context, userID string) error {
	e.mu.Lock()
	if e.subscribed {
		e.mu.Unlock()
		return nil
	}
	e.subscribed = true
	e.mu.Unlock()

	events, err := e.channel.Connect(ctx, userID)
	if err != nil {
		e.mu.Lock()
		e.subscribed = false
		e.mu.Unlock()
		return err
	}

	go e.consume(events)
	return nil
}

// Close tears down the event subscription.
func (e *Engine) Close() error {
	err := e.channel.Close()
	e.mu.Lock()
	e.subscribed = false
	e.connected = false
	e.mu.Unlock()
	return err
}

func (e *Engine) consume(events <-chan Event) {
	for ev := range events {
		switch ev.Type {
		case EventConnected:
			e.mu.Lock()
			e.connected = true
			e.mu.Unlock()
		case EventDisconnected:
			e.mu.Lock()
			e.connected = false
			e.mu.Unlock()
		case EventNotification, EventSystemAnnouncement:
			if ev.Notification != nil {
				e.push(*ev.Notification)
			}
		}
	}
	e.mu.Lock()
	e.connected = false
	e.subscribed = false
	e.mu.Unlock()
}

// push prepends a delivered notification. Pushes are always unread.
// The transport is at-least-once, so a notification whose id is
// already cached is dropped instead of counted twice.
func (e *Engine) push(n models.Notification) {
	e.mu.Lock()
	for _, cached := range e.notifications {
		if cached.ID == n.ID {
			e.mu.Unlock()
			return
		}
	}
	e.notifications = append([]models.Notification{n}, e.notifications...)
	e.unreadCount++
	toast := e.onToast
	e.mu.Unlock()

	if toast != nil {
		toast(n)
	}
}

// surface routes a REST failure: 401 is swallowed, everything else is
// reported and returned.
func (e *Engine) surface(err error, msg string) error {
	if errors.Is(err, ErrUnauthorized) {
		return nil
	}
	if e.onError != nil {
		e.onError(msg)
	}
	return err
}

// Fetch replaces the cache with the server's page 1 results, or
// appends the requested page for deeper pages, de-duplicating by id.
func (e *Engine) Fetch(ctx context.Context, filter models.NotificationFilter) error {
	data, err := e.api.List(ctx, filter)
	if err != nil {
		return e.surface(err, "failed to load notifications")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if filter.Page <= 1 {
		e.notifications = data.Notifications
		return nil
	}
	seen := make(map[string]bool, len(e.notifications))
	for _, n := range e.notifications {
		seen[n.ID.Hex()] = true
	}
	for _, n := range data.Notifications {
		if !seen[n.ID.Hex()] {
			e.notifications = append(e.notifications, n)
		}
	}
	return nil
}

// FetchUnreadCount pulls the authoritative unread count, reconciling
// whatever drift pushes and fetches have accumulated.
func (e *Engine) FetchUnreadCount(ctx context.Context) error {
	count, err := e.api.UnreadCount(ctx)
	if err != nil {
		return e.surface(err, "failed to load unread count")
	}
	e.mu.Lock()
	e.unreadCount = count
	e.mu.Unlock()
	return nil
}

// MarkAsRead flips one notification to read after server confirmation.
// The counter drops only when the cached record was still unread, so
// repeating the call never decrements twice.
func (e *Engine) MarkAsRead(ctx context.Context, id string) error {
	if err := e.api.MarkAsRead(ctx, id); err != nil {
		return e.surface(err, "failed to mark notification as read")
	}

	now := time.Now()
	e.mu.Lock()
	for i := range e.notifications {
		if e.notifications[i].ID.Hex() != id {
			continue
		}
		if !e.notifications[i].Read {
			e.notifications[i].Read = true
			e.notifications[i].ReadAt = &now
			if e.unreadCount > 0 {
				e.unreadCount--
			}
		}
		break
	}
	e.mu.Unlock()
	return nil
}

// MarkAllAsRead flips every cached notification to read and zeroes the
// counter after server confirmation.
func (e *Engine) MarkAllAsRead(ctx context.Context) error {
	if err := e.api.MarkAllAsRead(ctx); err != nil {
		return e.surface(err, "failed to mark notifications as read")
	}

	now := time.Now()
	e.mu.Lock()
	for i := range e.notifications {
		if !e.notifications[i].Read {
			e.notifications[i].Read = true
			e.notifications[i].ReadAt = &now
		}
	}
	e.unreadCount = 0
	e.mu.Unlock()
	return nil
}

// DeleteNotification removes one notification after server
// confirmation, decrementing the counter only when it was unread.
func (e *Engine) DeleteNotification(ctx context.Context, id string) error {
	if err := e.api.Delete(ctx, id); err != nil {
		return e.surface(err, "failed to delete notification")
	}

	e.mu.Lock()
	for i := range e.notifications {
		if e.notifications[i].ID.Hex() != id {
			continue
		}
		if !e.notifications[i].Read && e.unreadCount > 0 {
			e.unreadCount--
		}
		e.notifications = append(e.notifications[:i], e.notifications[i+1:]...)
		break
	}
	e.mu.Unlock()
	return nil
}

// BulkMarkAsRead marks a set of notifications read in one confirmed
// call. The counter delta is computed once over the unique id set, so
// overlapping ids cannot double-count.
func (e *Engine) BulkMarkAsRead(ctx context.Context, ids []string) error {
	if err := e.api.BulkMarkAsRead(ctx, ids); err != nil {
		return e.surface(err, "failed to mark notifications as read")
	}

	wanted := uniqueIDs(ids)
	now := time.Now()
	e.mu.Lock()
	var delta int64
	for i := range e.notifications {
		if !wanted[e.notifications[i].ID.Hex()] {
			continue
		}
		if !e.notifications[i].Read {
			e.notifications[i].Read = true
			e.notifications[i].ReadAt = &now
			delta++
		}
	}
	e.unreadCount -= delta
	if e.unreadCount < 0 {
		e.unreadCount = 0
	}
	e.mu.Unlock()
	return nil
}

// BulkDelete removes a set of notifications in one confirmed call.
func (e *Engine) BulkDelete(ctx context.Context, ids []string) error {
	if err := e.api.BulkDelete(ctx, ids); err != nil {
		return e.surface(err, "failed to delete notifications")
	}

	wanted := uniqueIDs(ids)
	e.mu.Lock()
	var delta int64
	kept := e.notifications[:0]
	for _, n := range e.notifications {
		if wanted[n.ID.Hex()] {
			if !n.Read {
				delta++
			}
			continue
		}
		kept = append(kept, n)
	}
	e.notifications = kept
	e.unreadCount -= delta
	if e.unreadCount < 0 {
		e.unreadCount = 0
	}
	e.mu.Unlock()
	return nil
}

func uniqueIDs(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// Notifications returns a copy of the cached notifications, newest first.
func (e *Engine) Notifications() []models.Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Notification, len(e.notifications))
	copy(out, e.notifications)
	return out
}

// UnreadCount returns the current unread tally.
func (e *Engine) UnreadCount() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.unreadCount
}

// IsConnected reports real-time channel health.
func (e *Engine) IsConnected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.connected
}
