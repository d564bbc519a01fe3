package notifysync

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/madrasa-platform/madrasa_backend/models"
)

// fakeChannel hands the engine a channel the test feeds directly.
type fakeChannel struct {
	events       chan Event
	connectCalls int
	closed       bool
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{events: make(chan Event, 16)}
}

func (f *fakeChannel) Connect(ctx context.Context, userID string) (<-chan Event, error) {
	f.connectCalls++
	return f.events, nil
}

func (f *fakeChannel) Close() error {
	if !f.closed {
		f.closed = true
		close(f.events)
	}
	return nil
}

// fakeAPI acknowledges every call, optionally failing with a fixed error.
type fakeAPI struct {
	err         error
	listData    models.NotificationListData
	unreadCount int64
	calls       []string
}

func (f *fakeAPI) List(ctx context.Context, filter models.NotificationFilter) (models.NotificationListData, error) {
	f.calls = append(f.calls, "list")
	return f.listData, f.err
}

func (f *fakeAPI) UnreadCount(ctx context.Context) (int64, error) {
	f.calls = append(f.calls, "unread-count")
	return f.unreadCount, f.err
}

func (f *fakeAPI) MarkAsRead(ctx context.Context, id string) error {
	f.calls = append(f.calls, "mark-read:"+id)
	return f.err
}

func (f *fakeAPI) MarkAllAsRead(ctx context.Context) error {
	f.calls = append(f.calls, "mark-all-read")
	return f.err
}

func (f *fakeAPI) Delete(ctx context.Context, id string) error {
	f.calls = append(f.calls, "delete:"+id)
	return f.err
}

func (f *fakeAPI) BulkMarkAsRead(ctx context.Context, ids []string) error {
	f.calls = append(f.calls, "bulk-mark-read")
	return f.err
}

func (f *fakeAPI) BulkDelete(ctx context.Context, ids []string) error {
	f.calls = append(f.calls, "bulk-delete")
	return f.err
}

func makeNotification(read bool) models.Notification {
	return models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    primitive.NewObjectID(),
		Type:      models.NotificationTypeSystemAnnouncement,
		Title:     "test",
		Read:      read,
		CreatedAt: time.Now(),
	}
}

// seed puts notifications into the cache through the push path.
func seed(t *testing.T, e *Engine, ch *fakeChannel, ns ...models.Notification) {
	t.Helper()
	if err := e.Connect(context.Background(), "user-1"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	for i := range ns {
		ch.events <- Event{Type: EventNotification, Notification: &ns[i]}
	}
	waitFor(t, func() bool { return len(e.Notifications()) >= len(ns) })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestConnectIsIdempotent(t *testing.T) {
	ch := newFakeChannel()
	e := NewEngine(ch, &fakeAPI{}, nil, nil)

	ctx := context.Background()
	if err := e.Connect(ctx, "user-1"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := e.Connect(ctx, "user-1"); err != nil {
		t.Fatalf("second connect: %v", err)
	}
	if ch.connectCalls != 1 {
		t.Errorf("expected 1 transport connect, got %d", ch.connectCalls)
	}
}

func TestPushDeliversAndToasts(t *testing.T) {
	ch := newFakeChannel()
	var toasted []models.Notification
	e := NewEngine(ch, &fakeAPI{}, func(n models.Notification) {
		toasted = append(toasted, n)
	}, nil)

	n := makeNotification(false)
	seed(t, e, ch, n)

	ch.events <- Event{Type: EventConnected}
	waitFor(t, func() bool { return e.IsConnected() })

	if got := e.UnreadCount(); got != 1 {
		t.Errorf("expected unread 1, got %d", got)
	}
	if len(toasted) != 1 || toasted[0].ID != n.ID {
		t.Errorf("expected one toast for %s, got %v", n.ID.Hex(), toasted)
	}
}

func TestPushDropsDuplicateDeliveries(t *testing.T) {
	ch := newFakeChannel()
	toasts := 0
	e := NewEngine(ch, &fakeAPI{}, func(models.Notification) { toasts++ }, nil)

	n := makeNotification(false)
	seed(t, e, ch, n)
	ch.events <- Event{Type: EventNotification, Notification: &n}
	ch.events <- Event{Type: EventConnected}
	waitFor(t, func() bool { return e.IsConnected() })

	if got := len(e.Notifications()); got != 1 {
		t.Errorf("expected 1 cached notification, got %d", got)
	}
	if got := e.UnreadCount(); got != 1 {
		t.Errorf("expected unread 1 after duplicate delivery, got %d", got)
	}
	if toasts != 1 {
		t.Errorf("expected 1 toast, got %d", toasts)
	}
}

func TestPushPrependsNewestFirst(t *testing.T) {
	ch := newFakeChannel()
	e := NewEngine(ch, &fakeAPI{}, nil, nil)

	first := makeNotification(false)
	second := makeNotification(false)
	seed(t, e, ch, first, second)

	got := e.Notifications()
	if got[0].ID != second.ID || got[1].ID != first.ID {
		t.Error("expected newest notification first")
	}
}

func TestMarkAsReadIsIdempotent(t *testing.T) {
	ch := newFakeChannel()
	api := &fakeAPI{}
	e := NewEngine(ch, api, nil, nil)

	n := makeNotification(false)
	seed(t, e, ch, n)

	ctx := context.Background()
	id := n.ID.Hex()
	if err := e.MarkAsRead(ctx, id); err != nil {
		t.Fatalf("mark as read: %v", err)
	}
	if err := e.MarkAsRead(ctx, id); err != nil {
		t.Fatalf("second mark as read: %v", err)
	}

	if got := e.UnreadCount(); got != 0 {
		t.Errorf("expected unread 0, got %d", got)
	}
	cached := e.Notifications()[0]
	if !cached.Read || cached.ReadAt == nil {
		t.Error("expected cached notification read with a timestamp")
	}
}

func TestCounterNeverGoesNegative(t *testing.T) {
	ch := newFakeChannel()
	e := NewEngine(ch, &fakeAPI{}, nil, nil)

	n := makeNotification(false)
	seed(t, e, ch, n)

	ctx := context.Background()
	if err := e.MarkAsRead(ctx, n.ID.Hex()); err != nil {
		t.Fatalf("mark as read: %v", err)
	}
	if err := e.DeleteNotification(ctx, n.ID.Hex()); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if got := e.UnreadCount(); got != 0 {
		t.Errorf("expected unread 0, got %d", got)
	}
}

func TestMarkAllAsReadZeroesCounter(t *testing.T) {
	ch := newFakeChannel()
	e := NewEngine(ch, &fakeAPI{}, nil, nil)

	seed(t, e, ch, makeNotification(false), makeNotification(false), makeNotification(false))

	if err := e.MarkAllAsRead(context.Background()); err != nil {
		t.Fatalf("mark all as read: %v", err)
	}
	if got := e.UnreadCount(); got != 0 {
		t.Errorf("expected unread 0, got %d", got)
	}
	for _, n := range e.Notifications() {
		if !n.Read {
			t.Errorf("notification %s still unread", n.ID.Hex())
		}
	}
}

func TestDeleteUnreadDecrementsCounter(t *testing.T) {
	ch := newFakeChannel()
	e := NewEngine(ch, &fakeAPI{}, nil, nil)

	a := makeNotification(false)
	b := makeNotification(false)
	seed(t, e, ch, a, b)

	if err := e.DeleteNotification(context.Background(), a.ID.Hex()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := len(e.Notifications()); got != 1 {
		t.Errorf("expected 1 cached notification, got %d", got)
	}
	if got := e.UnreadCount(); got != 1 {
		t.Errorf("expected unread 1, got %d", got)
	}
}

func TestBulkMarkAsReadComputesDeltaOverUniqueIDs(t *testing.T) {
	ch := newFakeChannel()
	e := NewEngine(ch, &fakeAPI{}, nil, nil)

	a := makeNotification(false)
	b := makeNotification(false)
	c := makeNotification(false)
	seed(t, e, ch, a, b, c)

	// Duplicated and unknown ids must not skew the counter.
	ids := []string{a.ID.Hex(), a.ID.Hex(), b.ID.Hex(), primitive.NewObjectID().Hex()}
	if err := e.BulkMarkAsRead(context.Background(), ids); err != nil {
		t.Fatalf("bulk mark as read: %v", err)
	}

	if got := e.UnreadCount(); got != 1 {
		t.Errorf("expected unread 1, got %d", got)
	}
}

func TestBulkDeleteRemovesAndRecounts(t *testing.T) {
	ch := newFakeChannel()
	api := &fakeAPI{}
	e := NewEngine(ch, api, nil, nil)

	a := makeNotification(false)
	b := makeNotification(false)
	seed(t, e, ch, a, b)
	if err := e.MarkAsRead(context.Background(), a.ID.Hex()); err != nil {
		t.Fatalf("mark as read: %v", err)
	}

	if err := e.BulkDelete(context.Background(), []string{a.ID.Hex(), b.ID.Hex()}); err != nil {
		t.Fatalf("bulk delete: %v", err)
	}
	if got := len(e.Notifications()); got != 0 {
		t.Errorf("expected empty cache, got %d", got)
	}
	if got := e.UnreadCount(); got != 0 {
		t.Errorf("expected unread 0, got %d", got)
	}
}

func TestUnauthorizedIsSilent(t *testing.T) {
	ch := newFakeChannel()
	api := &fakeAPI{err: ErrUnauthorized}
	var surfaced []string
	e := NewEngine(ch, api, nil, func(msg string) { surfaced = append(surfaced, msg) })

	ctx := context.Background()
	if err := e.Fetch(ctx, models.NotificationFilter{}); err != nil {
		t.Errorf("expected 401 on fetch to be swallowed, got %v", err)
	}
	if err := e.MarkAsRead(ctx, primitive.NewObjectID().Hex()); err != nil {
		t.Errorf("expected 401 on mark-as-read to be swallowed, got %v", err)
	}
	if len(surfaced) != 0 {
		t.Errorf("expected no surfaced errors, got %v", surfaced)
	}
}

func TestOtherErrorsAreSurfacedAndReturned(t *testing.T) {
	ch := newFakeChannel()
	boom := errors.New("boom")
	api := &fakeAPI{err: boom}
	var surfaced []string
	e := NewEngine(ch, api, nil, func(msg string) { surfaced = append(surfaced, msg) })

	err := e.Fetch(context.Background(), models.NotificationFilter{})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if len(surfaced) != 1 {
		t.Errorf("expected one surfaced message, got %v", surfaced)
	}
}

func TestFailedMutationLeavesCacheUntouched(t *testing.T) {
	ch := newFakeChannel()
	api := &fakeAPI{}
	e := NewEngine(ch, api, nil, nil)

	n := makeNotification(false)
	seed(t, e, ch, n)

	api.err = errors.New("server down")
	_ = e.MarkAsRead(context.Background(), n.ID.Hex())

	if got := e.UnreadCount(); got != 1 {
		t.Errorf("expected unread 1 after failed mutation, got %d", got)
	}
	if e.Notifications()[0].Read {
		t.Error("expected cached notification to stay unread")
	}
}

func TestFetchPageOneReplacesDeeperPagesAppend(t *testing.T) {
	ch := newFakeChannel()
	api := &fakeAPI{}
	e := NewEngine(ch, api, nil, nil)

	stale := makeNotification(false)
	seed(t, e, ch, stale)

	a := makeNotification(true)
	b := makeNotification(false)
	api.listData = models.NotificationListData{Notifications: []models.Notification{a, b}}

	ctx := context.Background()
	if err := e.Fetch(ctx, models.NotificationFilter{Page: 1}); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got := e.Notifications(); len(got) != 2 || got[0].ID != a.ID {
		t.Errorf("expected page 1 to replace the cache, got %d entries", len(got))
	}

	// Page 2 appends, dropping ids already cached.
	c := makeNotification(true)
	api.listData = models.NotificationListData{Notifications: []models.Notification{b, c}}
	if err := e.Fetch(ctx, models.NotificationFilter{Page: 2}); err != nil {
		t.Fatalf("fetch page 2: %v", err)
	}
	got := e.Notifications()
	if len(got) != 3 || got[2].ID != c.ID {
		t.Errorf("expected page 2 to append only the new entry, got %d entries", len(got))
	}
}

func TestFetchUnreadCountReconciles(t *testing.T) {
	ch := newFakeChannel()
	api := &fakeAPI{unreadCount: 42}
	e := NewEngine(ch, api, nil, nil)

	if err := e.FetchUnreadCount(context.Background()); err != nil {
		t.Fatalf("fetch unread count: %v", err)
	}
	if got := e.UnreadCount(); got != 42 {
		t.Errorf("expected unread 42, got %d", got)
	}
}

func TestDisconnectFlagAndClose(t *testing.T) {
	ch := newFakeChannel()
	e := NewEngine(ch, &fakeAPI{}, nil, nil)

	if err := e.Connect(context.Background(), "user-1"); err != nil {
		t.Fatalf("connect: %v", err)
	}
	ch.events <- Event{Type: EventConnected}
	waitFor(t, func() bool { return e.IsConnected() })

	ch.events <- Event{Type: EventDisconnected}
	waitFor(t, func() bool { return !e.IsConnected() })

	if err := e.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	// A fresh Connect after Close starts a new subscription.
	ch2 := newFakeChannel()
	e2 := NewEngine(ch2, &fakeAPI{}, nil, nil)
	if err := e2.Connect(context.Background(), "user-1"); err != nil {
		t.Fatalf("reconnect: %v", err)
	}
}
