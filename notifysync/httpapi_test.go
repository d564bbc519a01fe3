package notifysync

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/madrasa-platform/madrasa_backend/models"
)

func TestHTTPAPIListSendsFilterAndToken(t *testing.T) {
	var gotPath, gotQuery, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  200,
			"message": "ok",
			"data": models.NotificationListData{
				Notifications: []models.Notification{},
				Pagination:    models.Pagination{Page: 2, Limit: 10, Total: 3, TotalPages: 1},
			},
		})
	}))
	defer server.Close()

	api := NewHTTPAPI(server.URL, "token-123")
	read := true
	data, err := api.List(context.Background(), models.NotificationFilter{
		Page: 2, Limit: 10, Type: models.NotificationTypeAlert, Read: &read,
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotPath != "/api/notifications" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "limit=10&page=2&read=true&type=alert" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotAuth != "Bearer token-123" {
		t.Errorf("auth = %q", gotAuth)
	}
	if data.Pagination.Total != 3 {
		t.Errorf("pagination total = %d", data.Pagination.Total)
	}
}

func TestHTTPAPIMapsUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	api := NewHTTPAPI(server.URL, "")
	if _, err := api.UnreadCount(context.Background()); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if err := api.MarkAllAsRead(context.Background()); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestHTTPAPIFailureCarriesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  404,
			"message": "Notification not found",
		})
	}))
	defer server.Close()

	api := NewHTTPAPI(server.URL, "t")
	err := api.MarkAsRead(context.Background(), "abc")
	if err == nil || err.Error() != "request failed: Notification not found" {
		t.Errorf("expected server message in error, got %v", err)
	}
}

func TestHTTPAPIBulkEndpoints(t *testing.T) {
	type call struct {
		method, path string
		ids          []string
	}
	var calls []call
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.BulkNotificationRequest
		json.NewDecoder(r.Body).Decode(&req)
		calls = append(calls, call{r.Method, r.URL.Path, req.NotificationIDs})
		json.NewEncoder(w).Encode(map[string]interface{}{"status": 200, "message": "ok"})
	}))
	defer server.Close()

	api := NewHTTPAPI(server.URL, "t")
	ctx := context.Background()
	if err := api.BulkMarkAsRead(ctx, []string{"a", "b"}); err != nil {
		t.Fatalf("bulk mark as read: %v", err)
	}
	if err := api.BulkDelete(ctx, []string{"c"}); err != nil {
		t.Fatalf("bulk delete: %v", err)
	}

	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(calls))
	}
	if calls[0].method != http.MethodPatch || calls[0].path != "/api/notifications/bulk-mark-read" || len(calls[0].ids) != 2 {
		t.Errorf("unexpected first call %+v", calls[0])
	}
	if calls[1].method != http.MethodDelete || calls[1].path != "/api/notifications/bulk-delete" || len(calls[1].ids) != 1 {
		t.Errorf("unexpected second call %+v", calls[1])
	}
}
