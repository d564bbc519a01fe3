package notifysync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/madrasa-platform/madrasa_backend/models"
)

// HTTPAPI implements API against the notification REST surface.
type HTTPAPI struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPAPI builds a REST client for the given base URL and bearer token.
func NewHTTPAPI(baseURL, token string) *HTTPAPI {
	return &HTTPAPI{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// envelope is the standard response wrapper of every endpoint.
type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// makeRequest performs a JSON request and decodes the response
// envelope. A 401 maps to ErrUnauthorized so callers can tell a
// not-logged-in state from a real failure.
func (a *HTTPAPI) makeRequest(ctx context.Context, method, endpoint string, payload interface{}) (*envelope, error) {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("request failed: %s", env.Message)
	}
	return &env, nil
}

// List fetches a filtered notification page.
func (a *HTTPAPI) List(ctx context.Context, filter models.NotificationFilter) (models.NotificationListData, error) {
	q := url.Values{}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Type != "" {
		q.Set("type", filter.Type)
	}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Read != nil {
		q.Set("read", strconv.FormatBool(*filter.Read))
	}

	endpoint := "/api/notifications"
	if encoded := q.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var data models.NotificationListData
	env, err := a.makeRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return data, err
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return data, fmt.Errorf("failed to parse notification list: %w", err)
	}
	return data, nil
}

// UnreadCount fetches the authoritative unread count.
func (a *HTTPAPI) UnreadCount(ctx context.Context) (int64, error) {
	env, err := a.makeRequest(ctx, http.MethodGet, "/api/notifications/unread-count", nil)
	if err != nil {
		return 0, err
	}
	var data models.UnreadCountData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return 0, fmt.Errorf("failed to parse unread count: %w", err)
	}
	return data.UnreadCount, nil
}

// MarkAsRead marks one notification read.
func (a *HTTPAPI) MarkAsRead(ctx context.Context, id string) error {
	_, err := a.makeRequest(ctx, http.MethodPatch, "/api/notifications/"+id+"/read", nil)
	return err
}

// MarkAllAsRead marks every notification of the user read.
func (a *HTTPAPI) MarkAllAsRead(ctx context.Context) error {
	_, err := a.makeRequest(ctx, http.MethodPatch, "/api/notifications/mark-all-read", nil)
	return err
}

// Delete removes one notification.
func (a *HTTPAPI) Delete(ctx context.Context, id string) error {
	_, err := a.makeRequest(ctx, http.MethodDelete, "/api/notifications/"+id, nil)
	return err
}

// BulkMarkAsRead marks a batch of notifications read in one call.
func (a *HTTPAPI) BulkMarkAsRead(ctx context.Context, ids []string) error {
	_, err := a.makeRequest(ctx, http.MethodPatch, "/api/notifications/bulk-mark-read",
		models.BulkNotificationRequest{NotificationIDs: ids})
	return err
}

// BulkDelete removes a batch of notifications in one call.
func (a *HTTPAPI) BulkDelete(ctx context.Context, ids []string) error {
	_, err := a.makeRequest(ctx, http.MethodDelete, "/api/notifications/bulk-delete",
		models.BulkNotificationRequest{NotificationIDs: ids})
	return err
}
