package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIError carries the HTTP status so callers can tell a rejected request
// (conflict, forbidden) from a transport failure.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// API makes REST calls to the live-session service.
type API struct {
	baseURL        string
	operatorSecret string
	client         *http.Client
}

// NewAPI creates a client targeting the given base URL (e.g. "http://127.0.0.1:8084").
// The operator secret may be empty for viewer/broadcaster clients.
func NewAPI(baseURL, operatorSecret string) *API {
	return &API{
		baseURL:        baseURL,
		operatorSecret: operatorSecret,
		client:         &http.Client{Timeout: 35 * time.Second},
	}
}

// LiveStatus fetches GET /api/v1/events/{id}/live-status.
func (a *API) LiveStatus(ctx context.Context, eventID string) (*LiveStatus, error) {
	var out LiveStatus
	if err := a.do(ctx, http.MethodGet, "/api/v1/events/"+eventID+"/live-status", nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetLiveMode sends POST /api/v1/admin/events/{id}/live-mode and returns the
// server-confirmed value.
func (a *API) SetLiveMode(ctx context.Context, eventID string, enabled bool) (bool, error) {
	body := map[string]bool{"enabled": enabled}
	var out toggleResponse
	if err := a.do(ctx, http.MethodPost, "/api/v1/admin/events/"+eventID+"/live-mode", body, &out, true); err != nil {
		return false, err
	}
	return out.LiveModeEnabled, nil
}

// StartStream sends POST /api/v1/events/{id}/stream/start.
func (a *API) StartStream(ctx context.Context, eventID, guestID string) (*StreamCredentials, error) {
	body := map[string]string{"guest_id": guestID}
	var out startStreamResponse
	if err := a.do(ctx, http.MethodPost, "/api/v1/events/"+eventID+"/stream/start", body, &out, false); err != nil {
		return nil, err
	}
	if out.Stream == nil {
		return nil, fmt.Errorf("start stream response carried no credentials")
	}
	return out.Stream, nil
}

// EndStream sends POST /api/v1/events/{id}/stream/end.
func (a *API) EndStream(ctx context.Context, eventID string) error {
	return a.do(ctx, http.MethodPost, "/api/v1/events/"+eventID+"/stream/end", nil, nil, false)
}

func (a *API) do(ctx context.Context, method, path string, body, out interface{}, operator bool) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if operator {
		req.Header.Set("X-Operator-Secret", a.operatorSecret)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var er errorResponse
		msg := resp.Status
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, &er) == nil && er.Error != "" {
			msg = er.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
