package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/eventcast/live-session-service/internal/config"
)

func testConfig(baseURL, tokenID, tokenSecret string) *config.Config {
	return &config.Config{
		MuxBaseURL:     baseURL,
		MuxTokenID:     tokenID,
		MuxTokenSecret: tokenSecret,
		StoreTimeout:   5 * time.Second,
	}
}

func TestMockModeReturnsDeterministicTriple(t *testing.T) {
	c := NewMuxClient(testConfig("https://api.mux.com", "", ""))
	ctx := context.Background()

	first, err := c.CreateLiveStream(ctx)
	if err != nil {
		t.Fatalf("CreateLiveStream: %v", err)
	}
	if first.StreamID != "mock_stream_1" {
		t.Errorf("StreamID = %q, want mock_stream_1", first.StreamID)
	}
	if first.StreamKey != "mock_stream_key" || first.PlaybackID != "mock_playback_id" {
		t.Errorf("unexpected mock credentials: %+v", first)
	}

	second, err := c.CreateLiveStream(ctx)
	if err != nil {
		t.Fatalf("CreateLiveStream: %v", err)
	}
	if second.StreamID == first.StreamID {
		t.Errorf("mock stream ids must differ across calls, both %q", second.StreamID)
	}

	// Disable is a logged no-op in mock mode.
	if err := c.DisableLiveStream(ctx, first.StreamID); err != nil {
		t.Fatalf("DisableLiveStream: %v", err)
	}
}

func TestCreateLiveStreamDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/video/v1/live-streams" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if user, pass, ok := r.BasicAuth(); !ok || user != "token" || pass != "secret" {
			t.Errorf("missing or wrong basic auth")
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"id":         "ls_123",
				"stream_key": "sk_123",
				"playback_ids": []map[string]string{
					{"id": "pb_123"},
				},
			},
		})
	}))
	defer srv.Close()

	c := NewMuxClient(testConfig(srv.URL, "token", "secret"))

	ls, err := c.CreateLiveStream(context.Background())
	if err != nil {
		t.Fatalf("CreateLiveStream: %v", err)
	}
	if ls.StreamID != "ls_123" || ls.StreamKey != "sk_123" || ls.PlaybackID != "pb_123" {
		t.Errorf("unexpected live stream: %+v", ls)
	}
}

func TestCreateLiveStreamErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewMuxClient(testConfig(srv.URL, "token", "bad"))

	if _, err := c.CreateLiveStream(context.Background()); err == nil {
		t.Fatal("expected error on non-2xx response")
	}
}

func TestDisableLiveStreamHitsDisablePath(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewMuxClient(testConfig(srv.URL, "token", "secret"))

	if err := c.DisableLiveStream(context.Background(), "ls_123"); err != nil {
		t.Fatalf("DisableLiveStream: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/video/v1/live-streams/ls_123/disable" {
		t.Errorf("got %s %s, want PUT /video/v1/live-streams/ls_123/disable", gotMethod, gotPath)
	}
}
