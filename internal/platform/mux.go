// internal/platform/mux.go
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/eventcast/live-session-service/internal/config"
)

// LiveStream is the credential triple issued by the platform for one session.
type LiveStream struct {
	StreamID   string
	StreamKey  string
	PlaybackID string
}

// Client is the external live-video platform collaborator.
type Client interface {
	CreateLiveStream(ctx context.Context) (*LiveStream, error)
	DisableLiveStream(ctx context.Context, streamID string) error
}

// MuxClient talks to the Mux Video REST API. Without credentials it runs in
// mock mode and hands out a deterministic triple, so the whole coordination
// path is exercisable with no platform account.
type MuxClient struct {
	baseURL     string
	tokenID     string
	tokenSecret string
	httpClient  *http.Client
	mockMode    bool
	mockSeq     uint64
}

func NewMuxClient(cfg *config.Config) *MuxClient {
	mockMode := cfg.MuxTokenID == "" || cfg.MuxTokenSecret == ""
	if mockMode {
		log.Printf("🔧 Mux client running in mock mode (no credentials configured)")
	}

	return &MuxClient{
		baseURL:     cfg.MuxBaseURL,
		tokenID:     cfg.MuxTokenID,
		tokenSecret: cfg.MuxTokenSecret,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		mockMode:    mockMode,
	}
}

type muxLiveStreamResponse struct {
	Data struct {
		ID          string `json:"id"`
		StreamKey   string `json:"stream_key"`
		PlaybackIDs []struct {
			ID string `json:"id"`
		} `json:"playback_ids"`
	} `json:"data"`
}

func (c *MuxClient) CreateLiveStream(ctx context.Context) (*LiveStream, error) {
	if c.mockMode {
		seq := atomic.AddUint64(&c.mockSeq, 1)
		log.Printf("📁 [MOCK] Mux create live stream: mock_stream_%d", seq)
		return &LiveStream{
			StreamID:   fmt.Sprintf("mock_stream_%d", seq),
			StreamKey:  "mock_stream_key",
			PlaybackID: "mock_playback_id",
		}, nil
	}

	body := map[string]interface{}{
		"playback_policy": []string{"public"},
		"new_asset_settings": map[string]interface{}{
			"playback_policy": []string{"public"},
		},
	}
	payload, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/video/v1/live-streams", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.tokenID, c.tokenSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to create live stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("mux create live stream returned %d: %s", resp.StatusCode, string(msg))
	}

	var out muxLiveStreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode live stream response: %w", err)
	}

	ls := &LiveStream{
		StreamID:  out.Data.ID,
		StreamKey: out.Data.StreamKey,
	}
	if len(out.Data.PlaybackIDs) > 0 {
		ls.PlaybackID = out.Data.PlaybackIDs[0].ID
	}

	log.Printf("✅ Mux live stream created: %s", ls.StreamID)
	return ls, nil
}

func (c *MuxClient) DisableLiveStream(ctx context.Context, streamID string) error {
	if c.mockMode {
		log.Printf("📁 [MOCK] Mux disable live stream: %s", streamID)
		return nil
	}

	url := fmt.Sprintf("%s/video/v1/live-streams/%s/disable", c.baseURL, streamID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build disable request: %w", err)
	}
	req.SetBasicAuth(c.tokenID, c.tokenSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to disable live stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mux disable live stream returned %d: %s", resp.StatusCode, string(msg))
	}

	log.Printf("✅ Mux live stream disabled: %s", streamID)
	return nil
}
