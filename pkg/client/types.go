package client

// Wire types for the live-session HTTP API. Kept separate from the server's
// internal models so the client package stands alone.

// LiveStatus mirrors GET /events/{id}/live-status.
type LiveStatus struct {
	LiveModeEnabled bool            `json:"live_mode_enabled"`
	IsStreamActive  bool            `json:"is_stream_active"`
	PlaybackURL     string          `json:"playback_url"`
	StreamSession   *SessionSummary `json:"stream_session"`
}

type SessionSummary struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	PlaybackID string `json:"playback_id"`
}

// StreamCredentials is the one-time payload from a successful stream start.
type StreamCredentials struct {
	StreamID    string `json:"stream_id"`
	StreamKey   string `json:"stream_key"`
	PlaybackID  string `json:"playback_id"`
	PlaybackURL string `json:"playback_url"`
	RTMPURL     string `json:"rtmp_url"`
	SessionID   string `json:"session_id"`
}

type toggleResponse struct {
	Success         bool   `json:"success"`
	LiveModeEnabled bool   `json:"live_mode_enabled"`
	Message         string `json:"message"`
}

type startStreamResponse struct {
	Success bool               `json:"success"`
	Stream  *StreamCredentials `json:"stream"`
}

type errorResponse struct {
	Error string `json:"error"`
}
