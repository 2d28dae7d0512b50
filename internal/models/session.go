// internal/models/session.go
package models

import (
	"time"
)

type SessionStatus string

const (
	SessionStatusPending SessionStatus = "pending"
	SessionStatusLive    SessionStatus = "live"
	SessionStatusEnded   SessionStatus = "ended"
)

// Active reports whether the session still counts against the
// one-active-stream-per-event rule.
func (s SessionStatus) Active() bool {
	return s == SessionStatusPending || s == SessionStatusLive
}

// StreamSession is one broadcast attempt. Credentials are issued by the
// platform once at creation and never reissued for the same session.
type StreamSession struct {
	ID               string        `json:"id" dynamodbav:"id"`
	EventID          string        `json:"event_id" dynamodbav:"event_id"`
	PlatformStreamID string        `json:"platform_stream_id" dynamodbav:"platform_stream_id"`
	StreamKey        string        `json:"stream_key" dynamodbav:"stream_key"`
	PlaybackID       string        `json:"playback_id" dynamodbav:"playback_id"`
	Status           SessionStatus `json:"status" dynamodbav:"status"`
	StartedAt        time.Time     `json:"started_at" dynamodbav:"started_at"`
	EndedAt          *time.Time    `json:"ended_at,omitempty" dynamodbav:"ended_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" dynamodbav:"updated_at"`
}

// SessionSummary is the viewer-safe projection of a session. It never
// carries the stream key.
type SessionSummary struct {
	ID         string        `json:"id"`
	Status     SessionStatus `json:"status"`
	PlaybackID string        `json:"playback_id"`
}

// LiveStatus is the polled read model consumed by every client.
type LiveStatus struct {
	LiveModeEnabled bool            `json:"live_mode_enabled"`
	IsStreamActive  bool            `json:"is_stream_active"`
	PlaybackURL     string          `json:"playback_url"`
	StreamSession   *SessionSummary `json:"stream_session"`
}

// StreamCredentials is returned exactly once, from a successful start.
type StreamCredentials struct {
	StreamID    string `json:"stream_id"`
	StreamKey   string `json:"stream_key"`
	PlaybackID  string `json:"playback_id"`
	PlaybackURL string `json:"playback_url"`
	RTMPURL     string `json:"rtmp_url"`
	SessionID   string `json:"session_id"`
}
