// internal/models/event.go
package models

import (
	"time"
)

// Event is the organizer-facing record that owns live-mode state. It is
// created lazily on first access with live mode disabled.
type Event struct {
	ID              string    `json:"id" dynamodbav:"id"`
	LiveModeEnabled bool      `json:"live_mode_enabled" dynamodbav:"live_mode_enabled"`
	ActiveStreamID  string    `json:"active_stream_id,omitempty" dynamodbav:"active_stream_id,omitempty"`
	PlaybackURL     string    `json:"playback_url,omitempty" dynamodbav:"playback_url,omitempty"`
	CreatedAt       time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// HasActiveStream reports whether a broadcast is currently attached to the event.
func (e *Event) HasActiveStream() bool {
	return e.ActiveStreamID != ""
}
