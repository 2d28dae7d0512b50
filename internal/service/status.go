// internal/service/status.go
package service

import (
	"context"
	"log"

	"github.com/eventcast/live-session-service/internal/models"
)

// GetStatus is the polled read model. It is failure tolerant by contract:
// many clients hit it every 2-3 seconds and a transient store fault must
// come back as a default status, never as an error.
func (s *LiveService) GetStatus(ctx context.Context, eventID string) *models.LiveStatus {
	ev, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		ev = nil
	}

	if ev == nil {
		ev, err = s.store.CreateOrGetEvent(ctx, eventID)
		if err != nil {
			log.Printf("⚠️ Warning: Could not create event %s, returning defaults: %v", eventID, err)
			return &models.LiveStatus{
				LiveModeEnabled: false,
				IsStreamActive:  false,
			}
		}
	}

	status := &models.LiveStatus{
		LiveModeEnabled: ev.LiveModeEnabled,
		IsStreamActive:  ev.HasActiveStream(),
		PlaybackURL:     ev.PlaybackURL,
	}

	if status.IsStreamActive {
		sess, err := s.store.FindActiveSession(ctx, eventID)
		if err != nil {
			log.Printf("⚠️ Warning: Could not fetch active session for %s: %v", eventID, err)
		} else {
			// The summary never exposes the stream key.
			status.StreamSession = &models.SessionSummary{
				ID:         sess.ID,
				Status:     sess.Status,
				PlaybackID: sess.PlaybackID,
			}
		}
	}

	return status
}
