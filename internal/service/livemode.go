// internal/service/livemode.go
package service

import (
	"context"
	"log"
	"time"

	"github.com/eventcast/live-session-service/internal/apperrors"
	"github.com/eventcast/live-session-service/internal/models"
	"github.com/eventcast/live-session-service/internal/store"
)

// SetLiveMode toggles whether attendees may broadcast. Disabling tears down
// any active stream first. Store-layer problems never fail the caller: local
// client state stays authoritative until the next successful poll, so the
// only hard error here is malformed input.
func (s *LiveService) SetLiveMode(ctx context.Context, eventID string, enabled bool) (bool, error) {
	if eventID == "" {
		return false, apperrors.Validation("event id is required")
	}

	ev, err := s.createOrGetWithTimeout(ctx, eventID)
	if err != nil {
		log.Printf("⚠️ Warning: Could not load event %s (using defaults): %v", eventID, err)
		ev = &models.Event{ID: eventID}
	}

	if !enabled && ev.HasActiveStream() {
		s.teardownActiveStream(ctx, eventID)
	}

	// Bounded persist; a timeout or store error is accepted as success.
	persistCtx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()
	if err := s.store.UpdateEvent(persistCtx, eventID, store.Fields{
		"live_mode_enabled": enabled,
	}); err != nil {
		log.Printf("⚠️ Warning: Could not persist live mode for %s (continuing): %v", eventID, err)
	}

	s.publishEvent("live_mode_toggled", eventID, map[string]interface{}{
		"enabled": enabled,
	})

	return enabled, nil
}

func (s *LiveService) createOrGetWithTimeout(ctx context.Context, eventID string) (*models.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.StoreTimeout)
	defer cancel()
	return s.store.CreateOrGetEvent(ctx, eventID)
}

// teardownActiveStream ends the active session during a live-mode disable.
// Every step proceeds even if the previous one failed; none is a
// precondition for the next.
func (s *LiveService) teardownActiveStream(ctx context.Context, eventID string) {
	sess, err := s.store.FindActiveSession(ctx, eventID)
	if err != nil {
		log.Printf("⚠️ Warning: Could not find active session for %s (continuing): %v", eventID, err)
	}

	if sess != nil {
		if err := s.platform.DisableLiveStream(ctx, sess.PlatformStreamID); err != nil {
			log.Printf("⚠️ Warning: Could not disable platform stream %s (continuing): %v", sess.PlatformStreamID, err)
		}

		if err := s.store.UpdateSession(ctx, sess.ID, store.Fields{
			"status":   models.SessionStatusEnded,
			"ended_at": time.Now(),
		}); err != nil {
			log.Printf("⚠️ Warning: Could not mark session %s ended (continuing): %v", sess.ID, err)
		}
	}

	if err := s.store.UpdateEvent(ctx, eventID, store.Fields{
		"active_stream_id": nil,
		"playback_url":     nil,
	}); err != nil {
		log.Printf("⚠️ Warning: Could not clear active stream on %s (continuing): %v", eventID, err)
	}
}
