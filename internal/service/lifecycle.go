// internal/service/lifecycle.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/eventcast/live-session-service/internal/apperrors"
	"github.com/eventcast/live-session-service/internal/models"
	"github.com/eventcast/live-session-service/internal/store"
)

// StartStream creates a broadcast session for the event and returns the
// credentials exactly once. The single-active-stream rule is enforced by a
// read-then-write precondition check: the store offers no conditional write,
// so two racing starts that both observe no active stream can slip through.
func (s *LiveService) StartStream(ctx context.Context, eventID, guestID string) (*models.StreamCredentials, error) {
	if eventID == "" {
		return nil, apperrors.Validation("event id is required")
	}

	ev, err := s.store.GetEvent(ctx, eventID)
	if err == store.ErrEventNotFound {
		return nil, apperrors.NotFound("event not found")
	}
	if err != nil {
		return nil, apperrors.StoreUnavailable(err, "failed to load event")
	}

	if !ev.LiveModeEnabled {
		return nil, apperrors.Forbidden("live mode is not enabled for this event")
	}

	if ev.HasActiveStream() {
		return nil, apperrors.Conflict("a stream is already active")
	}

	if s.guestClient != nil && guestID != "" {
		if ok, name, err := s.guestClient.VerifyGuest(guestID); err != nil || !ok {
			log.Printf("⚠️ Warning: Could not verify guest %s (continuing): %v", guestID, err)
		} else {
			log.Printf("🎥 Guest %s starting broadcast for event %s", name, eventID)
		}
	}

	ls, err := s.platform.CreateLiveStream(ctx)
	if err != nil {
		return nil, apperrors.Platform(err, "failed to create live stream")
	}
	if ls.PlaybackID == "" {
		return nil, apperrors.Platform(nil, "platform returned no playback id")
	}

	playbackURL := fmt.Sprintf(s.config.PlaybackURLTemplate, ls.PlaybackID)

	now := time.Now()
	sess := &models.StreamSession{
		ID:               uuid.NewString(),
		EventID:          eventID,
		PlatformStreamID: ls.StreamID,
		StreamKey:        ls.StreamKey,
		PlaybackID:       ls.PlaybackID,
		Status:           models.SessionStatusPending,
		StartedAt:        now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, apperrors.StoreUnavailable(err, "failed to create stream session")
	}

	if err := s.store.UpdateEvent(ctx, eventID, store.Fields{
		"active_stream_id": ls.StreamID,
		"playback_url":     playbackURL,
	}); err != nil {
		return nil, apperrors.StoreUnavailable(err, "failed to attach stream to event")
	}

	s.publishEvent("stream_started", eventID, map[string]interface{}{
		"session_id": sess.ID,
		"stream_id":  ls.StreamID,
		"guest_id":   guestID,
	})

	return &models.StreamCredentials{
		StreamID:    ls.StreamID,
		StreamKey:   ls.StreamKey,
		PlaybackID:  ls.PlaybackID,
		PlaybackURL: playbackURL,
		RTMPURL:     fmt.Sprintf(s.config.RTMPURLTemplate, ls.StreamKey),
		SessionID:   sess.ID,
	}, nil
}

// EndStream terminates the active broadcast. Calling it with no active
// stream is a hard NotFound: it signals a client-side logic error, not a
// condition to paper over.
func (s *LiveService) EndStream(ctx context.Context, eventID string) error {
	if eventID == "" {
		return apperrors.Validation("event id is required")
	}

	ev, err := s.store.GetEvent(ctx, eventID)
	if err == store.ErrEventNotFound {
		return apperrors.NotFound("event not found")
	}
	if err != nil {
		return apperrors.StoreUnavailable(err, "failed to load event")
	}

	if !ev.HasActiveStream() {
		return apperrors.NotFound("no active stream to end")
	}

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
			return apperrors.StoreUnavailable(err, "failed to mark session ended")
		}
	}

	if err := s.store.UpdateEvent(ctx, eventID, store.Fields{
		"active_stream_id": nil,
		"playback_url":     nil,
	}); err != nil {
		return apperrors.StoreUnavailable(err, "failed to clear active stream")
	}

	s.publishEvent("stream_ended", eventID, map[string]interface{}{
		"session_id": sessionID(sess),
	})

	return nil
}

func sessionID(sess *models.StreamSession) string {
	if sess == nil {
		return ""
	}
	return sess.ID
}
