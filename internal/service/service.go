// internal/service/service.go
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/eventcast/live-session-service/internal/config"
	"github.com/eventcast/live-session-service/internal/models"
	"github.com/eventcast/live-session-service/internal/platform"
	"github.com/eventcast/live-session-service/internal/store"
	"github.com/eventcast/live-session-service/pkg/aws"
)

// GuestVerifier resolves attendee identity. Implemented by the guest-service
// gRPC client; nil means no identity collaborator is wired.
type GuestVerifier interface {
	VerifyGuest(guestID string) (bool, string, error)
}

// LiveService owns live-mode toggling, the single-broadcaster stream
// lifecycle and the polled status projection. It holds no state between
// requests; every operation is a fresh read-then-write cycle against the
// record store.
type LiveService struct {
	config        *config.Config
	store         store.RecordStore
	platform      platform.Client
	guestClient   GuestVerifier
	kinesisClient *aws.KinesisClient
}

func NewLiveService(cfg *config.Config, st store.RecordStore, pf platform.Client, guests GuestVerifier) *LiveService {
	return &LiveService{
		config:        cfg,
		store:         st,
		platform:      pf,
		guestClient:   guests,
		kinesisClient: aws.NewKinesisClient(cfg.AWSRegion, cfg.KinesisStreamName),
	}
}

// publishEvent emits a lifecycle event to Kinesis. Best effort only.
func (s *LiveService) publishEvent(eventType, eventID string, fields map[string]interface{}) {
	event := map[string]interface{}{
		"event_type": eventType,
		"event_id":   eventID,
		"timestamp":  time.Now().Unix(),
	}
	for k, v := range fields {
		event[k] = v
	}

	data, _ := json.Marshal(event)
	if err := s.kinesisClient.PutRecord(string(data)); err != nil {
		log.Printf("⚠️ Warning: Could not publish %s event: %v", eventType, err)
	}
}

// HandlePlatformEvent processes platform webhook callbacks. The only
// transition owned by the platform is pending -> live, when ingest actually
// starts receiving video. Everything else flows through the coordinator.
func (s *LiveService) HandlePlatformEvent(ctx context.Context, eventType, platformStreamID string) error {
	if eventType != "video.live_stream.active" {
		log.Printf("🔔 Ignoring platform event %s for stream %s", eventType, platformStreamID)
		return nil
	}

	sess, err := s.store.FindSessionByStreamID(ctx, platformStreamID)
	if err != nil {
		log.Printf("⚠️ Warning: No session for platform stream %s: %v", platformStreamID, err)
		return nil
	}

	if sess.Status != models.SessionStatusPending {
		return nil
	}

	if err := s.store.UpdateSession(ctx, sess.ID, store.Fields{
		"status": models.SessionStatusLive,
	}); err != nil {
		return err
	}

	log.Printf("🔴 Stream session %s is now live", sess.ID)
	return nil
}
