// internal/store/store.go
package store

import (
	"context"
	"errors"

	"github.com/eventcast/live-session-service/internal/models"
)

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrSessionNotFound = errors.New("stream session not found")
)

// Fields is a partial update. A nil value clears the field.
type Fields map[string]interface{}

// RecordStore is the injectable persistence collaborator. Implementations
// must not assume a conditional write primitive; the coordinator layer does
// read-then-write precondition checks on top of these operations.
type RecordStore interface {
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	// CreateOrGetEvent lazily creates the event with live mode disabled.
	CreateOrGetEvent(ctx context.Context, id string) (*models.Event, error)
	UpdateEvent(ctx context.Context, id string, fields Fields) error

	CreateSession(ctx context.Context, session *models.StreamSession) error
	UpdateSession(ctx context.Context, id string, fields Fields) error
	// FindActiveSession returns the session for the event whose status is
	// pending or live, or ErrSessionNotFound.
	FindActiveSession(ctx context.Context, eventID string) (*models.StreamSession, error)
	// FindSessionByStreamID looks a session up by its platform stream id.
	FindSessionByStreamID(ctx context.Context, platformStreamID string) (*models.StreamSession, error)
}
