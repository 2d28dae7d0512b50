// internal/store/memory.go
package store

import (
	"context"
	"sync"
	"time"

	"github.com/eventcast/live-session-service/internal/models"
)

// MemoryStore is the in-process RecordStore used by tests and by
// STORE_BACKEND=memory dev runs. All methods return copies so callers can
// never mutate stored records behind the store's back.
type MemoryStore struct {
	mu       sync.Mutex
	events   map[string]*models.Event
	sessions map[string]*models.StreamSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events:   make(map[string]*models.Event),
		sessions: make(map[string]*models.StreamSession),
	}
}

func (m *MemoryStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ev, ok := m.events[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	cp := *ev
	return &cp, nil
}

func (m *MemoryStore) CreateOrGetEvent(ctx context.Context, id string) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ev, ok := m.events[id]; ok {
		cp := *ev
		return &cp, nil
	}

	now := time.Now()
	ev := &models.Event{
		ID:              id,
		LiveModeEnabled: false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	m.events[id] = ev
	cp := *ev
	return &cp, nil
}

func (m *MemoryStore) UpdateEvent(ctx context.Context, id string, fields Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ev, ok := m.events[id]
	if !ok {
		return ErrEventNotFound
	}

	for key, value := range fields {
		switch key {
		case "live_mode_enabled":
			ev.LiveModeEnabled = value.(bool)
		case "active_stream_id":
			if value == nil {
				ev.ActiveStreamID = ""
			} else {
				ev.ActiveStreamID = value.(string)
			}
		case "playback_url":
			if value == nil {
				ev.PlaybackURL = ""
			} else {
				ev.PlaybackURL = value.(string)
			}
		}
	}
	ev.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) CreateSession(ctx context.Context, session *models.StreamSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *session
	m.sessions[session.ID] = &cp
	return nil
}

func (m *MemoryStore) UpdateSession(ctx context.Context, id string, fields Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}

	for key, value := range fields {
		switch key {
		case "status":
			sess.Status = value.(models.SessionStatus)
		case "ended_at":
			if value == nil {
				sess.EndedAt = nil
			} else {
				t := value.(time.Time)
				sess.EndedAt = &t
			}
		}
	}
	sess.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) FindActiveSession(ctx context.Context, eventID string) (*models.StreamSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sess := range m.sessions {
		if sess.EventID == eventID && sess.Status.Active() {
			cp := *sess
			return &cp, nil
		}
	}
	return nil, ErrSessionNotFound
}

func (m *MemoryStore) FindSessionByStreamID(ctx context.Context, platformStreamID string) (*models.StreamSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sess := range m.sessions {
		if sess.PlatformStreamID == platformStreamID {
			cp := *sess
			return &cp, nil
		}
	}
	return nil, ErrSessionNotFound
}

// SessionsForEvent returns every session recorded for the event. Test helper
// for checking the one-active-stream invariant.
func (m *MemoryStore) SessionsForEvent(eventID string) []*models.StreamSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*models.StreamSession
	for _, sess := range m.sessions {
		if sess.EventID == eventID {
			cp := *sess
			out = append(out, &cp)
		}
	}
	return out
}
