package client

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ToggleState is the explicit state machine behind an optimistic live-mode
// toggle, so the rollback contract is observable instead of buried in flags.
type ToggleState int

const (
	ToggleIdle ToggleState = iota
	ToggleSubmitting
	ToggleCommitted
	ToggleRolledBack
)

func (s ToggleState) String() string {
	switch s {
	case ToggleIdle:
		return "idle"
	case ToggleSubmitting:
		return "submitting"
	case ToggleCommitted:
		return "committed"
	case ToggleRolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

var (
	ErrToggleInFlight = errors.New("a toggle is already in flight")
	ErrNotConfirmed   = errors.New("force end was not confirmed")
)

const (
	operatorPollInterval = 3 * time.Second
	toggleTimeout        = 30 * time.Second
	pollResumeDelay      = time.Second
)

// OperatorPanel is the organizer-side client: it mirrors live status via
// polling and applies live-mode toggles optimistically, rolling the mirror
// back if the server rejects, times out, or the call is cancelled.
type OperatorPanel struct {
	api     *API
	eventID string
	poller  *StatusPoller
	confirm func(prompt string) bool

	mu      sync.Mutex
	status  LiveStatus
	state   ToggleState
	lastErr error
}

// NewOperatorPanel builds a panel. confirm gates destructive actions; a nil
// confirm declines everything.
func NewOperatorPanel(api *API, eventID string, confirm func(prompt string) bool) *OperatorPanel {
	p := &OperatorPanel{
		api:     api,
		eventID: eventID,
		confirm: confirm,
	}
	p.poller = NewStatusPoller(api, eventID, operatorPollInterval, p.applyPoll)
	return p
}

func (p *OperatorPanel) Start() { p.poller.Start() }
func (p *OperatorPanel) Stop()  { p.poller.Stop() }

func (p *OperatorPanel) applyPoll(status LiveStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = status
}

// Status returns the current local mirror.
func (p *OperatorPanel) Status() LiveStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// State returns where the last toggle attempt landed.
func (p *OperatorPanel) State() ToggleState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Err returns the error from the last rolled-back toggle, if any.
func (p *OperatorPanel) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// ToggleLiveMode applies the target value locally first, then submits it
// with a bounded deadline. Success reconciles to the server-confirmed value;
// failure, timeout or cancellation reverts to the pre-toggle mirror.
func (p *OperatorPanel) ToggleLiveMode(ctx context.Context, enabled bool) error {
	p.mu.Lock()
	if p.state == ToggleSubmitting {
		p.mu.Unlock()
		return ErrToggleInFlight
	}
	prev := p.status
	p.state = ToggleSubmitting
	p.status.LiveModeEnabled = enabled
	p.status.IsStreamActive = false
	p.status.PlaybackURL = ""
	p.status.StreamSession = nil
	p.mu.Unlock()

	p.poller.Pause()
	defer p.poller.ResumeAfter(pollResumeDelay)

	ctx, cancel := context.WithTimeout(ctx, toggleTimeout)
	defer cancel()

	confirmed, err := p.api.SetLiveMode(ctx, p.eventID, enabled)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		p.status = prev
		p.state = ToggleRolledBack
		p.lastErr = err
		return err
	}

	p.status.LiveModeEnabled = confirmed
	p.state = ToggleCommitted
	p.lastErr = nil
	return nil
}

// ForceEndStream terminates the active broadcast after explicit
// confirmation. On success the local mirror is cleared immediately rather
// than waiting for the next poll.
func (p *OperatorPanel) ForceEndStream(ctx context.Context) error {
	if p.confirm == nil || !p.confirm("Force end the current stream?") {
		return ErrNotConfirmed
	}

	ctx, cancel := context.WithTimeout(ctx, toggleTimeout)
	defer cancel()

	if err := p.api.EndStream(ctx, p.eventID); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.status.IsStreamActive = false
	p.status.PlaybackURL = ""
	p.status.StreamSession = nil
	return nil
}
