package client

import (
	"context"
	"errors"
	"sync"
	"time"
)

// CaptureSource hands out exclusive capture devices for preview. Acquire is
// called once per broadcast attempt.
type CaptureSource interface {
	Acquire(ctx context.Context) (Capture, error)
}

// Capture is a held device. Release must be safe to call exactly once per
// acquisition and is invoked on every exit path.
type Capture interface {
	Release()
}

var (
	ErrNotEligible = errors.New("not eligible to broadcast")
	ErrNoPreview   = errors.New("no capture preview active")
	ErrAlreadyLive = errors.New("a broadcast is already in progress")
	ErrNoBroadcast = errors.New("no broadcast in progress")
)

const broadcasterPollInterval = 2 * time.Second

// Broadcaster is the attendee-side client. It polls tighter than the
// operator (2s vs 3s) so eligibility to go live is noticed quickly, and it
// owns the local capture device for the lifetime of a broadcast attempt.
type Broadcaster struct {
	api           *API
	eventID       string
	guestID       string
	source        CaptureSource
	poller        *StatusPoller
	onCredentials func(StreamCredentials)

	mu      sync.Mutex
	status  LiveStatus
	capture Capture
	creds   *StreamCredentials
}

func NewBroadcaster(api *API, eventID, guestID string, source CaptureSource, onCredentials func(StreamCredentials)) *Broadcaster {
	b := &Broadcaster{
		api:           api,
		eventID:       eventID,
		guestID:       guestID,
		source:        source,
		onCredentials: onCredentials,
	}
	b.poller = NewStatusPoller(api, eventID, broadcasterPollInterval, b.applyPoll)
	return b
}

func (b *Broadcaster) Start() { b.poller.Start() }

func (b *Broadcaster) applyPoll(status LiveStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = status
}

func (b *Broadcaster) Status() LiveStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// Eligible reports whether the go-live action should be offered: live mode
// on, nobody else streaming, and no broadcast of our own in flight.
func (b *Broadcaster) Eligible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status.LiveModeEnabled && !b.status.IsStreamActive && b.creds == nil
}

// BeginPreview acquires the capture device so the attendee can frame their
// shot before committing to go live.
func (b *Broadcaster) BeginPreview(ctx context.Context) error {
	if !b.Eligible() {
		return ErrNotEligible
	}

	b.mu.Lock()
	if b.capture != nil {
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()

	capture, err := b.source.Acquire(ctx)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.capture = capture
	return nil
}

// CancelPreview releases the capture device without starting a stream.
func (b *Broadcaster) CancelPreview() {
	b.mu.Lock()
	capture := b.capture
	b.capture = nil
	b.mu.Unlock()

	if capture != nil {
		capture.Release()
	}
}

// GoLive starts the stream and hands the one-time credentials to the
// external broadcasting tool. A failed start releases the capture device:
// it must never stay held on an error path.
func (b *Broadcaster) GoLive(ctx context.Context) (*StreamCredentials, error) {
	b.mu.Lock()
	if b.creds != nil {
		b.mu.Unlock()
		return nil, ErrAlreadyLive
	}
	capture := b.capture
	b.mu.Unlock()

	if capture == nil {
		return nil, ErrNoPreview
	}

	ctx, cancel := context.WithTimeout(ctx, toggleTimeout)
	defer cancel()

	creds, err := b.api.StartStream(ctx, b.eventID, b.guestID)
	if err != nil {
		b.mu.Lock()
		b.capture = nil
		b.mu.Unlock()
		capture.Release()
		return nil, err
	}

	b.mu.Lock()
	b.creds = creds
	b.mu.Unlock()

	if b.onCredentials != nil {
		b.onCredentials(*creds)
	}
	return creds, nil
}

// StopBroadcast ends the stream. The capture device is released
// unconditionally, even when the end call fails.
func (b *Broadcaster) StopBroadcast(ctx context.Context) error {
	b.mu.Lock()
	if b.creds == nil {
		b.mu.Unlock()
		return ErrNoBroadcast
	}
	capture := b.capture
	b.capture = nil
	b.creds = nil
	b.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, toggleTimeout)
	defer cancel()
	err := b.api.EndStream(ctx, b.eventID)

	if capture != nil {
		capture.Release()
	}
	return err
}

// Close tears the broadcaster down, releasing the capture device if any
// exit path left it held.
func (b *Broadcaster) Close() {
	b.poller.Stop()

	b.mu.Lock()
	capture := b.capture
	b.capture = nil
	b.mu.Unlock()

	if capture != nil {
		capture.Release()
	}
}
