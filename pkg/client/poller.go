package client

import (
	"context"
	"sync"
	"time"
)

// StatusPoller drives the polling-only convergence protocol: it refreshes a
// client's local mirror of live status at a fixed interval. Polling can be
// paused while an optimistic write is in flight so a stale response cannot
// overwrite the optimistic value, then resumed shortly after it settles.
type StatusPoller struct {
	api      *API
	eventID  string
	interval time.Duration
	onStatus func(LiveStatus)

	mu          sync.Mutex
	paused      bool
	resumeTimer *time.Timer

	stop chan struct{}
	done chan struct{}
}

func NewStatusPoller(api *API, eventID string, interval time.Duration, onStatus func(LiveStatus)) *StatusPoller {
	return &StatusPoller{
		api:      api,
		eventID:  eventID,
		interval: interval,
		onStatus: onStatus,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the poll loop. An immediate first fetch avoids waiting a
// full interval for the initial state.
func (p *StatusPoller) Start() {
	go p.loop()
}

func (p *StatusPoller) loop() {
	defer close(p.done)

	p.poll()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.poll()
		}
	}
}

// poll fetches once. A failed poll is invisible: the mirror simply keeps its
// last known state.
func (p *StatusPoller) poll() {
	if p.isPaused() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.interval)
	defer cancel()

	status, err := p.api.LiveStatus(ctx, p.eventID)
	if err != nil {
		return
	}
	if p.isPaused() {
		// A pause landed while the request was in flight; its response is
		// stale by definition.
		return
	}
	p.onStatus(*status)
}

// Pause suppresses polling until ResumeAfter fires.
func (p *StatusPoller) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = true
	if p.resumeTimer != nil {
		p.resumeTimer.Stop()
		p.resumeTimer = nil
	}
}

// ResumeAfter re-enables polling once the given delay has passed.
func (p *StatusPoller) ResumeAfter(delay time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.resumeTimer != nil {
		p.resumeTimer.Stop()
	}
	p.resumeTimer = time.AfterFunc(delay, func() {
		p.mu.Lock()
		p.paused = false
		p.mu.Unlock()
	})
}

func (p *StatusPoller) isPaused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Stop terminates the loop and waits for it to exit.
func (p *StatusPoller) Stop() {
	p.mu.Lock()
	if p.resumeTimer != nil {
		p.resumeTimer.Stop()
		p.resumeTimer = nil
	}
	p.mu.Unlock()

	select {
	case <-p.stop:
	default:
		close(p.stop)
	}
	<-p.done
}
