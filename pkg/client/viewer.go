package client

import (
	"errors"
	"sync"
)

type ViewerState int

const (
	ViewerLoading ViewerState = iota
	ViewerPlaying
	ViewerError
	ViewerClosed
)

func (s ViewerState) String() string {
	switch s {
	case ViewerLoading:
		return "loading"
	case ViewerPlaying:
		return "playing"
	case ViewerError:
		return "error"
	case ViewerClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Player decodes an HLS feed. Implementations own the decoding/session
// resources and must free them in Close.
type Player interface {
	Load(playbackURL string) error
	Close() error
}

var ErrViewerClosed = errors.New("viewer is closed")

// Viewer renders the active broadcast from its playback URL. It never
// retries failed playback on its own; a fatal error stays on screen until
// the user dismisses it.
type Viewer struct {
	player Player

	mu     sync.Mutex
	state  ViewerState
	err    error
	closed bool
}

func NewViewer(player Player) *Viewer {
	return &Viewer{
		player: player,
		state:  ViewerLoading,
	}
}

// Open loads the playback feed, moving loading -> playing, or loading ->
// error when the manifest cannot be loaded.
func (v *Viewer) Open(playbackURL string) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrViewerClosed
	}
	v.state = ViewerLoading
	v.mu.Unlock()

	if err := v.player.Load(playbackURL); err != nil {
		v.mu.Lock()
		v.state = ViewerError
		v.err = err
		v.mu.Unlock()
		return err
	}

	v.mu.Lock()
	v.state = ViewerPlaying
	v.err = nil
	v.mu.Unlock()
	return nil
}

// OnFatal is called by the player when playback dies mid-stream.
func (v *Viewer) OnFatal(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.state = ViewerError
	v.err = err
}

func (v *Viewer) State() ViewerState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *Viewer) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// Dismiss acknowledges a fatal error and closes the viewer.
func (v *Viewer) Dismiss() {
	v.mu.Lock()
	v.err = nil
	v.mu.Unlock()
	v.Close()
}

// Close releases the player resources. Safe to call more than once; the
// player itself is closed exactly once.
func (v *Viewer) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.state = ViewerClosed
	v.mu.Unlock()

	v.player.Close()
}
