package client

import (
	"errors"
	"testing"
)

type fakePlayer struct {
	loadErr error
	loaded  []string
	closed  int
}

func (p *fakePlayer) Load(playbackURL string) error {
	if p.loadErr != nil {
		return p.loadErr
	}
	p.loaded = append(p.loaded, playbackURL)
	return nil
}

func (p *fakePlayer) Close() error {
	p.closed++
	return nil
}

func TestViewerOpenMovesToPlaying(t *testing.T) {
	player := &fakePlayer{}
	v := NewViewer(player)

	if err := v.Open("https://stream.mux.com/pb.m3u8"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if v.State() != ViewerPlaying {
		t.Errorf("state = %s, want playing", v.State())
	}
	if len(player.loaded) != 1 || player.loaded[0] != "https://stream.mux.com/pb.m3u8" {
		t.Errorf("loaded = %v", player.loaded)
	}
}

func TestViewerOpenFailure(t *testing.T) {
	loadErr := errors.New("manifest fetch failed")
	v := NewViewer(&fakePlayer{loadErr: loadErr})

	if err := v.Open("https://stream.mux.com/pb.m3u8"); err != loadErr {
		t.Fatalf("Open err = %v, want the load error", err)
	}
	if v.State() != ViewerError {
		t.Errorf("state = %s, want error", v.State())
	}
	if v.Err() != loadErr {
		t.Errorf("Err() = %v, want the load error", v.Err())
	}
}

func TestViewerFatalErrorSticksUntilDismissed(t *testing.T) {
	player := &fakePlayer{}
	v := NewViewer(player)
	if err := v.Open("https://stream.mux.com/pb.m3u8"); err != nil {
		t.Fatalf("Open: %v", err)
	}

	fatal := errors.New("playback died")
	v.OnFatal(fatal)

	if v.State() != ViewerError || v.Err() != fatal {
		t.Errorf("state = %s, err = %v, want sticky fatal error", v.State(), v.Err())
	}

	v.Dismiss()
	if v.State() != ViewerClosed {
		t.Errorf("state after dismiss = %s, want closed", v.State())
	}
	if v.Err() != nil {
		t.Errorf("Err() after dismiss = %v, want nil", v.Err())
	}
	if player.closed != 1 {
		t.Errorf("player closed %d times, want 1", player.closed)
	}
}

func TestViewerCloseIsIdempotent(t *testing.T) {
	player := &fakePlayer{}
	v := NewViewer(player)

	v.Close()
	v.Close()
	v.Dismiss()

	if player.closed != 1 {
		t.Errorf("player closed %d times, want exactly 1", player.closed)
	}
	if err := v.Open("https://stream.mux.com/pb.m3u8"); err != ErrViewerClosed {
		t.Errorf("Open after close err = %v, want ErrViewerClosed", err)
	}
}

func TestViewerIgnoresFatalAfterClose(t *testing.T) {
	v := NewViewer(&fakePlayer{})
	v.Close()

	v.OnFatal(errors.New("late error"))
	if v.State() != ViewerClosed || v.Err() != nil {
		t.Errorf("state = %s, err = %v, want closed with no error", v.State(), v.Err())
	}
}
