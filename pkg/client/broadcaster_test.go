package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

type fakeCapture struct {
	released *int64
}

func (c *fakeCapture) Release() { atomic.AddInt64(c.released, 1) }

type fakeSource struct {
	acquired int64
	released int64
	err      error
}

func (s *fakeSource) Acquire(ctx context.Context) (Capture, error) {
	if s.err != nil {
		return nil, s.err
	}
	atomic.AddInt64(&s.acquired, 1)
	return &fakeCapture{released: &s.released}, nil
}

func eligibleStatus() LiveStatus {
	return LiveStatus{LiveModeEnabled: true, IsStreamActive: false}
}

func TestBeginPreviewRequiresEligibility(t *testing.T) {
	source := &fakeSource{}
	b := NewBroadcaster(NewAPI("http://127.0.0.1:0", ""), "evt1", "guest1", source, nil)

	if err := b.BeginPreview(context.Background()); err != ErrNotEligible {
		t.Errorf("err = %v, want ErrNotEligible", err)
	}

	b.applyPoll(LiveStatus{LiveModeEnabled: true, IsStreamActive: true})
	if err := b.BeginPreview(context.Background()); err != ErrNotEligible {
		t.Errorf("someone else streaming: err = %v, want ErrNotEligible", err)
	}
	if n := atomic.LoadInt64(&source.acquired); n != 0 {
		t.Errorf("capture acquired %d times while ineligible", n)
	}
}

func TestCancelPreviewReleasesCapture(t *testing.T) {
	source := &fakeSource{}
	b := NewBroadcaster(NewAPI("http://127.0.0.1:0", ""), "evt1", "guest1", source, nil)
	b.applyPoll(eligibleStatus())

	if err := b.BeginPreview(context.Background()); err != nil {
		t.Fatalf("BeginPreview: %v", err)
	}
	b.CancelPreview()

	if got := atomic.LoadInt64(&source.released); got != 1 {
		t.Errorf("released %d times, want 1", got)
	}
}

func TestGoLiveWithoutPreview(t *testing.T) {
	b := NewBroadcaster(NewAPI("http://127.0.0.1:0", ""), "evt1", "guest1", &fakeSource{}, nil)
	b.applyPoll(eligibleStatus())

	if _, err := b.GoLive(context.Background()); err != ErrNoPreview {
		t.Errorf("err = %v, want ErrNoPreview", err)
	}
}

func TestGoLiveReleasesCaptureOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(errorResponse{Error: "a stream is already active for this event"})
	}))
	defer srv.Close()

	source := &fakeSource{}
	b := NewBroadcaster(NewAPI(srv.URL, ""), "evt1", "guest1", source, nil)
	b.applyPoll(eligibleStatus())

	if err := b.BeginPreview(context.Background()); err != nil {
		t.Fatalf("BeginPreview: %v", err)
	}
	if _, err := b.GoLive(context.Background()); err == nil {
		t.Fatal("expected the conflicting start to fail")
	}

	if got := atomic.LoadInt64(&source.released); got != 1 {
		t.Errorf("released %d times after failed start, want 1", got)
	}

	// The attempt is fully reset: a new preview can be acquired.
	if err := b.BeginPreview(context.Background()); err != nil {
		t.Errorf("BeginPreview after failed start: %v", err)
	}
}

func TestGoLiveDeliversCredentialsOnce(t *testing.T) {
	creds := StreamCredentials{
		StreamID:    "ls_1",
		StreamKey:   "sk_1",
		PlaybackID:  "pb_1",
		PlaybackURL: "https://stream.mux.com/pb_1.m3u8",
		RTMPURL:     "rtmp://global-live.mux.com:5222/app/sk_1",
		SessionID:   "sess_1",
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(startStreamResponse{Success: true, Stream: &creds})
	}))
	defer srv.Close()

	var handed []StreamCredentials
	source := &fakeSource{}
	b := NewBroadcaster(NewAPI(srv.URL, ""), "evt1", "guest1", source, func(c StreamCredentials) {
		handed = append(handed, c)
	})
	b.applyPoll(eligibleStatus())

	if err := b.BeginPreview(context.Background()); err != nil {
		t.Fatalf("BeginPreview: %v", err)
	}
	got, err := b.GoLive(context.Background())
	if err != nil {
		t.Fatalf("GoLive: %v", err)
	}
	if got.StreamKey != creds.StreamKey || got.RTMPURL != creds.RTMPURL {
		t.Errorf("credentials = %+v", got)
	}
	if len(handed) != 1 {
		t.Errorf("onCredentials fired %d times, want 1", len(handed))
	}

	if b.Eligible() {
		t.Error("broadcaster must not be eligible while its own stream runs")
	}
	if _, err := b.GoLive(context.Background()); err != ErrAlreadyLive {
		t.Errorf("second GoLive err = %v, want ErrAlreadyLive", err)
	}
}

func TestStopBroadcastReleasesCaptureEvenOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/stream/start") {
			json.NewEncoder(w).Encode(startStreamResponse{Success: true, Stream: &StreamCredentials{StreamID: "ls_1", SessionID: "s1"}})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(errorResponse{Error: "store unavailable"})
	}))
	defer srv.Close()

	source := &fakeSource{}
	b := NewBroadcaster(NewAPI(srv.URL, ""), "evt1", "guest1", source, nil)
	b.applyPoll(eligibleStatus())

	if err := b.BeginPreview(context.Background()); err != nil {
		t.Fatalf("BeginPreview: %v", err)
	}
	if _, err := b.GoLive(context.Background()); err != nil {
		t.Fatalf("GoLive: %v", err)
	}

	if err := b.StopBroadcast(context.Background()); err == nil {
		t.Fatal("expected the failing end call to surface its error")
	}
	if got := atomic.LoadInt64(&source.released); got != 1 {
		t.Errorf("released %d times, want 1 despite the end failure", got)
	}

	if err := b.StopBroadcast(context.Background()); err != ErrNoBroadcast {
		t.Errorf("second stop err = %v, want ErrNoBroadcast", err)
	}
}

func TestCloseReleasesHeldCapture(t *testing.T) {
	srv := statusServer(t, eligibleStatus())
	defer srv.Close()

	source := &fakeSource{}
	b := NewBroadcaster(NewAPI(srv.URL, ""), "evt1", "guest1", source, nil)
	b.Start()
	b.applyPoll(eligibleStatus())

	if err := b.BeginPreview(context.Background()); err != nil {
		t.Fatalf("BeginPreview: %v", err)
	}
	b.Close()

	if got := atomic.LoadInt64(&source.released); got != 1 {
		t.Errorf("released %d times on close, want 1", got)
	}
}
