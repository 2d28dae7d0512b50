package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func statusServer(t *testing.T, status LiveStatus) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	}))
}

func TestPollerDeliversStatus(t *testing.T) {
	srv := statusServer(t, LiveStatus{LiveModeEnabled: true, IsStreamActive: true, PlaybackURL: "https://stream.mux.com/pb.m3u8"})
	defer srv.Close()

	got := make(chan LiveStatus, 1)
	p := NewStatusPoller(NewAPI(srv.URL, ""), "evt1", 20*time.Millisecond, func(s LiveStatus) {
		select {
		case got <- s:
		default:
		}
	})
	p.Start()
	defer p.Stop()

	select {
	case s := <-got:
		if !s.LiveModeEnabled || !s.IsStreamActive {
			t.Errorf("delivered status = %+v", s)
		}
	case <-time.After(time.Second):
		t.Fatal("poller never delivered a status")
	}
}

func TestPauseSuppressesPolling(t *testing.T) {
	var delivered int64
	srv := statusServer(t, LiveStatus{LiveModeEnabled: true})
	defer srv.Close()

	p := NewStatusPoller(NewAPI(srv.URL, ""), "evt1", 10*time.Millisecond, func(LiveStatus) {
		atomic.AddInt64(&delivered, 1)
	})
	p.Pause()
	p.Start()
	defer p.Stop()

	time.Sleep(100 * time.Millisecond)
	if n := atomic.LoadInt64(&delivered); n != 0 {
		t.Errorf("paused poller delivered %d statuses", n)
	}
}

func TestResumeAfterReenablesPolling(t *testing.T) {
	var delivered int64
	srv := statusServer(t, LiveStatus{LiveModeEnabled: true})
	defer srv.Close()

	p := NewStatusPoller(NewAPI(srv.URL, ""), "evt1", 10*time.Millisecond, func(LiveStatus) {
		atomic.AddInt64(&delivered, 1)
	})
	p.Pause()
	p.Start()
	defer p.Stop()

	p.ResumeAfter(20 * time.Millisecond)

	deadline := time.After(time.Second)
	for atomic.LoadInt64(&delivered) == 0 {
		select {
		case <-deadline:
			t.Fatal("poller never resumed")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestPauseDiscardsInFlightResponse(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		json.NewEncoder(w).Encode(LiveStatus{LiveModeEnabled: true})
	}))
	defer srv.Close()

	var delivered int64
	p := NewStatusPoller(NewAPI(srv.URL, ""), "evt1", time.Second, func(LiveStatus) {
		atomic.AddInt64(&delivered, 1)
	})
	p.Start()
	defer p.Stop()

	// Let the first poll reach the server, then pause while it is blocked.
	time.Sleep(50 * time.Millisecond)
	p.Pause()
	close(release)

	time.Sleep(100 * time.Millisecond)
	if n := atomic.LoadInt64(&delivered); n != 0 {
		t.Errorf("stale in-flight response was delivered %d times", n)
	}
}
