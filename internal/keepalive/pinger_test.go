package keepalive

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestPingerHitsTargetsAndAbsorbsFailures(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	// One reachable target, one dead one; the dead target must not stop the
	// reachable one from being pinged.
	p := New(50*time.Millisecond, "http://127.0.0.1:1/unreachable", srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Start(ctx)
		close(done)
	}()

	deadline := time.After(3 * time.Second)
	for hits.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("reachable target was not pinged repeatedly")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pinger did not stop on context cancellation")
	}
}

func TestPingerNoTargetsReturnsImmediately(t *testing.T) {
	p := New(time.Minute, "", "")
	done := make(chan struct{})
	go func() {
		p.Start(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pinger with no targets should return immediately")
	}
}

func TestNewDropsEmptyTargetsAndDefaultsInterval(t *testing.T) {
	p := New(0, "", "https://example.com", "")
	if len(p.targets) != 1 {
		t.Errorf("targets = %d, want 1", len(p.targets))
	}
	if p.interval != 5*time.Minute {
		t.Errorf("interval = %s, want default 5m", p.interval)
	}
}
