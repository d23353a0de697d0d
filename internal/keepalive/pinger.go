// Package keepalive runs the periodic self-ping task that keeps the service
// and the viewer front end warm on platforms that idle them out.
package keepalive

import (
	"context"
	"log"
	"net/http"
	"time"
)

// Pinger probes a fixed set of URLs on an interval. It holds no locks and
// its failures are absorbed: a timeout or network error is logged and never
// escalates.
type Pinger struct {
	interval time.Duration
	targets  []string
	client   *http.Client
}

// New creates a Pinger for the given targets; empty targets are dropped.
func New(interval time.Duration, targets ...string) *Pinger {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	kept := make([]string, 0, len(targets))
	for _, t := range targets {
		if t != "" {
			kept = append(kept, t)
		}
	}
	return &Pinger{
		interval: interval,
		targets:  kept,
		client:   &http.Client{Timeout: 6 * time.Second},
	}
}

// Start runs the ping loop until ctx is cancelled. Blocks; run it in its own
// goroutine. Returns immediately when there is nothing to ping.
func (p *Pinger) Start(ctx context.Context) {
	if len(p.targets) == 0 {
		return
	}
	log.Printf("[KeepAlive] Pinger started: interval=%s targets=%d", p.interval, len(p.targets))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.pingAll(ctx)
	for {
		select {
		case <-ctx.Done():
			log.Println("[KeepAlive] Pinger stopped.")
			return
		case <-ticker.C:
			p.pingAll(ctx)
		}
	}
}

func (p *Pinger) pingAll(ctx context.Context) {
	for _, target := range p.targets {
		p.ping(ctx, target)
	}
}

func (p *Pinger) ping(ctx context.Context, target string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		log.Printf("WARN [KeepAlive] ping %s: %v", target, err)
		return
	}
	resp, err := p.client.Do(req)
	if err != nil {
		log.Printf("WARN [KeepAlive] ping %s failed: %v", target, err)
		return
	}
	resp.Body.Close()
}
