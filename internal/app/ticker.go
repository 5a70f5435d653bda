package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/statuspulse/internal/platform/correlation"
)

const DefaultHeartbeatInterval = 10 * time.Second

type heartbeater interface {
	Heartbeat(ctx context.Context) bool
}

// HeartbeatTicker emits a heartbeat on a fixed interval while connections
// are active.
type HeartbeatTicker struct {
	service  heartbeater
	clock    clockwork.Clock
	interval time.Duration
}

func NewHeartbeatTicker(service heartbeater, clock clockwork.Clock, interval time.Duration) *HeartbeatTicker {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	return &HeartbeatTicker{
		service:  service,
		clock:    clock,
		interval: interval,
	}
}

// Run drives heartbeats until ctx is cancelled.
func (t *HeartbeatTicker) Run(ctx context.Context) {
	ticker := t.clock.NewTicker(t.interval)
	defer ticker.Stop()

	slog.Info("Heartbeat ticker started", "interval", t.interval)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Heartbeat ticker stopped")
			return
		case <-ticker.Chan():
			t.tick(ctx)
		}
	}
}

func (t *HeartbeatTicker) tick(ctx context.Context) {
	tickCtx := correlation.WithID(ctx, correlation.NewID())

	if !t.service.Heartbeat(tickCtx) {
		slog.DebugContext(tickCtx, "Heartbeat skipped, no active connections")
		return
	}
	slog.DebugContext(tickCtx, "Heartbeat published")
}
