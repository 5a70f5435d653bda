package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pscheid92/statuspulse/internal/connstate"
	"github.com/pscheid92/statuspulse/internal/domain"
	"github.com/pscheid92/statuspulse/internal/metrics"
)

// Service is the single entry point for connect/disconnect signals. The HTTP
// handlers, the WebSocket RPC handlers and the heartbeat ticker share one
// instance.
type Service struct {
	tracker     *connstate.Tracker
	broadcaster *Broadcaster
	metrics     *metrics.BroadcastMetrics

	// mu orders a tracker mutation together with its announcement, so
	// subscribers see status updates in counter order.
	mu sync.Mutex
}

// NewService wires a tracker to a broadcaster. bm may be nil.
func NewService(tracker *connstate.Tracker, broadcaster *Broadcaster, bm *metrics.BroadcastMetrics) *Service {
	return &Service{
		tracker:     tracker,
		broadcaster: broadcaster,
		metrics:     bm,
	}
}

// Connect records a new connection and announces it.
func (s *Service) Connect(ctx context.Context) (domain.Notification, domain.StatusUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.tracker.Connect()
	s.observe(snap)
	slog.InfoContext(ctx, "Client connected", "connections", snap.Count, "load", snap.State.LoadLabel)

	return s.broadcaster.AnnounceConnect(ctx, snap)
}

// Disconnect records a closed connection, floored at zero, and announces it.
func (s *Service) Disconnect(ctx context.Context) (domain.Notification, domain.StatusUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.tracker.Disconnect()
	s.observe(snap)
	slog.InfoContext(ctx, "Client disconnected", "connections", snap.Count, "load", snap.State.LoadLabel)

	return s.broadcaster.AnnounceDisconnect(ctx, snap)
}

// Heartbeat announces the current state if any connection is active. It
// reports whether a heartbeat was published.
func (s *Service) Heartbeat(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.broadcaster.Heartbeat(ctx, s.tracker.CurrentState())
}

// Current returns the tracker's current snapshot.
func (s *Service) Current() domain.Snapshot {
	return s.tracker.CurrentState()
}

func (s *Service) observe(snap domain.Snapshot) {
	if s.metrics != nil {
		s.metrics.TrackedConnections.Set(float64(snap.Count))
	}
}
