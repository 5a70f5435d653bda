package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/statuspulse/internal/domain"
	"github.com/pscheid92/statuspulse/internal/metrics"
)

const defaultPublishTimeout = 2 * time.Second

// Broadcaster builds notification and status records for state changes and
// publishes them. Publishing is best-effort: failures are logged and
// counted, never returned to the caller.
type Broadcaster struct {
	publisher      domain.Publisher
	clock          clockwork.Clock
	palette        *Palette
	metrics        *metrics.BroadcastMetrics
	publishTimeout time.Duration
}

// NewBroadcaster creates a Broadcaster. bm may be nil; a non-positive
// publishTimeout falls back to the default.
func NewBroadcaster(publisher domain.Publisher, clock clockwork.Clock, palette *Palette, bm *metrics.BroadcastMetrics, publishTimeout time.Duration) *Broadcaster {
	if publishTimeout <= 0 {
		publishTimeout = defaultPublishTimeout
	}
	return &Broadcaster{
		publisher:      publisher,
		clock:          clock,
		palette:        palette,
		metrics:        bm,
		publishTimeout: publishTimeout,
	}
}

// AnnounceConnect publishes a success notification and a status update for
// a connect that produced snap.
func (b *Broadcaster) AnnounceConnect(ctx context.Context, snap domain.Snapshot) (domain.Notification, domain.StatusUpdate) {
	n := b.newNotification(domain.KindSuccess,
		"Connection Established",
		fmt.Sprintf("Client connected successfully! Connection #%d", snap.Count),
		snap.State.Color, snap.State.Animation)

	status := domain.StatusUpdateFor(snap)
	b.publishPair(ctx, n, status)
	return n, status
}

// AnnounceDisconnect publishes a warning notification and a status update
// for a disconnect that produced snap.
func (b *Broadcaster) AnnounceDisconnect(ctx context.Context, snap domain.Snapshot) (domain.Notification, domain.StatusUpdate) {
	n := b.newNotification(domain.KindWarning,
		"Client Disconnected",
		fmt.Sprintf("Client disconnected. Active connections: %d", snap.Count),
		snap.State.Color, snap.State.Animation)

	status := domain.StatusUpdateFor(snap)
	b.publishPair(ctx, n, status)
	return n, status
}

// Heartbeat publishes an info notification with a decorative palette pair
// plus a status update for the tracked state. It does nothing and returns
// false when there are no connections.
func (b *Broadcaster) Heartbeat(ctx context.Context, snap domain.Snapshot) bool {
	if snap.Count <= 0 {
		return false
	}

	color, animation := b.palette.Pick()
	n := b.newNotification(domain.KindInfo,
		"Server Heartbeat",
		fmt.Sprintf("Server is running smoothly with %d active connections", snap.Count),
		color, animation)

	b.publishPair(ctx, n, domain.StatusUpdateFor(snap))
	if b.metrics != nil {
		b.metrics.HeartbeatsTotal.Inc()
	}
	return true
}

func (b *Broadcaster) newNotification(kind domain.NotificationKind, title, body, color, animation string) domain.Notification {
	if b.metrics != nil {
		b.metrics.NotificationsTotal.WithLabelValues(string(kind)).Inc()
	}
	return domain.Notification{
		ID:        uuid.New(),
		Kind:      kind,
		Title:     title,
		Body:      body,
		Color:     color,
		Animation: animation,
		Timestamp: b.clock.Now(),
	}
}

func (b *Broadcaster) publishPair(ctx context.Context, n domain.Notification, status domain.StatusUpdate) {
	b.publish(ctx, domain.TopicNotifications, n)
	b.publish(ctx, domain.TopicStatus, status)
}

func (b *Broadcaster) publish(ctx context.Context, topic domain.Topic, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to encode message", "topic", topic, "error", err)
		b.recordFailure(topic)
		return
	}

	// Detached from the caller's cancellation so a finished HTTP request
	// still gets its broadcast out.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.publishTimeout)
	defer cancel()

	if err := b.publisher.Publish(pubCtx, topic, payload); err != nil {
		slog.WarnContext(ctx, "Publish failed", "topic", topic, "error", err)
		b.recordFailure(topic)
		return
	}

	slog.DebugContext(ctx, "Published", "topic", topic, "bytes", len(payload))
}

func (b *Broadcaster) recordFailure(topic domain.Topic) {
	if b.metrics != nil {
		b.metrics.PublishFailures.WithLabelValues(string(topic)).Inc()
	}
}
