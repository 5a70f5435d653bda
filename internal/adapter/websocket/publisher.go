package websocket

import (
	"context"
	"fmt"
	"time"

	"github.com/centrifugal/centrifuge"
	"github.com/pscheid92/statuspulse/internal/domain"
	"github.com/pscheid92/statuspulse/internal/metrics"
)

// Recent publications are kept per channel so reconnecting clients can
// recover what they missed.
const (
	historySize = 20
	historyTTL  = 5 * time.Minute
)

// Publisher implements domain.Publisher on a centrifuge node. Each topic
// maps one-to-one onto a channel of the same name.
type Publisher struct {
	node      *centrifuge.Node
	wsMetrics *metrics.WebSocketMetrics
}

func NewPublisher(node *centrifuge.Node, wsMetrics *metrics.WebSocketMetrics) *Publisher {
	return &Publisher{node: node, wsMetrics: wsMetrics}
}

func (p *Publisher) Publish(ctx context.Context, topic domain.Topic, payload []byte) error {
	channel := string(topic)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("publish to channel %s: %w", channel, err)
	}

	if _, err := p.node.Publish(channel, payload, centrifuge.WithHistory(historySize, historyTTL)); err != nil {
		return fmt.Errorf("publish to channel %s: %w", channel, err)
	}

	if p.wsMetrics != nil {
		p.wsMetrics.MessagesPublished.WithLabelValues(channel).Inc()
	}
	return nil
}
