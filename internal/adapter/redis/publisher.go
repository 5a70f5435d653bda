package redis

import (
	"context"
	"fmt"

	"github.com/pscheid92/statuspulse/internal/domain"
	"github.com/pscheid92/statuspulse/internal/metrics"
	"github.com/pscheid92/statuspulse/internal/platform/breaker"
	goredis "github.com/redis/go-redis/v9"
)

const brokerName = "redis"

// Publisher mirrors every topic onto a Redis Pub/Sub channel named
// "<prefix>:<topic>" for consumers outside the WebSocket audience.
type Publisher struct {
	rdb     *goredis.Client
	prefix  string
	breaker *breaker.Breaker
	metrics *metrics.MirrorMetrics
}

// NewPublisher creates a Redis mirror. br and mm may be nil.
func NewPublisher(rdb *goredis.Client, prefix string, br *breaker.Breaker, mm *metrics.MirrorMetrics) *Publisher {
	return &Publisher{rdb: rdb, prefix: prefix, breaker: br, metrics: mm}
}

// Channel returns the Redis channel a topic is mirrored to.
func (p *Publisher) Channel(topic domain.Topic) string {
	return channelName(p.prefix, string(topic))
}

func (p *Publisher) Publish(ctx context.Context, topic domain.Topic, payload []byte) error {
	channel := p.Channel(topic)
	publish := func() error {
		return p.rdb.Publish(ctx, channel, payload).Err()
	}

	var err error
	if p.breaker != nil {
		err = p.breaker.Do(publish)
	} else {
		err = publish()
	}

	if err != nil {
		if p.metrics != nil {
			p.metrics.Failures.WithLabelValues(brokerName).Inc()
		}
		return fmt.Errorf("redis publish to %s: %w", channel, err)
	}

	if p.metrics != nil {
		p.metrics.Published.WithLabelValues(brokerName).Inc()
	}
	return nil
}

func channelName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + ":" + name
}
