package mqtt

import (
	"context"
	"errors"
	"fmt"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pscheid92/statuspulse/internal/domain"
	"github.com/pscheid92/statuspulse/internal/metrics"
	"github.com/pscheid92/statuspulse/internal/platform/breaker"
)

const brokerName = "mqtt"

var (
	ErrNotConnected   = errors.New("mqtt client not connected")
	ErrPublishTimeout = errors.New("mqtt publish timed out")
)

// brokerClient is the slice of pahomqtt.Client the publisher uses.
type brokerClient interface {
	IsConnectionOpen() bool
	Publish(topic string, qos byte, retained bool, payload any) pahomqtt.Token
	Disconnect(quiesce uint)
}

// Publisher mirrors topics to "<prefix>/<topic>". The status topic is
// retained so a device that subscribes late still sees the current state.
type Publisher struct {
	client  brokerClient
	prefix  string
	qos     byte
	breaker *breaker.Breaker
	metrics *metrics.MirrorMetrics
}

// NewPublisher creates an MQTT mirror. br and mm may be nil.
func NewPublisher(client brokerClient, prefix string, qos byte, br *breaker.Breaker, mm *metrics.MirrorMetrics) *Publisher {
	return &Publisher{client: client, prefix: prefix, qos: qos, breaker: br, metrics: mm}
}

// TopicFor returns the MQTT topic a domain topic is mirrored to.
func (p *Publisher) TopicFor(topic domain.Topic) string {
	if p.prefix == "" {
		return string(topic)
	}
	return p.prefix + "/" + string(topic)
}

func (p *Publisher) Publish(ctx context.Context, topic domain.Topic, payload []byte) error {
	mqttTopic := p.TopicFor(topic)
	retained := topic == domain.TopicStatus

	publish := func() error {
		if !p.client.IsConnectionOpen() {
			return ErrNotConnected
		}
		token := p.client.Publish(mqttTopic, p.qos, retained, payload)
		select {
		case <-token.Done():
			return token.Error()
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrPublishTimeout, ctx.Err())
		}
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
		return fmt.Errorf("mqtt publish to %s: %w", mqttTopic, err)
	}

	if p.metrics != nil {
		p.metrics.Published.WithLabelValues(brokerName).Inc()
	}
	return nil
}

// IsConnected backs the readiness check.
func (p *Publisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects after letting in-flight publishes drain briefly.
func (p *Publisher) Close() {
	p.client.Disconnect(disconnectQuiesce)
}
