package app

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/pscheid92/statuspulse/internal/domain"
	"github.com/stretchr/testify/require"
)

type publishedMessage struct {
	Topic   domain.Topic
	Payload []byte
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []publishedMessage
	failOn   map[domain.Topic]bool
}

func (p *recordingPublisher) Publish(_ context.Context, topic domain.Topic, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failOn[topic] {
		return errors.New("broker unavailable")
	}
	p.messages = append(p.messages, publishedMessage{Topic: topic, Payload: payload})
	return nil
}

func (p *recordingPublisher) all() []publishedMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]publishedMessage, len(p.messages))
	copy(out, p.messages)
	return out
}

func (p *recordingPublisher) byTopic(topic domain.Topic) []publishedMessage {
	var out []publishedMessage
	for _, m := range p.all() {
		if m.Topic == topic {
			out = append(out, m)
		}
	}
	return out
}

func decodeNotification(t *testing.T, m publishedMessage) domain.Notification {
	t.Helper()
	var n domain.Notification
	require.NoError(t, json.Unmarshal(m.Payload, &n))
	return n
}

func decodeStatus(t *testing.T, m publishedMessage) domain.StatusUpdate {
	t.Helper()
	var s domain.StatusUpdate
	require.NoError(t, json.Unmarshal(m.Payload, &s))
	return s
}

// jitterPublisher records like recordingPublisher but stalls a varying
// amount per call, widening any window in which publishes could reorder.
type jitterPublisher struct {
	recordingPublisher

	mu    sync.Mutex
	calls int
}

func (p *jitterPublisher) Publish(ctx context.Context, topic domain.Topic, payload []byte) error {
	p.mu.Lock()
	p.calls++
	delay := time.Duration(p.calls%4) * 200 * time.Microsecond
	p.mu.Unlock()

	time.Sleep(delay)
	return p.recordingPublisher.Publish(ctx, topic, payload)
}
