package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pscheid92/statuspulse/internal/domain"
	"github.com/pscheid92/statuspulse/internal/metrics"
	"github.com/pscheid92/statuspulse/internal/platform/breaker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConnectionService struct {
	mu          sync.Mutex
	connects    int
	disconnects int
}

func (f *fakeConnectionService) Connect(_ context.Context) (domain.Notification, domain.StatusUpdate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects++
	return domain.Notification{}, domain.StatusUpdate{}
}

func (f *fakeConnectionService) Disconnect(_ context.Context) (domain.Notification, domain.StatusUpdate) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnects++
	return domain.Notification{}, domain.StatusUpdate{}
}

func (f *fakeConnectionService) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connects, f.disconnects
}

// unreachableClient points at a port nothing listens on.
func unreachableClient(t *testing.T) *goredis.Client {
	t.Helper()
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestChannelName(t *testing.T) {
	assert.Equal(t, "statuspulse:status", channelName("statuspulse", "status"))
	assert.Equal(t, "status", channelName("", "status"))

	p := NewPublisher(nil, "app", nil, nil)
	assert.Equal(t, "app:notifications", p.Channel(domain.TopicNotifications))
}

func TestPublisher_UnreachableCountsFailure(t *testing.T) {
	mm := metrics.NewMirrorMetrics(prometheus.NewRegistry())
	p := NewPublisher(unreachableClient(t), "statuspulse", nil, mm)

	err := p.Publish(context.Background(), domain.TopicStatus, []byte(`{}`))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "statuspulse:status")
	assert.InDelta(t, 1, testutil.ToFloat64(mm.Failures.WithLabelValues("redis")), 0)
}

func TestPublisher_BreakerOpensOnDeadBroker(t *testing.T) {
	br := breaker.New("redis", breaker.DefaultSettings, nil)
	p := NewPublisher(unreachableClient(t), "statuspulse", br, nil)

	for range 5 {
		_ = p.Publish(context.Background(), domain.TopicStatus, []byte(`{}`))
	}
	require.Equal(t, gobreaker.StateOpen, br.State())

	err := p.Publish(context.Background(), domain.TopicStatus, []byte(`{}`))
	assert.ErrorIs(t, err, breaker.ErrOpen)
}

func TestCommandSubscriber_Handle(t *testing.T) {
	svc := &fakeConnectionService{}
	s := NewCommandSubscriber(nil, "statuspulse", svc)
	ctx := context.Background()

	s.handle(ctx, "connect")
	s.handle(ctx, " HELLO\n")
	s.handle(ctx, "disconnect")
	s.handle(ctx, "reboot")

	connects, disconnects := svc.counts()
	assert.Equal(t, 2, connects)
	assert.Equal(t, 1, disconnects)
	assert.Equal(t, "statuspulse:commands", s.Channel())
}
