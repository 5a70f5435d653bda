package breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/pscheid92/statuspulse/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("connection refused")

func fastSettings() Settings {
	s := DefaultSettings
	s.OpenTimeout = 50 * time.Millisecond
	return s
}

func TestBreaker_NormalOperation(t *testing.T) {
	b := New("redis", DefaultSettings, nil)

	for range 10 {
		require.NoError(t, b.Do(func() error { return nil }))
	}

	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreaker_TransientFailuresStayClosed(t *testing.T) {
	b := New("redis", DefaultSettings, nil)

	for range 2 {
		err := b.Do(func() error { return errDown })
		assert.ErrorIs(t, err, errDown)
	}

	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreaker_OpensAfterSustainedFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	mm := metrics.NewMirrorMetrics(reg)
	b := New("redis", DefaultSettings, mm)

	for range 5 {
		_ = b.Do(func() error { return errDown })
	}

	assert.Equal(t, gobreaker.StateOpen, b.State())
	assert.InDelta(t, 2, testutil.ToFloat64(mm.BreakerState.WithLabelValues("redis")), 0)
}

func TestBreaker_FailsFastWhenOpen(t *testing.T) {
	b := New("mqtt", DefaultSettings, nil)
	for range 5 {
		_ = b.Do(func() error { return errDown })
	}
	require.Equal(t, gobreaker.StateOpen, b.State())

	called := false
	err := b.Do(func() error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrOpen)
	assert.Contains(t, err.Error(), "mqtt")
	assert.False(t, called, "fn must not run while the breaker is open")
}

func TestBreaker_RecoversThroughHalfOpen(t *testing.T) {
	b := New("redis", fastSettings(), nil)
	for range 5 {
		_ = b.Do(func() error { return errDown })
	}
	require.Equal(t, gobreaker.StateOpen, b.State())

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, gobreaker.StateHalfOpen, b.State())

	require.NoError(t, b.Do(func() error { return nil }))
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	b := New("redis", fastSettings(), nil)
	for range 5 {
		_ = b.Do(func() error { return errDown })
	}
	time.Sleep(80 * time.Millisecond)
	require.Equal(t, gobreaker.StateHalfOpen, b.State())

	_ = b.Do(func() error { return errDown })
	assert.Equal(t, gobreaker.StateOpen, b.State())
}
