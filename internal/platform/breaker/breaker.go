// Package breaker wraps sony/gobreaker for the external broker mirrors so a
// dead broker fails fast instead of stalling every broadcast.
package breaker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pscheid92/statuspulse/internal/metrics"
	"github.com/sony/gobreaker"
)

// ErrOpen is returned while the breaker rejects calls.
var ErrOpen = errors.New("circuit breaker open")

// Settings tune when the breaker trips and how long it stays open.
type Settings struct {
	MinRequests      uint32
	FailureRatio     float64
	Interval         time.Duration
	OpenTimeout      time.Duration
	HalfOpenRequests uint32
}

var DefaultSettings = Settings{
	MinRequests:      5,
	FailureRatio:     0.6,
	Interval:         10 * time.Second,
	OpenTimeout:      30 * time.Second,
	HalfOpenRequests: 1,
}

type Breaker struct {
	name string
	cb   *gobreaker.CircuitBreaker
}

// New creates a breaker reporting state changes under name. mm may be nil.
func New(name string, s Settings, mm *metrics.MirrorMetrics) *Breaker {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: s.HalfOpenRequests,
		Interval:    s.Interval,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= s.MinRequests &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= s.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "component", name, "from", from.String(), "to", to.String())
			if mm != nil {
				mm.BreakerState.WithLabelValues(name).Set(stateToFloat(to))
			}
		},
	})
	if mm != nil {
		mm.BreakerState.WithLabelValues(name).Set(stateToFloat(gobreaker.StateClosed))
	}
	return &Breaker{name: name, cb: cb}
}

// Do runs fn through the breaker.
func (b *Breaker) Do(fn func() error) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w", b.name, ErrOpen)
	}
	return err
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
