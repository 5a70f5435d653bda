package metrics

import "github.com/prometheus/client_golang/prometheus"

// MirrorMetrics tracks publishes to external brokers (Redis, MQTT).
type MirrorMetrics struct {
	Published    *prometheus.CounterVec
	Failures     *prometheus.CounterVec
	BreakerState *prometheus.GaugeVec
}

func NewMirrorMetrics(reg prometheus.Registerer) *MirrorMetrics {
	m := &MirrorMetrics{
		Published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mirror",
			Name:      "published_total",
			Help:      "Messages mirrored to an external broker.",
		}, []string{"broker"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mirror",
			Name:      "failures_total",
			Help:      "Failed mirror publishes.",
		}, []string{"broker"}),
		BreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "mirror",
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open).",
		}, []string{"broker"}),
	}

	reg.MustRegister(m.Published, m.Failures, m.BreakerState)
	return m
}
