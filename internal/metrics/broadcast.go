package metrics

import "github.com/prometheus/client_golang/prometheus"

// BroadcastMetrics tracks the connection counter and notification fan-out.
type BroadcastMetrics struct {
	TrackedConnections prometheus.Gauge
	NotificationsTotal *prometheus.CounterVec
	PublishFailures    *prometheus.CounterVec
	HeartbeatsTotal    prometheus.Counter
}

func NewBroadcastMetrics(reg prometheus.Registerer) *BroadcastMetrics {
	m := &BroadcastMetrics{
		TrackedConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tracker",
			Name:      "connections",
			Help:      "Current value of the tracked connection counter.",
		}),
		NotificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "notifications_total",
			Help:      "Notifications built, by kind.",
		}, []string{"kind"}),
		PublishFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "publish_failures_total",
			Help:      "Publish calls that returned an error, by topic.",
		}, []string{"topic"}),
		HeartbeatsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "heartbeats_total",
			Help:      "Heartbeat notifications emitted.",
		}),
	}

	reg.MustRegister(m.TrackedConnections, m.NotificationsTotal, m.PublishFailures, m.HeartbeatsTotal)
	return m
}
