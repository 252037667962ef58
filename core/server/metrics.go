package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes connection lifecycle counters to Prometheus.
// All methods are safe on a nil receiver.
type Metrics struct {
	ActiveConnections    prometheus.Gauge
	AcceptedConnections  prometheus.Counter
	AbandonedConnections prometheus.Counter
	HookFailures         prometheus.Counter
}

// NewMetrics creates the collectors under namespace and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "active_connections",
			Help:      "Number of open client connections.",
		}),
		AcceptedConnections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "accepted_connections_total",
			Help:      "Count of accepted client connections.",
		}),
		AbandonedConnections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "abandoned_connections_total",
			Help:      "Count of connections still open when the shutdown timeout expired.",
		}),
		HookFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "shutdown_hook_failures_total",
			Help:      "Count of shutdown hooks that returned an error or panicked.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.ActiveConnections, m.AcceptedConnections, m.AbandonedConnections, m.HookFailures)
	}

	return m
}

func (m *Metrics) connOpened() {
	if m == nil {
		return
	}
	m.ActiveConnections.Inc()
	m.AcceptedConnections.Inc()
}

func (m *Metrics) connClosed() {
	if m == nil {
		return
	}
	m.ActiveConnections.Dec()
}

func (m *Metrics) abandoned(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.AbandonedConnections.Add(float64(n))
}

func (m *Metrics) hookFailed() {
	if m == nil {
		return
	}
	m.HookFailures.Inc()
}
