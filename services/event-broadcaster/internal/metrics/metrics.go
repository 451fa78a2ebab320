package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the broadcaster collectors on a private registry.
type Metrics struct {
	registry    *prometheus.Registry
	connections prometheus.Gauge
	broadcasts  *prometheus.CounterVec
}

// New registers the broadcaster collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "event_broadcaster",
			Name:      "active_connections",
			Help:      "Open WebSocket connections.",
		}),
		broadcasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "event_broadcaster",
			Name:      "broadcasts_total",
			Help:      "Broadcast deliveries by outcome.",
		}, []string{"outcome"}),
	}
	registry.MustRegister(m.connections, m.broadcasts)

	return m
}

// Connected increments the open connection gauge.
func (m *Metrics) Connected() { m.connections.Inc() }

// Disconnected decrements the open connection gauge.
func (m *Metrics) Disconnected() { m.connections.Dec() }

// Broadcast counts n deliveries with the given outcome.
func (m *Metrics) Broadcast(outcome string, n int) {
	m.broadcasts.WithLabelValues(outcome).Add(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Connections exposes the gauge for tests.
func (m *Metrics) Connections() prometheus.Gauge { return m.connections }

// Broadcasts exposes the counter for tests.
func (m *Metrics) Broadcasts() *prometheus.CounterVec { return m.broadcasts }
