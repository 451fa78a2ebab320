package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the worker collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry
	commands *prometheus.CounterVec
	exchange *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// New registers the worker collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "execution_worker",
			Name:      "commands_total",
			Help:      "Commands handled by action and outcome.",
		}, []string{"action", "outcome"}),
		exchange: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "execution_worker",
			Name:      "exchange_request_duration_seconds",
			Help:      "Exchange request latency by method and result.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15},
		}, []string{"method", "result"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "execution_worker",
			Name:      "commands_in_flight",
			Help:      "Commands currently being handled.",
		}),
	}
	registry.MustRegister(m.commands, m.exchange, m.inFlight)

	return m
}

// CommandHandled counts one command outcome.
func (m *Metrics) CommandHandled(action, outcome string) {
	m.commands.WithLabelValues(action, outcome).Inc()
}

// ObserveExchange records one exchange round trip.
func (m *Metrics) ObserveExchange(method string, ok bool, elapsed time.Duration) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.exchange.WithLabelValues(method, result).Observe(elapsed.Seconds())
}

// InFlight adjusts the in-flight gauge by delta.
func (m *Metrics) InFlight(delta float64) {
	m.inFlight.Add(delta)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// CommandsCounter exposes the command counter for tests.
func (m *Metrics) CommandsCounter() *prometheus.CounterVec {
	return m.commands
}
