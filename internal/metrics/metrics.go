// Package metrics exposes the gateway's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/resilience"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "order_gateway"

// Metrics implements the observer interfaces of the lookup, upstream and
// resilience packages on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	lookups      *prometheus.CounterVec
	legs         *prometheus.CounterVec
	legDuration  *prometheus.HistogramVec
	upstream     *prometheus.HistogramVec
	rateLimited  *prometheus.CounterVec
	breakerState *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_lookups_total",
			Help:      "Order status lookups by outcome.",
		}, []string{"outcome"}),
		legs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_legs_total",
			Help:      "Lookup legs by service and outcome.",
		}, []string{"leg", "outcome"}),
		legDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lookup_leg_duration_seconds",
			Help:      "Time spent on attempted lookup legs.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"leg"}),
		upstream: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Backend service calls by service, method and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"service", "method", "code"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected with 429 by route.",
		}, []string{"route"}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state per service (0 closed, 1 open, 2 half-open).",
		}, []string{"service"}),
	}
	m.registry.MustRegister(
		m.lookups, m.legs, m.legDuration, m.upstream, m.rateLimited, m.breakerState,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveLookup(outcome string) {
	m.lookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveLeg(leg, outcome string, elapsed time.Duration) {
	m.legs.WithLabelValues(leg, outcome).Inc()
	if elapsed > 0 {
		m.legDuration.WithLabelValues(leg).Observe(elapsed.Seconds())
	}
}

// ObserveUpstream records one exchange. Code 0 means no answer was received.
func (m *Metrics) ObserveUpstream(service, method string, code int, elapsed time.Duration) {
	m.upstream.WithLabelValues(service, method, strconv.Itoa(code)).Observe(elapsed.Seconds())
}

func (m *Metrics) RateLimited(route string) {
	m.rateLimited.WithLabelValues(route).Inc()
}

// BreakerChanged matches resilience.OnStateChange.
func (m *Metrics) BreakerChanged(service string, _, to resilience.State) {
	m.breakerState.WithLabelValues(service).Set(float64(to))
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
