package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so that several instances can coexist in
// one process (tests). Every method tolerates a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	mutations        *prometheus.CounterVec
	broadcasts       *prometheus.CounterVec
	broadcastDropped *prometheus.CounterVec
	subscribers      *prometheus.GaugeVec
	reconciled       prometheus.Counter
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bs_api_requests_total",
			Help: "Total API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bs_api_request_duration_seconds",
			Help:    "API request latency in seconds by method/route.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"method", "route"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bs_api_inflight_requests",
			Help: "In-flight API requests.",
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bs_mutations_total",
			Help: "Suggestion, vote and chat mutations by operation and outcome.",
		}, []string{"op", "outcome"}),
		broadcasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bs_broadcast_delivered_total",
			Help: "Push events queued to a subscriber.",
		}, []string{"event"}),
		broadcastDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bs_broadcast_dropped_total",
			Help: "Push events dropped because a subscriber queue was full.",
		}, []string{"event"}),
		subscribers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "bs_realtime_subscribers",
			Help: "Connected realtime clients per channel.",
		}, []string{"channel"}),
		reconciled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bs_reconcile_repaired_total",
			Help: "Suggestions whose counters were rewritten from the vote ledger.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.mutations,
		m.broadcasts,
		m.broadcastDropped,
		m.subscribers,
		m.reconciled,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) IncAPIInflight() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) DecAPIInflight() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAPI(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unknown"
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveMutation counts op with outcome "ok" or the API error code.
func (m *Metrics) ObserveMutation(op, outcome string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(op, outcome).Inc()
}

func (m *Metrics) BroadcastDelivered(event string) {
	if m == nil {
		return
	}
	m.broadcasts.WithLabelValues(event).Inc()
}

func (m *Metrics) BroadcastDropped(event string) {
	if m == nil {
		return
	}
	m.broadcastDropped.WithLabelValues(event).Inc()
}

func (m *Metrics) SetSubscribers(channel string, n int) {
	if m == nil {
		return
	}
	m.subscribers.WithLabelValues(channel).Set(float64(n))
}

func (m *Metrics) AddReconciled(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.reconciled.Add(float64(n))
}
