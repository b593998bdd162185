package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records per-request counters for the dispatch boundary on a
// private registry.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
	inFlight prometheus.Gauge
	latency  *prometheus.HistogramVec
	reloads  prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vertx_requests_total",
			Help: "Requests dispatched through the node tree, by method and final status.",
		}, []string{"method", "status"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vertx_dispatch_errors_total",
			Help: "Requests whose error escaped every recoverer, by mapped status.",
		}, []string{"status"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "vertx_requests_in_flight",
			Help: "Requests currently traversing the node tree.",
		}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vertx_request_duration_seconds",
			Help:    "Time spent in the node tree per request.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "vertx_tree_reloads_total",
			Help: "Times a freshly built node tree was swapped in.",
		}),
	}
	m.registry.MustRegister(m.requests, m.errors, m.inFlight, m.latency, m.reloads)
	return m
}

func (m *Metrics) StartRequest() {
	m.inFlight.Inc()
}

func (m *Metrics) EndRequest(method string, status int, latency time.Duration, failed bool) {
	m.inFlight.Dec()
	method = methodLabel(method)
	code := strconv.Itoa(status)
	m.requests.WithLabelValues(method, code).Inc()
	if failed {
		m.errors.WithLabelValues(code).Inc()
	}
	m.latency.WithLabelValues(method).Observe(latency.Seconds())
}

func (m *Metrics) Reloaded() {
	m.reloads.Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// methodLabel keeps the label set bounded: clients can send any method.
func methodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodConnect,
		http.MethodOptions, http.MethodTrace:
		return method
	default:
		return "OTHER"
	}
}
