package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Allocation results recorded by the allocations counter
const (
	resultSuccess    = "success"
	resultShortfall  = "shortfall"
	resultInfeasible = "infeasible"
	resultRejected   = "rejected"
)

// Metrics holds the server's Prometheus collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	activeRequests  prometheus.Gauge

	allocationsTotal *prometheus.CounterVec
	workersPlaced    prometheus.Histogram
	unscheduled      prometheus.Counter
}

// NewMetrics registers the collectors on a new registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rider_rota",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rider_rota",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rider_rota",
			Name:      "http_active_requests",
			Help:      "Requests currently being served.",
		}),
		allocationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rider_rota",
			Name:      "allocations_total",
			Help:      "Allocation requests by scheme and result.",
		}, []string{"scheme", "result"}),
		workersPlaced: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rider_rota",
			Name:      "allocation_workers_placed",
			Help:      "Workers placed per successful allocation call.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		unscheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "rider_rota",
			Name:      "allocation_unscheduled_workers_total",
			Help:      "Workers that could not be placed.",
		}),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.activeRequests,
		m.allocationsTotal,
		m.workersPlaced,
		m.unscheduled,
		collectors.NewGoCollector(),
	)

	return m
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) recordAllocation(scheme, result string, placed, unscheduled int) {
	m.allocationsTotal.WithLabelValues(scheme, result).Inc()
	if result == resultSuccess || result == resultShortfall {
		m.workersPlaced.Observe(float64(placed))
		m.unscheduled.Add(float64(unscheduled))
	}
}
