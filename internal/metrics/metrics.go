// Package metrics owns the Prometheus registry and the collectors the
// service exports on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "partners_api"

// Metrics groups every collector. A private registry keeps tests
// independent of the global default one.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	PartnersCreated   prometheus.Counter
	ChildrenInserted  *prometheus.CounterVec
	PartnersListed    prometheus.Counter
	OperationFailures *prometheus.CounterVec
}

// New registers all collectors, plus the Go runtime and process
// collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests processed.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		PartnersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partners_created_total",
			Help:      "Partners committed together with their child rows.",
		}),
		ChildrenInserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partner_children_inserted_total",
			Help:      "Committed child rows by kind (address, contact, website).",
		}, []string{"kind"}),
		PartnersListed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partners_listed_total",
			Help:      "Partner records returned by list requests.",
		}),
		OperationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "partner_operation_failures_total",
			Help:      "Failed partner operations by operation and SQL error category.",
		}, []string{"operation", "sql_code"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestsTotal,
		m.RequestDuration,
		m.PartnersCreated,
		m.ChildrenInserted,
		m.PartnersListed,
		m.OperationFailures,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
