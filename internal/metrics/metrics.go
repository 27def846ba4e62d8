// Package metrics exposes GraphQL operation counters to Prometheus.
package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// otherOperation labels every operation name outside the known set.
const otherOperation = "other"

type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	// lowercased name -> label
	known map[string]string
}

// New registers the collectors. operations is the closed set of names that
// get their own label, matched case-insensitively.
func New(operations []string) *Metrics {
	m := &Metrics{
		known:    make(map[string]string, len(operations)),
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lireddit",
			Subsystem: "graphql",
			Name:      "operations_total",
			Help:      "GraphQL operations executed, by operation name and outcome.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lireddit",
			Subsystem: "graphql",
			Name:      "duration_seconds",
			Help:      "GraphQL operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	m.registry.MustRegister(
		m.operations,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	for _, op := range operations {
		m.known[strings.ToLower(op)] = op
	}
	return m
}

func (m *Metrics) label(operation string) string {
	if operation == "" {
		return "anonymous"
	}
	if op, ok := m.known[strings.ToLower(operation)]; ok {
		return op
	}
	return otherOperation
}

// ObserveOperation records one executed operation under its client-supplied name.
func (m *Metrics) ObserveOperation(operation string, ok bool, took time.Duration) {
	operation = m.label(operation)
	status := "ok"
	if !ok {
		status = "error"
	}
	m.operations.WithLabelValues(operation, status).Inc()
	m.duration.WithLabelValues(operation).Observe(took.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
