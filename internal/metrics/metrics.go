// Package metrics exposes Prometheus instrumentation for a connection
// pump's dispatch hot path: call/error counters and a latency histogram,
// fed from the same record points a connection keeps hitting for every
// call it serves.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the counters and histogram one server or client
// registers once and every pump shares.
type Metrics struct {
	CallsTotal       *prometheus.CounterVec
	CallErrorsTotal  *prometheus.CounterVec
	DisconnectsTotal prometheus.Counter
	DispatchLatency  *prometheus.HistogramVec
	PendingCalls     prometheus.Gauge
}

// New creates a Metrics instance and registers its collectors with reg.
// Passing a fresh prometheus.NewRegistry() (rather than the global
// DefaultRegisterer) keeps repeated test construction from panicking on
// duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "go_ipc",
			Name:      "calls_total",
			Help:      "Total FunctionCall envelopes dispatched, by class and function.",
		}, []string{"class", "function"}),
		CallErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "go_ipc",
			Name:      "call_errors_total",
			Help:      "Total FunctionReply envelopes carrying a non-empty error, by class and function.",
		}, []string{"class", "function"}),
		DisconnectsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "go_ipc",
			Name:      "disconnects_total",
			Help:      "Total connections that ended, whether cleanly or not.",
		}),
		DispatchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "go_ipc",
			Name:      "dispatch_latency_seconds",
			Help:      "Time spent resolving and running a FunctionCall's handler.",
			Buckets:   []float64{.00001, .0001, .001, .01, .1, 1, 10},
		}, []string{"class", "function"}),
		PendingCalls: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "go_ipc",
			Name:      "pending_calls",
			Help:      "Calls currently awaiting a reply across all connections.",
		}),
	}
	reg.MustRegister(m.CallsTotal, m.CallErrorsTotal, m.DisconnectsTotal, m.DispatchLatency, m.PendingCalls)
	return m
}

// RecordCall records one completed dispatch: the outcome (err nil or
// not) and how long the handler took to produce a reply.
func (m *Metrics) RecordCall(class, function string, latencySeconds float64, err error) {
	m.CallsTotal.WithLabelValues(class, function).Inc()
	m.DispatchLatency.WithLabelValues(class, function).Observe(latencySeconds)
	if err != nil {
		m.CallErrorsTotal.WithLabelValues(class, function).Inc()
	}
}

// RecordDisconnect records one connection ending.
func (m *Metrics) RecordDisconnect() {
	m.DisconnectsTotal.Inc()
}
