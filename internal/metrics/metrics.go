// Package metrics provides Prometheus instrumentation for event ingestion
// and summary computation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricEventsIngestedTotal    = "events_ingested_total"
	MetricSummaryDurationSeconds = "summary_duration_seconds"
)

// Source labels for ingestion paths.
const (
	SourceAPI   = "api"
	SourceQueue = "queue"
)

// Status labels for ingestion outcome.
const (
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Metrics contains the service's Prometheus collectors. All operations are
// thread-safe.
type Metrics struct {
	eventsIngested  *prometheus.CounterVec
	summaryDuration prometheus.Histogram
}

// New creates the collectors without registering them; call Register to
// attach them to a registry.
func New() *Metrics {
	return &Metrics{
		eventsIngested: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricEventsIngestedTotal,
				Help: "Total number of ingested events by source and outcome",
			},
			[]string{"source", "status"},
		),
		summaryDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricSummaryDurationSeconds,
				Help:    "Histogram of user summary computation duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
		),
	}
}

// Register registers all collectors with the given registerer.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.eventsIngested, m.summaryDuration} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordIngested adds accepted events for an ingestion source.
func (m *Metrics) RecordIngested(source string, count int) {
	m.eventsIngested.WithLabelValues(source, StatusAccepted).Add(float64(count))
}

// RecordRejected adds rejected events for an ingestion source.
func (m *Metrics) RecordRejected(source string, count int) {
	m.eventsIngested.WithLabelValues(source, StatusRejected).Add(float64(count))
}

// ObserveSummaryDuration records one summary computation duration.
func (m *Metrics) ObserveSummaryDuration(seconds float64) {
	m.summaryDuration.Observe(seconds)
}
