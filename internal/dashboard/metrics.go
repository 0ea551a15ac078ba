package dashboard

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricComputeDuration = "analytics_compute_duration_seconds"
	MetricComputeFailures = "analytics_compute_failures_total"
)

// Metrics contains Prometheus metrics for orchestrated computations.
// All operations are thread-safe.
type Metrics struct {
	computeDuration *prometheus.HistogramVec
	computeFailures *prometheus.CounterVec
}

// NewMetrics creates and returns a new Metrics instance with all collectors
// initialized. The metrics are not registered; call Register to register
// them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		computeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricComputeDuration,
				Help:    "Duration of one orchestrated metric computation in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0},
			},
			[]string{"op"},
		),
		computeFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricComputeFailures,
				Help: "Total number of failed orchestrated metric computations",
			},
			[]string{"op"},
		),
	}
}

// Register registers all collectors with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.computeDuration, m.computeFailures} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveCompute records the duration of one computation.
func (m *Metrics) ObserveCompute(op string, seconds float64) {
	m.computeDuration.WithLabelValues(op).Observe(seconds)
}

// IncFailure increments the failure counter for an operation.
func (m *Metrics) IncFailure(op string) {
	m.computeFailures.WithLabelValues(op).Inc()
}
