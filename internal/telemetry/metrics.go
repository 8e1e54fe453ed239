// Package telemetry provides Prometheus instrumentation for person cache refreshes.
package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "filippoints"

	// OutcomeSuccess labels a successful backend refresh
	OutcomeSuccess = "success"

	// OutcomeFailure labels a failed backend refresh
	OutcomeFailure = "failure"
)

// RefreshMetrics holds the Prometheus instruments for refresh operations
type RefreshMetrics struct {
	registry *prometheus.Registry

	refreshTotal    *prometheus.CounterVec
	refreshDuration *prometheus.HistogramVec
	cachedPeople    prometheus.Gauge
	offlineNotices  prometheus.Counter
}

// NewRefreshMetrics registers the refresh instruments on a fresh registry.
func NewRefreshMetrics() *RefreshMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &RefreshMetrics{
		registry: reg,
		refreshTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_refresh_total",
			Help:      "Backend refreshes of the person cache by outcome",
		}, []string{"outcome", "reason"}),
		refreshDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_refresh_duration_seconds",
			Help:      "Duration of backend refreshes in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"outcome"}),
		cachedPeople: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cached_people",
			Help:      "Number of people in the local cache after the last successful refresh",
		}),
		offlineNotices: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offline_notices_total",
			Help:      "Manual refreshes that found the network unreachable",
		}),
	}
}

// RecordRefresh records one backend refresh. reason is empty on success.
func (m *RefreshMetrics) RecordRefresh(duration time.Duration, reason string, people int) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if reason != "" {
		outcome = OutcomeFailure
	}
	m.refreshTotal.WithLabelValues(outcome, reason).Inc()
	m.refreshDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	if reason == "" {
		m.cachedPeople.Set(float64(people))
	}
}

// RecordOffline counts a manual refresh that found no connection
func (m *RefreshMetrics) RecordOffline() {
	if m == nil {
		return
	}
	m.offlineNotices.Inc()
}

// Gatherer exposes the underlying registry
func (m *RefreshMetrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the current metrics in the node exporter textfile format.
func (m *RefreshMetrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
