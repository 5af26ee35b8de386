// Package metrics exports sweep results in the Prometheus text format.
// The sweep is a one-shot process, so metrics are written to a file for the
// node_exporter textfile collector instead of being served over HTTP.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aatumaykin/inlinegames/internal/cleanup"
)

// Run outcomes.
const (
	OutcomeCompleted          = "completed"
	OutcomeDeadline           = "deadline"
	OutcomeStorageUnavailable = "storage_unavailable"
)

// SweepMetrics records finished sweeps.
type SweepMetrics struct {
	registry *prometheus.Registry

	runsTotal       *prometheus.CounterVec
	sessionsCleaned prometheus.Counter
	notifications   *prometheus.CounterVec
	deleteErrors    prometheus.Counter
	tempRemoved     prometheus.Counter
	candidates      prometheus.Gauge
	lastRun         prometheus.Gauge
	duration        prometheus.Histogram
}

var _ cleanup.Recorder = (*SweepMetrics)(nil)

// NewSweepMetrics registers the sweep collectors in reg. A nil reg gets a
// fresh registry so the textfile only carries sweep metrics.
func NewSweepMetrics(namespace string, reg *prometheus.Registry) *SweepMetrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &SweepMetrics{
		registry: reg,
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sweep_runs_total",
				Help:      "Total number of maintenance sweeps by outcome",
			},
			[]string{"outcome"},
		),
		sessionsCleaned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sweep_sessions_cleaned_total",
				Help:      "Game sessions removed from storage",
			},
		),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sweep_notifications_total",
				Help:      "Inline message edits by status",
			},
			[]string{"status"},
		),
		deleteErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sweep_delete_errors_total",
				Help:      "Session deletes that failed at the storage backend",
			},
		),
		tempRemoved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sweep_temp_files_removed_total",
				Help:      "Temporary files removed",
			},
		),
		candidates: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "sweep_last_candidates",
				Help:      "Stale sessions processed by the last sweep",
			},
		),
		lastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "sweep_last_run_timestamp_seconds",
				Help:      "Unix time the last sweep finished",
			},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "sweep_duration_seconds",
				Help:      "Duration of maintenance sweeps",
				Buckets:   []float64{.1, .5, 1, 5, 10, 30, 60, 90, 120},
			},
		),
	}

	reg.MustRegister(
		m.runsTotal,
		m.sessionsCleaned,
		m.notifications,
		m.deleteErrors,
		m.tempRemoved,
		m.candidates,
		m.lastRun,
		m.duration,
	)

	return m
}

// Outcome classifies a finished run.
func Outcome(stats cleanup.Stats) string {
	switch {
	case stats.StorageUnavailable:
		return OutcomeStorageUnavailable
	case stats.DeadlineHit:
		return OutcomeDeadline
	default:
		return OutcomeCompleted
	}
}

// Observe implements cleanup.Recorder.
func (m *SweepMetrics) Observe(stats cleanup.Stats) {
	m.runsTotal.WithLabelValues(Outcome(stats)).Inc()
	m.sessionsCleaned.Add(float64(stats.Cleaned))
	m.notifications.WithLabelValues("ok").Add(float64(stats.Notified))
	m.notifications.WithLabelValues("error").Add(float64(stats.NotifyErrors))
	m.deleteErrors.Add(float64(stats.DeleteErrors))
	m.tempRemoved.Add(float64(stats.TempRemoved))
	m.candidates.Set(float64(stats.Candidates))
	m.lastRun.Set(float64(time.Now().Unix()))
	m.duration.Observe(stats.Duration.Seconds())
}

// WriteTextfile atomically writes all metrics to path.
func (m *SweepMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
