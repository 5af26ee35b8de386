package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/inlinegames/internal/cleanup"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		name  string
		stats cleanup.Stats
		want  string
	}{
		{name: "completed", stats: cleanup.Stats{}, want: OutcomeCompleted},
		{name: "deadline", stats: cleanup.Stats{DeadlineHit: true}, want: OutcomeDeadline},
		{name: "storage wins over deadline", stats: cleanup.Stats{DeadlineHit: true, StorageUnavailable: true}, want: OutcomeStorageUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Outcome(tt.stats))
		})
	}
}

func TestSweepMetrics_Observe(t *testing.T) {
	m := NewSweepMetrics("test", nil)

	m.Observe(cleanup.Stats{
		Cleaned: 3, Notified: 2, NotifyErrors: 1, TempRemoved: 4,
		Candidates: 3, DeleteErrors: 1, Duration: 12 * time.Second,
	})
	m.Observe(cleanup.Stats{Cleaned: 1, Notified: 1, Candidates: 1, DeadlineHit: true})

	assert.Equal(t, float64(1), testutil.ToFloat64(m.runsTotal.WithLabelValues(OutcomeCompleted)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.runsTotal.WithLabelValues(OutcomeDeadline)))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.sessionsCleaned))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.notifications.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.notifications.WithLabelValues("error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.deleteErrors))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.tempRemoved))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.candidates))
	assert.Greater(t, testutil.ToFloat64(m.lastRun), float64(0))

	families, err := m.registry.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 8)
}

func TestSweepMetrics_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewSweepMetrics("a", reg)

	assert.NotPanics(t, func() { NewSweepMetrics("b", reg) })
	assert.Panics(t, func() { NewSweepMetrics("a", reg) })
}

func TestSweepMetrics_WriteTextfile(t *testing.T) {
	m := NewSweepMetrics("inlinegames", nil)
	m.Observe(cleanup.Stats{Cleaned: 2, Notified: 2, Candidates: 2})

	path := filepath.Join(t.TempDir(), "inlinegames.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `inlinegames_sweep_runs_total{outcome="completed"} 1`)
	assert.Contains(t, string(data), "inlinegames_sweep_sessions_cleaned_total 2")
	assert.Contains(t, string(data), "inlinegames_sweep_duration_seconds_bucket")
}

func TestSweepMetrics_WriteTextfileBadDir(t *testing.T) {
	m := NewSweepMetrics("inlinegames", nil)
	err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))
	assert.Error(t, err)
}
