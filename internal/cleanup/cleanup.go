// Package cleanup implements the maintenance sweep that retires inactive
// game sessions: their inline messages are reset to an "empty session"
// notice, the records are deleted and old temporary files are purged, all
// within a fixed time budget.
package cleanup

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aatumaykin/inlinegames/internal/logger"
	"github.com/aatumaykin/inlinegames/internal/storage"
)

// ResolveThreshold picks the staleness threshold of a run: a positive
// number of seconds in arg wins, then configured, then DefaultThreshold.
func ResolveThreshold(arg string, configured time.Duration) time.Duration {
	if v, err := strconv.ParseFloat(strings.TrimSpace(arg), 64); err == nil && v > 0 && !math.IsInf(v, 0) {
		ns := v * float64(time.Second)
		if ns >= math.MaxInt64 {
			return time.Duration(math.MaxInt64)
		}
		return time.Duration(ns)
	}
	if configured > 0 {
		return configured
	}
	return DefaultThreshold
}

// Run performs one sweep. It never fails: problems are logged and counted
// in the returned Stats.
func (r *Runner) Run(ctx context.Context, threshold time.Duration) Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	startTime := r.clock.Now()
	stats := Stats{RunID: uuid.NewString()}
	log := r.logger.With(logger.Field{Key: "run_id", Value: stats.RunID})

	log.Info("sweep started",
		logger.Field{Key: "threshold_seconds", Value: threshold.Seconds()},
		logger.Field{Key: "time_limit_seconds", Value: r.config.Budget().Seconds()})

	r.processCandidates(ctx, log, threshold, &stats)

	stats.TempRemoved = r.janitor.Sweep(r.config.TempDir, r.config.TempMinAge)
	stats.Duration = r.clock.Now().Sub(startTime)

	if r.recorder != nil {
		r.recorder.Observe(stats)
	}

	log.Info(stats.Summary(),
		logger.Field{Key: "cleaned", Value: stats.Cleaned},
		logger.Field{Key: "notified", Value: stats.Notified},
		logger.Field{Key: "notify_errors", Value: stats.NotifyErrors},
		logger.Field{Key: "delete_errors", Value: stats.DeleteErrors},
		logger.Field{Key: "candidates", Value: stats.Candidates},
		logger.Field{Key: "temp_removed", Value: stats.TempRemoved},
		logger.Field{Key: "deadline_hit", Value: stats.DeadlineHit},
		logger.Field{Key: "duration_ms", Value: stats.Duration.Milliseconds()})

	return stats
}

func (r *Runner) processCandidates(ctx context.Context, log *logger.Logger, threshold time.Duration, stats *Stats) {
	deadline := r.newDeadline()

	candidates, err := r.store.ListStale(ctx, threshold)
	if err != nil {
		stats.StorageUnavailable = true
		log.Warn("failed to list stale sessions, skipping to temp cleanup",
			logger.Field{Key: "error", Value: err})
		return
	}

	throttle := NewThrottle(r.clock, r.config.NotifyInterval)
	var lastSignal time.Time
	signaled := false

	for candidate, err := range candidates {
		if err != nil {
			if ctx.Err() == nil {
				stats.StorageUnavailable = true
			}
			log.Warn("session listing interrupted", logger.Field{Key: "error", Value: err})
			break
		}

		if deadline.Expired() {
			stats.DeadlineHit = true
			log.Info("time limit reached", logger.Field{Key: "processed", Value: stats.Candidates})
			break
		}
		if ctx.Err() != nil {
			log.Info("sweep cancelled", logger.Field{Key: "processed", Value: stats.Candidates})
			break
		}

		if now := r.clock.Now(); !signaled || now.Sub(lastSignal) >= r.config.ActivityInterval {
			r.gateway.SignalActivity(ctx)
			lastSignal = now
			signaled = true
		}

		stats.Candidates++
		log.Debug("cleaning",
			logger.Field{Key: "session_id", Value: candidate.ID},
			logger.Field{Key: "remaining_ms", Value: deadline.Remaining().Milliseconds()})
		r.processCandidate(ctx, log, candidate.ID, throttle, stats)
	}
}

// processCandidate finishes a started candidate even if ctx is cancelled
// meanwhile. Only the throttle wait still observes cancellation.
func (r *Runner) processCandidate(ctx context.Context, log *logger.Logger, id string, throttle *Throttle, stats *Stats) {
	work := context.WithoutCancel(ctx)

	rec, err := r.store.Get(work, id)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		log.Debug("session already gone", logger.Field{Key: "session_id", Value: id})
	case err != nil:
		log.Warn("failed to load session",
			logger.Field{Key: "session_id", Value: id},
			logger.Field{Key: "error", Value: err})
	default:
		r.clearMessage(ctx, work, log, rec, throttle, stats)
	}

	deleted, err := r.store.Delete(work, id)
	if err != nil {
		stats.DeleteErrors++
		log.Error("failed to delete session", err, logger.Field{Key: "session_id", Value: id})
		return
	}
	if deleted {
		stats.Cleaned++
		log.Debug("removed from storage", logger.Field{Key: "session_id", Value: id})
	}
}

func (r *Runner) clearMessage(ctx, work context.Context, log *logger.Logger, rec *storage.Record, throttle *Throttle, stats *Stats) {
	game, ok := r.games.Resolve(rec.Payload)
	if !ok || !game.CanRun() {
		return
	}

	if err := throttle.Wait(ctx); err != nil {
		return
	}

	result := r.gateway.ClearSession(work, rec.ID, BuildNotice(r.printer, game))
	if result.OK {
		stats.Notified++
		log.Debug("message edited", logger.Field{Key: "session_id", Value: rec.ID})
		return
	}

	stats.NotifyErrors++
	log.Warn("failed to edit message",
		logger.Field{Key: "session_id", Value: rec.ID},
		logger.Field{Key: "description", Value: result.Description})
}
