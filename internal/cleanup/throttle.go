package cleanup

import (
	"context"
	"time"
)

// Throttle spaces calls at least interval apart. The first Wait returns
// immediately. Not safe for concurrent use.
type Throttle struct {
	clock    Clock
	interval time.Duration
	last     time.Time
	used     bool
}

// NewThrottle creates a throttle.
func NewThrottle(clock Clock, interval time.Duration) *Throttle {
	return &Throttle{clock: clock, interval: interval}
}

// Wait blocks until interval has passed since the previous Wait returned.
// It only fails when ctx is done during the wait.
func (t *Throttle) Wait(ctx context.Context) error {
	if t.used {
		if wait := t.interval - t.clock.Now().Sub(t.last); wait > 0 {
			if err := t.clock.Sleep(ctx, wait); err != nil {
				return err
			}
		}
	}

	t.used = true
	t.last = t.clock.Now()
	return nil
}
