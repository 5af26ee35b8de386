package cleanup

import "time"

// Deadline is the wall-clock budget of one run, measured from construction.
type Deadline struct {
	clock  Clock
	start  time.Time
	budget time.Duration
}

// NewDeadline starts the budget now. A non-positive budget is already expired.
func NewDeadline(clock Clock, budget time.Duration) *Deadline {
	return &Deadline{clock: clock, start: clock.Now(), budget: budget}
}

// Expired reports whether the budget is used up.
func (d *Deadline) Expired() bool {
	return d.clock.Now().Sub(d.start) >= d.budget
}

// Remaining is the unused part of the budget, never negative.
func (d *Deadline) Remaining() time.Duration {
	left := d.budget - d.clock.Now().Sub(d.start)
	if left < 0 {
		return 0
	}
	return left
}
