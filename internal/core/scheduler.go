package core

import "time"

// Scheduler is a fixed-timestep gate over a variable frame rate.
// The host feeds it the current time on every frame; it reports whether
// at least one interval has elapsed since the last accepted tick.
type Scheduler struct {
	last time.Duration
}

// NewScheduler creates a scheduler whose first tick is measured from start.
func NewScheduler(start time.Duration) Scheduler {
	return Scheduler{last: start}
}

// Due returns true, and records now as the last tick time, when
// now-last >= interval. A non-positive interval is always due.
func (s *Scheduler) Due(now, interval time.Duration) bool {
	if now-s.last < interval {
		return false
	}
	s.last = now
	return true
}

// Reset moves the reference point to now.
func (s *Scheduler) Reset(now time.Duration) {
	s.last = now
}

// Last returns the time of the last accepted tick.
func (s *Scheduler) Last() time.Duration {
	return s.last
}
