package clock

import "time"

// Stopwatch measures wall-clock time between checkpoints.
// It is not safe for concurrent use.
type Stopwatch struct {
	now        func() time.Time
	checkpoint time.Time
}

// NewStopwatch starts a stopwatch at the current time of now.
// A nil now defaults to time.Now.
func NewStopwatch(now func() time.Time) *Stopwatch {
	if now == nil {
		now = time.Now
	}
	return &Stopwatch{now: now, checkpoint: now()}
}

// Lap returns the time elapsed since the previous checkpoint and moves the checkpoint to now.
func (s *Stopwatch) Lap() time.Duration {
	current := s.now()
	elapsed := current.Sub(s.checkpoint)
	s.checkpoint = current
	return elapsed
}
