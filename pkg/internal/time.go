package internal

import "time"

// Clock allows deterministic time for tests.
type Clock interface {
	Now() time.Time
}

// RealClock uses time.Now.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock returns a constant time (useful for tests).
type FixedClock struct{ t time.Time }

func NewFixedClock(t time.Time) *FixedClock { return &FixedClock{t: t} }
func (f *FixedClock) Now() time.Time        { return f.t }
func (f *FixedClock) Set(t time.Time)       { f.t = t }

// StepClock returns a time that advances by step on every Now call. Backup
// naming tests use it to force distinct timestamps.
type StepClock struct {
	t    time.Time
	step time.Duration
}

func NewStepClock(t time.Time, step time.Duration) *StepClock {
	return &StepClock{t: t, step: step}
}

func (s *StepClock) Now() time.Time {
	now := s.t
	s.t = s.t.Add(s.step)
	return now
}

func ISO8601(clock Clock) string {
	return clock.Now().UTC().Format(time.RFC3339)
}
