package shared

import "time"

// Clock supplies the current time to code that derives state from "now",
// such as staleness and due-date checks. Production code uses SystemClock;
// tests pin a FixedClock so time-dependent assertions are deterministic.
type Clock interface {
	Now() time.Time
}

// SystemClock returns the real wall-clock time in UTC.
type SystemClock struct{}

// Now returns the current UTC instant
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns the same instant.
type FixedClock struct {
	Instant time.Time
}

// NewFixedClock creates a clock pinned to the given instant
func NewFixedClock(t time.Time) FixedClock {
	return FixedClock{Instant: t.UTC()}
}

// Now returns the pinned instant
func (c FixedClock) Now() time.Time {
	return c.Instant
}
