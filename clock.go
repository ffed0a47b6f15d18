package motion

import "time"

// Clock is the time source shared by the engine and its frame source. Start,
// pause and resume read it; ticks receive the frame timestamp explicitly.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock is a Clock that only moves when told to. Tests and scripted
// playback use it to drive the engine frame by frame.
type ManualClock struct {
	t time.Time
}

// NewManualClock returns a clock frozen at an arbitrary fixed instant.
func NewManualClock() *ManualClock {
	return &ManualClock{t: time.Unix(1_700_000_000, 0)}
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Time { return c.t }

// Advance moves the clock forward by d and returns the new time.
func (c *ManualClock) Advance(d time.Duration) time.Time {
	c.t = c.t.Add(d)
	return c.t
}
