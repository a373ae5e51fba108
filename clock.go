package particlesim

import "time"

// FrameClock tracks wall-clock frame timing for a FrameDriver, clamping
// dt so a debugger pause or a slow frame doesn't hand the simulation an
// outsized step. Adapted from mod_time.go's TimeModule/timeSystem dt
// clamp, generalized from a fixed 10fps floor to a caller-chosen cap.
type FrameClock struct {
	last       time.Time
	maxDt      float64
	FrameCount uint64
}

// NewFrameClock returns a clock whose Tick never reports more than
// maxDt seconds elapsed, e.g. 0.1 to floor at 10fps-equivalent steps.
func NewFrameClock(maxDt float64) *FrameClock {
	return &FrameClock{last: time.Now(), maxDt: maxDt}
}

// Tick returns the clamped elapsed time since the previous Tick (or
// since the clock was created, for the first call) and advances
// FrameCount.
func (c *FrameClock) Tick() float64 {
	now := time.Now()
	dt := now.Sub(c.last).Seconds()
	if dt > c.maxDt {
		dt = c.maxDt
	}
	if dt < 0 {
		dt = 0
	}
	c.last = now
	c.FrameCount++
	return dt
}
