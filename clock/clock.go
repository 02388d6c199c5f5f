package clock

import "math"

// Clock samples a monotonic time source once per frame and derives the frame
// delta and the animated elapsed time handed to the shader.
//
// All times are in seconds. Elapsed only advances while the clock is not
// paused; a clock created without pause support ignores TogglePause.
type Clock struct {
	now      func() float64
	initTime float64
	prevTime float64
	delta    float64
	elapsed  float64
	paused   bool
	pausable bool
}

// New creates a clock anchored at the current value of now.
func New(now func() float64, pausable bool) *Clock {
	t := now()
	return &Clock{
		now:      now,
		initTime: t,
		prevTime: t,
		pausable: pausable,
	}
}

// Tick samples the time source, returns the delta since the previous sample and
// advances elapsed time by delta unless paused. Negative deltas from a
// misbehaving time source are clamped to zero.
func (c *Clock) Tick() float64 {
	t := c.now()
	dt := t - c.prevTime
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	c.prevTime = t
	c.delta = dt
	if !c.paused {
		c.elapsed += dt
	}
	return dt
}

// Resume re-anchors the previous sample to now so that the interval during
// which no frames were produced does not show up as one large delta.
func (c *Clock) Resume() {
	c.prevTime = c.now()
	c.delta = 0
}

// TogglePause flips the paused state and reports the new state.
func (c *Clock) TogglePause() bool {
	if !c.pausable {
		return false
	}
	c.paused = !c.paused
	return c.paused
}

// Scrub moves elapsed time by d seconds. Elapsed never goes below zero.
func (c *Clock) Scrub(d float64) {
	c.elapsed = math.Max(0, c.elapsed+d)
}

func (c *Clock) Paused() bool     { return c.paused }
func (c *Clock) Pausable() bool   { return c.pausable }
func (c *Clock) Elapsed() float64 { return c.elapsed }
func (c *Clock) Delta() float64   { return c.delta }

// SinceInit is the raw wall-clock time between creation and the last sample.
func (c *Clock) SinceInit() float64 { return c.prevTime - c.initTime }

// FrameRate converts a frame delta in seconds to an integer frames-per-second
// reading. Degenerate deltas yield 0 rather than an infinite rate.
func FrameRate(dt float64) int {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return 0
	}
	fps := math.Round(1 / dt)
	if fps > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(fps)
}

// Manual is a time source advanced by hand, used for fixed-step recording.
type Manual struct {
	t float64
}

func (m *Manual) Now() float64      { return m.t }
func (m *Manual) Advance(d float64) { m.t += d }
func (m *Manual) Set(t float64)     { m.t = t }
