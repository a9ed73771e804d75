package level

import (
	"fmt"
	"math"
)

// Clock counts a stage down from StageTime. It only runs once started and
// while not paused, and it never reports a negative remaining time.
type Clock struct {
	StageTime float64

	remaining float64
	started   bool
	paused    bool
}

func NewClock(stageTime float64) *Clock {
	return &Clock{StageTime: stageTime, remaining: stageTime}
}

func (c *Clock) Start() {
	c.started = true
}

func (c *Clock) Started() bool {
	return c.started
}

func (c *Clock) Paused() bool {
	return c.paused
}

func (c *Clock) SetPaused(paused bool) {
	c.paused = paused
}

// Advance counts down by dt. When the time runs out the clock resets to a
// full, stopped stage and Advance reports true.
func (c *Clock) Advance(dt float64) bool {
	if !c.started || c.paused || dt <= 0 {
		return false
	}
	c.remaining -= dt
	if c.remaining > 0 {
		return false
	}
	c.Reset()
	return true
}

// Reset refills the clock and waits for the next Start.
func (c *Clock) Reset() {
	c.remaining = c.StageTime
	c.started = false
}

func (c *Clock) Remaining() float64 {
	return math.Max(c.remaining, 0)
}

// Format renders the remaining time as seconds and hundredths, "05:32".
func (c *Clock) Format() string {
	rem := c.Remaining()
	secs := math.Floor(rem)
	hundredths := math.Floor((rem - secs) * 100)
	return fmt.Sprintf("%02d:%02d", int(secs), int(hundredths))
}
