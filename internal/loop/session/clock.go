package session

import (
	"time"

	"github.com/tomz197/invaders/internal/physics"
)

// Clock turns successive wall-clock readings into Δt measured in nominal
// frames, bounded to (0, maxDelta].
type Clock struct {
	nominal  time.Duration
	maxDelta float64
	last     time.Time
	armed    bool
}

// NewClock creates a clock for the given nominal frame and upper clamp.
func NewClock(nominal time.Duration, maxDelta float64) *Clock {
	return &Clock{nominal: nominal, maxDelta: maxDelta}
}

// Reset forgets the previous reading. The next Step yields one nominal frame.
func (c *Clock) Reset() {
	c.armed = false
	c.last = time.Time{}
}

// Step returns Δt for now and remembers now as the previous reading.
func (c *Clock) Step(now time.Time) float64 {
	if !c.armed {
		c.armed = true
		c.last = now
		return 1
	}
	dt := float64(now.Sub(c.last)) / float64(c.nominal)
	c.last = now
	return normalizeDelta(dt, c.maxDelta)
}

// normalizeDelta substitutes one frame for anomalous readings and clamps spikes.
func normalizeDelta(dt, maxDelta float64) float64 {
	if !physics.IsFinite(dt) || dt <= 0 {
		return 1
	}
	return min(dt, maxDelta)
}
