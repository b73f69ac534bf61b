// Package clock provides the simulation clock and the single-threaded timer queue
// that replaces engine coroutines: every deferred effect is a callback keyed by fire time
// and drained once per tick.
package clock

import "time"

// Source reports the current simulation time.
type Source interface {
	Now() time.Duration
}

// Sim is a monotonically increasing simulation clock.
// Not safe for concurrent use; owned by the tick loop.
type Sim struct {
	now time.Duration
}

// NewSim creates a clock starting at zero.
func NewSim() *Sim {
	return &Sim{}
}

// Now returns current simulation time.
func (c *Sim) Now() time.Duration {
	return c.now
}

// Advance moves the clock forward. Negative deltas are ignored.
func (c *Sim) Advance(dt time.Duration) time.Duration {
	if dt > 0 {
		c.now += dt
	}
	return c.now
}
