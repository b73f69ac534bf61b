// Package ability tracks per-ability cooldowns for a single agent.
package ability

import (
	"time"

	"github.com/udisondev/nightfall/internal/clock"
)

// ID names an ability ("dodge", "special1", "scream", ...).
type ID string

type slot struct {
	cooldown time.Duration
	lastUsed time.Duration
	used     bool
}

// Scheduler gates abilities on cooldown. Never-used abilities are ready.
// Owned by one agent; not safe for concurrent use.
type Scheduler struct {
	clock clock.Source
	slots map[ID]*slot
}

// NewScheduler creates a scheduler reading time from clock.
func NewScheduler(clock clock.Source) *Scheduler {
	return &Scheduler{
		clock: clock,
		slots: make(map[ID]*slot),
	}
}

// Define sets the base cooldown of an ability, keeping its last-used time.
func (s *Scheduler) Define(id ID, cooldown time.Duration) {
	sl := s.slot(id)
	sl.cooldown = max(cooldown, 0)
}

// IsReady reports now - lastUsed >= cooldown.
func (s *Scheduler) IsReady(id ID) bool {
	sl, ok := s.slots[id]
	if !ok || !sl.used {
		return true
	}
	return s.clock.Now()-sl.lastUsed >= sl.cooldown
}

// Consume marks the ability used now. Cooldown scaling is preserved.
func (s *Scheduler) Consume(id ID) {
	sl := s.slot(id)
	sl.lastUsed = s.clock.Now()
	sl.used = true
}

// Cooldown returns the current (possibly scaled) cooldown.
func (s *Scheduler) Cooldown(id ID) time.Duration {
	if sl, ok := s.slots[id]; ok {
		return sl.cooldown
	}
	return 0
}

// Remaining returns time left until the ability is ready (0 if ready).
func (s *Scheduler) Remaining(id ID) time.Duration {
	sl, ok := s.slots[id]
	if !ok || !sl.used {
		return 0
	}
	return max(sl.cooldown-(s.clock.Now()-sl.lastUsed), 0)
}

// Scale multiplies the cooldowns of ids by factor. Scaling is cumulative.
func (s *Scheduler) Scale(factor float64, ids ...ID) {
	if factor <= 0 {
		return
	}
	for _, id := range ids {
		sl := s.slot(id)
		sl.cooldown = time.Duration(float64(sl.cooldown) * factor)
	}
}

func (s *Scheduler) slot(id ID) *slot {
	sl, ok := s.slots[id]
	if !ok {
		sl = &slot{}
		s.slots[id] = sl
	}
	return sl
}
