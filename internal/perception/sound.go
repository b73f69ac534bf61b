package perception

import (
	"time"

	"github.com/udisondev/nightfall/internal/model"
)

// ArrivalRadius is how close an agent must get to a remembered sound to forget it.
const ArrivalRadius = 0.5

// SoundMemory is a set of heard positions, deduplicated by exact position.
type SoundMemory struct {
	sounds []model.Vec3
}

// Add records pos unless it is already remembered. Returns true if added.
func (m *SoundMemory) Add(pos model.Vec3) bool {
	for _, s := range m.sounds {
		if s == pos {
			return false
		}
	}
	m.sounds = append(m.sounds, pos)
	return true
}

// Closest returns the remembered position nearest to from.
func (m *SoundMemory) Closest(from model.Vec3) (model.Vec3, float64, bool) {
	if len(m.sounds) == 0 {
		return model.Vec3{}, 0, false
	}
	closest := m.sounds[0]
	minDist := from.Distance(closest)
	for _, s := range m.sounds[1:] {
		if d := from.Distance(s); d < minDist {
			minDist = d
			closest = s
		}
	}
	return closest, minDist, true
}

// Remove forgets pos. Returns true if it was remembered.
func (m *SoundMemory) Remove(pos model.Vec3) bool {
	for i, s := range m.sounds {
		if s == pos {
			m.sounds = append(m.sounds[:i], m.sounds[i+1:]...)
			return true
		}
	}
	return false
}

// ForgetReached removes every sound within ArrivalRadius of from. Returns how many were removed.
func (m *SoundMemory) ForgetReached(from model.Vec3) int {
	kept := m.sounds[:0]
	removed := 0
	for _, s := range m.sounds {
		if from.Distance(s) < ArrivalRadius {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	m.sounds = kept
	return removed
}

// Len returns number of remembered sounds.
func (m *SoundMemory) Len() int {
	return len(m.sounds)
}

// Clear forgets everything.
func (m *SoundMemory) Clear() {
	m.sounds = m.sounds[:0]
}

// Positions returns a copy of remembered sounds.
func (m *SoundMemory) Positions() []model.Vec3 {
	out := make([]model.Vec3, len(m.sounds))
	copy(out, m.sounds)
	return out
}

// Echo remembers only the most recent heard position and when it was heard.
type Echo struct {
	Position model.Vec3
	At       time.Duration
	heard    bool
}

// Hear replaces the remembered position.
func (e *Echo) Hear(pos model.Vec3, now time.Duration) {
	e.Position = pos
	e.At = now
	e.heard = true
}

// Heard reports whether a sound is remembered.
func (e *Echo) Heard() bool {
	return e.heard
}

// Forget drops the remembered sound.
func (e *Echo) Forget() {
	e.heard = false
}

// Expired reports whether more than ttl passed since the sound was heard.
func (e *Echo) Expired(now, ttl time.Duration) bool {
	return now-e.At > ttl
}
