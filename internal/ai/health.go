package ai

// Health tracks hit points. Current stays in [0, Max]; reaching 0 is terminal.
type Health struct {
	max     float64
	current float64
	dead    bool
}

// NewHealth returns full health. Non-positive max is treated as 1.
func NewHealth(maxHP float64) Health {
	if maxHP <= 0 {
		maxHP = 1
	}
	return Health{max: maxHP, current: maxHP}
}

// Apply subtracts amount and reports whether this call killed.
// Only the first call that reaches 0 returns true; damage after death is ignored.
func (h *Health) Apply(amount float64) bool {
	if h.dead || amount <= 0 {
		return false
	}
	h.current = max(h.current-amount, 0)
	if h.current == 0 {
		h.dead = true
		return true
	}
	return false
}

// Heal restores up to Max. Has no effect on dead agents.
func (h *Health) Heal(amount float64) {
	if h.dead || amount <= 0 {
		return
	}
	h.current = min(h.current+amount, h.max)
}

func (h Health) Current() float64 { return h.current }
func (h Health) Max() float64     { return h.max }
func (h Health) IsDead() bool     { return h.dead }

// Ratio returns Current/Max.
func (h Health) Ratio() float64 {
	return h.current / h.max
}
