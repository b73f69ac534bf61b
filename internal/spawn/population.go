package spawn

import "sync/atomic"

// Population caps how many agents of a kind may be alive at once.
// Register and Unregister are safe for concurrent use.
type Population struct {
	limit   int32
	current atomic.Int32
}

// NewPopulation creates a counter with the given cap. Negative caps are treated as 0.
func NewPopulation(limit int) *Population {
	return &Population{limit: int32(max(limit, 0))}
}

func (p *Population) Max() int     { return int(p.limit) }
func (p *Population) Current() int { return int(p.current.Load()) }

// Free returns how many more agents fit under the cap.
func (p *Population) Free() int {
	return max(int(p.limit-p.current.Load()), 0)
}

// CanSpawn reports whether n more agents fit under the cap right now.
func (p *Population) CanSpawn(n int) bool {
	return n >= 0 && int(p.current.Load())+n <= int(p.limit)
}

// Register takes one slot. Returns false when the cap is reached.
func (p *Population) Register() bool {
	for {
		cur := p.current.Load()
		if cur >= p.limit {
			return false
		}
		if p.current.CompareAndSwap(cur, cur+1) {
			return true
		}
	}
}

// Unregister releases one slot, saturating at zero.
func (p *Population) Unregister() {
	for {
		cur := p.current.Load()
		if cur <= 0 {
			return
		}
		if p.current.CompareAndSwap(cur, cur-1) {
			return
		}
	}
}
