package testutil

import (
	"github.com/udisondev/nightfall/internal/ai"
	"github.com/udisondev/nightfall/internal/model"
	"github.com/udisondev/nightfall/internal/nav"
	"github.com/udisondev/nightfall/internal/perception"
)

// Bounds is the open test arena.
var Bounds = nav.Bounds{Min: model.V(-50, 0, -50), Max: model.V(50, 0, 50)}

// NewMover returns a navigation adapter on an obstacle-free kinematic agent at pos.
func NewMover(pos model.Vec3) *nav.Adapter {
	return nav.NewAdapter(nav.NewKinematic(pos, Bounds, nil), model.Forward)
}

// OpenField builds movers with NewMover.
type OpenField struct{}

func (OpenField) NewMover(pos model.Vec3) *nav.Adapter { return NewMover(pos) }

// Player is a stationary target recording what agents do to it.
// It is its own target source; a nil *Player source reports no target.
type Player struct {
	Pos        model.Vec3
	Fwd        model.Vec3
	HP         ai.Health
	Hits       int
	Knockbacks []float64
}

// NewPlayer creates a player at pos with 100 health facing +Z.
func NewPlayer(pos model.Vec3) *Player {
	return &Player{Pos: pos, Fwd: model.Forward, HP: ai.NewHealth(100)}
}

func (p *Player) Position() model.Vec3 { return p.Pos }
func (p *Player) Forward() model.Vec3  { return p.Fwd }
func (p *Player) Health() ai.Health    { return p.HP }

func (p *Player) TakeDamage(amount float64) {
	p.HP.Apply(amount)
	p.Hits++
}

func (p *Player) ApplyKnockback(_ model.Vec3, force float64) {
	p.Knockbacks = append(p.Knockbacks, force)
}

func (p *Player) Target() ai.Target {
	if p == nil {
		return nil
	}
	return p
}

// NoTarget is a target source with nobody to chase.
type NoTarget struct{}

func (NoTarget) Target() ai.Target { return nil }

// Wall is a raycaster that reports a fixed answer and counts queries.
type Wall struct {
	Blocked bool
	Casts   int
}

func (w *Wall) Raycast(_, _ model.Vec3, _ float64, _ perception.Mask) bool {
	w.Casts++
	return w.Blocked
}

// FixedRand returns queued rolls first, then F forever. IntN returns N mod n.
type FixedRand struct {
	F     float64
	N     int
	Queue []float64
}

func (r *FixedRand) Float64() float64 {
	if len(r.Queue) > 0 {
		v := r.Queue[0]
		r.Queue = r.Queue[1:]
		return v
	}
	return r.F
}

func (r *FixedRand) IntN(n int) int { return r.N % n }
