package nav

import "github.com/udisondev/nightfall/internal/model"

// Blocker reports whether straight motion from a to b is obstructed.
type Blocker interface {
	Blocked(from, to model.Vec3) bool
}

// Bounds is the navigable rectangle on the XZ plane.
type Bounds struct {
	Min model.Vec3
	Max model.Vec3
}

// Contains reports whether p lies on the navigable rectangle.
func (b Bounds) Contains(p model.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Clamp projects p onto the rectangle, keeping Y.
func (b Bounds) Clamp(p model.Vec3) model.Vec3 {
	p.X = min(max(p.X, b.Min.X), b.Max.X)
	p.Z = min(max(p.Z, b.Min.Z), b.Max.Z)
	return p
}

// Kinematic is a straight-line path follower used by the simulator.
// It stops at obstacles reported by the Blocker, which the enemy's stuck watchdog then recovers.
type Kinematic struct {
	pos      model.Vec3
	dest     model.Vec3
	hasPath  bool
	speed    float64
	stopped  bool
	velocity model.Vec3

	bounds  Bounds
	blocker Blocker
}

// NewKinematic creates an agent at pos. blocker may be nil.
func NewKinematic(pos model.Vec3, bounds Bounds, blocker Blocker) *Kinematic {
	return &Kinematic{
		pos:     bounds.Clamp(pos),
		bounds:  bounds,
		blocker: blocker,
		stopped: true,
	}
}

func (k *Kinematic) Position() model.Vec3 { return k.pos }

func (k *Kinematic) SetDestination(p model.Vec3) bool {
	k.dest = k.bounds.Clamp(p)
	k.hasPath = true
	return true
}

func (k *Kinematic) SetSpeed(speed float64) { k.speed = max(speed, 0) }

func (k *Kinematic) SetStopped(stopped bool) {
	k.stopped = stopped
	if stopped {
		k.velocity = model.Vec3{}
	}
}

func (k *Kinematic) IsStopped() bool { return k.stopped }

func (k *Kinematic) Warp(p model.Vec3) bool {
	k.pos = k.bounds.Clamp(p)
	k.velocity = model.Vec3{}
	return true
}

func (k *Kinematic) Velocity() model.Vec3 { return k.velocity }

func (k *Kinematic) SetVelocity(v model.Vec3) { k.velocity = v }

func (k *Kinematic) RemainingDistance() float64 {
	if !k.hasPath {
		return 0
	}
	return k.pos.Flat().Distance(k.dest.Flat())
}

func (k *Kinematic) ResetPath() {
	k.hasPath = false
	k.velocity = model.Vec3{}
}

func (k *Kinematic) SampleNearestNavigable(p model.Vec3, maxDist float64) (model.Vec3, bool) {
	c := k.bounds.Clamp(p)
	if c.Distance(p) > maxDist {
		return p, false
	}
	return c, true
}

// Step advances the agent toward its destination.
func (k *Kinematic) Step(dtSeconds float64) {
	if k.stopped || !k.hasPath || dtSeconds <= 0 {
		k.velocity = model.Vec3{}
		return
	}

	toDest := k.dest.Sub(k.pos).Flat()
	dist := toDest.Len()
	if dist < 1e-6 {
		k.velocity = model.Vec3{}
		return
	}

	stepLen := min(k.speed*dtSeconds, dist)
	next := k.pos.Add(toDest.Normalized().Scale(stepLen))
	if k.blocker != nil && k.blocker.Blocked(k.pos, next) {
		k.velocity = model.Vec3{}
		return
	}

	k.velocity = next.Sub(k.pos).Scale(1 / dtSeconds)
	k.pos = next
}
