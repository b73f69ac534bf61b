package nav

import (
	"log/slog"
	"math"
	"time"

	"github.com/udisondev/nightfall/internal/model"
)

// Recovery defaults matching the boss navigation watchdog.
const (
	DefaultStuckTimeout     = 1200 * time.Millisecond
	DefaultStuckSpeed       = 0.05
	DefaultStoppingDistance = 0.1
	resnapRadius            = 0.5
)

// Adapter wraps an Agent with facing, destination memory and stuck recovery.
// Owned by a single enemy; not safe for concurrent use.
type Adapter struct {
	agent   Agent
	forward model.Vec3

	destination    model.Vec3
	hasDestination bool

	stuckFor   time.Duration
	recoveries int

	StuckTimeout     time.Duration
	StuckSpeed       float64
	StoppingDistance float64
}

// NewAdapter wraps agent. forward is the initial facing; zero means +Z.
func NewAdapter(agent Agent, forward model.Vec3) *Adapter {
	f := forward.Flat().Normalized()
	if f.IsZero() {
		f = model.Forward
	}
	return &Adapter{
		agent:            agent,
		forward:          f,
		StuckTimeout:     DefaultStuckTimeout,
		StuckSpeed:       DefaultStuckSpeed,
		StoppingDistance: DefaultStoppingDistance,
	}
}

// Agent returns the wrapped collaborator.
func (a *Adapter) Agent() Agent {
	return a.agent
}

// Position returns the agent position.
func (a *Adapter) Position() model.Vec3 {
	return a.agent.Position()
}

// Forward returns the current facing (flat, unit length).
func (a *Adapter) Forward() model.Vec3 {
	return a.forward
}

// Destination returns the last commanded destination.
func (a *Adapter) Destination() (model.Vec3, bool) {
	return a.destination, a.hasDestination
}

// MoveTowards sets motion target and speed and un-pauses the agent.
func (a *Adapter) MoveTowards(target model.Vec3, speed float64) {
	a.agent.SetStopped(false)
	a.agent.SetSpeed(speed)
	a.agent.SetDestination(target)
	a.destination = target
	a.hasDestination = true
}

// SetSpeed changes speed without touching the path.
func (a *Adapter) SetSpeed(speed float64) {
	a.agent.SetSpeed(speed)
}

// Stop halts motion, keeping the path.
func (a *Adapter) Stop() {
	a.agent.SetStopped(true)
	a.stuckFor = 0
}

// Resume un-pauses motion along the current path.
func (a *Adapter) Resume() {
	a.agent.SetStopped(false)
}

// IsStopped reports whether motion is paused.
func (a *Adapter) IsStopped() bool {
	return a.agent.IsStopped()
}

// Suspend stops and drops the path, used while an ability moves the body directly.
func (a *Adapter) Suspend() {
	a.agent.SetStopped(true)
	a.agent.ResetPath()
	a.hasDestination = false
	a.stuckFor = 0
}

// Warp relocates instantly and invalidates any in-flight path.
func (a *Adapter) Warp(pos model.Vec3) {
	a.agent.ResetPath()
	a.agent.Warp(pos)
	a.hasDestination = false
	a.stuckFor = 0
}

// Resnap warps onto the nearest navigable point near the current position, if any.
func (a *Adapter) Resnap() {
	if p, ok := a.agent.SampleNearestNavigable(a.agent.Position(), resnapRadius); ok {
		a.agent.Warp(p)
	}
}

// Face sets the facing immediately.
func (a *Adapter) Face(dir model.Vec3) {
	if f := dir.Flat().Normalized(); !f.IsZero() {
		a.forward = f
	}
}

// RotateTowards turns the facing toward target by spherical interpolation on the
// horizontal plane. The fraction turned is turnRate*dt, clamped to 1.
func (a *Adapter) RotateTowards(target model.Vec3, turnRate float64, dt time.Duration) {
	dir := target.Sub(a.agent.Position()).Flat().Normalized()
	if dir.IsZero() {
		return
	}
	frac := min(1, max(0, turnRate*dt.Seconds()))
	from := a.forward.Yaw()
	delta := math.Remainder(dir.Yaw()-from, 2*math.Pi)
	a.forward = model.FromYaw(from + delta*frac)
}

// IsStuck reports motion commanded but velocity below threshold for longer than StuckTimeout.
func (a *Adapter) IsStuck() bool {
	return a.stuckFor > a.StuckTimeout
}

// Recoveries returns how many stuck recoveries have run.
func (a *Adapter) Recoveries() int {
	return a.recoveries
}

// Update steps the agent (if it integrates its own motion) and runs the stuck watchdog.
// Every stuck episode triggers a fresh recovery.
func (a *Adapter) Update(dt time.Duration) {
	if s, ok := a.agent.(Stepper); ok {
		s.Step(dt.Seconds())
	}

	commanded := a.hasDestination && !a.agent.IsStopped()
	if !commanded ||
		a.agent.Velocity().Len() >= a.StuckSpeed ||
		a.agent.RemainingDistance() <= a.StoppingDistance {
		a.stuckFor = 0
		return
	}

	a.stuckFor += dt
	if a.IsStuck() {
		a.Recover()
	}
}

// Recover resets the path, zeroes velocity, re-snaps to the navigable surface and
// reissues the last destination.
func (a *Adapter) Recover() {
	a.agent.SetStopped(false)
	a.agent.ResetPath()
	a.agent.SetVelocity(model.Vec3{})
	a.Resnap()
	if a.hasDestination {
		a.agent.SetDestination(a.destination)
	}
	a.stuckFor = 0
	a.recoveries++

	slog.Debug("navigation agent recovered",
		"position", a.agent.Position(),
		"destination", a.destination,
		"recoveries", a.recoveries)
}
