// Package nav adapts a path-following navigation agent for enemy behaviors:
// move/stop/warp commands, smooth facing, stuck detection and local recovery.
package nav

import "github.com/udisondev/nightfall/internal/model"

// Agent is the path-following collaborator (navmesh agent or equivalent).
type Agent interface {
	Position() model.Vec3
	SetDestination(p model.Vec3) bool
	SetSpeed(speed float64)
	SetStopped(stopped bool)
	IsStopped() bool
	// Warp relocates instantly.
	Warp(p model.Vec3) bool
	Velocity() model.Vec3
	SetVelocity(v model.Vec3)
	RemainingDistance() float64
	ResetPath()
	SampleNearestNavigable(p model.Vec3, maxDist float64) (model.Vec3, bool)
}

// Stepper is implemented by agents that integrate their own motion each tick.
type Stepper interface {
	Step(dtSeconds float64)
}
