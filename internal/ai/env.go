package ai

import (
	"math/rand/v2"

	"github.com/udisondev/nightfall/internal/clock"
	"github.com/udisondev/nightfall/internal/model"
	"github.com/udisondev/nightfall/internal/perception"
)

// Target is the player as seen by enemies.
type Target interface {
	Position() model.Vec3
	Forward() model.Vec3
}

// TargetSource provides the current target. Target returns nil before the player spawns
// (or after it is gone); agents treat that as "go Idle".
type TargetSource interface {
	Target() Target
}

// Damageable is implemented by targets that take damage from enemy attacks.
type Damageable interface {
	TakeDamage(amount float64)
}

// Knockbackable is implemented by targets that can be pushed.
type Knockbackable interface {
	ApplyKnockback(dir model.Vec3, force float64)
}

// Effects fires animation, audio and projectile triggers. Nothing is returned to the core.
type Effects interface {
	Trigger(agentID uint32, name string)
	Play(agentID uint32, clip string)
	Launch(agentID uint32, origin, dir model.Vec3, kind string)
}

// NoEffects discards every trigger.
type NoEffects struct{}

func (NoEffects) Trigger(uint32, string)                        {}
func (NoEffects) Play(uint32, string)                           {}
func (NoEffects) Launch(uint32, model.Vec3, model.Vec3, string) {}

// Rand is the random source used by probabilistic decisions.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// Crowd answers cross-agent queries and routes sound events.
type Crowd interface {
	// CountInStates counts living agents of archetype in any of states, excluding agent id exclude
	CountInStates(archetype model.Archetype, exclude uint32, states ...model.State) int
	// EmitSound delivers a sound at pos to every living agent except source
	EmitSound(pos model.Vec3, source uint32)
	// Remove takes the agent out of the world
	Remove(id uint32)
}

// Observer is notified about agent lifecycle events.
type Observer interface {
	OnSpawned(a *Agent)
	OnStateChanged(a *Agent, from, to model.State)
	OnDied(a *Agent)
	OnRemoved(a *Agent)
}

// NopObserver ignores every event. Embed it to implement a subset of Observer.
type NopObserver struct{}

func (NopObserver) OnSpawned(*Agent)                                {}
func (NopObserver) OnStateChanged(*Agent, model.State, model.State) {}
func (NopObserver) OnDied(*Agent)                                   {}
func (NopObserver) OnRemoved(*Agent)                                {}

// Env is the explicitly constructed context shared by agents of one world.
// Clock and Timers are required; everything else degrades to a no-op.
type Env struct {
	Clock  clock.Source
	Timers *clock.Queue

	// World answers occlusion raycasts; nil means clear line of sight
	World   perception.Raycaster
	Targets TargetSource
	Effects Effects
	Rand    Rand
	Crowd   Crowd

	// Observer receives lifecycle events
	Observer Observer

	// Waypoints zombies wander between when idle
	Waypoints []model.Vec3
}

func (e Env) withDefaults() Env {
	if e.Effects == nil {
		e.Effects = NoEffects{}
	}
	if e.Rand == nil {
		e.Rand = globalRand{}
	}
	if e.Observer == nil {
		e.Observer = NopObserver{}
	}
	return e
}
