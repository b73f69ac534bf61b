package ai

import (
	"time"

	"github.com/udisondev/nightfall/internal/model"
)

// Behavior is the per-archetype sense/decide/act policy driving one Agent.
// Each agent owns its own Behavior value, so implementations may keep per-agent fields.
type Behavior interface {
	// Archetype returns the archetype this behavior implements
	Archetype() model.Archetype

	// Allows reports whether s is a valid state for the archetype.
	// Dead is always valid and is not listed here.
	Allows(s model.State) bool

	// Sense refreshes perception flags
	Sense(a *Agent, t Target)

	// Decide picks the state for this tick, from scratch, through Agent.choose
	Decide(a *Agent, t Target)

	// Act executes the current state
	Act(a *Agent, t Target)

	// HearSound reacts to a sound event at pos
	HearSound(a *Agent, pos model.Vec3)

	// BeforeDamage may veto incoming damage (returns false to ignore it)
	BeforeDamage(a *Agent, amount float64) bool

	// AfterDamage runs after damage was applied to a living agent
	AfterDamage(a *Agent, amount float64)

	// AfterTick runs after Act every tick
	AfterTick(a *Agent, t Target, dt time.Duration)

	// DeathTrigger names the animation fired on death
	DeathTrigger() string
}

// hooks provides no-op defaults for the optional parts of Behavior.
type hooks struct{}

func (hooks) BeforeDamage(*Agent, float64) bool       { return true }
func (hooks) AfterDamage(*Agent, float64)             {}
func (hooks) AfterTick(*Agent, Target, time.Duration) {}
func (hooks) DeathTrigger() string                    { return "Dead" }

func allowStates(states ...model.State) func(model.State) bool {
	set := make(map[model.State]struct{}, len(states))
	for _, s := range states {
		set[s] = struct{}{}
	}
	return func(s model.State) bool {
		_, ok := set[s]
		return ok
	}
}
