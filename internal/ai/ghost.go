package ai

import "github.com/udisondev/nightfall/internal/model"

var ghostStates = allowStates(
	model.StateIdle,
	model.StateChase,
	model.StateAttack,
)

// ghost is the generic ghost: distance-only awareness, no sound memory.
type ghost struct {
	hooks
}

func (*ghost) Archetype() model.Archetype { return model.ArchetypeGhost }

func (*ghost) Allows(s model.State) bool { return ghostStates(s) }

func (*ghost) Sense(a *Agent, t Target) {
	senseDistance(a, t)
}

// senseDistance flags sight and attack range from plain distance, ignoring facing and obstacles.
func senseDistance(a *Agent, t Target) {
	d := a.distanceTo(t)
	a.sense = Perception{
		Detected:      d <= a.tuning.SightRange,
		InSight:       d <= a.tuning.SightRange,
		InAttackRange: d <= a.tuning.AttackRange,
		Distance:      d,
	}
}

// Decide: Idle out of range > Attack in range > Chase.
func (*ghost) Decide(a *Agent, _ Target) {
	switch {
	case a.sense.Distance > a.tuning.SightRange:
		a.choose(model.StateIdle)
	case a.sense.Distance <= a.tuning.AttackRange:
		a.choose(model.StateAttack)
	default:
		a.choose(model.StateChase)
	}
}

func (*ghost) Act(a *Agent, t Target) {
	switch a.state {
	case model.StateIdle:
		a.stop()
	case model.StateChase:
		a.moveTowards(t.Position(), a.runSpeed)
	case model.StateAttack:
		a.meleeAttack(t, "Attack")
	}
}

func (*ghost) HearSound(*Agent, model.Vec3) {}

func (*ghost) visible(a *Agent) bool {
	return a.sense.Distance <= a.tuning.SightRange*0.9
}
