package ai

import "github.com/udisondev/nightfall/internal/model"

var blindZombieStates = allowStates(
	model.StateIdle,
	model.StateChase,
	model.StateAttack,
)

// blindZombie has no sight. Any remembered sound sends it after the target;
// attack range is checked by distance alone.
type blindZombie struct {
	hooks
	wanderer
}

func (*blindZombie) Archetype() model.Archetype { return model.ArchetypeBlindZombie }

func (*blindZombie) Allows(s model.State) bool { return blindZombieStates(s) }

func (*blindZombie) Sense(a *Agent, t Target) {
	a.sense = Perception{
		SoundDetected: a.sounds.Len() > 0,
		Distance:      a.distanceTo(t),
	}
	a.sense.InAttackRange = a.sense.Distance <= a.tuning.AttackRange
}

func (*blindZombie) Decide(a *Agent, _ Target) {
	switch {
	case !a.sense.SoundDetected:
		a.choose(model.StateIdle)
	case a.sense.InAttackRange:
		a.choose(model.StateAttack)
	default:
		a.choose(model.StateChase)
	}
}

func (z *blindZombie) Act(a *Agent, t Target) {
	switch a.state {
	case model.StateIdle:
		z.wander(a)
	case model.StateChase:
		chaseRunning(a, t)
		a.sounds.ForgetReached(a.Position())
	case model.StateAttack:
		a.meleeAttack(t, "Neck Bitting")
	}
}

func (*blindZombie) HearSound(a *Agent, pos model.Vec3) {
	if a.hearSound(pos) && a.state == model.StateIdle {
		a.setState(model.StateChase)
	}
}

func (*blindZombie) DeathTrigger() string { return "Dead2" }
