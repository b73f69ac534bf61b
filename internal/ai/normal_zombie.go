package ai

import "github.com/udisondev/nightfall/internal/model"

var normalZombieStates = allowStates(
	model.StateIdle,
	model.StateInvestigate,
	model.StateChase,
	model.StateAttack,
	model.StateScream,
)

// normalZombie screams to pull in allies when it is hurt or fighting alone.
type normalZombie struct {
	hooks
	wanderer
}

func (*normalZombie) Archetype() model.Archetype { return model.ArchetypeNormalZombie }

func (*normalZombie) Allows(s model.State) bool { return normalZombieStates(s) }

func (*normalZombie) Sense(a *Agent, t Target) {
	a.detect(t)
}

// Decide: in attack range Scream pre-empts Attack; then Chase > Investigate > Idle.
func (z *normalZombie) Decide(a *Agent, _ Target) {
	switch {
	case a.sense.InAttackRange:
		if z.shouldScream(a) {
			a.choose(model.StateScream)
			return
		}
		a.choose(model.StateAttack)
	case a.sense.InSight:
		a.choose(model.StateChase)
	case a.sense.SoundDetected:
		a.choose(model.StateInvestigate)
	default:
		a.choose(model.StateIdle)
	}
}

// shouldScream reports whether the scream is off cooldown and wanted. Act consumes it.
func (*normalZombie) shouldScream(a *Agent) bool {
	if !a.ready("scream") {
		return false
	}
	lowHealth := a.health.Ratio() < a.param("scream_health_ratio", 0.3)
	fewAllies := a.alliesInStates(model.StateChase, model.StateAttack) < int(a.param("scream_min_allies", 2))
	return lowHealth || fewAllies
}

func (z *normalZombie) Act(a *Agent, t Target) {
	switch a.state {
	case model.StateIdle:
		z.wander(a)
	case model.StateInvestigate:
		a.moveToSound(t)
	case model.StateChase:
		chaseRunning(a, t)
	case model.StateAttack:
		a.meleeAttack(t, "Attack")
	case model.StateScream:
		if !a.ready("scream") {
			a.setState(model.StateChase)
			return
		}
		a.consume("scream")
		a.trigger("Scream")
		a.play("scream")
		a.emitSound()
		a.setState(model.StateChase)
	}
}

func (*normalZombie) HearSound(a *Agent, pos model.Vec3) {
	investigateSound(a, pos)
}

func (*normalZombie) DeathTrigger() string { return "Dead1" }
