package ai

import "github.com/udisondev/nightfall/internal/model"

var enemyStates = allowStates(
	model.StateIdle,
	model.StateInvestigate,
	model.StateChase,
	model.StateAttack,
)

// enemy is the base sighted archetype: view cone with occlusion, list sound memory.
type enemy struct {
	hooks
}

func (*enemy) Archetype() model.Archetype { return model.ArchetypeEnemy }

func (*enemy) Allows(s model.State) bool { return enemyStates(s) }

func (*enemy) Sense(a *Agent, t Target) {
	a.detect(t)
}

// Decide: Attack > Chase > Investigate > Idle.
func (*enemy) Decide(a *Agent, _ Target) {
	switch {
	case a.sense.InAttackRange:
		a.choose(model.StateAttack)
	case a.sense.InSight:
		a.choose(model.StateChase)
	case a.sense.SoundDetected:
		a.choose(model.StateInvestigate)
	default:
		a.choose(model.StateIdle)
	}
}

func (*enemy) Act(a *Agent, t Target) {
	switch a.state {
	case model.StateIdle:
		a.stop()
	case model.StateInvestigate:
		a.moveToSound(t)
	case model.StateChase:
		a.moveTowards(t.Position(), a.runSpeed)
	case model.StateAttack:
		a.meleeAttack(t, "Attack")
	}
}

func (*enemy) HearSound(a *Agent, pos model.Vec3) {
	investigateSound(a, pos)
}

// investigateSound records pos and wakes an idle agent.
func investigateSound(a *Agent, pos model.Vec3) {
	if a.hearSound(pos) && a.state == model.StateIdle {
		a.setState(model.StateInvestigate)
	}
}
