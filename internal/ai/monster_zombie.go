package ai

import "github.com/udisondev/nightfall/internal/model"

// monsterZombie walks after its target and fires a ranged shot from attack range,
// standing still until the attack latch resets.
type monsterZombie struct {
	hooks
	wanderer
}

func (*monsterZombie) Archetype() model.Archetype { return model.ArchetypeMonsterZombie }

func (*monsterZombie) Allows(s model.State) bool { return enemyStates(s) }

func (*monsterZombie) Sense(a *Agent, t Target) {
	a.detect(t)
}

func (*monsterZombie) Decide(a *Agent, _ Target) {
	decideZombie(a, true)
}

func (z *monsterZombie) Act(a *Agent, t Target) {
	switch a.state {
	case model.StateIdle:
		z.wander(a)
	case model.StateInvestigate:
		a.moveToSound(t)
	case model.StateChase:
		a.moveTowards(t.Position(), a.walkSpeed)
		a.play("walk")
	case model.StateAttack:
		z.shoot(a, t)
	}
}

func (*monsterZombie) shoot(a *Agent, t Target) {
	a.rotateTowards(t.Position())
	if !a.latchAttack(a.resumeNav) {
		return
	}
	a.stop()
	a.trigger("Attack")
	a.play("attack")

	if a.distanceTo(t) > a.tuning.AttackRange || a.occluded(t) {
		return
	}
	a.launch(t.Position().Sub(a.Position()).Normalized(), "bullet")
	a.hit(t)
}

func (*monsterZombie) HearSound(a *Agent, pos model.Vec3) {
	investigateSound(a, pos)
}

func (*monsterZombie) DeathTrigger() string { return "Dead1" }
