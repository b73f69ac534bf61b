package ai

import (
	"time"

	"github.com/udisondev/nightfall/internal/model"
)

var monsterStates = allowStates(
	model.StateIdle,
	model.StateChase,
	model.StateAttack,
	model.StateDodge,
	model.StateSpecial1,
	model.StateSpecial2,
)

const (
	defaultSpecial1Cast  = 1200 * time.Millisecond
	defaultSpecial2Short = 2200 * time.Millisecond
	defaultSpecial2Long  = 3700 * time.Millisecond
)

// monster is a heavy melee brute with a side-step, a wind-up projectile and a close-range slam.
type monster struct {
	hooks
}

func (*monster) Archetype() model.Archetype { return model.ArchetypeMonster }

func (*monster) Allows(s model.State) bool { return monsterStates(s) }

func (*monster) Sense(a *Agent, t Target) {
	a.detect(t)
}

// Decide: Attack > Dodge > Chase (Special1 inside the chase band) > Special2 > Idle.
// While an ability runs only Attack and Chase are re-evaluated.
func (*monster) Decide(a *Agent, _ Target) {
	if a.busy && a.state != model.StateAttack && a.state != model.StateChase {
		return
	}

	d := a.sense.Distance
	attackRange := a.tuning.AttackRange
	switch {
	case a.sense.InAttackRange:
		a.choose(model.StateAttack)
	case a.ready("dodge") && a.chance(a.param("dodge_chance", 0.3)):
		a.chooseOr(model.StateDodge, model.StateChase)
	case a.sense.InSight:
		if d > attackRange+1 && d <= a.param("special1_range", 12) && a.ready("special1") {
			a.chooseOr(model.StateSpecial1, model.StateChase)
			return
		}
		a.choose(model.StateChase)
	case d <= attackRange+0.5 && a.ready("special2"):
		a.chooseOr(model.StateSpecial2, model.StateIdle)
	default:
		a.choose(model.StateIdle)
	}
}

func (m *monster) Act(a *Agent, t Target) {
	switch a.state {
	case model.StateChase:
		chaseRunning(a, t)
	case model.StateAttack:
		a.meleeAttack(t, "Attack")
	case model.StateDodge:
		m.dodge(a, t)
	case model.StateSpecial1:
		m.special1(a, t)
	case model.StateSpecial2:
		m.special2(a, t)
	default:
		a.stop()
	}
}

// dodge side-steps across the line to the target.
func (*monster) dodge(a *Agent, t Target) {
	if !a.ready("dodge") {
		a.setState(model.StateChase)
		return
	}
	dir := t.Position().Sub(a.Position()).Normalized().Cross(model.Up)
	if a.env.Rand.Float64() > 0.5 {
		dir = dir.Scale(-1)
	}
	a.moveTowards(a.Position().Add(dir.Scale(a.param("dodge_distance", 3))), a.walkSpeed*1.5)
	if dir.X < 0 {
		a.trigger("Dodge Left")
	} else {
		a.trigger("Dodge Right")
	}
	a.consume("dodge")
	a.setState(model.StateChase)
}

// special1 winds up and then fires a projectile at the target's position at release time.
func (*monster) special1(a *Agent, t Target) {
	if a.busy || !a.ready("special1") {
		return
	}
	a.busy = true
	a.consume("special1")
	a.stop()
	a.rotateTowards(t.Position())
	a.trigger("Special Power 1")
	a.play("attack")

	a.after(a.timer("special1_cast", defaultSpecial1Cast), func() {
		if tgt := a.target(); tgt != nil {
			a.launch(tgt.Position().Sub(a.Position()).Normalized(), "projectile")
		}
		a.mover.Resume()
		a.busy = false
		a.setState(model.StateChase)
	})
}

// special2 plays one of two slam variants and holds the agent busy for its duration.
func (*monster) special2(a *Agent, t Target) {
	if a.busy || !a.ready("special2") {
		return
	}
	a.busy = true
	a.consume("special2")
	a.rotateTowards(t.Position())

	delay := a.timer("special2_short", defaultSpecial2Short)
	trigger := "Special Power 2.1"
	if a.env.Rand.IntN(2) == 1 {
		delay = a.timer("special2_long", defaultSpecial2Long)
		trigger = "Special Power 2.2"
	}
	a.trigger(trigger)
	a.play("attack")

	a.after(delay, func() {
		a.mover.Resume()
		a.busy = false
		a.setState(model.StateChase)
	})
}

func (*monster) HearSound(a *Agent, pos model.Vec3) {
	a.hearSound(pos)
}
