package ai

import (
	"time"

	"github.com/udisondev/nightfall/internal/model"
)

var bossGhostStates = allowStates(
	model.StateIdle,
	model.StateChase,
	model.StateAttack,
	model.StateDodge,
	model.StateSpecial1,
	model.StateSpecial2,
	model.StateSpecial3,
)

const (
	defaultGhostDodge = time.Second
	defaultPhaseWalk  = 3 * time.Second
)

// bossGhost blinks sideways when the target moves fast, teleports behind it,
// fires a projectile fan and may answer damage with an invulnerable phase walk.
type bossGhost struct {
	hooks
	dodging bool
	phasing bool
}

func (*bossGhost) Archetype() model.Archetype { return model.ArchetypeBossGhost }

func (*bossGhost) Allows(s model.State) bool { return bossGhostStates(s) }

func (*bossGhost) Sense(a *Agent, t Target) {
	senseDistance(a, t)
}

// Decide: Dodge > Chase while phasing > Idle > Attack > Special1 > Special2 > Chase.
func (g *bossGhost) Decide(a *Agent, _ Target) {
	if g.dodging {
		return
	}
	if a.ready("dodge") && a.targetVelocity.Len() > a.param("dodge_player_speed", 2) {
		if a.choose(model.StateDodge) {
			return
		}
	}
	if g.phasing {
		a.choose(model.StateChase)
		return
	}

	d := a.sense.Distance
	switch {
	case d > a.tuning.SightRange:
		a.choose(model.StateIdle)
	case d <= a.tuning.AttackRange:
		a.choose(model.StateAttack)
	case d <= a.param("teleport_range", 7) && a.ready("special"):
		a.chooseOr(model.StateSpecial1, model.StateChase)
	case d <= a.param("projectile_range", 10) && a.ready("special"):
		a.chooseOr(model.StateSpecial2, model.StateChase)
	default:
		a.choose(model.StateChase)
	}
}

func (g *bossGhost) Act(a *Agent, t Target) {
	switch a.state {
	case model.StateIdle:
		a.stop()
	case model.StateChase:
		a.moveTowards(t.Position(), a.runSpeed)
	case model.StateAttack:
		a.meleeAttack(t, "Attack")
	case model.StateDodge:
		g.dodge(a, t)
	case model.StateSpecial1:
		g.teleport(a, t)
	case model.StateSpecial2:
		g.multiProjectile(a, t)
	case model.StateSpecial3:
		g.phaseWalk(a)
	}
}

// dodge blinks perpendicular to the target's predicted position.
func (g *bossGhost) dodge(a *Agent, t Target) {
	if g.dodging {
		return
	}
	if !a.ready("dodge") {
		a.setState(model.StateChase)
		return
	}
	g.dodging = true
	a.busy = true
	a.consume("dodge")

	predicted := t.Position().Add(a.targetVelocity.Scale(a.param("dodge_prediction", 0.5)))
	dir := model.Up.Cross(predicted.Sub(a.Position())).Flat().Normalized()
	if a.env.Rand.Float64() > 0.5 {
		dir = dir.Scale(-1)
	}
	a.mover.Warp(a.Position().Add(dir.Scale(a.param("dodge_distance", 3))))
	a.trigger("Attack")
	a.play("attack")

	a.after(a.timer("dodge", defaultGhostDodge), func() {
		g.dodging = false
		a.busy = false
		a.setState(model.StateChase)
	})
}

// teleport warps behind the target.
func (*bossGhost) teleport(a *Agent, t Target) {
	if !a.ready("special") {
		return
	}
	a.consume("special")
	behind := t.Position().Sub(t.Forward().Scale(a.param("teleport_distance", 3)))
	a.mover.Warp(behind)
	a.mover.Face(t.Position().Sub(behind))
	a.trigger("Attack")
	a.play("attack")
	a.setState(model.StateChase)
}

// multiProjectile fires three projectiles spread around the direction to the target.
func (*bossGhost) multiProjectile(a *Agent, t Target) {
	if !a.ready("special") {
		return
	}
	a.consume("special")
	a.trigger("Attack")

	dir := t.Position().Sub(a.Position()).Normalized()
	spread := a.param("projectile_spread", 15)
	for i := -1; i <= 1; i++ {
		a.launch(dir.RotateY(float64(i)*spread), "projectile")
	}
}

// phaseWalk doubles speed and ignores damage for a while.
func (g *bossGhost) phaseWalk(a *Agent) {
	if g.phasing {
		return
	}
	g.phasing = true
	a.consume("special")

	factor := a.param("phase_speed", 2)
	a.runSpeed *= factor
	a.walkSpeed *= factor
	a.mover.SetSpeed(a.runSpeed)

	a.after(a.timer("phase_walk", defaultPhaseWalk), func() {
		a.runSpeed /= factor
		a.walkSpeed /= factor
		a.mover.SetSpeed(a.runSpeed)
		g.phasing = false
	})
}

func (*bossGhost) HearSound(*Agent, model.Vec3) {}

func (g *bossGhost) BeforeDamage(*Agent, float64) bool {
	return !g.phasing
}

// AfterDamage may force a phase walk on the next tick, bypassing Decide.
func (*bossGhost) AfterDamage(a *Agent, _ float64) {
	if a.chance(a.param("damage_phase_chance", 0.3)) {
		a.ForceState(model.StateSpecial3)
	}
}

func (g *bossGhost) visible(a *Agent) bool {
	return !g.phasing && a.sense.Distance <= a.tuning.SightRange*0.9
}
