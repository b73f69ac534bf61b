package ai

import (
	"time"

	"github.com/udisondev/nightfall/internal/model"
	"github.com/udisondev/nightfall/internal/perception"
)

var mediumGhostStates = allowStates(
	model.StateIdle,
	model.StateChase,
	model.StateAttack,
	model.StateSpecial1,
)

const defaultRevealTime = 1200 * time.Millisecond

// mediumGhost sees in a wide cone through walls, follows sounds when it cannot see,
// and throws a projectile from mid range. It turns opaque up close, while attacking
// and for a short time after being hit.
type mediumGhost struct {
	hooks
	canSee      bool
	revealUntil time.Duration
}

func (*mediumGhost) Archetype() model.Archetype { return model.ArchetypeMediumGhost }

func (*mediumGhost) Allows(s model.State) bool { return mediumGhostStates(s) }

func (g *mediumGhost) Sense(a *Agent, t Target) {
	d := a.distanceTo(t)
	g.canSee = perception.InCone(a.Position(), a.Forward(), t.Position(), a.tuning.FieldOfView, a.tuning.SightRange)
	a.sense = Perception{
		Detected:      g.canSee,
		InSight:       g.canSee,
		InAttackRange: g.canSee && d <= a.tuning.AttackRange,
		SoundDetected: a.echo.Heard(),
		Distance:      d,
	}
}

// Decide: seen -> Attack > Special1 > Chase; heard -> Chase while the sound is near enough; else Idle.
func (g *mediumGhost) Decide(a *Agent, _ Target) {
	d := a.sense.Distance
	if g.canSee {
		switch {
		case d <= a.tuning.AttackRange:
			a.choose(model.StateAttack)
		case d <= a.param("projectile_range", 8) && a.ready("projectile"):
			a.chooseOr(model.StateSpecial1, model.StateChase)
		default:
			a.choose(model.StateChase)
		}
		return
	}

	if a.echo.Heard() {
		if a.Position().Distance(a.echo.Position) <= a.tuning.SightRange*a.param("sound_chase_factor", 2) {
			a.choose(model.StateChase)
			return
		}
		a.echo.Forget()
	}
	a.choose(model.StateIdle)
}

func (g *mediumGhost) Act(a *Agent, t Target) {
	switch a.state {
	case model.StateIdle:
		a.stop()
	case model.StateChase:
		g.chase(a, t)
	case model.StateAttack:
		if a.meleeAttack(t, "Attack") {
			g.reveal(a)
		}
	case model.StateSpecial1:
		g.throwProjectile(a, t)
	}
}

func (g *mediumGhost) chase(a *Agent, t Target) {
	var dest model.Vec3
	switch {
	case g.canSee:
		dest = t.Position()
	case a.echo.Heard():
		dest = a.echo.Position
		if a.Position().Distance(dest) < a.param("sound_stop_distance", 1.2) {
			a.echo.Forget()
			a.stop()
			a.setState(model.StateIdle)
			return
		}
	default:
		a.stop()
		a.setState(model.StateIdle)
		return
	}
	a.moveTowards(dest, a.runSpeed)
}

func (g *mediumGhost) throwProjectile(a *Agent, t Target) {
	if !a.ready("projectile") {
		return
	}
	a.consume("projectile")
	a.trigger("Attack")
	g.reveal(a)
	a.launch(t.Position().Sub(a.Position()).Normalized(), "projectile")
	a.setState(model.StateChase)
}

func (g *mediumGhost) reveal(a *Agent) {
	g.revealUntil = a.now() + a.timer("reveal", defaultRevealTime)
}

func (*mediumGhost) HearSound(a *Agent, pos model.Vec3) {
	if a.Position().Distance(pos) > a.tuning.HearingRange {
		return
	}
	a.echo.Hear(pos, a.now())
}

func (g *mediumGhost) AfterDamage(a *Agent, _ float64) {
	g.reveal(a)
}

func (g *mediumGhost) visible(a *Agent) bool {
	return a.sense.Distance <= a.param("visible_distance", 4) ||
		a.now() < g.revealUntil ||
		a.state == model.StateAttack
}
