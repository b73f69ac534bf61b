package ai

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/nightfall/internal/ability"
	"github.com/udisondev/nightfall/internal/model"
)

var bossAlienStates = allowStates(
	model.StateIdle,
	model.StateChase,
	model.StateAttack,
	model.StateLowHpAttack,
	model.StateDodge,
	model.StateSpecial1,
	model.StateSpecial2,
	model.StateSpecial3,
)

const (
	defaultAlienDodge    = 1500 * time.Millisecond
	defaultFly           = 1500 * time.Millisecond
	defaultSpeedBoost    = 5 * time.Second
	defaultTeleportEnd   = 500 * time.Millisecond
	defaultPushBackEnd   = 1500 * time.Millisecond
	alienAttackVariants  = 4
	alienLowHpVariants   = 3
	alienSpecialDistance = 1.0
)

var alienSpecials = []ability.ID{"special1", "special2", "special3"}

// bossAlien is the three-phase boss. Phases advance on health thresholds and each
// one speeds it up and shortens its cooldowns.
type bossAlien struct {
	hooks
	flying bool
}

func (*bossAlien) Archetype() model.Archetype { return model.ArchetypeBossAlien }

func (*bossAlien) Allows(s model.State) bool { return bossAlienStates(s) }

func (*bossAlien) Sense(a *Agent, t Target) {
	a.detect(t)
}

// Decide: Idle > Dodge > LowHpAttack > Attack > Chase, with Special1-3 gates inside Chase.
// Later special gates override earlier ones; none are considered while busy.
// A dodge or teleport in flight is not re-evaluated until its end callback runs.
func (*bossAlien) Decide(a *Agent, _ Target) {
	if a.busy && (a.state == model.StateDodge || a.state == model.StateSpecial1) {
		return
	}

	d := a.sense.Distance
	sight := a.tuning.SightRange
	attackRange := a.tuning.AttackRange

	if d > sight {
		a.choose(model.StateIdle)
		return
	}
	if !a.busy && !a.attacked && a.ready("dodge") && a.chance(a.param("dodge_chance", 0.5)) {
		a.choose(model.StateDodge)
		return
	}
	if d <= attackRange {
		if a.health.Ratio() <= a.param("low_hp_ratio", 0.3) {
			a.choose(model.StateLowHpAttack)
			return
		}
		a.choose(model.StateAttack)
		return
	}

	next := model.StateChase
	if !a.busy {
		if d > attackRange+alienSpecialDistance && d <= sight*0.6 && a.ready("special1") {
			next = model.StateSpecial1
		}
		if a.ready("special2") && a.chance(0.2) {
			next = model.StateSpecial2
		}
		if d <= attackRange+alienSpecialDistance && a.ready("special3") {
			next = model.StateSpecial3
		}
	}
	a.chooseOr(next, model.StateChase)
}

func (b *bossAlien) Act(a *Agent, t Target) {
	switch a.state {
	case model.StateIdle:
		a.stop()
	case model.StateChase:
		a.moveTowards(t.Position(), a.runSpeed)
		a.play("run")
	case model.StateAttack:
		b.attack(a, t, "Attack", alienAttackVariants, "attack")
	case model.StateLowHpAttack:
		b.attack(a, t, "HpAttack", alienLowHpVariants, "low_hp_attack")
	case model.StateDodge:
		b.dodge(a, t)
	case model.StateSpecial1:
		b.teleport(a, t)
	case model.StateSpecial2:
		b.speedBoost(a)
	case model.StateSpecial3:
		b.pushBack(a, t)
	}
}

// attack stands still and plays a random variant; navigation resumes with the latch reset.
func (*bossAlien) attack(a *Agent, t Target, prefix string, variants int, clip string) {
	if !a.latchAttack(a.mover.Resume) {
		return
	}
	a.stop()
	a.rotateTowards(t.Position())
	a.trigger(fmt.Sprintf("%s %d", prefix, a.env.Rand.IntN(variants)+1))
	a.play(clip)
	a.hit(t)
}

// dodge either jump-flies sideways/forward or leaps away from the target's predicted position.
func (b *bossAlien) dodge(a *Agent, t Target) {
	if a.busy {
		return
	}
	if !a.ready("dodge") {
		a.setState(model.StateChase)
		return
	}
	a.busy = true
	a.consume("dodge")
	a.mover.Suspend()

	var dir model.Vec3
	if a.env.Rand.Float64() > 0.5 {
		fwd := a.Forward()
		right := model.Up.Cross(fwd)
		switch c := a.env.Rand.Float64(); {
		case c < 0.33:
			dir = right
		case c < 0.66:
			dir = right.Scale(-1)
		default:
			dir = fwd
		}
		if !b.flying {
			b.flying = true
			a.trigger("Flying")
			a.after(a.timer("fly", defaultFly), func() {
				b.flying = false
				a.resumeNav()
			})
		}
	} else {
		predicted := t.Position().Add(a.targetVelocity.Scale(a.param("dodge_prediction", 0.5)))
		dir = a.Position().Sub(predicted).Flat().Normalized()
		a.trigger("Dodge")
	}
	a.mover.Warp(a.Position().Add(dir.Scale(a.param("dodge_distance", 5))))

	a.after(a.timer("dodge", defaultAlienDodge), func() {
		a.busy = false
		a.resumeNav()
		a.setState(model.StateChase)
	})
}

// teleport warps behind the target.
func (b *bossAlien) teleport(a *Agent, t Target) {
	if a.busy || !a.ready("special1") {
		return
	}
	a.busy = true
	a.consume("special1")
	behind := t.Position().Sub(t.Forward().Scale(a.param("teleport_distance", 3)))
	a.mover.Warp(behind)
	a.mover.Face(t.Position().Sub(behind))
	a.play("special")
	a.after(a.timer("special1", defaultTeleportEnd), func() { b.endSpecial(a) })
}

// speedBoost multiplies run speed for a while.
func (b *bossAlien) speedBoost(a *Agent) {
	if a.busy || !a.ready("special2") {
		return
	}
	a.busy = true
	a.consume("special2")
	a.play("special")

	factor := a.param("speed_boost", 2)
	a.runSpeed *= factor
	a.mover.SetSpeed(a.runSpeed)

	a.after(a.timer("speed_boost", defaultSpeedBoost), func() {
		a.runSpeed /= factor
		a.mover.SetSpeed(a.runSpeed)
		b.endSpecial(a)
	})
}

// pushBack knocks the target away and hops backwards.
func (b *bossAlien) pushBack(a *Agent, t Target) {
	if a.busy || !a.ready("special3") {
		return
	}
	a.busy = true
	a.consume("special3")
	a.stop()
	a.rotateTowards(t.Position())
	a.trigger("Special Power")
	a.play("special")

	if k, ok := t.(Knockbackable); ok {
		k.ApplyKnockback(t.Position().Sub(a.Position()).Normalized(), a.param("knockback", 15))
	}
	a.mover.Warp(a.Position().Sub(a.Forward().Scale(a.param("push_back", 1.5))))

	a.after(a.timer("special3", defaultPushBackEnd), func() { b.endSpecial(a) })
}

func (*bossAlien) endSpecial(a *Agent) {
	a.busy = false
	a.resumeNav()
	a.setState(model.StateChase)
}

func (*bossAlien) HearSound(a *Agent, pos model.Vec3) {
	a.hearSound(pos)
}

func (b *bossAlien) AfterTick(a *Agent, _ Target, _ time.Duration) {
	b.updatePhase(a)
}

func (b *bossAlien) AfterDamage(a *Agent, _ float64) {
	b.updatePhase(a)
}

// updatePhase advances to the deepest phase whose threshold is crossed. Phases never revert.
func (*bossAlien) updatePhase(a *Agent) {
	ratio := a.health.Ratio()
	switch {
	case ratio <= a.param("phase3_health", 0.4) && a.phase < model.Phase3:
		enterPhase(a, model.Phase3, a.param("phase3_run", 1.5), a.param("phase3_dodge", 0.7), a.param("phase3_special", 0.8))
	case ratio <= a.param("phase2_health", 0.7) && a.phase < model.Phase2:
		enterPhase(a, model.Phase2, a.param("phase2_run", 1.2), a.param("phase2_dodge", 0.8), a.param("phase2_special", 0.9))
	}
}

func enterPhase(a *Agent, p model.Phase, run, dodge, special float64) {
	from := a.phase
	a.phase = p
	a.runSpeed *= run
	a.abilities.Scale(dodge, "dodge")
	a.abilities.Scale(special, alienSpecials...)

	slog.Info("boss phase changed",
		"agent", a.id,
		"from", from,
		"to", p,
		"run_speed", a.runSpeed)
}
