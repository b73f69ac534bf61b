package ai

import (
	"time"

	"github.com/udisondev/nightfall/internal/model"
)

const defaultSoundMemory = 3 * time.Second

// basicGhost is blind and slow. It drifts toward the last sound it heard
// and forgets it once the memory expires.
type basicGhost struct {
	hooks
}

func (*basicGhost) Archetype() model.Archetype { return model.ArchetypeBasicGhost }

func (*basicGhost) Allows(s model.State) bool { return ghostStates(s) }

func (*basicGhost) Sense(a *Agent, t Target) {
	a.sense = Perception{
		SoundDetected: a.echo.Heard(),
		Distance:      a.distanceTo(t),
	}
}

func (*basicGhost) Decide(a *Agent, _ Target) {
	switch {
	case !a.echo.Heard():
		a.choose(model.StateIdle)
	case a.Position().Distance(a.echo.Position) <= a.tuning.AttackRange:
		a.choose(model.StateAttack)
	default:
		a.choose(model.StateChase)
	}
}

func (*basicGhost) Act(a *Agent, t Target) {
	switch a.state {
	case model.StateIdle:
		a.stop()
	case model.StateChase:
		if !a.echo.Heard() {
			return
		}
		a.moveTowards(a.echo.Position, a.runSpeed)
		if a.echo.Expired(a.now(), a.timer("sound_memory", defaultSoundMemory)) {
			a.echo.Forget()
		}
	case model.StateAttack:
		a.meleeAttack(t, "Attack")
	}
}

func (*basicGhost) HearSound(a *Agent, pos model.Vec3) {
	if a.Position().Distance(pos) > a.tuning.HearingRange {
		return
	}
	a.echo.Hear(pos, a.now())
}
