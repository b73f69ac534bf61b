package ai

import "github.com/udisondev/nightfall/internal/model"

const defaultWaypointRadius = 2.0

// wanderer walks between the world's waypoints, picking a new random one on arrival.
type wanderer struct {
	waypoint int
}

func (w *wanderer) wander(a *Agent) {
	points := a.env.Waypoints
	if len(points) == 0 {
		a.stop()
		return
	}
	if w.waypoint >= len(points) {
		w.waypoint = 0
	}
	if a.Position().Distance(points[w.waypoint]) < a.param("waypoint_radius", defaultWaypointRadius) {
		w.waypoint = a.env.Rand.IntN(len(points))
	}
	a.moveTowards(points[w.waypoint], a.walkSpeed)
	a.play("walk")
}

// zombie is the generic zombie: wanders when idle and runs at its target.
type zombie struct {
	hooks
	wanderer
}

func (*zombie) Archetype() model.Archetype { return model.ArchetypeZombie }

func (*zombie) Allows(s model.State) bool { return enemyStates(s) }

func (*zombie) Sense(a *Agent, t Target) {
	a.detect(t)
}

func (*zombie) Decide(a *Agent, _ Target) {
	decideZombie(a, true)
}

// decideZombie: Attack/Chase when the target is seen > Investigate on sound > Idle.
func decideZombie(a *Agent, canSee bool) {
	switch {
	case canSee && a.sense.InAttackRange:
		a.choose(model.StateAttack)
	case canSee && a.sense.InSight:
		a.choose(model.StateChase)
	case a.sense.SoundDetected:
		a.choose(model.StateInvestigate)
	default:
		a.choose(model.StateIdle)
	}
}

func (z *zombie) Act(a *Agent, t Target) {
	switch a.state {
	case model.StateIdle:
		z.wander(a)
	case model.StateInvestigate:
		a.moveToSound(t)
	case model.StateChase:
		chaseRunning(a, t)
	case model.StateAttack:
		a.meleeAttack(t, "Attack")
	}
}

func (*zombie) HearSound(a *Agent, pos model.Vec3) {
	investigateSound(a, pos)
}

func (*zombie) DeathTrigger() string { return "Dead1" }

func chaseRunning(a *Agent, t Target) {
	a.moveTowards(t.Position(), a.runSpeed)
	a.play("run")
}
