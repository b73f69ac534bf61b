package ai

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/nightfall/internal/ability"
	"github.com/udisondev/nightfall/internal/config"
	"github.com/udisondev/nightfall/internal/model"
	"github.com/udisondev/nightfall/internal/nav"
	"github.com/udisondev/nightfall/internal/perception"
)

var (
	// ErrUnknownArchetype is returned when no behavior exists for an archetype.
	ErrUnknownArchetype = errors.New("unknown archetype")
	// ErrNotFound is returned when an agent id is not registered.
	ErrNotFound = errors.New("agent not found")
)

// Perception holds the flags computed by the Sense step.
type Perception struct {
	Detected      bool
	InSight       bool
	InAttackRange bool
	SoundDetected bool
	Distance      float64 // to target, 0 when there is none
}

// Option configures an Agent.
type Option func(*Agent)

// WithArea records the spawn area id (weak back-reference resolved by the spawner).
func WithArea(id string) Option {
	return func(a *Agent) { a.areaID = id }
}

// WithHook installs a post-Decide override hook.
func WithHook(h DecideHook) Option {
	return func(a *Agent) { a.hook = h }
}

// Agent is one enemy instance. All methods must be called from the simulation goroutine.
type Agent struct {
	id        uint32
	archetype model.Archetype
	areaID    string
	tuning    config.Tuning
	behavior  Behavior
	hook      DecideHook
	env       Env

	state       model.State
	override    model.State
	hasOverride bool

	sense  Perception
	sounds perception.SoundMemory
	echo   perception.Echo

	health    Health
	abilities *ability.Scheduler
	busy      bool // isUsingSpecial
	attacked  bool // attack latch
	phase     model.Phase

	walkSpeed float64
	runSpeed  float64
	mover     *nav.Adapter

	dt             time.Duration
	lastTargetPos  model.Vec3
	hasLastTarget  bool
	targetVelocity model.Vec3

	dead    bool
	removed bool
}

// NewAgent creates an agent in Idle state with full health.
// mover, env.Clock and env.Timers are required.
func NewAgent(id uint32, archetype model.Archetype, tuning config.Tuning, mover *nav.Adapter, env Env, opts ...Option) (*Agent, error) {
	if mover == nil {
		return nil, fmt.Errorf("agent %d: navigation adapter is required", id)
	}
	if env.Clock == nil || env.Timers == nil {
		return nil, fmt.Errorf("agent %d: clock and timer queue are required", id)
	}

	behavior, err := newBehavior(archetype)
	if err != nil {
		return nil, fmt.Errorf("agent %d: %w", id, err)
	}

	a := &Agent{
		id:        id,
		archetype: archetype,
		tuning:    tuning,
		behavior:  behavior,
		env:       env.withDefaults(),
		state:     model.StateIdle,
		health:    NewHealth(tuning.MaxHealth),
		abilities: ability.NewScheduler(env.Clock),
		phase:     model.Phase1,
		walkSpeed: tuning.WalkSpeed,
		runSpeed:  tuning.RunSpeed,
		mover:     mover,
	}
	for name, cd := range tuning.Cooldowns {
		a.abilities.Define(ability.ID(name), cd)
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func newBehavior(archetype model.Archetype) (Behavior, error) {
	switch archetype {
	case model.ArchetypeEnemy:
		return &enemy{}, nil
	case model.ArchetypeZombie:
		return &zombie{}, nil
	case model.ArchetypeNormalZombie:
		return &normalZombie{}, nil
	case model.ArchetypeBlindZombie:
		return &blindZombie{}, nil
	case model.ArchetypeMonsterZombie:
		return &monsterZombie{}, nil
	case model.ArchetypeGhost:
		return &ghost{}, nil
	case model.ArchetypeBasicGhost:
		return &basicGhost{}, nil
	case model.ArchetypeMediumGhost:
		return &mediumGhost{}, nil
	case model.ArchetypeBossGhost:
		return &bossGhost{}, nil
	case model.ArchetypeMonster:
		return &monster{}, nil
	case model.ArchetypeBossAlien:
		return &bossAlien{}, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownArchetype, archetype)
}

func (a *Agent) ID() uint32                    { return a.id }
func (a *Agent) Archetype() model.Archetype    { return a.archetype }
func (a *Agent) AreaID() string                { return a.areaID }
func (a *Agent) State() model.State            { return a.state }
func (a *Agent) Phase() model.Phase            { return a.phase }
func (a *Agent) Perception() Perception        { return a.sense }
func (a *Agent) Health() Health                { return a.health }
func (a *Agent) IsBusy() bool                  { return a.busy }
func (a *Agent) IsDead() bool                  { return a.dead }
func (a *Agent) IsRemoved() bool               { return a.removed }
func (a *Agent) Tuning() config.Tuning         { return a.tuning }
func (a *Agent) Abilities() *ability.Scheduler { return a.abilities }
func (a *Agent) Nav() *nav.Adapter             { return a.mover }
func (a *Agent) WalkSpeed() float64            { return a.walkSpeed }
func (a *Agent) RunSpeed() float64             { return a.runSpeed }

// Position returns the agent's world position.
func (a *Agent) Position() model.Vec3 {
	return a.mover.Position()
}

// Forward returns the agent's facing.
func (a *Agent) Forward() model.Vec3 {
	return a.mover.Forward()
}

// Sounds returns remembered sound positions.
func (a *Agent) Sounds() []model.Vec3 {
	return a.sounds.Positions()
}

// Visible reports whether a ghost is currently rendered opaque. Non-ghosts are always visible.
func (a *Agent) Visible() bool {
	if v, ok := a.behavior.(interface{ visible(a *Agent) bool }); ok {
		return v.visible(a)
	}
	return true
}

// Tick runs one Sense -> Decide -> Act cycle.
func (a *Agent) Tick(dt time.Duration) {
	if a.dead {
		return
	}
	a.dt = dt
	a.mover.Update(dt)

	t := a.target()
	a.trackTarget(t, dt)

	if t == nil {
		a.sense = Perception{SoundDetected: a.sense.SoundDetected}
		a.setState(model.StateIdle)
		a.mover.Stop()
		return
	}

	if a.hasOverride {
		a.hasOverride = false
		a.setState(a.override)
	} else {
		a.behavior.Sense(a, t)
		a.behavior.Decide(a, t)
		a.applyHook()
	}

	a.behavior.Act(a, t)
	a.behavior.AfterTick(a, t, dt)
}

// HearSound is invoked by in-world sound events.
func (a *Agent) HearSound(pos model.Vec3) {
	if a.dead {
		return
	}
	a.behavior.HearSound(a, pos)
}

// TakeDamage applies damage. Damage after death is a no-op.
func (a *Agent) TakeDamage(amount float64) {
	if a.dead || amount <= 0 {
		return
	}
	if !a.behavior.BeforeDamage(a, amount) {
		return
	}

	a.trigger("Damage")
	a.play("hit")

	if a.health.Apply(amount) {
		a.die()
		return
	}
	a.behavior.AfterDamage(a, amount)
}

// Heal restores health. Boss phases do not revert.
func (a *Agent) Heal(amount float64) {
	if a.dead {
		return
	}
	a.health.Heal(amount)
}

// ForceState queues s to replace the next Decide call.
// Ignored for dead agents and states the archetype does not use.
func (a *Agent) ForceState(s model.State) {
	if a.dead || !a.behavior.Allows(s) {
		return
	}
	a.override = s
	a.hasOverride = true
}

// choose assigns the decided state. While busy, a new ability state is refused;
// Idle/Investigate/Chase/Attack always go through.
func (a *Agent) choose(s model.State) bool {
	if a.busy && s.IsAbility() && s != a.state {
		return false
	}
	a.setState(s)
	return true
}

// chooseOr falls back to fallback when s is refused by the busy lock.
func (a *Agent) chooseOr(s, fallback model.State) {
	if !a.choose(s) {
		a.choose(fallback)
	}
}

func (a *Agent) setState(s model.State) {
	if a.state == s {
		return
	}
	from := a.state
	a.state = s
	logTransition(a, from, s)
	a.env.Observer.OnStateChanged(a, from, s)
}

func (a *Agent) die() {
	a.dead = true
	a.busy = false
	a.hasOverride = false
	a.mover.Stop()
	a.setState(model.StateDead)

	a.trigger(a.behavior.DeathTrigger())
	a.play("death")

	slog.Info("agent died", "agent", a.id, "archetype", a.archetype)
	a.env.Observer.OnDied(a)

	a.env.Timers.After(a.tuning.DeathGrace, a.remove)
}

func (a *Agent) remove() {
	if a.removed {
		return
	}
	a.removed = true
	if a.env.Crowd != nil {
		a.env.Crowd.Remove(a.id)
	}
}

// after schedules fn on the timer queue; fn does nothing once the agent is dead.
func (a *Agent) after(delay time.Duration, fn func()) {
	a.env.Timers.After(delay, func() {
		if a.dead {
			return
		}
		fn()
	})
}

func (a *Agent) now() time.Duration {
	return a.env.Clock.Now()
}

func (a *Agent) target() Target {
	if a.env.Targets == nil {
		return nil
	}
	return a.env.Targets.Target()
}

// trackTarget estimates target velocity from its displacement since the previous tick.
func (a *Agent) trackTarget(t Target, dt time.Duration) {
	if t == nil {
		a.hasLastTarget = false
		a.targetVelocity = model.Vec3{}
		return
	}
	pos := t.Position()
	if a.hasLastTarget && dt > 0 {
		a.targetVelocity = pos.Sub(a.lastTargetPos).Scale(1 / dt.Seconds())
	}
	a.lastTargetPos = pos
	a.hasLastTarget = true
}

// TargetVelocity returns the estimated target velocity.
func (a *Agent) TargetVelocity() model.Vec3 {
	return a.targetVelocity
}

func (a *Agent) cone() perception.Cone {
	return perception.Cone{
		FieldOfView:  a.tuning.FieldOfView,
		SightRange:   a.tuning.SightRange,
		AttackRange:  a.tuning.AttackRange,
		ObstacleMask: obstacleMask(a.tuning.ObstacleLayers),
	}
}

func obstacleMask(layers []uint) perception.Mask {
	if len(layers) == 0 {
		return perception.MaskAll
	}
	var m perception.Mask
	for _, l := range layers {
		m |= 1 << l
	}
	return m
}

// detect runs the sight cone + occlusion check against t.
func (a *Agent) detect(t Target) {
	det := perception.DetectTarget(a.env.World, a.Position(), a.Forward(), t.Position(), a.cone())
	a.sense.Detected = det.InSight
	a.sense.InSight = det.InSight
	a.sense.InAttackRange = det.InAttackRange
	a.sense.Distance = det.Distance
	a.sense.SoundDetected = a.sounds.Len() > 0
}

// hearSound records pos if it is within hearing range.
func (a *Agent) hearSound(pos model.Vec3) bool {
	if a.Position().Distance(pos) > a.tuning.HearingRange {
		return false
	}
	a.sounds.Add(pos)
	a.sense.SoundDetected = a.sounds.Len() > 0
	return true
}

// moveToSound walks to the closest remembered sound and drops it on arrival.
// Switches to Attack/Chase as soon as the target is spotted.
func (a *Agent) moveToSound(t Target) {
	closest, minDist, ok := a.sounds.Closest(a.Position())
	if !ok {
		a.sense.SoundDetected = false
		a.setState(model.StateIdle)
		return
	}

	a.moveTowards(closest, a.walkSpeed)

	a.detect(t)
	if a.sense.InAttackRange {
		a.setState(model.StateAttack)
		return
	}
	if a.sense.InSight {
		a.setState(model.StateChase)
		return
	}

	if minDist < perception.ArrivalRadius {
		a.sounds.Remove(closest)
		a.sense.SoundDetected = a.sounds.Len() > 0
	}
}

func (a *Agent) moveTowards(target model.Vec3, speed float64) {
	a.mover.MoveTowards(target, speed)
	a.rotateTowards(target)
}

func (a *Agent) rotateTowards(target model.Vec3) {
	a.mover.RotateTowards(target, a.tuning.TurnRate, a.dt)
}

func (a *Agent) stop() {
	a.mover.Stop()
}

// resumeNav re-snaps the agent to the navigable surface and lets it move again.
func (a *Agent) resumeNav() {
	a.mover.Resnap()
	a.mover.Resume()
}

// latchAttack arms the attack latch and schedules its reset after AttackLatch.
// Returns false while latched. onReset may be nil.
func (a *Agent) latchAttack(onReset func()) bool {
	if a.attacked {
		return false
	}
	a.attacked = true
	a.after(a.tuning.AttackLatch, func() {
		a.attacked = false
		if onReset != nil {
			onReset()
		}
	})
	return true
}

// meleeAttack faces t and strikes once per latch window. Reports whether a strike fired.
func (a *Agent) meleeAttack(t Target, trigger string) bool {
	a.rotateTowards(t.Position())
	if !a.latchAttack(nil) {
		return false
	}
	a.trigger(trigger)
	a.play("attack")
	a.hit(t)
	return true
}

// hit damages the target if it is within attack range and can take damage.
func (a *Agent) hit(t Target) {
	if t == nil {
		return
	}
	if a.Position().Distance(t.Position()) > a.tuning.AttackRange {
		return
	}
	if d, ok := t.(Damageable); ok {
		d.TakeDamage(a.tuning.Damage)
	}
}

func (a *Agent) distanceTo(t Target) float64 {
	return a.Position().Distance(t.Position())
}

// occluded reports whether an obstacle blocks the straight line to t.
func (a *Agent) occluded(t Target) bool {
	if a.env.World == nil {
		return false
	}
	dir := t.Position().Sub(a.Position())
	return a.env.World.Raycast(a.Position(), dir.Normalized(), dir.Len(), obstacleMask(a.tuning.ObstacleLayers))
}

// ready reports whether a named ability is off cooldown.
func (a *Agent) ready(name string) bool {
	return a.abilities.IsReady(ability.ID(name))
}

func (a *Agent) consume(name string) {
	a.abilities.Consume(ability.ID(name))
	logAbility(a, name)
}

func (a *Agent) chance(p float64) bool {
	return a.env.Rand.Float64() > 1-p
}

func (a *Agent) param(name string, def float64) float64 {
	return a.tuning.Param(name, def)
}

func (a *Agent) timer(name string, def time.Duration) time.Duration {
	if d := a.tuning.Timer(name); d > 0 {
		return d
	}
	return def
}

func (a *Agent) trigger(name string) {
	a.env.Effects.Trigger(a.id, name)
}

func (a *Agent) play(clip string) {
	a.env.Effects.Play(a.id, clip)
}

func (a *Agent) launch(dir model.Vec3, kind string) {
	a.env.Effects.Launch(a.id, a.Position(), dir, kind)
}

func (a *Agent) emitSound() {
	if a.env.Crowd != nil {
		a.env.Crowd.EmitSound(a.Position(), a.id)
	}
}

func (a *Agent) alliesInStates(states ...model.State) int {
	if a.env.Crowd == nil {
		return 0
	}
	return a.env.Crowd.CountInStates(a.archetype, a.id, states...)
}
