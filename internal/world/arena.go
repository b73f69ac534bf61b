package world

import (
	"log/slog"
	"time"

	"github.com/udisondev/nightfall/internal/ai"
	"github.com/udisondev/nightfall/internal/clock"
	"github.com/udisondev/nightfall/internal/config"
	"github.com/udisondev/nightfall/internal/model"
	"github.com/udisondev/nightfall/internal/nav"
	"github.com/udisondev/nightfall/internal/perception"
)

const (
	projectileRange  = 20.0
	projectileRadius = 0.75
	respawnDelay     = 5 * time.Second
)

// Damage dealt to the player by launched kinds. Monster zombie bullets already hit
// through the melee path, so they only count as launches here.
var projectileDamage = map[string]float64{
	"projectile": 10,
	"bullet":     0,
}

// EffectStats counts effect triggers fired by agents.
type EffectStats struct {
	Triggers       int
	Clips          int
	Launches       int
	ProjectileHits int
}

// Arena bundles the physics world and the player. It is the target source and
// the effects sink of every agent, and makes the player fire audible gunshots.
type Arena struct {
	physics   *Physics
	player    *Player
	bounds    nav.Bounds
	waypoints []model.Vec3

	gunshotEvery time.Duration
	sinceShot    time.Duration
	gunshots     int
	respawning   bool

	crowd  ai.Crowd
	timers *clock.Queue
	stats  EffectStats
}

// NewArena builds the arena described by cfg.
func NewArena(cfg config.WorldConfig) *Arena {
	bounds := nav.Bounds{Min: cfg.Min.Vec(), Max: cfg.Max.Vec()}
	physics := NewPhysics(cfg.Obstacles)

	patrol := make([]model.Vec3, 0, len(cfg.Player.Patrol))
	for _, p := range cfg.Player.Patrol {
		patrol = append(patrol, p.Vec())
	}
	waypoints := make([]model.Vec3, 0, len(cfg.Waypoints))
	for _, p := range cfg.Waypoints {
		waypoints = append(waypoints, p.Vec())
	}

	return &Arena{
		physics:      physics,
		player:       NewPlayer(cfg.Player.Spawn.Vec(), patrol, cfg.Player.Speed, cfg.Player.MaxHealth, bounds, physics),
		bounds:       bounds,
		waypoints:    waypoints,
		gunshotEvery: cfg.Player.GunshotInterval,
	}
}

func (a *Arena) Physics() *Physics       { return a.physics }
func (a *Arena) Player() *Player         { return a.player }
func (a *Arena) Bounds() nav.Bounds      { return a.bounds }
func (a *Arena) Waypoints() []model.Vec3 { return a.waypoints }
func (a *Arena) Effects() EffectStats    { return a.stats }
func (a *Arena) Gunshots() int           { return a.gunshots }

// Attach hooks the arena into the tick loop: the player moves before agents tick
// and gunshots are delivered through the manager.
func (a *Arena) Attach(m *ai.TickManager) {
	a.crowd = m
	a.timers = m.Timers()
	m.BeforeTick(a.update)
}

// Env returns the agent environment backed by this arena.
func (a *Arena) Env(rnd ai.Rand) ai.Env {
	return ai.Env{
		World:     a.physics,
		Targets:   a,
		Effects:   a,
		Rand:      rnd,
		Waypoints: a.waypoints,
	}
}

// NewMover creates a navigation adapter at pos that collides with the arena obstacles.
func (a *Arena) NewMover(pos model.Vec3) *nav.Adapter {
	return nav.NewAdapter(nav.NewKinematic(pos, a.bounds, a.physics), model.Forward)
}

// Target returns the player, or nil while it is dead.
func (a *Arena) Target() ai.Target {
	if a.player.IsDead() {
		return nil
	}
	return a.player
}

// Gunshot emits a noise at the player position.
func (a *Arena) Gunshot() {
	if a.crowd == nil || a.player.IsDead() {
		return
	}
	a.gunshots++
	a.crowd.EmitSound(a.player.Position(), 0)

	if ai.IsDebugEnabled() {
		slog.Debug("gunshot", "pos", a.player.Position())
	}
}

func (a *Arena) update(dt time.Duration) {
	if a.player.IsDead() {
		a.scheduleRespawn()
		return
	}
	a.player.Update(dt)

	if a.gunshotEvery <= 0 {
		return
	}
	a.sinceShot += dt
	if a.sinceShot >= a.gunshotEvery {
		a.sinceShot -= a.gunshotEvery
		a.Gunshot()
	}
}

func (a *Arena) scheduleRespawn() {
	if a.respawning || a.timers == nil {
		return
	}
	a.respawning = true
	slog.Info("player died", "deaths", a.player.Stats().Deaths)

	a.timers.After(respawnDelay, func() {
		a.player.Respawn()
		a.respawning = false
		a.sinceShot = 0
		slog.Info("player respawned", "pos", a.player.Position())
	})
}

func (a *Arena) Trigger(uint32, string) { a.stats.Triggers++ }
func (a *Arena) Play(uint32, string)    { a.stats.Clips++ }

// Launch resolves a projectile against the player: straight line, limited range,
// stopped by any obstacle.
func (a *Arena) Launch(agentID uint32, origin, dir model.Vec3, kind string) {
	a.stats.Launches++
	dmg := projectileDamage[kind]
	if dmg <= 0 || a.player.IsDead() || !a.projectileHits(origin, dir) {
		return
	}
	a.stats.ProjectileHits++
	a.player.TakeDamage(dmg)

	if ai.IsDebugEnabled() {
		slog.Debug("projectile hit player", "agent", agentID, "kind", kind, "damage", dmg)
	}
}

func (a *Arena) projectileHits(origin, dir model.Vec3) bool {
	dir = dir.Flat().Normalized()
	if dir.IsZero() {
		return false
	}
	toPlayer := a.player.Position().Sub(origin).Flat()
	along := toPlayer.Dot(dir)
	if along < 0 || along > projectileRange {
		return false
	}
	if toPlayer.Sub(dir.Scale(along)).Len() > projectileRadius {
		return false
	}
	return !a.physics.Raycast(origin, dir, along, perception.MaskAll)
}
