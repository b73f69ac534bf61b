package world

import (
	"time"

	"github.com/udisondev/nightfall/internal/ai"
	"github.com/udisondev/nightfall/internal/model"
	"github.com/udisondev/nightfall/internal/nav"
)

const (
	patrolReach = 0.05
	// knockback force is converted into displacement by this factor
	knockbackScale = 0.1
)

// PlayerStats aggregates what enemies did to the player.
type PlayerStats struct {
	Hits       int
	Damage     float64
	Knockbacks int
	Deaths     int
}

// Player is the simulated target walking a patrol loop.
type Player struct {
	pos     model.Vec3
	forward model.Vec3
	speed   float64
	patrol  []model.Vec3
	next    int

	health  ai.Health
	maxHP   float64
	spawn   model.Vec3
	bounds  nav.Bounds
	blocker nav.Blocker
	stats   PlayerStats
}

// NewPlayer creates a player at spawn. blocker may be nil.
func NewPlayer(spawn model.Vec3, patrol []model.Vec3, speed, maxHP float64, bounds nav.Bounds, blocker nav.Blocker) *Player {
	return &Player{
		pos:     bounds.Clamp(spawn),
		forward: model.Forward,
		speed:   speed,
		patrol:  patrol,
		health:  ai.NewHealth(maxHP),
		maxHP:   maxHP,
		spawn:   bounds.Clamp(spawn),
		bounds:  bounds,
		blocker: blocker,
	}
}

func (p *Player) Position() model.Vec3 { return p.pos }
func (p *Player) Forward() model.Vec3  { return p.forward }
func (p *Player) Health() ai.Health    { return p.health }
func (p *Player) IsDead() bool         { return p.health.IsDead() }
func (p *Player) Stats() PlayerStats   { return p.stats }

// TakeDamage applies an enemy hit.
func (p *Player) TakeDamage(amount float64) {
	if p.health.IsDead() || amount <= 0 {
		return
	}
	p.stats.Hits++
	p.stats.Damage += amount
	if p.health.Apply(amount) {
		p.stats.Deaths++
	}
}

// ApplyKnockback pushes the player along dir, stopping at obstacles.
func (p *Player) ApplyKnockback(dir model.Vec3, force float64) {
	if p.health.IsDead() || force <= 0 {
		return
	}
	p.stats.Knockbacks++
	p.moveTo(p.pos.Add(dir.Flat().Normalized().Scale(force * knockbackScale)))
}

// Respawn restores full health at the spawn point.
func (p *Player) Respawn() {
	p.health = ai.NewHealth(p.maxHP)
	p.pos = p.spawn
	p.next = 0
}

// Update walks toward the current patrol point. A blocked leg skips to the next point.
func (p *Player) Update(dt time.Duration) {
	if p.health.IsDead() || len(p.patrol) == 0 || p.speed <= 0 {
		return
	}

	goal := p.patrol[p.next]
	toGoal := goal.Sub(p.pos).Flat()
	dist := toGoal.Len()
	if dist <= patrolReach {
		p.next = (p.next + 1) % len(p.patrol)
		return
	}

	dir := toGoal.Normalized()
	p.forward = dir
	if !p.moveTo(p.pos.Add(dir.Scale(min(p.speed*dt.Seconds(), dist)))) {
		p.next = (p.next + 1) % len(p.patrol)
	}
}

func (p *Player) moveTo(next model.Vec3) bool {
	next = p.bounds.Clamp(next)
	if p.blocker != nil && p.blocker.Blocked(p.pos, next) {
		return false
	}
	p.pos = next
	return true
}
