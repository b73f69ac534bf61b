package config

import (
	"maps"
	"time"

	"github.com/udisondev/nightfall/internal/model"
)

// Tuning holds per-archetype behavior parameters.
// Zero values in an override mean "keep the stock value".
type Tuning struct {
	// Detection
	SightRange     float64 `yaml:"sight_range"`
	HearingRange   float64 `yaml:"hearing_range"`
	AttackRange    float64 `yaml:"attack_range"`
	FieldOfView    float64 `yaml:"field_of_view"`   // degrees
	ObstacleLayers []uint  `yaml:"obstacle_layers"` // empty = every layer occludes

	// Movement
	WalkSpeed float64 `yaml:"walk_speed"`
	RunSpeed  float64 `yaml:"run_speed"`
	TurnRate  float64 `yaml:"turn_rate"`

	// Combat
	MaxHealth   float64       `yaml:"max_health"`
	Damage      float64       `yaml:"damage"`
	AttackLatch time.Duration `yaml:"attack_latch"` // time between attacks
	DeathGrace  time.Duration `yaml:"death_grace"`  // removal delay after death

	Cooldowns map[string]time.Duration `yaml:"cooldowns"`
	Timers    map[string]time.Duration `yaml:"timers"`
	Params    map[string]float64       `yaml:"params"`

	// Optional decide-hook script (tengo)
	Script string `yaml:"script"`
}

// Cooldown returns a named cooldown or 0.
func (t Tuning) Cooldown(name string) time.Duration {
	return t.Cooldowns[name]
}

// Timer returns a named timer or 0.
func (t Tuning) Timer(name string) time.Duration {
	return t.Timers[name]
}

// Param returns a named parameter or def if absent.
func (t Tuning) Param(name string, def float64) float64 {
	if v, ok := t.Params[name]; ok {
		return v
	}
	return def
}

// Merge returns t with every non-zero field of o applied over it.
func (t Tuning) Merge(o Tuning) Tuning {
	out := t
	setF := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	setD := func(dst *time.Duration, v time.Duration) {
		if v != 0 {
			*dst = v
		}
	}
	setF(&out.SightRange, o.SightRange)
	setF(&out.HearingRange, o.HearingRange)
	setF(&out.AttackRange, o.AttackRange)
	setF(&out.FieldOfView, o.FieldOfView)
	if len(o.ObstacleLayers) > 0 {
		out.ObstacleLayers = append([]uint(nil), o.ObstacleLayers...)
	}
	setF(&out.WalkSpeed, o.WalkSpeed)
	setF(&out.RunSpeed, o.RunSpeed)
	setF(&out.TurnRate, o.TurnRate)
	setF(&out.MaxHealth, o.MaxHealth)
	setF(&out.Damage, o.Damage)
	setD(&out.AttackLatch, o.AttackLatch)
	setD(&out.DeathGrace, o.DeathGrace)
	out.Cooldowns = mergeMap(t.Cooldowns, o.Cooldowns)
	out.Timers = mergeMap(t.Timers, o.Timers)
	out.Params = mergeMap(t.Params, o.Params)
	if o.Script != "" {
		out.Script = o.Script
	}
	return out
}

func mergeMap[V any](base, over map[string]V) map[string]V {
	out := make(map[string]V, len(base)+len(over))
	maps.Copy(out, base)
	maps.Copy(out, over)
	return out
}

// TuningTable maps archetypes to their effective tuning.
type TuningTable map[model.Archetype]Tuning

// Get returns the tuning for a, falling back to the stock values.
func (tt TuningTable) Get(a model.Archetype) Tuning {
	if t, ok := tt[a]; ok {
		return t
	}
	return DefaultTuning(a)
}

// BuildTuningTable merges overrides (keyed by archetype config name) over stock values.
// Unknown names are ignored; Simulator.Validate reports them.
func BuildTuningTable(overrides map[string]Tuning) TuningTable {
	tt := make(TuningTable, len(model.Archetypes()))
	for _, a := range model.Archetypes() {
		tt[a] = DefaultTuning(a)
	}
	for name, o := range overrides {
		a, ok := model.ParseArchetype(name)
		if !ok {
			continue
		}
		tt[a] = tt[a].Merge(o)
	}
	return tt
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func baseEnemy() Tuning {
	return Tuning{
		SightRange:   10,
		HearingRange: 15,
		AttackRange:  2,
		FieldOfView:  120,
		WalkSpeed:    2,
		RunSpeed:     4,
		TurnRate:     5,
		MaxHealth:    100,
		Damage:       10,
		AttackLatch:  seconds(1.2),
		DeathGrace:   3 * time.Second,
	}
}

func baseGhost(moveSpeed float64) Tuning {
	t := baseEnemy()
	t.WalkSpeed = moveSpeed
	t.RunSpeed = moveSpeed
	t.Damage = 5
	t.AttackLatch = 2 * time.Second
	return t
}

// DefaultTuning returns the stock tuning of an archetype.
func DefaultTuning(a model.Archetype) Tuning {
	switch a {
	case model.ArchetypeZombie:
		t := baseEnemy()
		t.Params = map[string]float64{"waypoint_radius": 2}
		return t

	case model.ArchetypeNormalZombie:
		t := DefaultTuning(model.ArchetypeZombie)
		t.AttackLatch = seconds(1.5)
		t.Cooldowns = map[string]time.Duration{"scream": 10 * time.Second}
		t.Params["scream_health_ratio"] = 0.3
		t.Params["scream_min_allies"] = 2
		return t

	case model.ArchetypeBlindZombie:
		t := DefaultTuning(model.ArchetypeZombie)
		t.AttackRange = 1
		t.AttackLatch = 4 * time.Second
		return t

	case model.ArchetypeMonsterZombie:
		t := DefaultTuning(model.ArchetypeZombie)
		t.MaxHealth = 50
		t.AttackRange = 5
		t.AttackLatch = 2 * time.Second
		return t

	case model.ArchetypeGhost:
		return baseGhost(3)

	case model.ArchetypeBasicGhost:
		t := baseGhost(1.5)
		t.Timers = map[string]time.Duration{"sound_memory": 3 * time.Second}
		return t

	case model.ArchetypeMediumGhost:
		t := baseGhost(3 * 1.3)
		t.SightRange = 12
		t.FieldOfView = 180
		t.Cooldowns = map[string]time.Duration{"projectile": 4 * time.Second}
		t.Timers = map[string]time.Duration{"reveal": seconds(1.2)}
		t.Params = map[string]float64{
			"projectile_range":    8,
			"sound_chase_factor":  2,
			"sound_stop_distance": 1.2,
			"visible_distance":    4,
		}
		return t

	case model.ArchetypeBossGhost:
		t := baseGhost(3 * 1.5)
		t.Cooldowns = map[string]time.Duration{
			"special": 5 * time.Second,
			"dodge":   5 * time.Second,
		}
		t.Timers = map[string]time.Duration{
			"phase_walk": 3 * time.Second,
			"dodge":      time.Second,
		}
		t.Params = map[string]float64{
			"teleport_range":      7,
			"teleport_distance":   3,
			"projectile_range":    10,
			"projectile_spread":   15,
			"dodge_distance":      3,
			"dodge_player_speed":  2,
			"dodge_prediction":    0.5,
			"phase_speed":         2,
			"damage_phase_chance": 0.3,
		}
		return t

	case model.ArchetypeMonster:
		t := baseEnemy()
		t.MaxHealth = 150
		t.Damage = 25
		t.AttackLatch = 3 * time.Second
		t.DeathGrace = 4 * time.Second
		t.Cooldowns = map[string]time.Duration{
			"special1": 10 * time.Second,
			"special2": 15 * time.Second,
			"dodge":    5 * time.Second,
		}
		t.Timers = map[string]time.Duration{
			"special1_cast":  seconds(1.2),
			"special2_short": seconds(2.2),
			"special2_long":  seconds(3.7),
		}
		t.Params = map[string]float64{
			"special1_range": 12,
			"dodge_distance": 3,
			"dodge_chance":   0.3,
		}
		return t

	case model.ArchetypeBossAlien:
		t := baseEnemy()
		t.MaxHealth = 200
		t.Damage = 30
		t.AttackLatch = 3 * time.Second
		t.DeathGrace = 4 * time.Second
		t.Cooldowns = map[string]time.Duration{
			"special1": 12 * time.Second,
			"special2": 15 * time.Second,
			"special3": 20 * time.Second,
			"dodge":    5 * time.Second,
		}
		t.Timers = map[string]time.Duration{
			"speed_boost": 5 * time.Second,
			"dodge":       seconds(1.5),
			"fly":         seconds(1.5),
			"special1":    seconds(0.5),
			"special3":    seconds(1.5),
		}
		t.Params = map[string]float64{
			"low_hp_ratio":      0.3,
			"speed_boost":       2,
			"dodge_distance":    5,
			"dodge_chance":      0.5,
			"dodge_prediction":  0.5,
			"teleport_distance": 3,
			"knockback":         15,
			"push_back":         1.5,
			"phase2_health":     0.7,
			"phase3_health":     0.4,
			"phase2_run":        1.2,
			"phase3_run":        1.5,
			"phase2_dodge":      0.8,
			"phase3_dodge":      0.7,
			"phase2_special":    0.9,
			"phase3_special":    0.8,
		}
		return t
	}
	return baseEnemy()
}
