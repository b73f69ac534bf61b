package spawn

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/udisondev/nightfall/internal/ai"
	"github.com/udisondev/nightfall/internal/config"
	"github.com/udisondev/nightfall/internal/model"
	"github.com/udisondev/nightfall/internal/nav"
)

var (
	// ErrPopulationFull is returned when the global zombie cap is reached.
	ErrPopulationFull = errors.New("population full")
	// ErrAreaFull is returned when a spawn area is at its own cap.
	ErrAreaFull = errors.New("area full")
)

// MoverFactory places navigation adapters in the world.
type MoverFactory interface {
	NewMover(pos model.Vec3) *nav.Adapter
}

// TuningSource returns the effective tuning of an archetype.
// config.TuningTable and *config.Watcher satisfy it.
type TuningSource interface {
	Get(a model.Archetype) config.Tuning
}

// HookLoader builds the decide hook named by a tuning's script.
type HookLoader func(archetype model.Archetype, tuning config.Tuning) (ai.DecideHook, error)

// AreaStat is a point-in-time view of one zombie area.
type AreaStat struct {
	ID      string
	Current int
	Max     int
}

// Manager creates agents, registers them with the tick manager and keeps the
// population and per-area counters in step with agent removal.
//
// Spawn methods run on the simulation goroutine (directly or from the timer queue).
type Manager struct {
	ticks      *ai.TickManager
	movers     MoverFactory
	env        ai.Env
	tuning     TuningSource
	population *Population
	hooks      HookLoader

	mu      sync.Mutex
	areas   map[string]*Area
	order   []*Area
	ghosts  []*GhostArea
	counted map[uint32]bool // agents holding a population slot

	spawned atomic.Int64
}

// NewManager creates a spawn manager and subscribes it to agent removal.
// env is the base agent environment; the tick manager completes it.
func NewManager(ticks *ai.TickManager, movers MoverFactory, env ai.Env, tuning TuningSource, population *Population) *Manager {
	if env.Rand == nil {
		env.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	m := &Manager{
		ticks:      ticks,
		movers:     movers,
		env:        ticks.Env(env),
		tuning:     tuning,
		population: population,
		areas:      make(map[string]*Area),
		counted:    make(map[uint32]bool),
	}
	ticks.AddObserver(m)
	return m
}

// SetHookLoader installs the decide hook loader. Must be called before spawning.
func (m *Manager) SetHookLoader(fn HookLoader) {
	m.hooks = fn
}

// Population returns the global zombie counter.
func (m *Manager) Population() *Population {
	return m.population
}

// Spawned returns total number of agents spawned so far.
func (m *Manager) Spawned() int64 {
	return m.spawned.Load()
}

// AddArea registers a zombie spawn area.
func (m *Manager) AddArea(area *Area) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.areas[area.ID]; ok {
		return fmt.Errorf("zombie area %s: already registered", area.ID)
	}
	m.areas[area.ID] = area
	m.order = append(m.order, area)
	return nil
}

// AddGhostArea registers a one-shot ghost area.
func (m *Manager) AddGhostArea(area *GhostArea) {
	m.mu.Lock()
	m.ghosts = append(m.ghosts, area)
	m.mu.Unlock()
}

// LoadAreas builds and registers every area from config.
func (m *Manager) LoadAreas(cfg config.Simulator) error {
	for _, c := range cfg.ZombieAreas {
		area, err := NewArea(c)
		if err != nil {
			return fmt.Errorf("loading zombie areas: %w", err)
		}
		if err := m.AddArea(area); err != nil {
			return fmt.Errorf("loading zombie areas: %w", err)
		}
	}
	for _, c := range cfg.GhostAreas {
		area, err := NewGhostArea(c)
		if err != nil {
			return fmt.Errorf("loading ghost areas: %w", err)
		}
		m.AddGhostArea(area)
	}

	slog.Info("spawn areas loaded", "zombie_areas", len(cfg.ZombieAreas), "ghost_areas", len(cfg.GhostAreas))
	return nil
}

// Start spawns ghosts, runs the first wave of every zombie area and schedules
// the periodic waves on the tick manager's timer queue.
// Call before the tick loop starts or from the simulation goroutine.
func (m *Manager) Start() {
	m.SpawnGhosts()

	m.mu.Lock()
	areas := append([]*Area(nil), m.order...)
	m.mu.Unlock()

	for _, area := range areas {
		m.wave(area)
		m.schedule(area)
	}
}

func (m *Manager) schedule(area *Area) {
	m.ticks.Timers().After(area.Interval, func() {
		m.wave(area)
		m.schedule(area)
	})
}

func (m *Manager) wave(area *Area) {
	_, err := m.SpawnArea(area.ID)
	if err == nil || errors.Is(err, ErrAreaFull) || errors.Is(err, ErrPopulationFull) {
		return
	}
	slog.Warn("area wave failed", "area", area.ID, "err", err)
}

// Spawn creates one agent at pos. Zombie-family archetypes take a population slot.
func (m *Manager) Spawn(archetype model.Archetype, pos model.Vec3, areaID string) (*ai.Agent, error) {
	counted := archetype.IsZombie()
	if counted && !m.population.Register() {
		return nil, ErrPopulationFull
	}

	a, err := m.build(archetype, pos, areaID)
	if err != nil {
		if counted {
			m.population.Unregister() // Rollback
		}
		return nil, err
	}

	m.mu.Lock()
	m.counted[a.ID()] = counted
	m.mu.Unlock()

	if err := m.ticks.Register(a); err != nil {
		m.mu.Lock()
		delete(m.counted, a.ID())
		m.mu.Unlock()
		if counted {
			m.population.Unregister()
		}
		return nil, fmt.Errorf("spawning %s: %w", archetype, err)
	}
	m.spawned.Add(1)

	slog.Info("agent spawned",
		"agent", a.ID(),
		"archetype", archetype,
		"area", areaID,
		"pos", pos)
	return a, nil
}

func (m *Manager) build(archetype model.Archetype, pos model.Vec3, areaID string) (*ai.Agent, error) {
	tuning := m.tuning.Get(archetype)

	opts := []ai.Option{ai.WithArea(areaID)}
	if tuning.Script != "" && m.hooks != nil {
		hook, err := m.hooks(archetype, tuning)
		if err != nil {
			slog.Warn("decide hook not loaded", "archetype", archetype, "script", tuning.Script, "err", err)
		} else if hook != nil {
			opts = append(opts, ai.WithHook(hook))
		}
	}

	a, err := ai.NewAgent(m.ticks.NextID(), archetype, tuning, m.movers.NewMover(pos), m.env, opts...)
	if err != nil {
		return nil, fmt.Errorf("spawning %s: %w", archetype, err)
	}
	return a, nil
}

// SpawnArea runs one wave of an area: up to PerSpawn agents, limited by the area
// and global caps. Returns number of agents spawned.
func (m *Manager) SpawnArea(id string) (int, error) {
	m.mu.Lock()
	area, ok := m.areas[id]
	m.mu.Unlock()
	if !ok {
		return 0, fmt.Errorf("zombie area %s: not registered", id)
	}

	if area.Free() <= 0 {
		return 0, ErrAreaFull
	}
	n := min(area.PerSpawn, area.Free(), m.population.Free())
	if n <= 0 {
		return 0, ErrPopulationFull
	}

	spawned := 0
	for range n {
		archetype := area.Archetypes[m.env.Rand.IntN(len(area.Archetypes))]
		area.take()
		if _, err := m.Spawn(archetype, area.Box.RandomPoint(m.env.Rand), area.ID); err != nil {
			area.release()
			if errors.Is(err, ErrPopulationFull) {
				break
			}
			return spawned, fmt.Errorf("zombie area %s: %w", area.ID, err)
		}
		spawned++
	}

	if ai.IsDebugEnabled() {
		slog.Debug("area wave spawned",
			"area", area.ID,
			"spawned", spawned,
			"area_current", area.Current(),
			"population", m.population.Current())
	}
	return spawned, nil
}

// SpawnGhosts spawns every ghost area that has not spawned yet.
func (m *Manager) SpawnGhosts() int {
	m.mu.Lock()
	ghosts := append([]*GhostArea(nil), m.ghosts...)
	m.mu.Unlock()

	total := 0
	for _, g := range ghosts {
		if g.spawned || len(g.Boxes) == 0 {
			continue
		}
		g.spawned = true
		for range g.Count {
			if _, err := m.Spawn(g.Archetype, g.RandomPoint(m.env.Rand), g.ID); err != nil {
				slog.Error("failed to spawn ghost", "area", g.ID, "archetype", g.Archetype, "err", err)
				break
			}
			total++
		}
	}
	return total
}

// AreaStats returns the counters of every zombie area in registration order.
func (m *Manager) AreaStats() []AreaStat {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]AreaStat, 0, len(m.order))
	for _, a := range m.order {
		out = append(out, AreaStat{ID: a.ID, Current: a.Current(), Max: a.MaxAgents})
	}
	return out
}

// OnRemoved releases the population and area slots held by a.
func (m *Manager) OnRemoved(a *ai.Agent) {
	m.mu.Lock()
	counted, known := m.counted[a.ID()]
	delete(m.counted, a.ID())
	area := m.areas[a.AreaID()]
	m.mu.Unlock()

	if !known {
		return
	}
	if counted {
		m.population.Unregister()
	}
	if area != nil {
		area.release()
	}
}

func (m *Manager) OnSpawned(*ai.Agent)                                {}
func (m *Manager) OnStateChanged(*ai.Agent, model.State, model.State) {}
func (m *Manager) OnDied(*ai.Agent)                                   {}
