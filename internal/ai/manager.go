package ai

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/udisondev/nightfall/internal/clock"
	"github.com/udisondev/nightfall/internal/model"
)

// DefaultTickInterval is used when NewTickManager gets a non-positive interval.
const DefaultTickInterval = 100 * time.Millisecond

// TickManager owns the simulation clock, the timer queue and every registered agent.
// Each tick advances the clock by one interval, drains due timers, runs the
// before-tick hooks, ticks agents in id order and then runs the after-tick hooks.
//
// Step and everything it calls run on a single goroutine. Register, Get, Agents and
// Count may additionally be called from other goroutines.
type TickManager struct {
	mu     sync.RWMutex
	agents map[uint32]*Agent
	order  []uint32 // sorted ids

	agentCount atomic.Int32 // cached count of agents (O(1) access)
	lastID     atomic.Uint32
	ticks      atomic.Uint64

	clock    *clock.Sim
	timers   *clock.Queue
	interval time.Duration

	observers  []Observer
	beforeTick []func(dt time.Duration)
	afterTick  []func(tick uint64, now time.Duration)

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewTickManager creates a tick manager stepping the simulation by interval per tick.
func NewTickManager(interval time.Duration) *TickManager {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	c := clock.NewSim()
	return &TickManager{
		agents:   make(map[uint32]*Agent),
		clock:    c,
		timers:   clock.NewQueue(c),
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

func (m *TickManager) Clock() clock.Source     { return m.clock }
func (m *TickManager) Timers() *clock.Queue    { return m.timers }
func (m *TickManager) Interval() time.Duration { return m.interval }
func (m *TickManager) Now() time.Duration      { return m.clock.Now() }

// Ticks returns number of completed ticks.
func (m *TickManager) Ticks() uint64 {
	return m.ticks.Load()
}

// Env completes base with the manager's clock, timers, crowd and observer fan-out.
func (m *TickManager) Env(base Env) Env {
	base.Clock = m.clock
	base.Timers = m.timers
	base.Crowd = m
	base.Observer = m
	return base
}

// AddObserver subscribes o to agent lifecycle events. Must be called before Start.
func (m *TickManager) AddObserver(o Observer) {
	m.observers = append(m.observers, o)
}

// BeforeTick registers fn to run after timers are drained and before agents tick.
// Must be called before Start.
func (m *TickManager) BeforeTick(fn func(dt time.Duration)) {
	m.beforeTick = append(m.beforeTick, fn)
}

// AfterTick registers fn to run once every agent has ticked. Must be called before Start.
func (m *TickManager) AfterTick(fn func(tick uint64, now time.Duration)) {
	m.afterTick = append(m.afterTick, fn)
}

// NextID allocates a fresh agent id.
func (m *TickManager) NextID() uint32 {
	return m.lastID.Add(1)
}

// Register adds an agent to the tick loop.
func (m *TickManager) Register(a *Agent) error {
	m.mu.Lock()
	if _, ok := m.agents[a.id]; ok {
		m.mu.Unlock()
		return fmt.Errorf("registering agent %d: already registered", a.id)
	}
	m.agents[a.id] = a
	i, _ := slices.BinarySearch(m.order, a.id)
	m.order = slices.Insert(m.order, i, a.id)
	m.mu.Unlock()

	m.agentCount.Add(1) // Update cached count
	m.OnSpawned(a)

	slog.Debug("agent registered",
		"agent", a.id,
		"archetype", a.archetype,
		"area", a.areaID)
	return nil
}

// Unregister takes an agent out of the tick loop without notifying observers.
// Returns the agent, or nil if it was not registered.
func (m *TickManager) Unregister(id uint32) *Agent {
	m.mu.Lock()
	a, ok := m.agents[id]
	if !ok {
		m.mu.Unlock()
		return nil
	}
	delete(m.agents, id)
	if i, found := slices.BinarySearch(m.order, id); found {
		m.order = slices.Delete(m.order, i, i+1)
	}
	m.mu.Unlock()

	m.agentCount.Add(-1) // Update cached count
	slog.Debug("agent unregistered", "agent", id)
	return a
}

// Remove unregisters an agent and reports it to observers. Unknown ids are ignored.
func (m *TickManager) Remove(id uint32) {
	a := m.Unregister(id)
	if a == nil {
		return
	}
	a.removed = true
	m.OnRemoved(a)
}

// Get returns registered agent by id
func (m *TickManager) Get(id uint32) (*Agent, error) {
	m.mu.RLock()
	a, ok := m.agents[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("agent %d: %w", id, ErrNotFound)
	}
	return a, nil
}

// Agents returns registered agents ordered by id.
func (m *TickManager) Agents() []*Agent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Agent, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.agents[id])
	}
	return out
}

// Count returns number of registered agents (O(1) cached count)
func (m *TickManager) Count() int {
	return int(m.agentCount.Load())
}

// Start runs the tick loop until ctx is canceled or Stop is called.
// Every tick steps the simulation by the configured interval.
func (m *TickManager) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("tick manager started", "interval", m.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("tick manager stopping", "ticks", m.Ticks())
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("tick manager stopped", "ticks", m.Ticks())
			return nil

		case <-ticker.C:
			m.Step(m.interval)
		}
	}
}

// Stop stops the tick loop. Safe to call more than once.
func (m *TickManager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// Step runs one tick of length dt.
func (m *TickManager) Step(dt time.Duration) {
	now := m.clock.Advance(dt)
	fired := m.timers.Drain(now)

	for _, fn := range m.beforeTick {
		fn(dt)
	}

	agents := m.Agents()
	for _, a := range agents {
		a.Tick(dt)
	}

	tick := m.ticks.Add(1)
	for _, fn := range m.afterTick {
		fn(tick, now)
	}

	if IsDebugEnabled() {
		slog.Debug("tick completed",
			"tick", tick,
			"now", now,
			"agents", len(agents),
			"timers_fired", fired)
	}
}

// CountInStates counts living agents of archetype whose state is one of states, skipping exclude.
func (m *TickManager) CountInStates(archetype model.Archetype, exclude uint32, states ...model.State) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for id, a := range m.agents {
		if id == exclude || a.dead || a.archetype != archetype {
			continue
		}
		if slices.Contains(states, a.state) {
			n++
		}
	}
	return n
}

// EmitSound delivers a sound at pos to every living agent except source.
// Pass source 0 for sounds that do not come from an agent.
func (m *TickManager) EmitSound(pos model.Vec3, source uint32) {
	for _, a := range m.Agents() {
		if a.id == source {
			continue
		}
		a.HearSound(pos)
	}
}

func (m *TickManager) OnSpawned(a *Agent) {
	for _, o := range m.observers {
		o.OnSpawned(a)
	}
}

func (m *TickManager) OnStateChanged(a *Agent, from, to model.State) {
	for _, o := range m.observers {
		o.OnStateChanged(a, from, to)
	}
}

func (m *TickManager) OnDied(a *Agent) {
	for _, o := range m.observers {
		o.OnDied(a)
	}
}

func (m *TickManager) OnRemoved(a *Agent) {
	for _, o := range m.observers {
		o.OnRemoved(a)
	}
}
