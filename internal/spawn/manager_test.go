package spawn

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/nightfall/internal/ai"
	"github.com/udisondev/nightfall/internal/config"
	"github.com/udisondev/nightfall/internal/model"
	"github.com/udisondev/nightfall/internal/testutil"
)

const tick = 100 * time.Millisecond

type fixture struct {
	ticks *ai.TickManager
	mgr   *Manager
}

func newFixture(t *testing.T, limit int, tuning TuningSource) *fixture {
	t.Helper()
	if tuning == nil {
		tuning = config.BuildTuningTable(nil)
	}
	ticks := ai.NewTickManager(tick)
	env := ai.Env{Targets: testutil.NoTarget{}, Rand: rand.New(rand.NewPCG(1, 2))}
	return &fixture{
		ticks: ticks,
		mgr:   NewManager(ticks, testutil.OpenField{}, env, tuning, NewPopulation(limit)),
	}
}

func (f *fixture) addArea(t *testing.T, cfg config.ZombieArea) *Area {
	t.Helper()
	area, err := NewArea(cfg)
	require.NoError(t, err)
	require.NoError(t, f.mgr.AddArea(area))
	return area
}

func (f *fixture) step(n int) {
	for range n {
		f.ticks.Step(tick)
	}
}

func TestManager_SpawnAreaRespectsAreaCap(t *testing.T) {
	f := newFixture(t, 30, nil)
	area := f.addArea(t, config.ZombieArea{ID: "north", MaxZombies: 5, SpawnCount: 2})

	for _, want := range []int{2, 2, 1} {
		n, err := f.mgr.SpawnArea("north")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	_, err := f.mgr.SpawnArea("north")
	assert.True(t, errors.Is(err, ErrAreaFull))
	assert.Equal(t, 5, area.Current())
	assert.Equal(t, 5, f.mgr.Population().Current())
	assert.Equal(t, 5, f.ticks.Count())
	assert.Equal(t, []AreaStat{{ID: "north", Current: 5, Max: 5}}, f.mgr.AreaStats())
}

func TestManager_SpawnAreaRespectsGlobalCap(t *testing.T) {
	f := newFixture(t, 3, nil)
	f.addArea(t, config.ZombieArea{ID: "a", SpawnCount: 2})
	b := f.addArea(t, config.ZombieArea{ID: "b", SpawnCount: 2})

	n, err := f.mgr.SpawnArea("a")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = f.mgr.SpawnArea("b")
	require.NoError(t, err)
	assert.Equal(t, 1, n, "only one global slot left")

	_, err = f.mgr.SpawnArea("b")
	assert.True(t, errors.Is(err, ErrPopulationFull))
	assert.Equal(t, 1, b.Current())

	_, err = f.mgr.Spawn(model.ArchetypeZombie, model.Vec3{}, "")
	assert.True(t, errors.Is(err, ErrPopulationFull))
}

func TestManager_UnknownArea(t *testing.T) {
	f := newFixture(t, 3, nil)

	_, err := f.mgr.SpawnArea("nowhere")
	assert.Error(t, err)
	assert.Error(t, f.mgr.AddArea(f.addArea(t, config.ZombieArea{ID: "dup"})))
}

func TestManager_RemovalReleasesSlots(t *testing.T) {
	f := newFixture(t, 30, nil)
	area := f.addArea(t, config.ZombieArea{ID: "north", SpawnCount: 2})

	_, err := f.mgr.SpawnArea("north")
	require.NoError(t, err)
	victim := f.ticks.Agents()[0]

	victim.TakeDamage(1000)
	require.True(t, victim.IsDead())

	// zombie death grace is 3s
	f.step(29)
	assert.Equal(t, 2, f.mgr.Population().Current())
	f.step(1)

	assert.True(t, victim.IsRemoved())
	assert.Equal(t, 1, f.mgr.Population().Current())
	assert.Equal(t, 1, area.Current())
	assert.Equal(t, 1, f.ticks.Count())

	f.ticks.Remove(victim.ID())
	assert.Equal(t, 1, f.mgr.Population().Current(), "second removal is a no-op")
}

func TestManager_StartSchedulesWaves(t *testing.T) {
	f := newFixture(t, 30, nil)
	f.addArea(t, config.ZombieArea{ID: "north", SpawnCount: 2, MaxZombies: 5, Interval: time.Second})

	f.mgr.Start()
	assert.Equal(t, 2, f.ticks.Count(), "first wave on start")

	f.step(10)
	assert.Equal(t, 4, f.ticks.Count())
	f.step(10)
	assert.Equal(t, 5, f.ticks.Count())
	f.step(10)
	assert.Equal(t, 5, f.ticks.Count())
	assert.Equal(t, int64(5), f.mgr.Spawned())
}

func TestManager_GhostsSpawnOnceOutsidePopulation(t *testing.T) {
	f := newFixture(t, 1, nil)
	require.NoError(t, f.mgr.LoadAreas(config.Simulator{
		GhostAreas: []config.GhostArea{{
			ID:        "crypt",
			Archetype: "basic_ghost",
			Count:     3,
			Boxes:     []config.Box{{Center: config.Point{X: 20}, Size: config.Point{X: 4, Z: 4}}},
		}},
	}))

	assert.Equal(t, 3, f.mgr.SpawnGhosts())
	assert.Zero(t, f.mgr.SpawnGhosts())
	assert.Zero(t, f.mgr.Population().Current())

	for _, a := range f.ticks.Agents() {
		assert.Equal(t, model.ArchetypeBasicGhost, a.Archetype())
		assert.Equal(t, "crypt", a.AreaID())
		assert.InDelta(t, 20, a.Position().X, 2)
	}
}

func TestManager_LoadAreasRejectsBadConfig(t *testing.T) {
	f := newFixture(t, 1, nil)

	err := f.mgr.LoadAreas(config.Simulator{
		ZombieAreas: []config.ZombieArea{{ID: "a", Archetypes: []string{"ghost"}}},
	})
	assert.Error(t, err)
}

func TestManager_UsesTuningSource(t *testing.T) {
	table := config.BuildTuningTable(map[string]config.Tuning{
		"zombie": {MaxHealth: 42},
	})
	f := newFixture(t, 5, table)

	a, err := f.mgr.Spawn(model.ArchetypeZombie, model.Vec3{}, "")
	require.NoError(t, err)
	assert.Equal(t, 42.0, a.Health().Max())
}

type staticHook string

func (h staticHook) Decide(ai.View) (string, error) { return string(h), nil }

func TestManager_HookLoader(t *testing.T) {
	table := config.BuildTuningTable(map[string]config.Tuning{
		"zombie":       {Script: "zombie.tengo"},
		"blind_zombie": {Script: "broken.tengo"},
	})
	f := newFixture(t, 5, table)

	var loaded []string
	f.mgr.SetHookLoader(func(_ model.Archetype, tuning config.Tuning) (ai.DecideHook, error) {
		loaded = append(loaded, tuning.Script)
		if tuning.Script == "broken.tengo" {
			return nil, errors.New("compile error")
		}
		return staticHook(""), nil
	})

	_, err := f.mgr.Spawn(model.ArchetypeZombie, model.Vec3{}, "")
	require.NoError(t, err)
	_, err = f.mgr.Spawn(model.ArchetypeBlindZombie, model.Vec3{}, "")
	require.NoError(t, err, "a failing hook does not block the spawn")
	_, err = f.mgr.Spawn(model.ArchetypeNormalZombie, model.Vec3{}, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"zombie.tengo", "broken.tengo"}, loaded)
}
