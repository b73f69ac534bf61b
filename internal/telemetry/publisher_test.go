package telemetry

import (
	"encoding/json"
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

func newManager(t *testing.T, archetypes ...model.Archetype) (*ai.TickManager, *testutil.Player) {
	t.Helper()
	player := testutil.NewPlayer(model.V(0, 0, 30))

	m := ai.NewTickManager(tick)
	env := m.Env(ai.Env{Targets: player})
	for _, arch := range archetypes {
		a, err := ai.NewAgent(m.NextID(), arch, config.DefaultTuning(arch), testutil.NewMover(model.Vec3{}), env)
		require.NoError(t, err)
		require.NoError(t, m.Register(a))
	}
	return m, player
}

func TestCapture(t *testing.T) {
	m, player := newManager(t, model.ArchetypeZombie, model.ArchetypeBossAlien)
	m.Step(tick)

	s := Capture(m.Ticks(), m.Now(), m.Agents(), player)

	assert.Equal(t, uint64(1), s.Tick)
	assert.Equal(t, int64(100), s.TimeMS)
	require.NotNil(t, s.Player)
	assert.Equal(t, Vec{Z: 30}, s.Player.Position)
	assert.Equal(t, 100.0, s.Player.Health)

	require.Len(t, s.Agents, 2)
	assert.Equal(t, "zombie", s.Agents[0].Archetype)
	assert.Equal(t, "boss_alien", s.Agents[1].Archetype)
	assert.Equal(t, "PHASE1", s.Agents[1].Phase)
	assert.Equal(t, s.Agents[1].MaxHealth, s.Agents[1].Health)
}

func TestCapture_JSONShape(t *testing.T) {
	s := Capture(3, 250*time.Millisecond, nil, nil)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tick":3,"time_ms":250,"agents":[]}`, string(data))
}

func TestPublisher_Every(t *testing.T) {
	m, player := newManager(t, model.ArchetypeEnemy)
	hub := NewHub()
	_, updates := hub.Subscribe()

	p := NewPublisher(hub, m, 3)
	p.SetPlayer(player)
	p.Attach()

	for range 7 {
		m.Step(tick)
	}

	assert.Equal(t, uint64(2), p.Published())
	require.Len(t, updates, 2)

	var s Snapshot
	require.NoError(t, json.Unmarshal(<-updates, &s))
	assert.Equal(t, uint64(3), s.Tick)
	assert.Len(t, s.Agents, 1)
	assert.Equal(t, "IDLE", s.Agents[0].State)
}

func TestPublisher_SkipsWithoutSubscribers(t *testing.T) {
	m, _ := newManager(t)
	p := NewPublisher(NewHub(), m, 0)
	p.Attach()

	m.Step(tick)

	assert.Zero(t, p.Published())
}
