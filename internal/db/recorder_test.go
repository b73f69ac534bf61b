package db_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/nightfall/internal/ai"
	"github.com/udisondev/nightfall/internal/config"
	"github.com/udisondev/nightfall/internal/db"
	"github.com/udisondev/nightfall/internal/model"
	"github.com/udisondev/nightfall/internal/testutil"
)

type memWriter struct {
	mu     sync.Mutex
	events []db.Encounter
	err    error
}

func (w *memWriter) InsertBatch(_ context.Context, events []db.Encounter) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return 0, w.err
	}
	w.events = append(w.events, events...)
	return int64(len(events)), nil
}

func (w *memWriter) snapshot() []db.Encounter {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]db.Encounter(nil), w.events...)
}

func spawnZombie(t *testing.T, m *ai.TickManager, pos model.Vec3) *ai.Agent {
	t.Helper()
	a, err := ai.NewAgent(m.NextID(), model.ArchetypeZombie, config.DefaultTuning(model.ArchetypeZombie),
		testutil.NewMover(pos), m.Env(ai.Env{Targets: testutil.NoTarget{}}), ai.WithArea("north"))
	require.NoError(t, err)
	require.NoError(t, m.Register(a))
	return a
}

func TestRecorder_WritesSpawnAndDeath(t *testing.T) {
	m := ai.NewTickManager(100 * time.Millisecond)
	w := &memWriter{}
	rec := db.NewRecorder(w, "run-1", m.Clock(), 16)
	m.AddObserver(rec)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rec.Run(ctx) }()

	a := spawnZombie(t, m, model.V(1, 0, 2))
	m.Step(100 * time.Millisecond)
	a.TakeDamage(1000)

	cancel()
	require.NoError(t, <-done)

	events := w.snapshot()
	require.Len(t, events, 2)
	assert.Equal(t, db.KindSpawn, events[0].Kind)
	assert.Equal(t, db.KindDeath, events[1].Kind)
	for _, e := range events {
		assert.Equal(t, "run-1", e.RunID)
		assert.Equal(t, a.ID(), e.AgentID)
		assert.Equal(t, "zombie", e.Archetype)
		assert.Equal(t, "north", e.AreaID)
	}
	assert.Zero(t, events[0].SimTime)
	assert.Equal(t, 100*time.Millisecond, events[1].SimTime)
	assert.Equal(t, "DEAD", events[1].State)
	assert.Equal(t, uint64(2), rec.Written())
}

func TestRecorder_DropsWhenFull(t *testing.T) {
	m := ai.NewTickManager(100 * time.Millisecond)
	rec := db.NewRecorder(&memWriter{}, "run-2", m.Clock(), 2)
	m.AddObserver(rec)

	for i := range 5 {
		spawnZombie(t, m, model.V(float64(i), 0, 0))
	}

	assert.Equal(t, uint64(3), rec.Dropped())
}

func TestRecorder_WriteErrorIsNotFatal(t *testing.T) {
	m := ai.NewTickManager(100 * time.Millisecond)
	w := &memWriter{err: testutil.ErrSimulated}
	rec := db.NewRecorder(w, "run-3", m.Clock(), 8)
	m.AddObserver(rec)
	spawnZombie(t, m, model.Vec3{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, rec.Run(ctx))
	assert.Zero(t, rec.Written())
}
