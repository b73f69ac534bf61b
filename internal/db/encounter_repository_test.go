package db_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/nightfall/internal/db"
	"github.com/udisondev/nightfall/internal/model"
	"github.com/udisondev/nightfall/internal/testutil"
)

func TestEncounterRepository(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	repo := db.NewEncounterRepository(pool)
	ctx := testutil.ContextWithTimeout(t, 30*time.Second)

	spawn := db.Encounter{
		RunID:     "run",
		AgentID:   1,
		Archetype: "zombie",
		AreaID:    "north",
		Position:  model.V(1, 0, 2),
		SimTime:   1500 * time.Millisecond,
	}
	require.NoError(t, repo.RecordSpawn(ctx, spawn))

	death := spawn
	death.State = "DEAD"
	death.SimTime = 9 * time.Second
	require.NoError(t, repo.RecordDeath(ctx, death))

	n, err := repo.InsertBatch(ctx, []db.Encounter{
		{RunID: "run", AgentID: 2, Archetype: "zombie", Kind: db.KindDeath},
		{RunID: "run", AgentID: 3, Archetype: "boss_alien", Kind: db.KindSpawn},
		{RunID: "other", AgentID: 4, Archetype: "zombie", Kind: db.KindDeath},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	t.Run("ListByArchetype", func(t *testing.T) {
		got, err := repo.ListByArchetype(ctx, "run", "zombie", 10)
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Equal(t, db.KindSpawn, got[0].Kind)
		assert.Equal(t, uint32(1), got[0].AgentID)
		assert.Equal(t, "north", got[0].AreaID)
		assert.Equal(t, model.V(1, 0, 2), got[0].Position)
		assert.Equal(t, 1500*time.Millisecond, got[0].SimTime)
		assert.False(t, got[0].RecordedAt.IsZero())

		assert.Equal(t, db.KindDeath, got[1].Kind)
		assert.Equal(t, "DEAD", got[1].State)

		limited, err := repo.ListByArchetype(ctx, "run", "zombie", 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})

	t.Run("CountDeaths", func(t *testing.T) {
		n, err := repo.CountDeaths(ctx, "run", "zombie")
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		n, err = repo.CountDeaths(ctx, "run", "boss_alien")
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("EmptyBatch", func(t *testing.T) {
		n, err := repo.InsertBatch(ctx, nil)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
