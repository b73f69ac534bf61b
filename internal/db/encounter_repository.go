package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/nightfall/internal/model"
)

// Kind is the lifecycle event an encounter row records.
type Kind string

const (
	KindSpawn Kind = "spawn"
	KindDeath Kind = "death"
)

// Encounter is one row of the ledger.
type Encounter struct {
	ID         int64
	RunID      string
	AgentID    uint32
	Archetype  string
	AreaID     string
	Kind       Kind
	State      string
	Position   model.Vec3
	SimTime    time.Duration
	RecordedAt time.Time
}

// EncounterRepository persists spawn and death events.
type EncounterRepository struct {
	pool *pgxpool.Pool
}

// NewEncounterRepository creates a new encounter repository
func NewEncounterRepository(pool *pgxpool.Pool) *EncounterRepository {
	return &EncounterRepository{pool: pool}
}

// RecordSpawn stores a spawn event.
func (r *EncounterRepository) RecordSpawn(ctx context.Context, e Encounter) error {
	e.Kind = KindSpawn
	return r.insert(ctx, e)
}

// RecordDeath stores a death event.
func (r *EncounterRepository) RecordDeath(ctx context.Context, e Encounter) error {
	e.Kind = KindDeath
	return r.insert(ctx, e)
}

func (r *EncounterRepository) insert(ctx context.Context, e Encounter) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO encounters (run_id, agent_id, archetype, area_id, kind, state, x, y, z, sim_time_ms)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.RunID, int64(e.AgentID), e.Archetype, e.AreaID, string(e.Kind), e.State,
		e.Position.X, e.Position.Y, e.Position.Z, e.SimTime.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("recording %s of agent %d: %w", e.Kind, e.AgentID, err)
	}
	return nil
}

// InsertBatch stores events in one COPY. Returns the number of rows written.
func (r *EncounterRepository) InsertBatch(ctx context.Context, events []Encounter) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}

	rows := make([][]any, 0, len(events))
	for _, e := range events {
		rows = append(rows, []any{
			e.RunID, int64(e.AgentID), e.Archetype, e.AreaID, string(e.Kind), e.State,
			e.Position.X, e.Position.Y, e.Position.Z, e.SimTime.Milliseconds(),
		})
	}

	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"encounters"},
		[]string{"run_id", "agent_id", "archetype", "area_id", "kind", "state", "x", "y", "z", "sim_time_ms"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("copying %d encounters: %w", len(events), err)
	}
	return n, nil
}

// ListByArchetype returns up to limit events of one archetype in a run, oldest first.
func (r *EncounterRepository) ListByArchetype(ctx context.Context, runID, archetype string, limit int) ([]Encounter, error) {
	query := `
		SELECT id, run_id, agent_id, archetype, area_id, kind, state, x, y, z, sim_time_ms, recorded_at
		FROM encounters
		WHERE run_id = $1 AND archetype = $2
		ORDER BY id
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, runID, archetype, limit)
	if err != nil {
		return nil, fmt.Errorf("listing %s encounters: %w", archetype, err)
	}
	defer rows.Close()

	var out []Encounter
	for rows.Next() {
		var (
			e       Encounter
			agentID int64
			kind    string
			simMS   int64
		)
		if err := rows.Scan(&e.ID, &e.RunID, &agentID, &e.Archetype, &e.AreaID, &kind, &e.State,
			&e.Position.X, &e.Position.Y, &e.Position.Z, &simMS, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scanning encounter row: %w", err)
		}
		e.AgentID = uint32(agentID)
		e.Kind = Kind(kind)
		e.SimTime = time.Duration(simMS) * time.Millisecond
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating encounter rows: %w", err)
	}
	return out, nil
}

// CountDeaths returns how many agents of archetype died in a run.
func (r *EncounterRepository) CountDeaths(ctx context.Context, runID, archetype string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM encounters WHERE run_id = $1 AND archetype = $2 AND kind = $3`,
		runID, archetype, string(KindDeath),
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting %s deaths: %w", archetype, err)
	}
	return n, nil
}
