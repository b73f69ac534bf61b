package db

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/udisondev/nightfall/internal/ai"
	"github.com/udisondev/nightfall/internal/clock"
)

const (
	DefaultRecorderBuffer = 1024
	defaultBatchSize      = 128
	defaultFlushInterval  = time.Second
	finalFlushTimeout     = 5 * time.Second
)

// EncounterWriter is the part of the repository the recorder needs.
type EncounterWriter interface {
	InsertBatch(ctx context.Context, events []Encounter) (int64, error)
}

// Recorder observes agent lifecycles and writes spawn/death events in batches.
// Observer callbacks never block the tick loop: when the buffer is full the event is dropped.
type Recorder struct {
	ai.NopObserver

	writer EncounterWriter
	runID  string
	clock  clock.Source
	events chan Encounter

	batchSize     int
	flushInterval time.Duration

	dropped atomic.Uint64
	written atomic.Uint64
}

// NewRecorder creates a recorder tagging rows with runID. buffer < 1 uses DefaultRecorderBuffer.
func NewRecorder(writer EncounterWriter, runID string, clk clock.Source, buffer int) *Recorder {
	if buffer < 1 {
		buffer = DefaultRecorderBuffer
	}
	return &Recorder{
		writer:        writer,
		runID:         runID,
		clock:         clk,
		events:        make(chan Encounter, buffer),
		batchSize:     defaultBatchSize,
		flushInterval: defaultFlushInterval,
	}
}

// Dropped returns the number of events lost to a full buffer.
func (r *Recorder) Dropped() uint64 { return r.dropped.Load() }

// Written returns the number of rows stored so far.
func (r *Recorder) Written() uint64 { return r.written.Load() }

func (r *Recorder) OnSpawned(a *ai.Agent) { r.enqueue(a, KindSpawn) }
func (r *Recorder) OnDied(a *ai.Agent)    { r.enqueue(a, KindDeath) }

func (r *Recorder) enqueue(a *ai.Agent, kind Kind) {
	e := Encounter{
		RunID:     r.runID,
		AgentID:   a.ID(),
		Archetype: a.Archetype().String(),
		AreaID:    a.AreaID(),
		Kind:      kind,
		State:     a.State().String(),
		Position:  a.Position(),
		SimTime:   r.clock.Now(),
	}
	select {
	case r.events <- e:
	default:
		if r.dropped.Add(1) == 1 {
			slog.Warn("encounter buffer full, dropping events", "run", r.runID)
		}
	}
}

// Run flushes queued events until ctx is cancelled, then writes what is left.
func (r *Recorder) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.flushInterval)
	defer ticker.Stop()

	batch := make([]Encounter, 0, r.batchSize)
	for {
		select {
		case e := <-r.events:
			batch = append(batch, e)
			if len(batch) >= r.batchSize {
				batch = r.flush(ctx, batch)
			}

		case <-ticker.C:
			batch = r.flush(ctx, batch)

		case <-ctx.Done():
			batch = r.drain(batch)
			flushCtx, cancel := context.WithTimeout(context.Background(), finalFlushTimeout)
			r.flush(flushCtx, batch)
			cancel()
			return nil
		}
	}
}

func (r *Recorder) drain(batch []Encounter) []Encounter {
	for {
		select {
		case e := <-r.events:
			batch = append(batch, e)
		default:
			return batch
		}
	}
}

// flush writes batch and returns it emptied. Failed batches are logged and discarded.
func (r *Recorder) flush(ctx context.Context, batch []Encounter) []Encounter {
	if len(batch) == 0 {
		return batch
	}
	n, err := r.writer.InsertBatch(ctx, batch)
	if err != nil {
		slog.Error("writing encounters", "run", r.runID, "events", len(batch), "err", err)
	} else {
		r.written.Add(uint64(n))
	}
	return batch[:0]
}
