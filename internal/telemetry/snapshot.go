// Package telemetry streams per-tick simulation snapshots to websocket observers.
package telemetry

import (
	"time"

	"github.com/udisondev/nightfall/internal/ai"
	"github.com/udisondev/nightfall/internal/model"
)

// Vec is the wire form of a world position.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func vec(v model.Vec3) Vec {
	return Vec{X: v.X, Y: v.Y, Z: v.Z}
}

// AgentState is one agent in a snapshot.
type AgentState struct {
	ID        uint32  `json:"id"`
	Archetype string  `json:"archetype"`
	State     string  `json:"state"`
	Position  Vec     `json:"position"`
	Health    float64 `json:"health"`
	MaxHealth float64 `json:"max_health"`
	Phase     string  `json:"phase"`
	Busy      bool    `json:"busy"`
	Dead      bool    `json:"dead"`
}

// PlayerState is the chased target in a snapshot.
type PlayerState struct {
	Position Vec     `json:"position"`
	Health   float64 `json:"health"`
	Dead     bool    `json:"dead"`
}

// Snapshot is the full simulation state after one tick.
type Snapshot struct {
	Tick   uint64       `json:"tick"`
	TimeMS int64        `json:"time_ms"`
	Player *PlayerState `json:"player,omitempty"`
	Agents []AgentState `json:"agents"`
}

// PlayerSource is the player as seen by telemetry.
type PlayerSource interface {
	Position() model.Vec3
	Health() ai.Health
}

// Capture builds a snapshot of agents. player may be nil.
func Capture(tick uint64, now time.Duration, agents []*ai.Agent, player PlayerSource) Snapshot {
	s := Snapshot{
		Tick:   tick,
		TimeMS: now.Milliseconds(),
		Agents: make([]AgentState, 0, len(agents)),
	}
	if player != nil {
		h := player.Health()
		s.Player = &PlayerState{
			Position: vec(player.Position()),
			Health:   h.Current(),
			Dead:     h.IsDead(),
		}
	}

	for _, a := range agents {
		st := AgentState{
			ID:        a.ID(),
			Archetype: a.Archetype().String(),
			State:     a.State().String(),
			Position:  vec(a.Position()),
			Health:    a.Health().Current(),
			MaxHealth: a.Health().Max(),
			Phase:     a.Phase().String(),
			Busy:      a.IsBusy(),
			Dead:      a.IsDead(),
		}
		s.Agents = append(s.Agents, st)
	}
	return s
}
