package telemetry

import (
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/udisondev/nightfall/internal/ai"
)

// Publisher broadcasts a snapshot every Nth tick of a TickManager.
type Publisher struct {
	hub     *Hub
	manager *ai.TickManager
	player  PlayerSource
	every   uint64

	published atomic.Uint64
}

// NewPublisher creates a publisher. every < 1 publishes every tick.
func NewPublisher(hub *Hub, manager *ai.TickManager, every int) *Publisher {
	return &Publisher{
		hub:     hub,
		manager: manager,
		every:   uint64(max(every, 1)),
	}
}

// SetPlayer includes the player in snapshots.
func (p *Publisher) SetPlayer(player PlayerSource) {
	p.player = player
}

// Attach registers the publisher as a post-tick hook.
func (p *Publisher) Attach() {
	p.manager.AfterTick(p.publish)
}

// Published returns the number of snapshots broadcast so far.
func (p *Publisher) Published() uint64 {
	return p.published.Load()
}

func (p *Publisher) publish(tick uint64, now time.Duration) {
	if tick%p.every != 0 || p.hub.Count() == 0 {
		return
	}

	msg, err := json.Marshal(Capture(tick, now, p.manager.Agents(), p.player))
	if err != nil {
		slog.Error("encoding snapshot", "tick", tick, "err", err)
		return
	}
	p.hub.Broadcast(msg)
	p.published.Add(1)
}
