package spawn

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/udisondev/nightfall/internal/ai"
	"github.com/udisondev/nightfall/internal/config"
	"github.com/udisondev/nightfall/internal/model"
)

const (
	defaultAreaMax      = 8
	defaultPerSpawn     = 2
	defaultAreaInterval = 5 * time.Second
)

// Box is an axis-aligned spawn region on the ground plane.
type Box struct {
	Center model.Vec3
	Size   model.Vec3
}

// RandomPoint returns a uniformly random point inside the box at the center height.
func (b Box) RandomPoint(rnd ai.Rand) model.Vec3 {
	return model.V(
		b.Center.X+(rnd.Float64()-0.5)*b.Size.X,
		b.Center.Y,
		b.Center.Z+(rnd.Float64()-0.5)*b.Size.Z,
	)
}

// Area spawns zombies around its center on a fixed interval, up to its own cap.
// Agents remember the area only by id; the manager releases the slot on removal.
type Area struct {
	ID         string
	Box        Box
	MaxAgents  int
	PerSpawn   int
	Interval   time.Duration
	Archetypes []model.Archetype

	current atomic.Int32
}

// NewArea builds an area from config, filling in stock values for zero fields.
func NewArea(cfg config.ZombieArea) (*Area, error) {
	if cfg.ID == "" {
		return nil, fmt.Errorf("zombie area without id")
	}
	area := &Area{
		ID:        cfg.ID,
		Box:       Box{Center: cfg.Center.Vec(), Size: cfg.Size.Vec()},
		MaxAgents: cfg.MaxZombies,
		PerSpawn:  cfg.SpawnCount,
		Interval:  cfg.Interval,
	}
	if area.Box.Size.IsZero() {
		area.Box.Size = model.V(10, 0, 10)
	}
	if area.MaxAgents <= 0 {
		area.MaxAgents = defaultAreaMax
	}
	if area.PerSpawn <= 0 {
		area.PerSpawn = defaultPerSpawn
	}
	if area.Interval <= 0 {
		area.Interval = defaultAreaInterval
	}

	for _, name := range cfg.Archetypes {
		a, ok := model.ParseArchetype(name)
		if !ok || !a.IsZombie() {
			return nil, fmt.Errorf("zombie area %s: %q is not a zombie archetype", cfg.ID, name)
		}
		area.Archetypes = append(area.Archetypes, a)
	}
	if len(area.Archetypes) == 0 {
		area.Archetypes = []model.Archetype{model.ArchetypeZombie}
	}
	return area, nil
}

// Current returns number of living agents spawned by this area.
func (a *Area) Current() int {
	return int(a.current.Load())
}

// Free returns remaining room under the area cap.
func (a *Area) Free() int {
	return max(a.MaxAgents-a.Current(), 0)
}

func (a *Area) take() {
	a.current.Add(1)
}

func (a *Area) release() {
	for {
		cur := a.current.Load()
		if cur <= 0 || a.current.CompareAndSwap(cur, cur-1) {
			return
		}
	}
}

// GhostArea spawns Count ghosts of one archetype once, each in a random box.
type GhostArea struct {
	ID        string
	Archetype model.Archetype
	Boxes     []Box
	Count     int

	spawned bool
}

// NewGhostArea builds a ghost area from config.
func NewGhostArea(cfg config.GhostArea) (*GhostArea, error) {
	if cfg.ID == "" {
		return nil, fmt.Errorf("ghost area without id")
	}
	a, ok := model.ParseArchetype(cfg.Archetype)
	if !ok {
		return nil, fmt.Errorf("ghost area %s: unknown archetype %q", cfg.ID, cfg.Archetype)
	}
	area := &GhostArea{ID: cfg.ID, Archetype: a, Count: cfg.Count}
	for _, b := range cfg.Boxes {
		area.Boxes = append(area.Boxes, Box{Center: b.Center.Vec(), Size: b.Size.Vec()})
	}
	return area, nil
}

// Spawned reports whether the area already produced its ghosts.
func (g *GhostArea) Spawned() bool {
	return g.spawned
}

// RandomPoint picks a random box and a random point inside it.
func (g *GhostArea) RandomPoint(rnd ai.Rand) model.Vec3 {
	return g.Boxes[rnd.IntN(len(g.Boxes))].RandomPoint(rnd)
}
