package ai

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/nightfall/internal/config"
	"github.com/udisondev/nightfall/internal/model"
	"github.com/udisondev/nightfall/internal/nav"
)

const tick = 100 * time.Millisecond

var testBounds = nav.Bounds{Min: model.V(-50, 0, -50), Max: model.V(50, 0, 50)}

// fakePlayer is a stationary target that records what enemies do to it.
type fakePlayer struct {
	pos        model.Vec3
	fwd        model.Vec3
	damage     float64
	hits       int
	knockbacks []float64
}

func (p *fakePlayer) Position() model.Vec3 { return p.pos }
func (p *fakePlayer) Forward() model.Vec3  { return p.fwd }
func (p *fakePlayer) TakeDamage(amount float64) {
	p.damage += amount
	p.hits++
}

func (p *fakePlayer) ApplyKnockback(_ model.Vec3, force float64) {
	p.knockbacks = append(p.knockbacks, force)
}

type playerSource struct {
	player *fakePlayer
}

func (s *playerSource) Target() Target {
	if s.player == nil {
		return nil
	}
	return s.player
}

type launch struct {
	agent uint32
	dir   model.Vec3
	kind  string
}

// fxRecorder records triggers, clips and launches.
type fxRecorder struct {
	triggers []string
	clips    []string
	launches []launch
}

func (r *fxRecorder) Trigger(_ uint32, name string) { r.triggers = append(r.triggers, name) }
func (r *fxRecorder) Play(_ uint32, clip string)    { r.clips = append(r.clips, clip) }
func (r *fxRecorder) Launch(id uint32, _, dir model.Vec3, kind string) {
	r.launches = append(r.launches, launch{agent: id, dir: dir, kind: kind})
}

// fixedRand returns queued rolls first, then f forever.
type fixedRand struct {
	f     float64
	n     int
	queue []float64
}

func (r *fixedRand) Float64() float64 {
	if len(r.queue) > 0 {
		v := r.queue[0]
		r.queue = r.queue[1:]
		return v
	}
	return r.f
}

func (r *fixedRand) IntN(n int) int { return r.n % n }

// lifecycle counts observer events.
type lifecycle struct {
	spawned     int
	died        int
	removed     int
	transitions []model.State
}

func (l *lifecycle) OnSpawned(*Agent)                           { l.spawned++ }
func (l *lifecycle) OnDied(*Agent)                              { l.died++ }
func (l *lifecycle) OnRemoved(*Agent)                           { l.removed++ }
func (l *lifecycle) OnStateChanged(_ *Agent, _, to model.State) { l.transitions = append(l.transitions, to) }

type harness struct {
	mgr    *TickManager
	player *fakePlayer
	source *playerSource
	fx     *fxRecorder
	rnd    *fixedRand
	events *lifecycle
}

func newHarness(playerPos model.Vec3) *harness {
	h := &harness{
		mgr:    NewTickManager(tick),
		player: &fakePlayer{pos: playerPos, fwd: model.Forward},
		fx:     &fxRecorder{},
		rnd:    &fixedRand{f: 0.1},
		events: &lifecycle{},
	}
	h.source = &playerSource{player: h.player}
	h.mgr.AddObserver(h.events)
	return h
}

func (h *harness) env() Env {
	return h.mgr.Env(Env{
		Targets: h.source,
		Effects: h.fx,
		Rand:    h.rnd,
	})
}

// spawn creates and registers an agent of archetype at pos facing +Z.
func (h *harness) spawn(t testing.TB, archetype model.Archetype, pos model.Vec3, opts ...Option) *Agent {
	t.Helper()
	return h.spawnTuned(t, archetype, config.DefaultTuning(archetype), pos, opts...)
}

func (h *harness) spawnTuned(t testing.TB, archetype model.Archetype, tuning config.Tuning, pos model.Vec3, opts ...Option) *Agent {
	t.Helper()
	mover := nav.NewAdapter(nav.NewKinematic(pos, testBounds, nil), model.Forward)
	a, err := NewAgent(h.mgr.NextID(), archetype, tuning, mover, h.env(), opts...)
	require.NoError(t, err)
	require.NoError(t, h.mgr.Register(a))
	return a
}

func (h *harness) step(n int) {
	for range n {
		h.mgr.Step(tick)
	}
}

func (h *harness) triggered(name string) bool {
	return slices.Contains(h.fx.triggers, name)
}

func moverAt(pos model.Vec3) *nav.Adapter {
	return nav.NewAdapter(nav.NewKinematic(pos, testBounds, nil), model.Forward)
}

func zombieTuning() config.Tuning {
	return config.DefaultTuning(model.ArchetypeZombie)
}
