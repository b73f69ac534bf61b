package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/nightfall/internal/model"
)

func TestGhost_DecideByDistance(t *testing.T) {
	tests := []struct {
		name    string
		target  model.Vec3
		want    model.State
		visible bool
	}{
		{"out of sight", model.V(0, 0, 12), model.StateIdle, false},
		{"faded edge", model.V(0, 0, -9.5), model.StateChase, false},
		{"chase", model.V(0, 0, 5), model.StateChase, true},
		{"attack behind", model.V(0, 0, -1.5), model.StateAttack, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(tt.target)
			a := h.spawn(t, model.ArchetypeGhost, model.Vec3{})
			h.step(1)
			assert.Equal(t, tt.want, a.State())
			assert.Equal(t, tt.visible, a.Visible())
		})
	}
}

func TestGhost_IgnoresSounds(t *testing.T) {
	h := newHarness(model.V(0, 0, 30))
	a := h.spawn(t, model.ArchetypeGhost, model.Vec3{})
	a.HearSound(model.V(0, 0, 1))
	assert.Empty(t, a.Sounds())
}

func TestBasicGhost_FollowsEchoUntilExpired(t *testing.T) {
	h := newHarness(model.V(0, 0, 40))
	a := h.spawn(t, model.ArchetypeBasicGhost, model.Vec3{})
	assert.True(t, a.Visible())

	a.HearSound(model.V(0, 0, 25)) // out of hearing range
	h.step(1)
	assert.Equal(t, model.StateIdle, a.State())

	a.HearSound(model.V(0, 0, 10))
	h.step(1)
	assert.Equal(t, model.StateChase, a.State())

	// memory is 3s
	h.step(29)
	assert.Equal(t, model.StateChase, a.State())
	h.step(3)
	assert.Equal(t, model.StateIdle, a.State())
	assert.False(t, a.Perception().SoundDetected)
	assert.Greater(t, a.Position().Z, 4.0)
}

func TestBasicGhost_AttacksNearEcho(t *testing.T) {
	h := newHarness(model.V(0, 0, 1))
	a := h.spawn(t, model.ArchetypeBasicGhost, model.Vec3{})
	a.HearSound(model.V(0, 0, 1))

	h.step(1)
	assert.Equal(t, model.StateAttack, a.State())
	assert.Equal(t, 5.0, h.player.damage)
}

func TestMediumGhost_ProjectileThenChase(t *testing.T) {
	h := newHarness(model.V(0, 0, 6))
	a := h.spawn(t, model.ArchetypeMediumGhost, model.Vec3{})

	h.step(1)
	require.Len(t, h.fx.launches, 1)
	assert.Equal(t, "projectile", h.fx.launches[0].kind)
	assert.Equal(t, model.StateChase, a.State())
	assert.True(t, a.Visible(), "throwing reveals the ghost")
	assert.False(t, a.Abilities().IsReady("projectile"))

	h.step(1)
	assert.Equal(t, model.StateChase, a.State())
	assert.Len(t, h.fx.launches, 1)
}

func TestMediumGhost_RevealOnDamage(t *testing.T) {
	h := newHarness(model.V(0, 0, -11))
	a := h.spawn(t, model.ArchetypeMediumGhost, model.Vec3{})

	h.step(1)
	assert.Equal(t, model.StateIdle, a.State(), "target behind the cone is not seen")
	assert.False(t, a.Visible())

	a.TakeDamage(1)
	assert.True(t, a.Visible())

	// reveal lasts 1.2s
	h.step(13)
	assert.False(t, a.Visible())
}

func TestMediumGhost_FollowsSoundAndStopsNearIt(t *testing.T) {
	h := newHarness(model.V(-6, 0, -11))
	a := h.spawn(t, model.ArchetypeMediumGhost, model.Vec3{})
	a.HearSound(model.V(2, 0, 0))

	h.step(1)
	assert.Equal(t, model.StateChase, a.State())

	h.step(5)
	assert.Equal(t, model.StateIdle, a.State())
	assert.False(t, a.Perception().SoundDetected)
}

func TestBossGhost_DamageForcesPhaseWalk(t *testing.T) {
	h := newHarness(model.V(0, 0, 40))
	h.rnd.f = 0.9
	a := h.spawn(t, model.ArchetypeBossGhost, model.Vec3{})
	baseSpeed := a.RunSpeed()

	a.TakeDamage(10)
	require.Equal(t, 90.0, a.Health().Current())

	h.step(1)
	assert.Equal(t, model.StateSpecial3, a.State(), "override bypasses Decide")
	assert.InDelta(t, baseSpeed*2, a.RunSpeed(), 1e-9)
	assert.False(t, a.Visible())

	a.TakeDamage(10)
	assert.Equal(t, 90.0, a.Health().Current(), "immune while phasing")

	// phase walk lasts 3s
	h.step(30)
	assert.InDelta(t, baseSpeed, a.RunSpeed(), 1e-9)
	a.TakeDamage(10)
	assert.Equal(t, 80.0, a.Health().Current())
}

func TestBossGhost_NoPhaseWalkOnUnluckyRoll(t *testing.T) {
	h := newHarness(model.V(0, 0, 40))
	a := h.spawn(t, model.ArchetypeBossGhost, model.Vec3{})

	a.TakeDamage(10)
	h.step(1)
	assert.Equal(t, model.StateIdle, a.State())
}

func TestBossGhost_DodgesFastTarget(t *testing.T) {
	h := newHarness(model.V(0, 0, 11))
	h.rnd.f = 0.9
	a := h.spawn(t, model.ArchetypeBossGhost, model.Vec3{})

	h.step(1)
	require.Equal(t, model.StateIdle, a.State())

	h.player.pos = model.V(0, 0, 11.5) // 5 units/s
	h.step(1)
	assert.Equal(t, model.StateDodge, a.State())
	assert.True(t, a.IsBusy())
	assert.InDelta(t, -3.0, a.Position().X, 1e-9, "sidesteps perpendicular to the predicted target")

	h.player.pos = model.V(0, 0, 13)
	h.step(5)
	assert.Equal(t, model.StateDodge, a.State(), "not re-evaluated mid-dodge")

	// dodge window is 1s
	h.step(5)
	assert.False(t, a.IsBusy())
	assert.NotEqual(t, model.StateDodge, a.State())
	assert.False(t, a.Abilities().IsReady("dodge"))
}

func TestBossGhost_TeleportBehindTarget(t *testing.T) {
	h := newHarness(model.V(0, 0, 6))
	a := h.spawn(t, model.ArchetypeBossGhost, model.Vec3{})

	h.step(1)
	assert.Equal(t, model.StateChase, a.State())
	assert.InDelta(t, 3.0, a.Position().Z, 1e-9)
	assert.False(t, a.Abilities().IsReady("special"))
}

func TestBossGhost_ProjectileFan(t *testing.T) {
	h := newHarness(model.V(0, 0, 9))
	a := h.spawn(t, model.ArchetypeBossGhost, model.Vec3{})

	h.step(1)
	assert.Equal(t, model.StateSpecial2, a.State())
	require.Len(t, h.fx.launches, 3)
	assert.InDelta(t, 15.0, model.Angle(h.fx.launches[0].dir, model.Forward), 1e-6)
	assert.InDelta(t, 0.0, model.Angle(h.fx.launches[1].dir, model.Forward), 1e-6)
	assert.InDelta(t, 15.0, model.Angle(h.fx.launches[2].dir, model.Forward), 1e-6)
}
