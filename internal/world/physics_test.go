package world

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/nightfall/internal/config"
	"github.com/udisondev/nightfall/internal/model"
	"github.com/udisondev/nightfall/internal/perception"
)

// wall spans x 2..3, z -1..1 on layer 1.
func wall() *Physics {
	return NewPhysics([]config.Obstacle{{
		Min:   config.Point{X: 2, Z: -1},
		Max:   config.Point{X: 3, Z: 1},
		Layer: 1,
	}})
}

func TestPhysics_Raycast(t *testing.T) {
	p := wall()
	origin := model.Vec3{}

	tests := []struct {
		name    string
		dir     model.Vec3
		maxDist float64
		mask    perception.Mask
		want    bool
	}{
		{"hits wall", model.V(1, 0, 0), 10, perception.MaskAll, true},
		{"stops short", model.V(1, 0, 0), 1.5, perception.MaskAll, false},
		{"other direction", model.V(0, 0, 1), 10, perception.MaskAll, false},
		{"matching layer", model.V(1, 0, 0), 10, 1 << 1, true},
		{"layer masked out", model.V(1, 0, 0), 10, 1 << 0, false},
		{"height ignored", model.V(1, 5, 0), 10, perception.MaskAll, true},
		{"zero direction", model.Vec3{}, 10, perception.MaskAll, false},
		{"zero distance", model.V(1, 0, 0), 0, perception.MaskAll, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Raycast(origin, tt.dir, tt.maxDist, tt.mask))
		})
	}
}

func TestPhysics_Blocked(t *testing.T) {
	p := wall()

	assert.True(t, p.Blocked(model.Vec3{}, model.V(5, 0, 0)))
	assert.False(t, p.Blocked(model.Vec3{}, model.V(1.5, 0, 0)))
	assert.False(t, p.Blocked(model.V(0, 0, 2), model.V(5, 0, 2)), "passes above the wall")
	assert.False(t, p.Blocked(model.V(1, 0, 0), model.V(1, 0, 0)))
}

func TestPhysics_Empty(t *testing.T) {
	p := NewPhysics(nil)

	assert.Zero(t, p.Obstacles())
	assert.False(t, p.Raycast(model.Vec3{}, model.V(1, 0, 0), 100, perception.MaskAll))
	assert.False(t, p.Blocked(model.Vec3{}, model.V(100, 0, 0)))
}

func TestPhysics_OccludesDetection(t *testing.T) {
	p := wall()
	cone := perception.Cone{FieldOfView: 120, SightRange: 10, AttackRange: 2, ObstacleMask: perception.MaskAll}

	det := perception.DetectTarget(p, model.Vec3{}, model.V(1, 0, 0), model.V(5, 0, 0), cone)
	assert.False(t, det.InSight)
	assert.InDelta(t, 5.0, det.Distance, 1e-9)

	det = perception.DetectTarget(nil, model.Vec3{}, model.V(1, 0, 0), model.V(5, 0, 0), cone)
	assert.True(t, det.InSight, "no world means clear line of sight")
}
