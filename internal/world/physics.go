package world

import (
	"github.com/jakecoffman/cp"

	"github.com/udisondev/nightfall/internal/config"
	"github.com/udisondev/nightfall/internal/model"
	"github.com/udisondev/nightfall/internal/perception"
)

// Physics holds the static obstacles of the arena in a chipmunk space.
// The ground plane XZ maps onto the chipmunk plane as (X, Y) = (x, z).
type Physics struct {
	space     *cp.Space
	obstacles int
}

// NewPhysics creates a space with one static box per obstacle.
func NewPhysics(obstacles []config.Obstacle) *Physics {
	p := &Physics{space: cp.NewSpace()}
	for _, o := range obstacles {
		p.AddBox(o.Min.Vec(), o.Max.Vec(), o.Layer)
	}
	return p
}

// AddBox adds a static box spanning min..max on the ground plane in layer.
func (p *Physics) AddBox(minPos, maxPos model.Vec3, layer uint) {
	bb := cp.BB{
		L: min(minPos.X, maxPos.X),
		B: min(minPos.Z, maxPos.Z),
		R: max(minPos.X, maxPos.X),
		T: max(minPos.Z, maxPos.Z),
	}
	shape := cp.NewBox2(p.space.StaticBody, bb, 0)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, 1<<layer, cp.ALL_CATEGORIES))
	p.space.AddShape(shape)
	p.obstacles++
}

// Obstacles returns the number of boxes in the space.
func (p *Physics) Obstacles() int {
	return p.obstacles
}

// Raycast reports whether a ray from origin along dir hits an obstacle in mask within maxDist.
func (p *Physics) Raycast(origin, dir model.Vec3, maxDist float64, mask perception.Mask) bool {
	dir = dir.Flat().Normalized()
	if dir.IsZero() || maxDist <= 0 {
		return false
	}
	end := origin.Add(dir.Scale(maxDist))
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(mask))
	return p.segmentHit(origin, end, filter)
}

// Blocked reports whether straight motion from one point to another crosses any obstacle.
func (p *Physics) Blocked(from, to model.Vec3) bool {
	if from.Flat().Distance(to.Flat()) < 1e-9 {
		return false
	}
	return p.segmentHit(from, to, cp.SHAPE_FILTER_ALL)
}

func (p *Physics) segmentHit(from, to model.Vec3, filter cp.ShapeFilter) bool {
	info := p.space.SegmentQueryFirst(toCP(from), toCP(to), 0, filter)
	return info.Shape != nil
}

func toCP(v model.Vec3) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Z}
}
