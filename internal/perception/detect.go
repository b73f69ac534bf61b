// Package perception implements the sight cone with occlusion test and positional sound memory.
package perception

import "github.com/udisondev/nightfall/internal/model"

// Mask selects obstacle layers for occlusion tests.
type Mask uint

// MaskAll matches every obstacle layer.
const MaskAll Mask = ^Mask(0)

// Raycaster answers "does a ray from origin along dir hit anything in mask within maxDist".
type Raycaster interface {
	Raycast(origin, dir model.Vec3, maxDist float64, mask Mask) bool
}

// Cone describes an observer's sight parameters.
type Cone struct {
	FieldOfView  float64 // degrees, full cone
	SightRange   float64
	AttackRange  float64
	ObstacleMask Mask
}

// Detection is the result of a sight check.
type Detection struct {
	InSight       bool
	InAttackRange bool
	Distance      float64
}

// DetectTarget checks whether target is inside the observer's view cone, within sight range
// and not occluded. InAttackRange is only evaluated inside the visible branch, so a
// point-blank target outside the cone is not attackable.
// A nil raycaster is treated as clear line of sight.
func DetectTarget(world Raycaster, pos, forward, target model.Vec3, cone Cone) Detection {
	toTarget := target.Sub(pos)
	dist := toTarget.Len()
	det := Detection{Distance: dist}

	dir := toTarget.Normalized()
	if model.Angle(forward, dir) >= cone.FieldOfView/2 {
		return det
	}
	if dist > cone.SightRange {
		return det
	}
	if world != nil && world.Raycast(pos, dir, dist, cone.ObstacleMask) {
		return det
	}

	det.InSight = true
	det.InAttackRange = dist <= cone.AttackRange
	return det
}

// InCone reports whether target lies within half of fov degrees of forward and within maxRange.
// No occlusion test; used by archetypes whose vision ignores obstacles.
func InCone(pos, forward, target model.Vec3, fov, maxRange float64) bool {
	toTarget := target.Sub(pos)
	if toTarget.Len() > maxRange {
		return false
	}
	return model.Angle(forward, toTarget) <= fov*0.5
}
