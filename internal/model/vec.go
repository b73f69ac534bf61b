package model

import "math"

// Vec3 is a position or direction in world space. Y is up.
// Value type, passed by value.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

// Up is the world up axis.
var Up = Vec3{Y: 1}

// Forward is the default facing of a freshly spawned agent (+Z).
var Forward = Vec3{Z: 1}

// V builds a Vec3.
func V(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// LenSquared returns squared length (no sqrt).
func (v Vec3) LenSquared() float64 {
	return v.Dot(v)
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSquared())
}

// Normalized returns the unit vector, or the zero vector for very short input.
func (v Vec3) Normalized() Vec3 {
	l := v.Len()
	if l < 1e-9 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// IsZero reports whether all components are exactly zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Flat drops the vertical component.
func (v Vec3) Flat() Vec3 {
	return Vec3{X: v.X, Z: v.Z}
}

// Distance returns euclidean distance to other.
func (v Vec3) Distance(other Vec3) float64 {
	return v.Sub(other).Len()
}

// Angle returns the unsigned angle between u and v in degrees.
// Zero-length input yields 0.
func Angle(u, v Vec3) float64 {
	denom := math.Sqrt(u.LenSquared() * v.LenSquared())
	if denom < 1e-15 {
		return 0
	}
	cos := u.Dot(v) / denom
	cos = max(-1, min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// RotateY rotates v around the up axis by deg degrees (positive = clockwise seen from above).
func (v Vec3) RotateY(deg float64) Vec3 {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return Vec3{
		X: v.X*cos + v.Z*sin,
		Y: v.Y,
		Z: -v.X*sin + v.Z*cos,
	}
}

// Yaw returns the heading of v around the up axis in radians, 0 = +Z.
func (v Vec3) Yaw() float64 {
	return math.Atan2(v.X, v.Z)
}

// FromYaw builds a flat unit vector for the given heading in radians.
func FromYaw(yaw float64) Vec3 {
	sin, cos := math.Sincos(yaw)
	return Vec3{X: sin, Z: cos}
}
