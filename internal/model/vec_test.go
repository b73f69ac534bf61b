package model

import (
	"math"
	"testing"
)

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAngle(t *testing.T) {
	tests := []struct {
		name string
		u, v Vec3
		want float64
	}{
		{"same", V(0, 0, 1), V(0, 0, 5), 0},
		{"right", V(0, 0, 1), V(1, 0, 0), 90},
		{"opposite", V(0, 0, 1), V(0, 0, -1), 180},
		{"diagonal", V(0, 0, 1), V(1, 0, 1), 45},
		{"zero", V(0, 0, 1), Vec3{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Angle(tt.u, tt.v); !almost(got, tt.want) {
				t.Errorf("Angle(%v, %v) = %v, want %v", tt.u, tt.v, got, tt.want)
			}
		})
	}
}

func TestRotateY(t *testing.T) {
	got := Forward.RotateY(90)
	if !almost(got.X, 1) || !almost(got.Z, 0) {
		t.Errorf("Forward.RotateY(90) = %v, want (1,0,0)", got)
	}
	got = Forward.RotateY(-90)
	if !almost(got.X, -1) || !almost(got.Z, 0) {
		t.Errorf("Forward.RotateY(-90) = %v, want (-1,0,0)", got)
	}
}

func TestYawRoundTrip(t *testing.T) {
	for _, v := range []Vec3{V(0, 0, 1), V(1, 0, 0), V(-1, 0, -1).Normalized()} {
		back := FromYaw(v.Yaw())
		if !almost(back.X, v.X) || !almost(back.Z, v.Z) {
			t.Errorf("FromYaw(Yaw(%v)) = %v", v, back)
		}
	}
}

func TestNormalizedZero(t *testing.T) {
	if got := (Vec3{}).Normalized(); !got.IsZero() {
		t.Errorf("zero.Normalized() = %v, want zero", got)
	}
	if got := V(3, 0, 4).Normalized().Len(); !almost(got, 1) {
		t.Errorf("len = %v, want 1", got)
	}
}

func TestCross(t *testing.T) {
	got := V(0, 0, 1).Cross(Up)
	if !almost(got.X, -1) || !almost(got.Y, 0) || !almost(got.Z, 0) {
		t.Errorf("forward x up = %v, want (-1,0,0)", got)
	}
}
