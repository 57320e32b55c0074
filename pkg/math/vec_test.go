package math

import (
	"math"
	"testing"
)

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := float32(5)
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 0, 4}
	n := v.Normalize()
	if l := n.Length(); l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if z := (Vec3{}).Normalize(); z != (Vec3{}) {
		t.Errorf("zero Normalize() = %v, want zero", z)
	}
}

func TestVec3TryNormalize(t *testing.T) {
	if _, ok := (Vec3{}).TryNormalize(1e-6); ok {
		t.Error("TryNormalize of zero vector should fail")
	}
	n, ok := Vec3{0, 2, 0}.TryNormalize(1e-6)
	if !ok || n != (Vec3{0, 1, 0}) {
		t.Errorf("TryNormalize() = %v, %v; want (0,1,0), true", n, ok)
	}
	nan := float32(math.NaN())
	if _, ok := (Vec3{nan, 0, 0}).TryNormalize(1e-6); ok {
		t.Error("TryNormalize of NaN vector should fail")
	}
}

func TestVec3Lerp(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{10, 20, 30}

	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %v, want %v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %v, want %v", got, b)
	}
	if got := a.Lerp(b, 0.5); got != (Vec3{5, 10, 15}) {
		t.Errorf("Lerp(0.5) = %v, want (5, 10, 15)", got)
	}
}

func TestVec3MinMax(t *testing.T) {
	a := Vec3{1, 5, -2}
	b := Vec3{3, -1, 0}
	if got := a.Min(b); got != (Vec3{1, -1, -2}) {
		t.Errorf("Min() = %v", got)
	}
	if got := a.Max(b); got != (Vec3{3, 5, 0}) {
		t.Errorf("Max() = %v", got)
	}
}

func TestVec3DistanceSquared(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 6, 3}
	if got := a.DistanceSquared(b); got != 25 {
		t.Errorf("DistanceSquared() = %v, want 25", got)
	}
	if got := a.Distance(b); got != 5 {
		t.Errorf("Distance() = %v, want 5", got)
	}
}
