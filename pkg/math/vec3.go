// Package math provides the vector, matrix and quaternion types used by the
// sculpting engine. Positions are float32 to match vertex buffer layouts.
package math

import "math"

// Vec3 is a 3D vector.
type Vec3 struct {
	X, Y, Z float32
}

// Zero3 is the zero vector.
var Zero3 = Vec3{}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Negate returns -v.
func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// LengthSquared returns the squared magnitude.
func (v Vec3) LengthSquared() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.LengthSquared())))
}

// Normalize returns a unit vector. The zero vector normalizes to itself.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// TryNormalize returns the unit vector and false when v is too short to have
// a meaningful direction.
func (v Vec3) TryNormalize(eps float32) (Vec3, bool) {
	l := v.Length()
	if l <= eps || isBad(l) {
		return Vec3{}, false
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}, true
}

// Distance returns the distance to another point.
func (v Vec3) Distance(other Vec3) float32 {
	return v.Sub(other).Length()
}

// DistanceSquared returns the squared distance to another point.
func (v Vec3) DistanceSquared(other Vec3) float32 {
	return v.Sub(other).LengthSquared()
}

// Lerp interpolates from v toward other by t.
func (v Vec3) Lerp(other Vec3, t float32) Vec3 {
	return Vec3{
		v.X + t*(other.X-v.X),
		v.Y + t*(other.Y-v.Y),
		v.Z + t*(other.Z-v.Z),
	}
}

// Min returns the component-wise minimum.
func (v Vec3) Min(other Vec3) Vec3 {
	return Vec3{min(v.X, other.X), min(v.Y, other.Y), min(v.Z, other.Z)}
}

// Max returns the component-wise maximum.
func (v Vec3) Max(other Vec3) Vec3 {
	return Vec3{max(v.X, other.X), max(v.Y, other.Y), max(v.Z, other.Z)}
}

// Axis returns component i (0=X, 1=Y, 2=Z).
func (v Vec3) Axis(i int) float32 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// ApproxEqual reports whether every component differs by at most eps.
func (v Vec3) ApproxEqual(other Vec3, eps float32) bool {
	return abs32(v.X-other.X) <= eps && abs32(v.Y-other.Y) <= eps && abs32(v.Z-other.Z) <= eps
}

// IsFinite reports whether no component is NaN or infinite.
func (v Vec3) IsFinite() bool {
	return !isBad(v.X) && !isBad(v.Y) && !isBad(v.Z)
}

// Array returns the vector as a [3]float32.
func (v Vec3) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// V3 builds a Vec3 from a [3]float32.
func V3(a [3]float32) Vec3 {
	return Vec3{a[0], a[1], a[2]}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func isBad(x float32) bool {
	f := float64(x)
	return math.IsNaN(f) || math.IsInf(f, 0)
}
