// Package collision provides the spatial-query structure a host uses to hit-test
// brush input against a sculpted mesh.
package collision

import (
	gomath "math"

	"github.com/Faultbox/claymesh/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// NewRay builds a ray, normalizing dir.
func NewRay(origin, dir math.Vec3) Ray {
	return Ray{Origin: origin, Direction: dir.Normalize()}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// Transform maps the ray through m (for example world to local space).
// The returned direction is re-normalized, so t values are not preserved
// across non-uniform scale.
func (r Ray) Transform(m math.Mat4) Ray {
	return NewRay(m.TransformVec3(r.Origin), m.TransformDirection(r.Direction))
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// EmptyAABB returns an inverted box that any Extend call will fix up.
func EmptyAABB() AABB {
	return AABB{
		Min: math.Vec3{X: 1e30, Y: 1e30, Z: 1e30},
		Max: math.Vec3{X: -1e30, Y: -1e30, Z: -1e30},
	}
}

// Extend grows the box to include p.
func (b *AABB) Extend(p math.Vec3) {
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// Union returns the box covering both b and o.
func (b AABB) Union(o AABB) AABB {
	return AABB{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// IsEmpty reports whether the box has never been extended.
func (b AABB) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Center returns the midpoint of the box.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the box extents.
func (b AABB) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Expand grows the box by pad on every side.
func (b AABB) Expand(pad float32) AABB {
	d := math.Vec3{X: pad, Y: pad, Z: pad}
	return AABB{Min: b.Min.Sub(d), Max: b.Max.Add(d)}
}

// Contains reports whether p is inside or on the box.
func (b AABB) Contains(p math.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// DistanceTo returns the distance from p to the closest point of the box,
// zero when p is inside.
func (b AABB) DistanceTo(p math.Vec3) float32 {
	closest := p.Max(b.Min).Min(b.Max)
	return closest.Distance(p)
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		o := r.Origin.Axis(axis)
		d := r.Direction.Axis(axis)
		lo := box.Min.Axis(axis)
		hi := box.Max.Axis(axis)

		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}

		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	// Return entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectTriangle is the Möller-Trumbore ray/triangle test. Both faces count
// as hits; t must be positive.
func (r Ray) IntersectTriangle(a, b, c math.Vec3) (t float32, hit bool) {
	const eps = 1e-7

	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if det > -eps && det < eps {
		return 0, false
	}
	inv := 1 / det

	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t = e2.Dot(q) * inv
	if t <= eps {
		return 0, false
	}
	return t, true
}
