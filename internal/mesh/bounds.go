package mesh

import (
	"github.com/Faultbox/claymesh/internal/collision"
	"github.com/Faultbox/claymesh/pkg/math"
)

// RecalculateBounds rebuilds the local-space bounding box.
func (m *Mesh) RecalculateBounds() {
	m.Bounds = ComputeBounds(m.Positions)
}

// ComputeBounds returns the box around positions, or an empty box.
func ComputeBounds(positions []math.Vec3) collision.AABB {
	b := collision.EmptyAABB()
	for _, p := range positions {
		b.Extend(p)
	}
	return b
}

// TransformBounds returns the world-space box around a local box mapped
// through m, by transforming all eight corners.
func TransformBounds(b collision.AABB, m math.Mat4) collision.AABB {
	if b.IsEmpty() {
		return b
	}
	out := collision.EmptyAABB()
	for i := 0; i < 8; i++ {
		corner := math.Vec3{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z}
		if i&1 != 0 {
			corner.X = b.Max.X
		}
		if i&2 != 0 {
			corner.Y = b.Max.Y
		}
		if i&4 != 0 {
			corner.Z = b.Max.Z
		}
		out.Extend(m.TransformVec3(corner))
	}
	return out
}
