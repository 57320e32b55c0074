// Package mesh holds the renderable/collidable mesh the host owns and the
// refresh logic that keeps normals, bounds and collider consistent with its
// vertex positions.
package mesh

import (
	"github.com/Faultbox/claymesh/internal/collision"
	"github.com/Faultbox/claymesh/pkg/math"
)

// Mesh is an indexed triangle mesh in local space.
type Mesh struct {
	Name      string
	Positions []math.Vec3
	Normals   []math.Vec3
	UVs       []math.Vec2 // optional, one per position when present
	Indices   []uint32    // three per triangle
	Bounds    collision.AABB
}

// New builds a mesh and computes its normals and bounds.
func New(name string, positions []math.Vec3, indices []uint32) *Mesh {
	m := &Mesh{
		Name:      name,
		Positions: positions,
		Indices:   indices,
	}
	m.RecalculateNormals()
	m.RecalculateBounds()
	return m
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Positions) == 0
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Name:      m.Name,
		Positions: append([]math.Vec3(nil), m.Positions...),
		Normals:   append([]math.Vec3(nil), m.Normals...),
		UVs:       append([]math.Vec2(nil), m.UVs...),
		Indices:   append([]uint32(nil), m.Indices...),
		Bounds:    m.Bounds,
	}
}

// Dirty flags what must be refreshed after the vertex positions change.
type Dirty uint8

const (
	DirtyNormals Dirty = 1 << iota
	DirtyBounds
	DirtyCollider

	// DirtyGeometry is the per-step refresh: shading and bounds.
	DirtyGeometry = DirtyNormals | DirtyBounds
	// DirtyAll also rebuilds the collider.
	DirtyAll = DirtyGeometry | DirtyCollider
)

// Has reports whether every flag in f is set.
func (d Dirty) Has(f Dirty) bool {
	return d&f == f
}

func (d Dirty) String() string {
	if d == 0 {
		return "none"
	}
	s := ""
	add := func(name string) {
		if s != "" {
			s += "|"
		}
		s += name
	}
	if d.Has(DirtyNormals) {
		add("normals")
	}
	if d.Has(DirtyBounds) {
		add("bounds")
	}
	if d.Has(DirtyCollider) {
		add("collider")
	}
	return s
}
