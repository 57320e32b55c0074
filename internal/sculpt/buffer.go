package sculpt

import (
	"github.com/Faultbox/claymesh/pkg/math"
)

// normalEpsilon is the shortest normal treated as having a direction.
const normalEpsilon = 1e-8

// VertexBuffer holds the rest shape, the working shape and the rest normals
// of one sculpt target. All three have the same length for its lifetime.
type VertexBuffer struct {
	base        []math.Vec3
	working     []math.Vec3
	baseNormals []math.Vec3

	// scratch holds pre-step positions for brushes that read neighbours.
	scratch []math.Vec3
}

// NewVertexBuffer copies vertices and normals. Normals are normalized;
// degenerate ones become zero and make push/pull a no-op for that vertex.
// It returns nil when the lengths differ or there are no vertices.
func NewVertexBuffer(vertices, normals []math.Vec3) *VertexBuffer {
	if len(vertices) == 0 || len(normals) != len(vertices) {
		return nil
	}

	b := &VertexBuffer{
		base:        append([]math.Vec3(nil), vertices...),
		working:     append([]math.Vec3(nil), vertices...),
		baseNormals: make([]math.Vec3, len(normals)),
	}
	for i, n := range normals {
		if unit, ok := n.TryNormalize(normalEpsilon); ok {
			b.baseNormals[i] = unit
		}
	}
	return b
}

// Len returns the fixed vertex count.
func (b *VertexBuffer) Len() int {
	return len(b.base)
}

// Working returns the live working positions. Callers outside the package
// get copies through the session.
func (b *VertexBuffer) Working() []math.Vec3 {
	return b.working
}

// Base returns a copy of the rest shape.
func (b *VertexBuffer) Base() []math.Vec3 {
	return append([]math.Vec3(nil), b.base...)
}

// BaseNormal returns the rest normal of vertex i (zero if degenerate).
func (b *VertexBuffer) BaseNormal(i int) math.Vec3 {
	return b.baseNormals[i]
}

// Snapshot returns an independently owned copy of the working positions.
func (b *VertexBuffer) Snapshot() []math.Vec3 {
	return append([]math.Vec3(nil), b.working...)
}

// Restore makes snapshot the working buffer, taking ownership of it. The
// caller must not keep using snapshot. It reports false on a length mismatch.
func (b *VertexBuffer) Restore(snapshot []math.Vec3) bool {
	if len(snapshot) != len(b.base) {
		return false
	}
	b.working = snapshot
	return true
}

// Reset copies the rest shape back into the working positions.
func (b *VertexBuffer) Reset() {
	copy(b.working, b.base)
}

// Equal reports whether the working positions equal other exactly.
func (b *VertexBuffer) Equal(other []math.Vec3) bool {
	if len(other) != len(b.working) {
		return false
	}
	for i := range other {
		if other[i] != b.working[i] {
			return false
		}
	}
	return true
}

// prestep copies the working positions into the scratch buffer and returns it.
func (b *VertexBuffer) prestep() []math.Vec3 {
	if len(b.scratch) != len(b.working) {
		b.scratch = make([]math.Vec3, len(b.working))
	}
	copy(b.scratch, b.working)
	return b.scratch
}
