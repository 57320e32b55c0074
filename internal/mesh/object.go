package mesh

import (
	"go.uber.org/zap"

	"github.com/Faultbox/claymesh/internal/collision"
	"github.com/Faultbox/claymesh/internal/logger"
	"github.com/Faultbox/claymesh/pkg/math"
)

// Transform places an object in the world.
type Transform struct {
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
}

// IdentityTransform returns a transform that leaves local space unchanged.
func IdentityTransform() Transform {
	return Transform{
		Rotation: math.QuatIdentity(),
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
	}
}

// Matrix returns the local-to-world matrix.
func (t Transform) Matrix() math.Mat4 {
	return math.Compose(t.Position, t.Rotation, t.Scale)
}

// Object is a placed mesh with a collider: the handle a host passes to a
// sculpt session. It reacts to dirty signals by refreshing derived data.
type Object struct {
	Mesh      *Mesh
	Transform Transform

	// SeamEpsilon, when positive, merges normals across coincident vertices
	// after every normal rebuild.
	SeamEpsilon float32

	collider         *collision.BVH
	colliderDirty    bool
	colliderRebuilds int
	normalRebuilds   int
}

// NewObject wraps m with an identity transform and builds its collider.
// Missing normals and bounds are computed.
func NewObject(m *Mesh) *Object {
	if len(m.Normals) != len(m.Positions) {
		m.RecalculateNormals()
	}
	if m.Bounds.IsEmpty() {
		m.RecalculateBounds()
	}
	o := &Object{Mesh: m, Transform: IdentityTransform()}
	o.rebuildCollider()
	return o
}

// Name returns the mesh name.
func (o *Object) Name() string {
	return o.Mesh.Name
}

// Vertices returns a copy of the local-space positions.
func (o *Object) Vertices() []math.Vec3 {
	return append([]math.Vec3(nil), o.Mesh.Positions...)
}

// Normals returns a copy of the current vertex normals.
func (o *Object) Normals() []math.Vec3 {
	return append([]math.Vec3(nil), o.Mesh.Normals...)
}

// Indices returns a copy of the triangle indices.
func (o *Object) Indices() []uint32 {
	return append([]uint32(nil), o.Mesh.Indices...)
}

// LocalToWorld returns the object's transform matrix.
func (o *Object) LocalToWorld() math.Mat4 {
	return o.Transform.Matrix()
}

// SetVertices writes back sculpted positions. The vertex count is fixed, so
// a slice of the wrong length is rejected.
func (o *Object) SetVertices(v []math.Vec3) {
	if len(v) != len(o.Mesh.Positions) {
		logger.Warn("vertex write-back with wrong length ignored",
			zap.String("mesh", o.Mesh.Name),
			zap.Int("want", len(o.Mesh.Positions)),
			zap.Int("got", len(v)))
		return
	}
	copy(o.Mesh.Positions, v)
	o.colliderDirty = true
}

// MarkDirty refreshes whatever d names. Normals and bounds are cheap and
// recomputed immediately; the collider is rebuilt only when asked.
func (o *Object) MarkDirty(d Dirty) {
	if d.Has(DirtyNormals) {
		o.Mesh.RecalculateNormals()
		SmoothSeams(o.Mesh.Positions, o.Mesh.Normals, o.SeamEpsilon)
		o.normalRebuilds++
	}
	if d.Has(DirtyBounds) {
		o.Mesh.RecalculateBounds()
	}
	if d.Has(DirtyCollider) {
		o.rebuildCollider()
	}
}

func (o *Object) rebuildCollider() {
	o.collider = collision.Build(o.Mesh.Positions, o.Mesh.Indices)
	o.colliderDirty = false
	o.colliderRebuilds++
	logger.Debug("collider rebuilt",
		zap.String("mesh", o.Mesh.Name),
		zap.Int("triangles", o.collider.TriangleCount()))
}

// ColliderStale reports whether positions changed since the last rebuild.
func (o *Object) ColliderStale() bool {
	return o.colliderDirty
}

// ColliderRebuilds returns how many times the collider has been built.
func (o *Object) ColliderRebuilds() int {
	return o.colliderRebuilds
}

// NormalRebuilds returns how many times normals have been recomputed since
// the object was created.
func (o *Object) NormalRebuilds() int {
	return o.normalRebuilds
}

// WorldBounds returns the world-space bounding box.
func (o *Object) WorldBounds() collision.AABB {
	return TransformBounds(o.Mesh.Bounds, o.LocalToWorld())
}

// Raycast intersects a world-space ray with the collider. The hit point and
// distance are reported in world space. A stale collider answers against
// the shape it was last built from.
func (o *Object) Raycast(r collision.Ray) (collision.Hit, bool) {
	toWorld := o.LocalToWorld()
	local := r.Transform(toWorld.Inverse())

	hit, ok := o.collider.Raycast(local)
	if !ok {
		return hit, false
	}
	hit.Point = toWorld.TransformVec3(hit.Point)
	hit.T = hit.Point.Distance(r.Origin)
	return hit, true
}
