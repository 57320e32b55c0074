package mesh

import (
	"testing"

	"github.com/Faultbox/claymesh/internal/collision"
	"github.com/Faultbox/claymesh/pkg/math"
)

func TestObjectRaycastWorldSpace(t *testing.T) {
	o := NewObject(quad())
	o.Transform.Position = math.Vec3{X: 10, Y: 2, Z: 0}
	o.Transform.Scale = math.Vec3{X: 2, Y: 2, Z: 2}

	// Quad spans x in [10, 12], z in [0, 2] at y = 2 in world space.
	hit, ok := o.Raycast(collision.NewRay(math.Vec3{X: 11, Y: 7, Z: 1}, math.Vec3{Y: -1}))
	if !ok {
		t.Fatal("expected a hit")
	}
	if !hit.Point.ApproxEqual(math.Vec3{X: 11, Y: 2, Z: 1}, 1e-4) {
		t.Errorf("hit point = %v, want (11, 2, 1)", hit.Point)
	}
	if abs32(hit.T-5) > 1e-4 {
		t.Errorf("hit distance = %v, want 5", hit.T)
	}

	if _, ok := o.Raycast(collision.NewRay(math.Vec3{X: 0.5, Y: 7, Z: 0.5}, math.Vec3{Y: -1})); ok {
		t.Error("ray at the untransformed location should miss")
	}
}

func TestObjectSetVerticesRejectsLengthChange(t *testing.T) {
	o := NewObject(quad())
	before := o.Vertices()

	o.SetVertices(before[:2])
	if o.ColliderStale() {
		t.Error("rejected write should not mark the collider stale")
	}
	for i, p := range o.Mesh.Positions {
		if p != before[i] {
			t.Errorf("vertex %d changed on rejected write", i)
		}
	}
}

func TestObjectMarkDirty(t *testing.T) {
	o := NewObject(quad())
	if o.ColliderRebuilds() != 1 {
		t.Fatalf("NewObject should build the collider once, got %d", o.ColliderRebuilds())
	}

	v := o.Vertices()
	v[3].Y = 1
	o.SetVertices(v)
	if !o.ColliderStale() {
		t.Error("collider should be stale after SetVertices")
	}

	o.MarkDirty(DirtyGeometry)
	if o.Mesh.Bounds.Max.Y != 1 {
		t.Errorf("bounds not refreshed: %v", o.Mesh.Bounds)
	}
	if o.NormalRebuilds() != 1 {
		t.Errorf("NormalRebuilds() = %d, want 1", o.NormalRebuilds())
	}
	if o.ColliderRebuilds() != 1 || !o.ColliderStale() {
		t.Error("geometry refresh must not rebuild the collider")
	}

	o.MarkDirty(DirtyCollider)
	if o.ColliderRebuilds() != 2 || o.ColliderStale() {
		t.Errorf("collider refresh: rebuilds=%d stale=%v", o.ColliderRebuilds(), o.ColliderStale())
	}
}

func TestObjectAccessorsCopy(t *testing.T) {
	o := NewObject(quad())
	v := o.Vertices()
	v[0].X = 99
	if o.Mesh.Positions[0].X == 99 {
		t.Error("Vertices() must return a copy")
	}
	n := o.Normals()
	n[0].X = 99
	if o.Mesh.Normals[0].X == 99 {
		t.Error("Normals() must return a copy")
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
