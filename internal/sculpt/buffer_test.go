package sculpt

import (
	"testing"

	"github.com/Faultbox/claymesh/pkg/math"
)

func TestNewVertexBufferRejectsBadInput(t *testing.T) {
	if NewVertexBuffer(nil, nil) != nil {
		t.Error("empty input should give nil")
	}
	v := []math.Vec3{{X: 1}, {Y: 1}}
	if NewVertexBuffer(v, v[:1]) != nil {
		t.Error("length mismatch should give nil")
	}
}

func TestNewVertexBufferNormalizes(t *testing.T) {
	b := NewVertexBuffer(
		[]math.Vec3{{}, {X: 1}},
		[]math.Vec3{{Y: 4}, {}},
	)
	if b.BaseNormal(0) != (math.Vec3{Y: 1}) {
		t.Errorf("BaseNormal(0) = %v, want unit Y", b.BaseNormal(0))
	}
	if b.BaseNormal(1) != (math.Vec3{}) {
		t.Errorf("degenerate normal should be zero, got %v", b.BaseNormal(1))
	}
}

func TestVertexBufferCopiesInput(t *testing.T) {
	v := []math.Vec3{{X: 1}}
	b := NewVertexBuffer(v, []math.Vec3{{Y: 1}})
	v[0].X = 9
	if b.Working()[0].X != 1 || b.Base()[0].X != 1 {
		t.Error("buffer must not alias the caller's slice")
	}
}

func TestVertexBufferSnapshotRestore(t *testing.T) {
	b := NewVertexBuffer([]math.Vec3{{X: 1}, {X: 2}}, []math.Vec3{{Y: 1}, {Y: 1}})
	s := b.Snapshot()

	b.Working()[0].X = 5
	if s[0].X != 1 {
		t.Fatal("snapshot aliases the working buffer")
	}

	if !b.Restore(s) || !b.Equal([]math.Vec3{{X: 1}, {X: 2}}) {
		t.Error("Restore did not bring back the snapshot")
	}
	if b.Restore(s[:1]) {
		t.Error("Restore should reject a short snapshot")
	}

	b.Working()[1].X = 7
	b.Reset()
	if !b.Equal(b.Base()) {
		t.Error("Reset should copy the base shape back")
	}
}
