package host

import (
	"errors"
	"testing"

	"github.com/Faultbox/claymesh/internal/collision"
	"github.com/Faultbox/claymesh/internal/mesh"
	"github.com/Faultbox/claymesh/internal/sculpt"
	"github.com/Faultbox/claymesh/internal/shapes"
	"github.com/Faultbox/claymesh/pkg/math"
)

// centre is the index of the vertex at the origin of an 8x8 grid.
const centre = 4*9 + 4

func gridObject(x float32) *mesh.Object {
	o := mesh.NewObject(shapes.Grid(8, 8, 0.25))
	o.Transform.Position = math.Vec3{X: x}
	return o
}

func pullSession() *sculpt.Session {
	return sculpt.NewSession(sculpt.Options{Mode: sculpt.ModePull, Radius: 0.5, Strength: 0.2})
}

func down(x, z float32) collision.Ray {
	return collision.NewRay(math.Vec3{X: x, Y: 5, Z: z}, math.Vec3{Y: -1})
}

func TestNewDriverBindsFirstObject(t *testing.T) {
	obj := gridObject(0)
	d, err := NewDriver(pullSession(), obj)
	if err != nil {
		t.Fatalf("NewDriver() error = %v", err)
	}
	if d.Current() != obj {
		t.Error("first object should be bound")
	}
	if d.Session().State() != sculpt.StateTargetBound {
		t.Errorf("State() = %v, want target_bound", d.Session().State())
	}
}

func TestDriverRayStroke(t *testing.T) {
	obj := gridObject(0)
	d, _ := NewDriver(pullSession(), obj)

	if err := d.Handle(RayEvent(EventBegin, down(0, 0))); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := d.Handle(RayEvent(EventContinue, down(0.05, 0))); err != nil {
		t.Fatalf("continue: %v", err)
	}
	if err := d.Handle(Event{Kind: EventEnd}); err != nil {
		t.Fatalf("end: %v", err)
	}

	if y := obj.Mesh.Positions[centre].Y; y <= 0 {
		t.Errorf("centre vertex Y = %v, want raised", y)
	}
	if obj.ColliderRebuilds() != 2 {
		t.Errorf("ColliderRebuilds() = %d, want 2", obj.ColliderRebuilds())
	}
	if d.Session().HistoryLen() != 1 {
		t.Errorf("HistoryLen() = %d, want 1", d.Session().HistoryLen())
	}
}

func TestDriverBeginMiss(t *testing.T) {
	d, _ := NewDriver(pullSession(), gridObject(0))

	err := d.Handle(RayEvent(EventBegin, down(5, 5)))
	if !errors.Is(err, ErrMiss) {
		t.Fatalf("Handle() error = %v, want ErrMiss", err)
	}
	if d.Session().State() != sculpt.StateTargetBound || d.Session().HistoryLen() != 0 {
		t.Error("a missed begin must not start a stroke")
	}
}

func TestDriverContinueMissKeepsStroke(t *testing.T) {
	d, _ := NewDriver(pullSession(), gridObject(0))
	_ = d.Handle(RayEvent(EventBegin, down(0, 0)))

	if err := d.Handle(RayEvent(EventContinue, down(5, 5))); !errors.Is(err, ErrMiss) {
		t.Errorf("continue miss error = %v, want ErrMiss", err)
	}
	if d.Session().State() != sculpt.StateStroking {
		t.Error("a missed continue should not end the stroke")
	}
}

func TestDriverRetargetsOnBegin(t *testing.T) {
	left := gridObject(0)
	right := gridObject(10)
	d, _ := NewDriver(pullSession(), left)
	d.Add(right)

	if err := d.Handle(RayEvent(EventBegin, down(10, 0))); err != nil {
		t.Fatalf("begin: %v", err)
	}
	_ = d.Handle(Event{Kind: EventEnd})

	if d.Current() != right {
		t.Fatal("stroke on another object should retarget")
	}
	if right.Mesh.Positions[centre].Y <= 0 {
		t.Error("right object not sculpted")
	}
	if left.Mesh.Positions[centre].Y != 0 {
		t.Error("left object should be untouched")
	}
}

func TestDriverNear(t *testing.T) {
	d, _ := NewDriver(pullSession(), gridObject(0))
	if !d.Near(math.Vec3{Y: 0.4}) {
		t.Error("point within the radius of the bounds should be near")
	}
	if d.Near(math.Vec3{Y: 2}) {
		t.Error("point far above should not be near")
	}
}

func TestHandsUpdate(t *testing.T) {
	primary, _ := NewDriver(pullSession(), gridObject(0))
	secondary, _ := NewDriver(pullSession(), gridObject(10))
	hands := NewHands(primary, secondary)

	hands.Start(Primary)
	if err := hands.Update(math.Vec3{Y: 0.1}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if primary.Session().State() != sculpt.StateStroking {
		t.Fatal("primary hand near its mesh should be stroking")
	}
	if secondary.Session().State() != sculpt.StateTargetBound {
		t.Error("disabled secondary hand should not stroke")
	}

	_ = hands.Update(math.Vec3{Y: 0.1})
	if got := primary.Session().LastStroke().Steps; got != 2 {
		t.Errorf("Steps = %d, want 2", got)
	}

	// Moving away ends the stroke.
	_ = hands.Update(math.Vec3{Y: 5})
	if primary.Session().State() != sculpt.StateTargetBound {
		t.Error("leaving reach should end the stroke")
	}
	if primary.Session().HistoryLen() != 1 {
		t.Errorf("HistoryLen() = %d, want 1", primary.Session().HistoryLen())
	}
}

func TestHandsUpdateScaledObject(t *testing.T) {
	obj := gridObject(0)
	obj.Transform.Scale = math.Vec3{X: 10, Y: 10, Z: 10}
	primary, _ := NewDriver(pullSession(), obj)
	hands := NewHands(primary, nil)

	// 2 world units above the grid is 0.2 local units, inside the 0.5 radius.
	p := math.Vec3{Y: 2}
	if !primary.Near(p) {
		t.Fatal("point within local reach of a scaled object should be near")
	}

	hands.Start(Primary)
	if err := hands.Update(p); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if primary.Session().State() != sculpt.StateStroking {
		t.Fatal("hand within reach of the scaled mesh should be stroking")
	}
	if primary.Session().LastStroke().Moved == 0 {
		t.Error("stroke should move vertices of the scaled mesh")
	}

	// 8 world units is 0.8 local units, out of reach.
	if primary.Near(math.Vec3{Y: 8}) {
		t.Error("point beyond local reach should not be near")
	}
}

func TestHandsStopEndsStroke(t *testing.T) {
	primary, _ := NewDriver(pullSession(), gridObject(0))
	hands := NewHands(primary, nil)

	hands.Start(Primary)
	_ = hands.Update(math.Vec3{})
	hands.Stop(Primary)

	if hands.Enabled(Primary) {
		t.Error("Stop should disable the hand")
	}
	if primary.Session().State() != sculpt.StateTargetBound {
		t.Error("Stop should end the stroke")
	}
}

func TestHandsSetMode(t *testing.T) {
	primary, _ := NewDriver(pullSession(), gridObject(0))
	secondary, _ := NewDriver(pullSession(), gridObject(10))
	hands := NewHands(primary, secondary)

	if err := hands.SetMode("smooth"); err != nil {
		t.Fatalf("SetMode() error = %v", err)
	}
	for _, h := range []Hand{Primary, Secondary} {
		if m := hands.Driver(h).Session().Mode(); m != sculpt.ModeSmooth {
			t.Errorf("%v mode = %v, want smooth", h, m)
		}
	}

	if err := hands.SetMode("inflate"); !errors.Is(err, sculpt.ErrInvalidMode) {
		t.Errorf("SetMode(inflate) error = %v, want ErrInvalidMode", err)
	}
	if m := primary.Session().Mode(); m != sculpt.ModeSmooth {
		t.Errorf("invalid mode changed primary to %v", m)
	}
}
