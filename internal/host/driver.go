// Package host connects input to sculpt sessions: pointer events picked
// against colliders, tracked hand positions and scripted strokes.
package host

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/claymesh/internal/collision"
	"github.com/Faultbox/claymesh/internal/logger"
	"github.com/Faultbox/claymesh/internal/mesh"
	"github.com/Faultbox/claymesh/internal/sculpt"
	"github.com/Faultbox/claymesh/pkg/math"
)

// ErrMiss is returned when a pointer ray hits no object.
var ErrMiss = errors.New("host: ray missed every object")

// EventKind is the phase of a pointer or hand gesture.
type EventKind int

const (
	EventBegin EventKind = iota
	EventContinue
	EventEnd
)

func (k EventKind) String() string {
	switch k {
	case EventBegin:
		return "begin"
	case EventContinue:
		return "continue"
	case EventEnd:
		return "end"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one input sample. When Ray is set the brush point is where the
// ray first hits an object; otherwise Point is used as given (world space).
type Event struct {
	Kind  EventKind
	Point math.Vec3
	Ray   *collision.Ray
}

// PointEvent returns an event at a world-space point.
func PointEvent(kind EventKind, p math.Vec3) Event {
	return Event{Kind: kind, Point: p}
}

// RayEvent returns an event resolved by picking.
func RayEvent(kind EventKind, r collision.Ray) Event {
	return Event{Kind: kind, Ray: &r}
}

// Driver feeds events into one session. It owns the sculptable objects in
// the scene; a pointer stroke that begins on a different object retargets
// the session to it.
type Driver struct {
	session *sculpt.Session
	objects []*mesh.Object
	current *mesh.Object
	log     *zap.Logger
}

// NewDriver creates a driver over objects. The first object, if any, is
// bound immediately.
func NewDriver(s *sculpt.Session, objects ...*mesh.Object) (*Driver, error) {
	d := &Driver{
		session: s,
		objects: objects,
		log:     logger.Named("host"),
	}
	if len(objects) > 0 {
		if err := d.bind(objects[0]); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Session returns the driven session.
func (d *Driver) Session() *sculpt.Session { return d.session }

// Current returns the bound object, or nil.
func (d *Driver) Current() *mesh.Object { return d.current }

// Add registers another sculptable object.
func (d *Driver) Add(o *mesh.Object) {
	d.objects = append(d.objects, o)
}

func (d *Driver) bind(o *mesh.Object) error {
	if err := d.session.SetTarget(o); err != nil {
		d.current = nil
		return fmt.Errorf("binding %q: %w", o.Name(), err)
	}
	d.current = o
	return nil
}

// Pick returns the nearest object hit by r.
func (d *Driver) Pick(r collision.Ray) (*mesh.Object, collision.Hit, bool) {
	var (
		best    *mesh.Object
		bestHit collision.Hit
	)
	for _, o := range d.objects {
		hit, ok := o.Raycast(r)
		if ok && (best == nil || hit.T < bestHit.T) {
			best, bestHit = o, hit
		}
	}
	return best, bestHit, best != nil
}

// Handle applies one event. A begin ray that misses returns ErrMiss and
// starts nothing; a continue ray that misses skips the step.
func (d *Driver) Handle(ev Event) error {
	if ev.Kind == EventEnd {
		return d.session.EndStroke()
	}

	p := ev.Point
	if ev.Ray != nil {
		obj, hit, ok := d.Pick(*ev.Ray)
		if !ok {
			d.log.Debug("pointer missed", zap.Stringer("event", ev.Kind))
			return ErrMiss
		}
		if ev.Kind == EventBegin && obj != d.current {
			if err := d.bind(obj); err != nil {
				return err
			}
			d.log.Info("retargeted", zap.String("target", obj.Name()))
		}
		p = hit.Point
	}

	switch ev.Kind {
	case EventBegin:
		return d.session.BeginStroke(p)
	case EventContinue:
		return d.session.ContinueStroke(p)
	default:
		return fmt.Errorf("unknown event kind %v", ev.Kind)
	}
}

// Near reports whether the world point p is within brush reach of the bound
// object's bounds. The brush radius is in local units, so p is measured in
// the object's local space.
func (d *Driver) Near(p math.Vec3) bool {
	if d.current == nil {
		return false
	}
	toWorld := d.current.LocalToWorld()
	if toWorld.Determinant() == 0 {
		return false
	}
	local := toWorld.Inverse().TransformVec3(p)
	return d.current.Mesh.Bounds.DistanceTo(local) <= d.session.Radius()
}
