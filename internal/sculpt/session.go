// Package sculpt is the mesh deformation engine: brush behaviors, the vertex
// buffer they deform, per-stroke undo and the session state machine that ties
// them to a host mesh.
package sculpt

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/claymesh/internal/logger"
	"github.com/Faultbox/claymesh/internal/mesh"
	"github.com/Faultbox/claymesh/pkg/math"
)

// Target is the host mesh a session deforms. The session reads positions,
// normals and placement once per bind and writes positions back after every
// mutation, then tells the target what derived data to refresh.
type Target interface {
	Name() string
	Vertices() []math.Vec3
	Normals() []math.Vec3
	LocalToWorld() math.Mat4
	SetVertices(v []math.Vec3)
	MarkDirty(d mesh.Dirty)
}

// indexed is implemented by targets that can supply triangles, which lets a
// session derive missing normals.
type indexed interface {
	Indices() []uint32
}

// State is the session's position in the stroke lifecycle.
type State int

const (
	StateInactive State = iota // no target bound
	StateTargetBound
	StateStroking
)

func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateTargetBound:
		return "target_bound"
	case StateStroking:
		return "stroking"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ColliderPolicy decides when the target's collider is rebuilt.
type ColliderPolicy int

const (
	// RebuildOnStrokeEnd rebuilds once per stroke, when it ends.
	RebuildOnStrokeEnd ColliderPolicy = iota
	// RebuildEveryStep rebuilds after every brush step.
	RebuildEveryStep
)

func (p ColliderPolicy) String() string {
	if p == RebuildEveryStep {
		return "every_step"
	}
	return "stroke_end"
}

// ParseColliderPolicy accepts "stroke_end" or "every_step".
func ParseColliderPolicy(s string) (ColliderPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "stroke_end":
		return RebuildOnStrokeEnd, nil
	case "every_step":
		return RebuildEveryStep, nil
	default:
		return 0, fmt.Errorf("unknown collider policy %q", s)
	}
}

// Options configures a new session.
type Options struct {
	Mode             Mode
	Radius           float32
	Strength         float32
	NeighborFraction float32
	IndexThreshold   int
	NoiseAmplitude   float32
	NoiseSeed        int64
	UndoLimit        int
	Collider         ColliderPolicy
}

// DefaultOptions returns the brush settings of a fresh session.
func DefaultOptions() Options {
	return Options{
		Mode:             ModePush,
		Radius:           0.25,
		Strength:         0.1,
		NeighborFraction: DefaultNeighborFraction,
		IndexThreshold:   DefaultIndexThreshold,
		Collider:         RebuildOnStrokeEnd,
	}
}

// StrokeStats summarizes the most recent stroke.
type StrokeStats struct {
	Mode       Mode
	Steps      int
	Moved      int
	Degenerate int
}

// Session sculpts one target. It is single-threaded: callers drive it from
// one goroutine, one step per frame.
type Session struct {
	id  string
	log *zap.Logger

	brush    Brush
	collider ColliderPolicy
	active   bool
	state    State

	target  Target
	buf     *VertexBuffer
	history *History
	stroke  StrokeStats
}

// NewSession creates an active session with no target.
func NewSession(opts Options) *Session {
	id := uuid.NewString()
	if !opts.Mode.Valid() {
		opts.Mode = ModePush
	}
	return &Session{
		id:  id,
		log: logger.Named("sculpt").With(zap.String("session", id)),
		brush: Brush{
			Mode:             opts.Mode,
			Radius:           opts.Radius,
			Strength:         opts.Strength,
			NeighborFraction: opts.NeighborFraction,
			IndexThreshold:   opts.IndexThreshold,
			Jitter:           NewJitter(opts.NoiseAmplitude, opts.NoiseSeed),
		},
		collider: opts.Collider,
		active:   true,
		state:    StateInactive,
		history:  NewHistory(opts.UndoLimit),
	}
}

// ID returns the session's unique id, used in log fields.
func (s *Session) ID() string { return s.id }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Mode returns the active brush mode.
func (s *Session) Mode() Mode { return s.brush.Mode }

// Radius returns the brush radius in the target's local units.
func (s *Session) Radius() float32 { return s.brush.Radius }

// Strength returns the brush strength.
func (s *Session) Strength() float32 { return s.brush.Strength }

// Active reports whether the session accepts strokes.
func (s *Session) Active() bool { return s.active }

// Target returns the bound target, or nil.
func (s *Session) Target() Target { return s.target }

// HistoryLen returns the number of undoable strokes.
func (s *Session) HistoryLen() int { return s.history.Len() }

// LastStroke returns statistics for the current or most recent stroke.
func (s *Session) LastStroke() StrokeStats { return s.stroke }

// Working returns a copy of the working positions, or nil with no target.
func (s *Session) Working() []math.Vec3 {
	if s.buf == nil {
		return nil
	}
	return s.buf.Snapshot()
}

// Base returns a copy of the rest shape, or nil with no target.
func (s *Session) Base() []math.Vec3 {
	if s.buf == nil {
		return nil
	}
	return s.buf.Base()
}

// SetTarget binds t, capturing its current shape as the rest shape and
// clearing undo history. On failure the session is left with no target.
func (s *Session) SetTarget(t Target) error {
	if s.state == StateStroking {
		s.log.Warn("target changed mid-stroke, ending stroke")
		s.state = StateTargetBound
	}

	buf, err := captureBuffer(t)
	if err != nil {
		s.clearTarget()
		s.log.Warn("set target failed", zap.Error(err))
		return err
	}

	s.target = t
	s.buf = buf
	s.history.Clear()
	s.stroke = StrokeStats{}
	s.state = StateTargetBound

	s.log.Info("target bound",
		zap.String("target", t.Name()),
		zap.Int("vertices", buf.Len()))
	return nil
}

func captureBuffer(t Target) (*VertexBuffer, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil target", ErrInvalidTarget)
	}

	vertices := t.Vertices()
	if len(vertices) == 0 {
		return nil, fmt.Errorf("%w: %q has no vertices", ErrInvalidTarget, t.Name())
	}

	normals := t.Normals()
	if len(normals) == 0 {
		if it, ok := t.(indexed); ok {
			normals = mesh.ComputeNormals(vertices, it.Indices(), nil)
		}
	}
	if len(normals) != len(vertices) {
		return nil, fmt.Errorf("%w: %q has %d normals for %d vertices",
			ErrInvalidTarget, t.Name(), len(normals), len(vertices))
	}

	return NewVertexBuffer(vertices, normals), nil
}

func (s *Session) clearTarget() {
	s.target = nil
	s.buf = nil
	s.history.Clear()
	s.state = StateInactive
}

// SetMode switches the brush behavior from the next step on.
func (s *Session) SetMode(m Mode) error {
	if !m.Valid() {
		s.log.Warn("invalid brush mode", zap.Int("mode", int(m)), zap.Stringer("kept", s.brush.Mode))
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(m))
	}
	s.brush.Mode = m
	s.log.Debug("brush mode set", zap.Stringer("mode", m))
	return nil
}

// SetModeByName switches mode by symbolic name. Unknown names keep the
// current mode.
func (s *Session) SetModeByName(name string) error {
	m, err := ParseMode(name)
	if err != nil {
		s.log.Warn("invalid brush mode", zap.String("name", name), zap.Stringer("kept", s.brush.Mode))
		return err
	}
	return s.SetMode(m)
}

// SetRadius sets the brush radius in local units. A non-positive radius is
// accepted and turns every step into a no-op.
func (s *Session) SetRadius(r float32) {
	s.brush.Radius = r
}

// SetStrength sets the brush strength.
func (s *Session) SetStrength(v float32) {
	s.brush.Strength = v
}

// SetActive enables or disables sculpting. Disabling mid-stroke ends the stroke.
func (s *Session) SetActive(active bool) {
	if !active && s.state == StateStroking {
		_ = s.EndStroke()
	}
	s.active = active
	s.log.Info("sculpting toggled", zap.Bool("active", active))
}

func (s *Session) canStroke(op string) error {
	if !s.active {
		s.log.Warn(op+" ignored", zap.Error(ErrInactive))
		return ErrInactive
	}
	if s.buf == nil {
		s.log.Warn(op+" ignored", zap.Error(ErrNoTarget))
		return ErrNoTarget
	}
	return nil
}

// BeginStroke snapshots the working shape for undo and applies the first
// brush step at the world-space point.
func (s *Session) BeginStroke(world math.Vec3) error {
	if err := s.canStroke("begin stroke"); err != nil {
		return err
	}
	if s.state == StateStroking {
		s.log.Warn("begin stroke ignored", zap.Error(ErrStrokeInProgress))
		return ErrStrokeInProgress
	}

	s.history.Push(s.buf.Snapshot())
	s.state = StateStroking
	s.stroke = StrokeStats{Mode: s.brush.Mode}

	s.log.Debug("stroke begun",
		zap.Stringer("mode", s.brush.Mode),
		zap.Float32("radius", s.brush.Radius),
		zap.Float32("strength", s.brush.Strength))

	s.step(world)
	return nil
}

// ContinueStroke applies one more brush step. It never snapshots.
func (s *Session) ContinueStroke(world math.Vec3) error {
	if err := s.canStroke("continue stroke"); err != nil {
		return err
	}
	if s.state != StateStroking {
		s.log.Warn("continue stroke ignored", zap.Error(ErrNoStroke))
		return ErrNoStroke
	}
	s.step(world)
	return nil
}

// EndStroke closes the stroke and, under the default policy, rebuilds the
// target's collider.
func (s *Session) EndStroke() error {
	if s.state != StateStroking {
		return ErrNoStroke
	}
	s.state = StateTargetBound

	if s.collider == RebuildOnStrokeEnd {
		s.target.MarkDirty(mesh.DirtyCollider)
	}

	s.log.Info("stroke ended",
		zap.Stringer("mode", s.stroke.Mode),
		zap.Int("steps", s.stroke.Steps),
		zap.Int("moved", s.stroke.Moved),
		zap.Int("degenerate", s.stroke.Degenerate))
	return nil
}

func (s *Session) step(world math.Vec3) {
	toWorld := s.target.LocalToWorld()
	if toWorld.Determinant() == 0 {
		s.log.Warn("brush step skipped, target transform is singular")
		return
	}
	local := toWorld.Inverse().TransformVec3(world)
	res := s.brush.Apply(s.buf, local)

	s.stroke.Steps++
	s.stroke.Moved += res.Moved
	s.stroke.Degenerate += res.Degenerate

	if res.Moved == 0 {
		return
	}

	dirty := mesh.DirtyGeometry
	if s.collider == RebuildEveryStep {
		dirty |= mesh.DirtyCollider
	}
	s.sync(dirty)
}

// sync writes the working shape back to the target and flags derived data.
func (s *Session) sync(d mesh.Dirty) {
	s.target.SetVertices(s.buf.Working())
	s.target.MarkDirty(d)
}

// Undo restores the shape from before the most recent stroke. Like strokes,
// it requires an active session.
func (s *Session) Undo() error {
	if err := s.canStroke("undo"); err != nil {
		return err
	}
	if s.state == StateStroking {
		s.log.Warn("undo ignored", zap.Error(ErrStrokeInProgress))
		return ErrStrokeInProgress
	}

	snap, ok := s.history.Pop()
	if !ok {
		s.log.Info("nothing to undo")
		return ErrEmptyHistory
	}
	s.buf.Restore(snap)
	s.sync(mesh.DirtyAll)

	s.log.Info("undo", zap.Int("remaining", s.history.Len()))
	return nil
}

// Reset restores the rest shape. It is itself undoable.
func (s *Session) Reset() error {
	if err := s.canStroke("reset"); err != nil {
		return err
	}
	if s.state == StateStroking {
		s.log.Warn("reset ignored", zap.Error(ErrStrokeInProgress))
		return ErrStrokeInProgress
	}

	s.history.Push(s.buf.Snapshot())
	s.buf.Reset()
	s.sync(mesh.DirtyAll)

	s.log.Info("reset to base shape")
	return nil
}
