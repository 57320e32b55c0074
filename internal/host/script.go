package host

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/claymesh/internal/collision"
	"github.com/Faultbox/claymesh/internal/sculpt"
	"github.com/Faultbox/claymesh/pkg/math"
)

// Stroke is one scripted action. A stroke with points drags the brush
// through them; undo and reset run before any points.
type Stroke struct {
	Mode     *sculpt.Mode `yaml:"mode,omitempty"`
	Radius   *float32     `yaml:"radius,omitempty"`
	Strength *float32     `yaml:"strength,omitempty"`
	Points   [][3]float32 `yaml:"points,omitempty"`

	// Direction, when set, turns each point into a ray origin: the brush
	// lands where the ray hits a mesh, like a pointer.
	Direction *[3]float32 `yaml:"direction,omitempty"`

	Undo  bool `yaml:"undo,omitempty"`
	Reset bool `yaml:"reset,omitempty"`
}

// Script is a replayable list of strokes.
type Script struct {
	Strokes []Stroke `yaml:"strokes"`
}

// RunStats summarizes a script run.
type RunStats struct {
	Strokes int
	Steps   int
	Moved   int
	Misses  int
	Undos   int
}

// LoadScript reads and validates a YAML stroke script.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("loading script %s: %w", path, err)
	}
	return s, nil
}

// ParseScript decodes and validates a stroke script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate reports every malformed stroke.
func (s *Script) Validate() error {
	var err error
	for i, st := range s.Strokes {
		if st.Radius != nil && *st.Radius <= 0 {
			err = multierr.Append(err, fmt.Errorf("stroke %d: radius must be positive", i))
		}
		if st.Direction != nil && math.V3(*st.Direction).LengthSquared() == 0 {
			err = multierr.Append(err, fmt.Errorf("stroke %d: zero ray direction", i))
		}
		if len(st.Points) == 0 && !st.Undo && !st.Reset && st.Mode == nil {
			err = multierr.Append(err, fmt.Errorf("stroke %d: does nothing", i))
		}
	}
	return err
}

// Run replays the script through d. An empty undo history is logged and
// skipped; any other failure stops the run.
func (s *Script) Run(d *Driver) (RunStats, error) {
	var stats RunStats
	sess := d.Session()

	for i, st := range s.Strokes {
		if st.Undo {
			switch err := sess.Undo(); {
			case errors.Is(err, sculpt.ErrEmptyHistory):
				d.log.Info("script undo with empty history", zap.Int("stroke", i))
			case err != nil:
				return stats, fmt.Errorf("stroke %d: %w", i, err)
			default:
				stats.Undos++
			}
		}
		if st.Reset {
			if err := sess.Reset(); err != nil {
				return stats, fmt.Errorf("stroke %d: %w", i, err)
			}
		}
		if st.Mode != nil {
			if err := sess.SetMode(*st.Mode); err != nil {
				return stats, fmt.Errorf("stroke %d: %w", i, err)
			}
		}
		if st.Radius != nil {
			sess.SetRadius(*st.Radius)
		}
		if st.Strength != nil {
			sess.SetStrength(*st.Strength)
		}
		if len(st.Points) == 0 {
			continue
		}

		if err := s.drag(d, sess, st, &stats); err != nil {
			return stats, fmt.Errorf("stroke %d: %w", i, err)
		}
		stats.Strokes++
	}
	return stats, nil
}

// eventHandler is the part of Driver a drag needs.
type eventHandler interface {
	Handle(ev Event) error
}

// drag sends one stroke's events to d. A stroke that has begun is always
// ended, even when a later event fails.
func (s *Script) drag(d eventHandler, sess *sculpt.Session, st Stroke, stats *RunStats) error {
	started := false

	for _, pt := range st.Points {
		kind := EventContinue
		if !started {
			kind = EventBegin
		}

		ev := PointEvent(kind, math.V3(pt))
		if st.Direction != nil {
			ev = RayEvent(kind, collision.NewRay(math.V3(pt), math.V3(*st.Direction)))
		}

		err := d.Handle(ev)
		if errors.Is(err, ErrMiss) {
			stats.Misses++
			continue
		}
		if err != nil {
			if started {
				err = multierr.Append(err, d.Handle(Event{Kind: EventEnd}))
			}
			return err
		}
		started = true
		stats.Steps++
	}

	if !started {
		return nil
	}
	moved := sess.LastStroke().Moved
	if err := d.Handle(Event{Kind: EventEnd}); err != nil {
		return err
	}
	stats.Moved += moved
	return nil
}
