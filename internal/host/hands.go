package host

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/claymesh/internal/logger"
	"github.com/Faultbox/claymesh/internal/sculpt"
	"github.com/Faultbox/claymesh/pkg/math"
)

// Hand identifies one of the two sculpting slots.
type Hand int

const (
	Primary Hand = iota
	Secondary
)

func (h Hand) String() string {
	if h == Secondary {
		return "secondary"
	}
	return "primary"
}

type handSlot struct {
	driver  *Driver
	enabled bool
}

// Hands sculpts up to two objects from one tracked position. Each slot has
// its own driver and session; a slot sculpts only while enabled and while
// the position is within reach of its object.
type Hands struct {
	slots [2]handSlot
}

// NewHands creates a manager. Either driver may be nil.
func NewHands(primary, secondary *Driver) *Hands {
	h := &Hands{}
	h.slots[Primary].driver = primary
	h.slots[Secondary].driver = secondary
	return h
}

// Driver returns the driver in slot h.
func (h *Hands) Driver(hand Hand) *Driver {
	return h.slots[hand].driver
}

// Start enables sculpting on slot hand.
func (h *Hands) Start(hand Hand) {
	h.slots[hand].enabled = true
	logger.Info("hand sculpting started", zap.Stringer("hand", hand))
}

// Stop disables slot hand and ends its stroke.
func (h *Hands) Stop(hand Hand) {
	s := &h.slots[hand]
	s.enabled = false
	if s.driver != nil && s.driver.Session().State() == sculpt.StateStroking {
		_ = s.driver.Handle(Event{Kind: EventEnd})
	}
	logger.Info("hand sculpting stopped", zap.Stringer("hand", hand))
}

// Enabled reports whether slot hand is sculpting.
func (h *Hands) Enabled(hand Hand) bool {
	return h.slots[hand].enabled
}

// Update applies the hand position to every enabled slot. Entering reach
// begins a stroke, staying continues it and leaving ends it.
func (h *Hands) Update(p math.Vec3) error {
	var err error
	for i := range h.slots {
		s := &h.slots[i]
		if !s.enabled || s.driver == nil {
			continue
		}
		stroking := s.driver.Session().State() == sculpt.StateStroking

		var e error
		switch near := s.driver.Near(p); {
		case near && !stroking:
			e = s.driver.Handle(PointEvent(EventBegin, p))
		case near:
			e = s.driver.Handle(PointEvent(EventContinue, p))
		case stroking:
			e = s.driver.Handle(Event{Kind: EventEnd})
		}
		if e != nil {
			err = multierr.Append(err, fmt.Errorf("%v hand: %w", Hand(i), e))
		}
	}
	return err
}

// SetMode applies a brush mode to both slots.
func (h *Hands) SetMode(name string) error {
	var err error
	for i := range h.slots {
		if d := h.slots[i].driver; d != nil {
			err = multierr.Append(err, d.Session().SetModeByName(name))
		}
	}
	if err == nil {
		logger.Info("brush mode set on both hands", zap.String("mode", name))
	}
	return err
}
