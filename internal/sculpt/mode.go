package sculpt

import (
	"fmt"
	"strings"
)

// Mode selects the brush behavior.
type Mode int

const (
	ModePush Mode = iota
	ModePull
	ModePinch
	ModeSmooth
)

var modeNames = [...]string{
	ModePush:   "push",
	ModePull:   "pull",
	ModePinch:  "pinch",
	ModeSmooth: "smooth",
}

// Modes lists every brush mode in declaration order.
func Modes() []Mode {
	return []Mode{ModePush, ModePull, ModePinch, ModeSmooth}
}

func (m Mode) String() string {
	if m.Valid() {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m >= ModePush && m <= ModeSmooth
}

// ParseMode resolves a mode name, ignoring case and surrounding space.
func ParseMode(name string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range modeNames {
		if n == key {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, name)
}

// MarshalText implements encoding.TextMarshaler so modes read naturally in
// YAML configs and stroke scripts.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
