package sculpt

import "errors"

// Session errors. All of them are recoverable: the failed call leaves the
// geometry untouched.
var (
	ErrInvalidTarget    = errors.New("sculpt: target has no usable vertex data")
	ErrNoTarget         = errors.New("sculpt: no target bound")
	ErrEmptyHistory     = errors.New("sculpt: undo history is empty")
	ErrInvalidMode      = errors.New("sculpt: unknown brush mode")
	ErrInactive         = errors.New("sculpt: session is inactive")
	ErrNoStroke         = errors.New("sculpt: no stroke in progress")
	ErrStrokeInProgress = errors.New("sculpt: stroke in progress")
)
