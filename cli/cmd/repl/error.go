package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds = errors.New("index out of range")
	ErrNoTable     = errors.New("no table loaded (use ':load <file>')")
)
