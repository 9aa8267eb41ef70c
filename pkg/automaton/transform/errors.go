package transform

import "errors"

// ErrStateLimit is returned by [ToParityContext] when the construction
// creates more states than [Options.MaxStates].
var ErrStateLimit = errors.New("state limit exceeded")

// ErrTooManySets is returned when the source automaton has more acceptance
// sets than the parity output can number; see [MaxInputSets].
var ErrTooManySets = errors.New("too many acceptance sets for parity output")

// UnsupportedInputError reports a source automaton the construction cannot
// handle. No output is produced when it is returned.
type UnsupportedInputError struct {
	Reason string
}

func (e *UnsupportedInputError) Error() string {
	return "unsupported input: " + e.Reason
}
