package transform

import (
	"context"
	"fmt"
	"math"

	"github.com/matzehuels/toparity/pkg/automaton"
	"github.com/matzehuels/toparity/pkg/automaton/acc"
	"github.com/matzehuels/toparity/pkg/automaton/perm"
)

// MaxInputSets is the largest number of acceptance sets ToParity accepts:
// the output needs 2n+2 priorities, which must fit in an acc.Mark.
const MaxInputSets = (acc.MaxSets - 2) / 2

// Options configures [ToParityContext].
type Options struct {
	// PrettyPrint names each output state "src [p0,p1,...]" after the source
	// state and record it stands for.
	PrettyPrint bool

	// MaxStates aborts the construction with ErrStateLimit once more output
	// states have been created. Zero means no limit.
	MaxStates int
}

// StateBound returns an upper bound on the number of states of
// ToParity(src): n! times the states of src for n acceptance sets, or the
// states of src when it already has a parity condition. The bound saturates
// at math.MaxInt.
func StateBound(src *automaton.Graph) int {
	states := src.NumStates()
	if src.Acceptance().IsParity() || states == 0 {
		return states
	}
	f := perm.Factorial(src.NumSets())
	if f > math.MaxInt/states {
		return math.MaxInt
	}
	return f * states
}

// ToParity converts src into an equivalent automaton with a parity max even
// acceptance condition over 2n+2 priorities, n being the number of
// acceptance sets of src.
//
// If src already has a parity condition it is returned as is, not copied:
// callers must not assume the result can be mutated independently of src.
// A non-existential src yields an *UnsupportedInputError.
func ToParity(src *automaton.Graph, prettyPrint bool) (*automaton.Graph, error) {
	return ToParityContext(context.Background(), src, Options{PrettyPrint: prettyPrint})
}

// ToParityContext is like [ToParity] but stops between expansions of two
// output states when ctx is done or opts.MaxStates is exceeded.
//
// src is only read, so concurrent calls on the same automaton are safe.
func ToParityContext(ctx context.Context, src *automaton.Graph, opts Options) (*automaton.Graph, error) {
	if !src.IsExistential() {
		return nil, &UnsupportedInputError{Reason: "automaton has universal branching"}
	}
	if src.Acceptance().IsParity() {
		return src, nil
	}
	if n := src.NumSets(); n > MaxInputSets {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrTooManySets, n, MaxInputSets)
	}
	if err := src.Validate(); err != nil {
		return nil, err
	}
	return newLARBuilder(src, opts).run(ctx)
}
