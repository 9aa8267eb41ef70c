package pipeline

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/toparity/pkg/automaton"
	"github.com/matzehuels/toparity/pkg/automaton/transform"
	"github.com/matzehuels/toparity/pkg/errors"
)

// Cleanup returns g with a simplified acceptance condition when
// opts.Simplify is set, with irrelevant acceptance sets removed when
// opts.Cleanup is set, and g itself otherwise.
func Cleanup(g *automaton.Graph, opts Options) *automaton.Graph {
	switch {
	case opts.Simplify:
		return transform.SimplifyAcceptance(g)
	case opts.Cleanup:
		return transform.CleanupAcceptance(g)
	}
	return g
}

// Transform runs the parity construction on g. The returned flag is true
// when g already had a parity condition and was returned unchanged.
func Transform(ctx context.Context, g *automaton.Graph, opts Options) (*automaton.Graph, bool, error) {
	if g.IsExistential() && !g.Acceptance().IsParity() && g.NumSets() > opts.MaxSets {
		return nil, false, errors.New(errors.ErrCodeLimitExceeded,
			"automaton has %d acceptance sets, at most %d are converted", g.NumSets(), opts.MaxSets)
	}

	out, err := transform.ToParityContext(ctx, g, transform.Options{
		PrettyPrint: opts.PrettyPrint,
		MaxStates:   opts.MaxStates,
	})
	if err != nil {
		return nil, false, classify(err)
	}
	return out, out == g, nil
}

// classify attaches an error code to failures of the transform stage.
func classify(err error) error {
	var unsupported *transform.UnsupportedInputError
	switch {
	case stderrors.As(err, &unsupported):
		return errors.Wrap(errors.ErrCodeUnsupportedInput, err, "cannot convert automaton")
	case stderrors.Is(err, transform.ErrStateLimit), stderrors.Is(err, transform.ErrTooManySets):
		return errors.Wrap(errors.ErrCodeLimitExceeded, err, "conversion stopped")
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeTimeout, err, "conversion timed out")
	case stderrors.Is(err, context.Canceled):
		return errors.Wrap(errors.ErrCodeCanceled, err, "conversion canceled")
	case stderrors.Is(err, automaton.ErrInvalidMark), stderrors.Is(err, automaton.ErrNoInitialState),
		stderrors.Is(err, automaton.ErrUnknownState), stderrors.Is(err, automaton.ErrNoDestination):
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid automaton")
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "conversion failed")
}
