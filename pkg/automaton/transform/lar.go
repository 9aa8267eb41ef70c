package transform

import (
	"context"
	"fmt"

	"github.com/matzehuels/toparity/pkg/automaton"
	"github.com/matzehuels/toparity/pkg/automaton/acc"
	"github.com/matzehuels/toparity/pkg/automaton/perm"
)

// larBuilder holds the state of one IAR construction.
type larBuilder struct {
	src   *automaton.Graph
	res   *automaton.Graph
	table *stateTable
	opts  Options
}

func newLARBuilder(src *automaton.Graph, opts Options) *larBuilder {
	meta := automaton.Metadata{}
	if name := src.Name(); name != "" {
		meta["name"] = name
	}
	return &larBuilder{
		src:   src,
		res:   automaton.New(src.Dict(), meta),
		table: newStateTable(StateBound(src)),
		opts:  opts,
	}
}

// state returns the output number of s, creating the output state on first
// discovery.
func (b *larBuilder) state(s larState) int {
	id, created := b.table.getOrCreate(s)
	if created {
		b.res.NewState()
	}
	return id
}

func (b *larBuilder) run(ctx context.Context) (*automaton.Graph, error) {
	cond := b.src.Acceptance()
	n := cond.NumSets()

	init := b.state(larState{state: b.src.Init(), perm: perm.Seq(n)})
	if err := b.res.SetInit(init); err != nil {
		return nil, err
	}

	for {
		cur, src, ok := b.table.pop()
		if !ok {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if b.opts.MaxStates > 0 && b.table.len() > b.opts.MaxStates {
			return nil, fmt.Errorf("%w: more than %d states", ErrStateLimit, b.opts.MaxStates)
		}
		for e := range b.src.Out(cur.state) {
			next, h := Rotate(cur.perm, e.Acc)
			dst := b.state(larState{state: e.Dst, perm: next})
			color := Color(cond, next, h)
			if _, err := b.res.NewEdge(src, dst, e.Cond, acc.MarkOf(color)); err != nil {
				return nil, err
			}
		}
	}

	b.res.SetAcceptance(acc.ParityCondition(true, false, 2*n+2))
	if b.opts.PrettyPrint {
		if err := b.res.SetStateNames(b.table.names()); err != nil {
			return nil, err
		}
	}
	return b.res, nil
}
