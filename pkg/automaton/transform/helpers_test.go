package transform

import (
	"iter"
	"slices"
	"testing"

	"github.com/matzehuels/toparity/pkg/automaton"
	"github.com/matzehuels/toparity/pkg/automaton/acc"
	"github.com/matzehuels/toparity/pkg/automaton/guard"
	"github.com/matzehuels/toparity/pkg/automaton/perm"
)

type testEdge struct {
	src, dst int
	sets     []int
}

// buildGraph returns an automaton with the given states and edges, all
// guarded by true, starting in state 0.
func buildGraph(t *testing.T, states int, cond acc.Condition, edges []testEdge) *automaton.Graph {
	t.Helper()
	dict, err := guard.NewDict("a")
	if err != nil {
		t.Fatalf("NewDict: %v", err)
	}
	g := automaton.New(dict, nil)
	g.NewStates(states)
	for _, e := range edges {
		if _, err := g.NewEdge(e.src, e.dst, dict.True(), acc.MarkOf(e.sets...)); err != nil {
			t.Fatalf("NewEdge(%d, %d): %v", e.src, e.dst, err)
		}
	}
	if err := g.SetInit(0); err != nil {
		t.Fatalf("SetInit: %v", err)
	}
	g.SetAcceptance(cond)
	return g
}

// edgeColors returns the single color of every edge of g, in order.
func edgeColors(t *testing.T, g *automaton.Graph) []int {
	t.Helper()
	var colors []int
	for e := range g.Edges() {
		if e.Acc.Count() != 1 {
			t.Fatalf("edge %d->%d has mark %v, want exactly one color", e.Src, e.Dst, e.Acc)
		}
		colors = append(colors, e.Acc.Max())
	}
	return colors
}

// allPerms yields every permutation of [0, ..., n-1] once, using Heap's
// algorithm. Each yielded slice is a fresh copy.
func allPerms(n int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		p := perm.Seq(n)
		if !yield(slices.Clone(p)) {
			return
		}
		state := make([]int, len(p))
		for i := 0; i < len(p); {
			if state[i] < i {
				if i%2 == 0 {
					p[0], p[i] = p[i], p[0]
				} else {
					p[state[i]], p[i] = p[i], p[state[i]]
				}
				if !yield(slices.Clone(p)) {
					return
				}
				state[i]++
				i = 0
			} else {
				state[i] = 0
				i++
			}
		}
	}
}

// isPermutation reports whether p holds each of 0, ..., len(p)-1 once.
func isPermutation(p []int) bool {
	seen := make([]bool, len(p))
	for _, v := range p {
		if v < 0 || v >= len(p) || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

func TestAllPerms(t *testing.T) {
	for n := range 6 {
		seen := make(map[string]bool)
		for p := range allPerms(n) {
			if !isPermutation(p) || seen[perm.Format(p)] {
				t.Fatalf("allPerms(%d) yielded %v", n, p)
			}
			seen[perm.Format(p)] = true
		}
		if len(seen) != perm.Factorial(n) {
			t.Errorf("allPerms(%d) yielded %d permutations, want %d", n, len(seen), perm.Factorial(n))
		}
	}
}
