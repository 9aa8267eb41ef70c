package automaton

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/matzehuels/toparity/pkg/automaton/acc"
	"github.com/matzehuels/toparity/pkg/automaton/guard"
)

var (
	// ErrUnknownState is returned when an operation references a state that
	// was never created with [Graph.NewState] or [Graph.NewStates].
	ErrUnknownState = errors.New("unknown state")

	// ErrNoDestination is returned by [Graph.NewUnivEdge] and
	// [Graph.SetUnivInit] when given an empty destination set.
	ErrNoDestination = errors.New("empty destination set")

	// ErrNoInitialState is returned by [Graph.Validate] for an automaton
	// without states.
	ErrNoInitialState = errors.New("automaton has no initial state")

	// ErrInvalidMark is returned by [Graph.Validate] when an edge belongs to
	// an acceptance set the acceptance condition does not declare.
	ErrInvalidMark = errors.New("edge mark uses undeclared acceptance set")

	// ErrStateNames is returned by [Graph.SetStateNames] when the number of
	// names differs from the number of states.
	ErrStateNames = errors.New("state name count does not match state count")
)

// Metadata stores arbitrary key-value pairs attached to an automaton, such as
// its HOA name or the tool that produced it.
type Metadata map[string]any

// Edge is a transition of an automaton. It leaves Src, is enabled by the
// valuations satisfying Cond, and belongs to the acceptance sets in Acc.
//
// An existential edge leads to Dst. A universal edge leads to every state
// of Univ at once; for such edges Dst is Univ[0].
type Edge struct {
	Src  int
	Dst  int
	Cond guard.Cond
	Acc  acc.Mark
	Univ []int
}

// IsUniversal reports whether the edge has more than one destination.
func (e Edge) IsUniversal() bool { return len(e.Univ) > 1 }

// Dsts returns the destinations of the edge.
func (e Edge) Dsts() []int {
	if len(e.Univ) > 0 {
		return slices.Clone(e.Univ)
	}
	return []int{e.Dst}
}

// Graph is an explicit omega-automaton with transition-based acceptance.
//
// States are dense integers starting at 0. Edges keep their insertion order,
// both globally and per source state, so iteration is deterministic.
//
// The zero value is not usable; create graphs with [New].
// Graph is not safe for concurrent mutation.
type Graph struct {
	dict  *guard.Dict
	out   [][]int // state -> indices into edges
	edges []Edge
	init  []int
	cond  acc.Condition
	names []string
	meta  Metadata
}

// New returns an empty automaton whose guards come from dict.
// The acceptance condition starts as "0 t".
func New(dict *guard.Dict, meta Metadata) *Graph {
	if meta == nil {
		meta = Metadata{}
	}
	return &Graph{dict: dict, meta: meta}
}

// Dict returns the dictionary shared by the automaton's guards.
func (g *Graph) Dict() *guard.Dict { return g.dict }

// Meta returns the automaton's metadata. The map is never nil.
func (g *Graph) Meta() Metadata { return g.meta }

// Name returns the "name" metadata entry, or "".
func (g *Graph) Name() string {
	s, _ := g.meta["name"].(string)
	return s
}

// SetName sets the "name" metadata entry.
func (g *Graph) SetName(name string) { g.meta["name"] = name }

// NewState adds a state and returns its number.
func (g *Graph) NewState() int {
	g.out = append(g.out, nil)
	if g.names != nil {
		g.names = append(g.names, "")
	}
	return len(g.out) - 1
}

// NewStates adds n states and returns the number of the first one.
func (g *Graph) NewStates(n int) int {
	first := len(g.out)
	for range n {
		g.NewState()
	}
	return first
}

// NumStates returns the number of states.
func (g *Graph) NumStates() int { return len(g.out) }

// NumEdges returns the number of edges.
func (g *Graph) NumEdges() int { return len(g.edges) }

func (g *Graph) checkState(s int) error {
	if s < 0 || s >= len(g.out) {
		return fmt.Errorf("%w: %d", ErrUnknownState, s)
	}
	return nil
}

// NewEdge adds an existential edge and returns its index.
func (g *Graph) NewEdge(src, dst int, cond guard.Cond, mark acc.Mark) (int, error) {
	if err := g.checkState(src); err != nil {
		return 0, err
	}
	if err := g.checkState(dst); err != nil {
		return 0, err
	}
	return g.addEdge(Edge{Src: src, Dst: dst, Cond: cond, Acc: mark}), nil
}

// NewUnivEdge adds an edge leading to all states of dsts at once. With a
// single destination the edge is existential.
func (g *Graph) NewUnivEdge(src int, dsts []int, cond guard.Cond, mark acc.Mark) (int, error) {
	if len(dsts) == 0 {
		return 0, ErrNoDestination
	}
	if len(dsts) == 1 {
		return g.NewEdge(src, dsts[0], cond, mark)
	}
	if err := g.checkState(src); err != nil {
		return 0, err
	}
	for _, d := range dsts {
		if err := g.checkState(d); err != nil {
			return 0, err
		}
	}
	univ := slices.Clone(dsts)
	return g.addEdge(Edge{Src: src, Dst: univ[0], Cond: cond, Acc: mark, Univ: univ}), nil
}

func (g *Graph) addEdge(e Edge) int {
	i := len(g.edges)
	g.edges = append(g.edges, e)
	g.out[e.Src] = append(g.out[e.Src], i)
	return i
}

// Edge returns the edge with index i.
func (g *Graph) Edge(i int) Edge { return g.edges[i] }

// Edges iterates over all edges in insertion order.
func (g *Graph) Edges() iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		for _, e := range g.edges {
			if !yield(e) {
				return
			}
		}
	}
}

// Out iterates over the edges leaving s in insertion order.
// Unknown states have no outgoing edges.
func (g *Graph) Out(s int) iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		if s < 0 || s >= len(g.out) {
			return
		}
		for _, i := range g.out[s] {
			if !yield(g.edges[i]) {
				return
			}
		}
	}
}

// OutDegree returns the number of edges leaving s.
func (g *Graph) OutDegree(s int) int {
	if s < 0 || s >= len(g.out) {
		return 0
	}
	return len(g.out[s])
}

// MapMarks replaces the mark of every edge m by f(m).
func (g *Graph) MapMarks(f func(acc.Mark) acc.Mark) {
	for i := range g.edges {
		g.edges[i].Acc = f(g.edges[i].Acc)
	}
}

// SetInit makes s the single initial state.
func (g *Graph) SetInit(s int) error {
	if err := g.checkState(s); err != nil {
		return err
	}
	g.init = []int{s}
	return nil
}

// SetUnivInit makes the automaton start in all states of ss at once.
func (g *Graph) SetUnivInit(ss []int) error {
	if len(ss) == 0 {
		return ErrNoDestination
	}
	for _, s := range ss {
		if err := g.checkState(s); err != nil {
			return err
		}
	}
	g.init = slices.Clone(ss)
	return nil
}

// Init returns the initial state. An automaton whose initial state was never
// set starts in state 0. For a universal initial state, Init returns the
// first member; see [Graph.InitStates].
func (g *Graph) Init() int {
	if len(g.init) == 0 {
		return 0
	}
	return g.init[0]
}

// InitStates returns all initial states.
func (g *Graph) InitStates() []int {
	if len(g.init) == 0 {
		if len(g.out) == 0 {
			return nil
		}
		return []int{0}
	}
	return slices.Clone(g.init)
}

// IsExistential reports whether the automaton has a single initial state and
// no universal edge.
func (g *Graph) IsExistential() bool {
	if len(g.init) > 1 {
		return false
	}
	for _, e := range g.edges {
		if e.IsUniversal() {
			return false
		}
	}
	return true
}

// Acceptance returns the acceptance condition.
func (g *Graph) Acceptance() acc.Condition { return g.cond }

// SetAcceptance replaces the acceptance condition.
func (g *Graph) SetAcceptance(c acc.Condition) { g.cond = c }

// NumSets returns the number of acceptance sets of the condition.
func (g *Graph) NumSets() int { return g.cond.NumSets() }

// SetStateNames attaches one display name per state.
func (g *Graph) SetStateNames(names []string) error {
	if len(names) != len(g.out) {
		return fmt.Errorf("%w: %d names for %d states", ErrStateNames, len(names), len(g.out))
	}
	g.names = slices.Clone(names)
	return nil
}

// StateNames returns the state names, or nil if none were set.
func (g *Graph) StateNames() []string { return slices.Clone(g.names) }

// StateName returns the name of s, or "" if it has none.
func (g *Graph) StateName(s int) string {
	if s < 0 || s >= len(g.names) {
		return ""
	}
	return g.names[s]
}

// Validate checks that the automaton has an initial state and that every
// edge mark is covered by the acceptance condition.
func (g *Graph) Validate() error {
	if len(g.out) == 0 {
		return ErrNoInitialState
	}
	all := g.cond.AllSets()
	for i, e := range g.edges {
		if extra := e.Acc.Minus(all); !extra.IsEmpty() {
			return fmt.Errorf("%w: edge %d (%d->%d) has %v with %d sets",
				ErrInvalidMark, i, e.Src, e.Dst, extra, g.cond.NumSets())
		}
	}
	return nil
}

// Clone returns a deep copy of the automaton sharing the same dictionary.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		dict:  g.dict,
		out:   make([][]int, len(g.out)),
		edges: make([]Edge, len(g.edges)),
		init:  slices.Clone(g.init),
		cond:  g.cond,
		names: slices.Clone(g.names),
		meta:  maps.Clone(g.meta),
	}
	for i, o := range g.out {
		c.out[i] = slices.Clone(o)
	}
	for i, e := range g.edges {
		e.Univ = slices.Clone(e.Univ)
		c.edges[i] = e
	}
	return c
}
