// Package automaton provides an explicit graph representation of
// omega-automata with transition-based Emerson-Lei acceptance.
//
// # Overview
//
// A [Graph] has dense integer states, an initial state, and edges that carry
// a guard over atomic propositions (see package guard) and a set of
// acceptance marks (see package acc). The acceptance condition is a positive
// Boolean formula over Inf and Fin atoms naming those marks.
//
// # Basic Usage
//
//	dict, _ := guard.NewDict("a")
//	g := automaton.New(dict, nil)
//	s := g.NewStates(2)
//	a, _ := dict.Var(0)
//	g.NewEdge(s, s+1, a, acc.MarkOf(0))
//	g.NewEdge(s+1, s, dict.True(), 0)
//	g.SetInit(s)
//	g.SetAcceptance(acc.MustCondition(1, acc.Buchi()))
//
// # Alternation
//
// Universal edges (several destinations entered at once) and universal
// initial states can be represented so that alternating inputs can be read
// and reported, but most transformations require an existential automaton;
// see [Graph.IsExistential].
package automaton
