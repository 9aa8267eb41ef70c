package transform

import (
	"github.com/matzehuels/toparity/pkg/automaton"
	"github.com/matzehuels/toparity/pkg/automaton/acc"
)

// CleanupAcceptance returns a copy of g whose acceptance condition only keeps
// sets that can influence acceptance. Sets on no edge, sets on every edge
// and sets absent from the formula are removed, the formula is simplified
// accordingly, and the remaining sets are renumbered densely. The language
// is unchanged. g itself is not modified.
func CleanupAcceptance(g *automaton.Graph) *automaton.Graph {
	res := g.Clone()
	for cleanupOnce(res) {
	}
	return res
}

// cleanupOnce removes one round of useless sets and reports whether any set
// was removed.
func cleanupOnce(g *automaton.Graph) bool {
	cond := g.Acceptance()
	if cond.NumSets() == 0 {
		return false
	}
	inCode := cond.Code().UsedSets()

	var onSome acc.Mark
	onAll := inCode
	if g.NumEdges() == 0 {
		onAll = 0
	}
	for e := range g.Edges() {
		onSome = onSome.Union(e.Acc)
		onAll = onAll.Intersect(e.Acc)
	}

	useful := onSome.Intersect(inCode)
	useless := cond.AllSets().Minus(useful).Union(onAll)
	if useless.IsEmpty() {
		return false
	}

	// Sets on every edge are seen infinitely often by every run; the other
	// useless sets are treated as never seen.
	code := cond.Code().
		Fix(onAll, true).
		Fix(useless.Minus(onAll), false).
		Strip(useless)
	g.MapMarks(func(m acc.Mark) acc.Mark { return m.Strip(useless) })
	g.SetAcceptance(acc.MustCondition(cond.NumSets()-useless.Count(), code))
	return true
}
