package transform

import (
	"github.com/matzehuels/toparity/pkg/automaton"
	"github.com/matzehuels/toparity/pkg/automaton/acc"
)

// SimplifyAcceptance returns a copy of g with a smaller equivalent
// acceptance condition. On top of [CleanupAcceptance] it merges sets that
// occur on exactly the same edges, and rewrites the formula using pairs of
// complementary sets, where every edge carries exactly one of the two. The
// language is unchanged. g itself is not modified.
func SimplifyAcceptance(g *automaton.Graph) *automaton.Graph {
	res := CleanupAcceptance(g)
	mergeIdenticalMarks(res)
	if cond := res.Acceptance(); !isGeneralizedBuchi(cond) {
		simplifyComplementaryMarks(res)
	}
	for cleanupOnce(res) {
	}
	return res
}

func isGeneralizedBuchi(c acc.Condition) bool {
	return c.NumSets() > 0 && c.Code().Equal(acc.GeneralizedBuchi(c.NumSets()))
}

// mergeIdenticalMarks keeps the lowest set of every group of formula sets
// that always occur together, and rewrites the others to it. The dropped
// sets end up on no edge and are removed by the next cleanup.
func mergeIdenticalMarks(g *automaton.Graph) {
	cond := g.Acceptance()
	used := cond.Code().UsedSets()
	if used.IsEmpty() || g.NumEdges() == 0 {
		return
	}

	// together[i] holds the sets present on exactly the edges holding i.
	together := make([]acc.Mark, cond.NumSets())
	for _, i := range used.Slice() {
		together[i] = used
	}
	for e := range g.Edges() {
		a := e.Acc.Intersect(used)
		for _, i := range used.Slice() {
			if a.Has(i) {
				together[i] = together[i].Intersect(a)
			} else {
				together[i] = together[i].Minus(a)
			}
		}
	}

	var drop acc.Mark
	rep := make([]int, cond.NumSets())
	for i := range rep {
		rep[i] = i
	}
	for _, i := range used.Slice() {
		rep[i] = together[i].Slice()[0]
		if rep[i] != i {
			drop = drop.With(i)
		}
	}
	if drop.IsEmpty() {
		return
	}

	g.MapMarks(func(m acc.Mark) acc.Mark { return m.Minus(drop) })
	code := cond.Code().Rename(func(s int) int { return rep[s] })
	g.SetAcceptance(acc.MustCondition(cond.NumSets(), code))
}

// simplifyComplementaryMarks rewrites the formula knowing which sets are
// complementary. Sets that fall out of the formula are removed by the next
// cleanup.
func simplifyComplementaryMarks(g *automaton.Graph) {
	cond := g.Acceptance()
	used := cond.Code().UsedSets()
	if used.IsEmpty() || g.NumEdges() == 0 {
		return
	}

	// complement[i] holds the sets present on exactly the edges lacking i.
	complement := make([]acc.Mark, cond.NumSets())
	for _, i := range used.Slice() {
		complement[i] = used.Minus(acc.MarkOf(i))
	}
	for e := range g.Edges() {
		for _, i := range used.Slice() {
			if e.Acc.Has(i) {
				complement[i] = complement[i].Minus(e.Acc)
			} else {
				complement[i] = complement[i].Intersect(e.Acc)
			}
		}
	}

	code := removeComplementary(cond.Code(), complement)
	g.SetAcceptance(acc.MustCondition(cond.NumSets(), code))
}

// removeComplementary applies, with j complementary to i:
//
//	Fin(i) & Inf(i) = f    Fin(i) & Fin(j) = f    Fin(i) & Inf(j) = Fin(i)
//	Inf(i) | Fin(i) = t    Inf(i) | Inf(j) = t    Inf(i) | Fin(j) = Inf(i)
func removeComplementary(c acc.Code, complement []acc.Mark) acc.Code {
	if c.Op != acc.OpAnd && c.Op != acc.OpOr {
		return c
	}
	// In a conjunction Fin atoms constrain the Inf atoms; in a disjunction
	// the roles swap.
	strong, weak := acc.OpFin, acc.OpInf
	absorb := acc.False()
	if c.Op == acc.OpOr {
		strong, weak = acc.OpInf, acc.OpFin
		absorb = acc.True()
	}

	args := make([]acc.Code, 0, len(c.Args))
	var seen, weakSets acc.Mark
	for _, a := range c.Args {
		a = removeComplementary(a, complement)
		switch a.Op {
		case strong:
			seen = seen.With(a.Set)
		case weak:
			weakSets = weakSets.With(a.Set)
		}
		args = append(args, a)
	}

	if !seen.Intersect(weakSets).IsEmpty() {
		return absorb
	}
	var implied acc.Mark
	for _, i := range seen.Slice() {
		if !complement[i].Intersect(seen).IsEmpty() {
			return absorb
		}
		implied = implied.Union(complement[i])
	}
	kept := args[:0]
	for _, a := range args {
		if a.Op == weak && implied.Has(a.Set) {
			continue
		}
		kept = append(kept, a)
	}
	if c.Op == acc.OpOr {
		return acc.Or(kept...)
	}
	return acc.And(kept...)
}
