package transform

import (
	"slices"

	"github.com/matzehuels/toparity/pkg/automaton/acc"
)

// Rotate returns the record obtained from p by moving every set of m to the
// tail, handling sets in ascending order, together with h, the length of the
// shortest suffix of the result holding all of m.
//
// p is not modified. Sets of m that do not occur in p are ignored.
func Rotate(p []int, m acc.Mark) (next []int, h int) {
	next = slices.Clone(p)
	for k := range m.Sets() {
		i := slices.Index(next, k)
		if i < 0 {
			continue
		}
		h = max(h, len(next)-i)
		copy(next[i:], next[i+1:])
		next[len(next)-1] = k
	}
	return next, h
}

// Color returns the priority of an edge whose rotation produced next and h:
// 2h if the last h sets of next satisfy cond, 2h+1 otherwise.
func Color(cond acc.Condition, next []int, h int) int {
	if cond.Accepting(acc.MarkOf(next[len(next)-h:]...)) {
		return 2 * h
	}
	return 2*h + 1
}
