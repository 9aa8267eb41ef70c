package transform

import (
	"slices"
	"testing"

	"github.com/matzehuels/toparity/pkg/automaton/acc"
)

func TestRotate(t *testing.T) {
	tests := []struct {
		name  string
		p     []int
		m     acc.Mark
		wantP []int
		wantH int
	}{
		{"empty mark", []int{0, 1, 2}, 0, []int{0, 1, 2}, 0},
		{"head to tail", []int{0, 1, 2}, acc.MarkOf(0), []int{1, 2, 0}, 3},
		{"already at tail", []int{0, 1, 2}, acc.MarkOf(2), []int{0, 1, 2}, 1},
		{"two sets ascending", []int{0, 1, 2}, acc.MarkOf(0, 2), []int{1, 0, 2}, 3},
		{"suffix pair", []int{0, 1, 2}, acc.MarkOf(1, 2), []int{0, 1, 2}, 2},
		{"middle", []int{2, 0, 1}, acc.MarkOf(0), []int{2, 1, 0}, 2},
		{"no sets", nil, 0, []int{}, 0},
		{"unknown set ignored", []int{0, 1}, acc.MarkOf(5), []int{0, 1}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := slices.Clone(tt.p)
			gotP, gotH := Rotate(tt.p, tt.m)
			if !slices.Equal(gotP, tt.wantP) || gotH != tt.wantH {
				t.Errorf("Rotate(%v, %v) = %v, %d; want %v, %d", tt.p, tt.m, gotP, gotH, tt.wantP, tt.wantH)
			}
			if !slices.Equal(tt.p, orig) {
				t.Errorf("Rotate modified its input: %v", tt.p)
			}
		})
	}
}

// Every record and mark over four sets: the result stays a bijection, the
// moved sets lie in the last h slots, h reaches back to the earliest moved
// set, and untouched sets keep their relative order.
func TestRotateInvariants(t *testing.T) {
	const n = 4
	for p := range allPerms(n) {
		for m := acc.Mark(0); m < acc.AllSets(n)+1; m++ {
			next, h := Rotate(p, m)
			if !isPermutation(next) || len(next) != n {
				t.Fatalf("Rotate(%v, %v) = %v, not a permutation", p, m, next)
			}
			tail := acc.MarkOf(next[n-h:]...)
			if !m.Minus(tail).IsEmpty() {
				t.Fatalf("Rotate(%v, %v): moved sets not in last %d of %v", p, m, h, next)
			}
			wantH := 0
			if first := lowestPosition(p, m); first >= 0 {
				wantH = n - slices.Index(p, first)
			}
			if h != wantH {
				t.Fatalf("Rotate(%v, %v): h = %d, want %d", p, m, h, wantH)
			}
			var kept, keptNext []int
			for _, v := range p {
				if !m.Has(v) {
					kept = append(kept, v)
				}
			}
			for _, v := range next {
				if !m.Has(v) {
					keptNext = append(keptNext, v)
				}
			}
			if !slices.Equal(kept, keptNext) {
				t.Fatalf("Rotate(%v, %v) reordered untouched sets: %v", p, m, next)
			}
		}
	}
}

// lowestPosition returns the member of m that appears first in p.
func lowestPosition(p []int, m acc.Mark) int {
	for _, v := range p {
		if m.Has(v) {
			return v
		}
	}
	return -1
}

func TestColor(t *testing.T) {
	cond := acc.MustCondition(2, acc.GeneralizedBuchi(2))
	tests := []struct {
		next []int
		h    int
		want int
	}{
		{[]int{0, 1}, 0, 1},
		{[]int{0, 1}, 1, 3},
		{[]int{1, 0}, 2, 4},
	}
	for _, tt := range tests {
		if got := Color(cond, tt.next, tt.h); got != tt.want {
			t.Errorf("Color(%v, %d) = %d, want %d", tt.next, tt.h, got, tt.want)
		}
	}
	if got := Color(acc.Condition{}, nil, 0); got != 0 {
		t.Errorf("Color with t and no sets = %d, want 0", got)
	}
}
