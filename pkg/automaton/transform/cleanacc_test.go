package transform

import (
	"testing"

	"github.com/matzehuels/toparity/pkg/automaton/acc"
)

func TestCleanupAcceptance(t *testing.T) {
	tests := []struct {
		name      string
		cond      acc.Condition
		edges     []testEdge
		wantCond  string
		wantMarks []acc.Mark
	}{
		{
			name:      "nothing to remove",
			cond:      acc.MustCondition(2, acc.GeneralizedBuchi(2)),
			edges:     []testEdge{{0, 0, []int{0}}, {0, 0, []int{1}}},
			wantCond:  "2 Inf(0) & Inf(1)",
			wantMarks: []acc.Mark{acc.MarkOf(0), acc.MarkOf(1)},
		},
		{
			name:      "set missing from formula",
			cond:      acc.MustCondition(2, acc.Inf(1)),
			edges:     []testEdge{{0, 0, []int{0}}, {0, 0, []int{1}}},
			wantCond:  "1 Inf(0)",
			wantMarks: []acc.Mark{0, acc.MarkOf(0)},
		},
		{
			name:      "set on every edge",
			cond:      acc.MustCondition(2, acc.GeneralizedBuchi(2)),
			edges:     []testEdge{{0, 0, []int{0}}, {0, 0, []int{0, 1}}},
			wantCond:  "1 Inf(0)",
			wantMarks: []acc.Mark{0, acc.MarkOf(0)},
		},
		{
			name:      "set on no edge",
			cond:      acc.MustCondition(3, acc.GeneralizedBuchi(3)),
			edges:     []testEdge{{0, 0, []int{0}}, {0, 0, []int{1}}},
			wantCond:  "0 f",
			wantMarks: []acc.Mark{0, 0},
		},
		{
			name:      "unused Fin becomes true",
			cond:      acc.MustCondition(4, acc.Rabin(2)),
			edges:     []testEdge{{0, 0, []int{1}}, {0, 0, []int{2, 3}}},
			wantCond:  "3 Inf(0) | (Fin(1) & Inf(2))",
			wantMarks: []acc.Mark{acc.MarkOf(0), acc.MarkOf(1, 2)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph(t, 1, tt.cond, tt.edges)
			before := g.Acceptance().String()

			res := CleanupAcceptance(g)

			if got := res.Acceptance().String(); got != tt.wantCond {
				t.Errorf("acceptance = %q, want %q", got, tt.wantCond)
			}
			for i, want := range tt.wantMarks {
				if got := res.Edge(i).Acc; got != want {
					t.Errorf("edge %d mark = %v, want %v", i, got, want)
				}
			}
			if g.Acceptance().String() != before {
				t.Error("CleanupAcceptance modified its input")
			}
			if err := res.Validate(); err != nil {
				t.Errorf("result invalid: %v", err)
			}
		})
	}
}

func TestCleanupShrinksParityInput(t *testing.T) {
	// Only one of the two sets survives, leaving a Büchi automaton that
	// ToParity passes through.
	g := buildGraph(t, 2, acc.MustCondition(2, acc.GeneralizedBuchi(2)), []testEdge{
		{0, 1, []int{0, 1}},
		{1, 0, []int{0}},
	})
	clean := CleanupAcceptance(g)
	res, err := ToParity(clean, false)
	if err != nil {
		t.Fatal(err)
	}
	if res != clean {
		t.Error("cleaned Büchi automaton should pass through")
	}
}
