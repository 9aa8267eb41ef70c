package transform_test

import (
	"fmt"

	"github.com/matzehuels/toparity/pkg/automaton"
	"github.com/matzehuels/toparity/pkg/automaton/acc"
	"github.com/matzehuels/toparity/pkg/automaton/guard"
	"github.com/matzehuels/toparity/pkg/automaton/transform"
)

func ExampleToParity() {
	// One state that must see both a and !a infinitely often.
	dict, _ := guard.NewDict("a")
	a, _ := dict.Var(0)
	g := automaton.New(dict, nil)
	s := g.NewState()
	_, _ = g.NewEdge(s, s, a, acc.MarkOf(0))
	_, _ = g.NewEdge(s, s, dict.Not(a), acc.MarkOf(1))
	_ = g.SetInit(s)
	g.SetAcceptance(acc.MustCondition(2, acc.GeneralizedBuchi(2)))

	res, err := transform.ToParity(g, true)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res.Acceptance().Name())
	for e := range res.Edges() {
		fmt.Printf("%s -> %s %v\n", res.StateName(e.Src), res.StateName(e.Dst), e.Acc)
	}
	// Output:
	// parity max even 6
	// 0 [0,1] -> 0 [1,0] {4}
	// 0 [0,1] -> 0 [0,1] {3}
	// 0 [1,0] -> 0 [1,0] {3}
	// 0 [1,0] -> 0 [0,1] {4}
}

func ExampleRotate() {
	next, h := transform.Rotate([]int{0, 1, 2}, acc.MarkOf(0, 2))
	fmt.Println(next, h)
	// Output:
	// [1 0 2] 3
}
