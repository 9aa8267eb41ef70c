package hoa

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/toparity/pkg/automaton"
)

// Write prints g in HOA v1 format with explicit labels and
// transition-based acceptance.
func Write(w io.Writer, g *automaton.Graph) error {
	bw := bufio.NewWriter(w)
	dict := g.Dict()
	cond := g.Acceptance()

	fmt.Fprintln(bw, "HOA: v1")
	if name := g.Name(); name != "" {
		fmt.Fprintf(bw, "name: %s\n", strconv.Quote(name))
	}
	fmt.Fprintf(bw, "States: %d\n", g.NumStates())
	if init := g.InitStates(); len(init) > 0 {
		fmt.Fprintf(bw, "Start: %s\n", joinInts(init, "&"))
	}
	aps := dict.APs()
	fmt.Fprintf(bw, "AP: %d", len(aps))
	for _, ap := range aps {
		fmt.Fprintf(bw, " %s", strconv.Quote(ap))
	}
	fmt.Fprintln(bw)
	if name := cond.Name(); name != "" {
		fmt.Fprintf(bw, "acc-name: %s\n", name)
	}
	fmt.Fprintf(bw, "Acceptance: %s\n", cond)
	props := []string{"trans-labels", "explicit-labels", "trans-acc"}
	if !g.IsExistential() {
		props = append(props, "univ-branch")
	}
	fmt.Fprintf(bw, "properties: %s\n", strings.Join(props, " "))

	fmt.Fprintln(bw, "--BODY--")
	for s := range g.NumStates() {
		fmt.Fprintf(bw, "State: %d", s)
		if name := g.StateName(s); name != "" {
			fmt.Fprintf(bw, " %s", strconv.Quote(name))
		}
		fmt.Fprintln(bw)
		for e := range g.Out(s) {
			fmt.Fprintf(bw, "[%s] %s", dict.Format(e.Cond), joinInts(e.Dsts(), "&"))
			if !e.Acc.IsEmpty() {
				fmt.Fprintf(bw, " {%s}", joinInts(e.Acc.Slice(), " "))
			}
			fmt.Fprintln(bw)
		}
	}
	fmt.Fprintln(bw, "--END--")
	return bw.Flush()
}

// Format returns g in HOA format.
func Format(g *automaton.Graph) string {
	var b strings.Builder
	_ = Write(&b, g)
	return b.String()
}

func joinInts(xs []int, sep string) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, sep)
}
