package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/toparity/pkg/automaton"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds state names to node labels and the acceptance condition
	// to the graph title. When false, states show only their number.
	Detailed bool
}

// ToDOT converts an automaton to Graphviz DOT source.
//
// Edges are labelled with their guard over proposition names followed by
// their acceptance marks. The initial state gets an arrow from an invisible
// node, and universal edges fan out from a small black dot.
func ToDOT(g *automaton.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [fontsize=12];\n")
	if opts.Detailed {
		title := g.Acceptance().String()
		if name := g.Name(); name != "" {
			title = name + "\n" + title
		}
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", title)
	}
	buf.WriteString("\n")

	buf.WriteString("  I [label=\"\", style=invis, width=0];\n")
	init := g.InitStates()
	switch len(init) {
	case 0:
	case 1:
		fmt.Fprintf(&buf, "  I -> %d;\n", init[0])
	default:
		buf.WriteString("  I -> Iu [arrowhead=none];\n")
		buf.WriteString("  Iu [label=\"\", shape=point, width=0.05];\n")
		for _, s := range init {
			fmt.Fprintf(&buf, "  Iu -> %d;\n", s)
		}
	}

	for s := range g.NumStates() {
		fmt.Fprintf(&buf, "  %d [label=%q];\n", s, stateLabel(g, s, opts.Detailed))
	}

	buf.WriteString("\n")
	dict := g.Dict()
	for i := range g.NumEdges() {
		e := g.Edge(i)
		label := dict.FormatNames(e.Cond)
		if !e.Acc.IsEmpty() {
			label += "\n" + e.Acc.String()
		}
		if !e.IsUniversal() {
			fmt.Fprintf(&buf, "  %d -> %d [label=%q];\n", e.Src, e.Dst, label)
			continue
		}
		fmt.Fprintf(&buf, "  %d -> u%d [label=%q, arrowhead=none];\n", e.Src, i, label)
		fmt.Fprintf(&buf, "  u%d [label=\"\", shape=point, width=0.05];\n", i)
		for _, d := range e.Univ {
			fmt.Fprintf(&buf, "  u%d -> %d;\n", i, d)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func stateLabel(g *automaton.Graph, s int, detailed bool) string {
	id := strconv.Itoa(s)
	if name := g.StateName(s); detailed && name != "" {
		return id + "\n" + name
	}
	return id
}

// RenderSVG renders DOT source to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// [ToPDF] or [ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the root svg tag so the drawing starts at the
// origin and scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
