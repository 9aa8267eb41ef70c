// Package render draws omega-automata as Graphviz diagrams.
//
// # Usage
//
// Convert an automaton to DOT, then render it to SVG in-process:
//
//	dot := render.ToDOT(g, render.Options{Detailed: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// [ToPDF] and [ToPNG] convert the SVG further with the external
// rsvg-convert tool from librsvg.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for SVG rendering, so no
// Graphviz installation is needed. PDF and PNG conversion requires librsvg.
package render
