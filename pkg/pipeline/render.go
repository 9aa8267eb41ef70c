package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"

	"github.com/matzehuels/toparity/pkg/automaton"
	"github.com/matzehuels/toparity/pkg/errors"
	"github.com/matzehuels/toparity/pkg/hoa"
	pkgio "github.com/matzehuels/toparity/pkg/io"
	"github.com/matzehuels/toparity/pkg/render"
)

// Render encodes g in every format of opts.Formats. The SVG drawing is
// produced at most once and shared by the formats derived from it.
func Render(ctx context.Context, g *automaton.Graph, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	dot := render.ToDOT(g, render.Options{Detailed: opts.Detailed})

	var svg []byte
	if opts.NeedsSVG() {
		var err error
		if svg, err = render.RenderSVG(ctx, dot); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
		}
	}

	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatHOA:
			var buf bytes.Buffer
			err = hoa.Write(&buf, g)
			data = buf.Bytes()
		case FormatJSON:
			var buf bytes.Buffer
			err = pkgio.WriteJSON(g, &buf)
			data = buf.Bytes()
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data = svg
		case FormatPDF:
			data, err = render.ToPDF(ctx, svg)
		case FormatPNG:
			data, err = render.ToPNG(ctx, svg, opts.Scale)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported output format: %s", format)
		}

		if stderrors.Is(err, render.ErrNoConverter) {
			return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "render %s", format)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
