package pipeline

import (
	"bytes"

	"github.com/matzehuels/toparity/pkg/automaton"
	"github.com/matzehuels/toparity/pkg/errors"
	"github.com/matzehuels/toparity/pkg/hoa"
	pkgio "github.com/matzehuels/toparity/pkg/io"
)

// Parse decodes an automaton in the given input format.
func Parse(data []byte, format string) (*automaton.Graph, error) {
	var (
		g   *automaton.Graph
		err error
	)
	switch format {
	case FormatHOA:
		g, err = hoa.Parse(data)
	case FormatJSON:
		g, err = pkgio.ReadJSON(bytes.NewReader(data))
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown input format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s input", format)
	}
	return g, nil
}

// DetectFormat guesses the input format from the first non-blank byte:
// JSON documents start with '{', anything else is treated as HOA.
func DetectFormat(data []byte) string {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return FormatJSON
	}
	return FormatHOA
}
