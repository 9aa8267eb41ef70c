// Package pipeline provides the conversion pipeline shared by the toparity
// CLI and HTTP API.
//
// # Architecture
//
// A conversion runs four stages:
//
//  1. Parse: decode the input automaton (HOA or JSON)
//  2. Cleanup: optionally drop acceptance sets that cannot matter, or
//     simplify the acceptance condition further
//  3. Transform: build the equivalent parity automaton
//  4. Render: encode the result in every requested output format
//
// The [Runner] wraps the stages with result caching, logging and
// observability hooks. Identical inputs converted with identical options
// are served from the cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, nil, logger)
//	defer runner.Close()
//	res, err := runner.Convert(ctx, data, pipeline.Options{
//	    Formats:     []string{"hoa", "svg"},
//	    PrettyPrint: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(res.Artifacts["hoa"])
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/toparity/pkg/automaton"
	"github.com/matzehuels/toparity/pkg/automaton/transform"
	"github.com/matzehuels/toparity/pkg/cache"
	"github.com/matzehuels/toparity/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMaxSets is the largest number of acceptance sets converted when
	// Options.MaxSets is zero. The construction is factorial in this number.
	DefaultMaxSets = 8

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for input and output formats.
const (
	// FormatAuto detects the input format of each automaton.
	FormatAuto = "auto"

	FormatHOA  = "hoa"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a conversion.
// This struct supports JSON serialization for API requests.
type Options struct {
	InputFormat string   `json:"input_format,omitempty"`
	Formats     []string `json:"formats,omitempty"`

	// PrettyPrint names output states after their source state and record.
	PrettyPrint bool `json:"pretty,omitempty"`
	// Cleanup removes irrelevant acceptance sets before the conversion.
	Cleanup bool `json:"cleanup,omitempty"`
	// Simplify goes beyond Cleanup: it also merges sets that always occur
	// together and simplifies the formula around complementary sets.
	Simplify bool `json:"simplify,omitempty"`
	// Detailed adds state names and the acceptance condition to drawings.
	Detailed bool `json:"detailed,omitempty"`

	// MaxSets refuses inputs with more acceptance sets (after cleanup).
	// Zero means DefaultMaxSets.
	MaxSets int `json:"max_sets,omitempty"`
	// MaxStates stops the construction after that many output states.
	// Zero means no limit.
	MaxStates int `json:"max_states,omitempty"`

	Scale   float64 `json:"scale,omitempty"`
	Refresh bool    `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks option values and fills in defaults.
// It is idempotent. Errors carry pkg/errors codes.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.InputFormat == "" {
		o.InputFormat = FormatHOA
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatHOA}
	}
	if o.MaxSets == 0 {
		o.MaxSets = DefaultMaxSets
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if o.InputFormat != FormatAuto {
		if err := errors.ValidateInputFormat(o.InputFormat); err != nil {
			return err
		}
	}
	if err := errors.ValidateOutputFormats(o.Formats); err != nil {
		return err
	}
	if err := errors.ValidateLimit("max_sets", o.MaxSets, transform.MaxInputSets); err != nil {
		return err
	}
	if err := errors.ValidateLimit("max_states", o.MaxStates, 0); err != nil {
		return err
	}
	if o.Scale < 0 || o.Scale > 10 {
		return errors.New(errors.ErrCodeInvalidOption, "scale must be in (0, 10] (got %g)", o.Scale)
	}
	o.validated = true
	return nil
}

// NeedsSVG reports whether any requested format is drawn from the SVG.
func (o *Options) NeedsSVG() bool {
	return slices.ContainsFunc(o.Formats, func(f string) bool {
		return f == FormatSVG || f == FormatPDF || f == FormatPNG
	})
}

// KeyOpts returns the cache key options for a conversion.
func (o *Options) KeyOpts() cache.ResultKeyOpts {
	opts := cache.ResultKeyOpts{
		InputFormat: o.InputFormat,
		Formats:     slices.Clone(o.Formats),
		PrettyPrint: o.PrettyPrint,
		Cleanup:     o.Cleanup,
		Simplify:    o.Simplify,
		Detailed:    o.Detailed,
		MaxStates:   o.MaxStates,
		MaxSets:     o.MaxSets,
	}
	if slices.Contains(o.Formats, FormatPNG) {
		opts.Scale = o.Scale
	}
	return opts
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a conversion.
type Result struct {
	// ID identifies this conversion in logs and API responses.
	ID string `json:"id"`

	// Automaton is the parity automaton. It is nil when the result was
	// served from the cache.
	Automaton *automaton.Graph `json:"-"`

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte `json:"artifacts"`

	Stats Stats `json:"stats"`

	// CacheHit reports whether the artifacts came from the cache.
	CacheHit bool `json:"cache_hit"`
}

// Stats describes a conversion.
type Stats struct {
	InputStates int `json:"input_states"`
	InputEdges  int `json:"input_edges"`
	InputSets   int `json:"input_sets"`
	CleanedSets int `json:"cleaned_sets"`
	// StateBound is the most output states the construction could need.
	StateBound   int `json:"state_bound"`
	OutputStates int `json:"output_states"`
	OutputEdges  int `json:"output_edges"`
	Priorities   int `json:"priorities"`
	// Passthrough is set when the input already had a parity condition.
	Passthrough bool `json:"passthrough"`

	ParseTime     time.Duration `json:"parse_ns"`
	TransformTime time.Duration `json:"transform_ns"`
	RenderTime    time.Duration `json:"render_ns"`
}
