package cache

import (
	"slices"
)

// Keyer generates cache keys for conversion results.
type Keyer interface {
	// ResultKey returns the key for the artifacts produced from the input
	// with the given hash under opts.
	ResultKey(inputHash string, opts ResultKeyOpts) string
}

// ResultKeyOpts lists every option that changes a conversion's output.
type ResultKeyOpts struct {
	InputFormat string   `json:"input_format"`
	Formats     []string `json:"formats"`
	PrettyPrint bool     `json:"pretty"`
	Cleanup     bool     `json:"cleanup"`
	Simplify    bool     `json:"simplify,omitempty"`
	Detailed    bool     `json:"detailed"`
	MaxStates   int      `json:"max_states"`
	MaxSets     int      `json:"max_sets"`
	Scale       float64  `json:"scale,omitempty"`
}

// DefaultKeyer hashes the options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResultKey returns "result:<sha256>" over the input hash and options.
// The order of opts.Formats does not matter.
func (DefaultKeyer) ResultKey(inputHash string, opts ResultKeyOpts) string {
	opts.Formats = slices.Sorted(slices.Values(opts.Formats))
	return hashKey("result", inputHash, opts)
}
