package errors

import (
	"slices"
	"strings"
	"unicode"
)

// Known input and output formats.
var (
	InputFormats  = []string{"hoa", "json"}
	OutputFormats = []string{"hoa", "json", "dot", "svg", "pdf", "png"}
)

// ValidateInputFormat checks that name is a readable automaton format.
func ValidateInputFormat(name string) error {
	if !slices.Contains(InputFormats, name) {
		return New(ErrCodeInvalidFormat, "unknown input format %q (want one of %s)", name, strings.Join(InputFormats, ", "))
	}
	return nil
}

// ValidateOutputFormats checks that formats is non-empty, free of duplicates,
// and only names known output formats.
func ValidateOutputFormats(formats []string) error {
	if len(formats) == 0 {
		return New(ErrCodeInvalidFormat, "no output format given")
	}
	seen := make(map[string]bool, len(formats))
	for _, f := range formats {
		if !slices.Contains(OutputFormats, f) {
			return New(ErrCodeInvalidFormat, "unknown output format %q (want one of %s)", f, strings.Join(OutputFormats, ", "))
		}
		if seen[f] {
			return New(ErrCodeInvalidFormat, "output format %q given twice", f)
		}
		seen[f] = true
	}
	return nil
}

// ValidateLimit checks that a numeric option lies in [0, max].
// A max of 0 means no upper bound.
func ValidateLimit(name string, value, max int) error {
	if value < 0 {
		return New(ErrCodeInvalidOption, "%s must not be negative (got %d)", name, value)
	}
	if max > 0 && value > max {
		return New(ErrCodeInvalidOption, "%s must be at most %d (got %d)", name, max, value)
	}
	return nil
}

// ValidateName validates a display name such as an automaton name or a
// cache namespace.
//
// Validation rules:
//   - Maximum length of 256 characters
//   - No control characters
func ValidateName(name string) error {
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}
	return nil
}
