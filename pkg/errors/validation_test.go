package errors

import (
	"strings"
	"testing"
)

func TestValidateInputFormat(t *testing.T) {
	for _, f := range []string{"hoa", "json"} {
		if err := ValidateInputFormat(f); err != nil {
			t.Errorf("ValidateInputFormat(%q) = %v", f, err)
		}
	}
	err := ValidateInputFormat("dot")
	if !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("ValidateInputFormat(dot) = %v, want INVALID_FORMAT", err)
	}
}

func TestValidateOutputFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr string
	}{
		{"single", []string{"hoa"}, ""},
		{"several", []string{"hoa", "dot", "svg"}, ""},
		{"empty", nil, "no output format"},
		{"unknown", []string{"gif"}, "unknown output format"},
		{"duplicate", []string{"hoa", "hoa"}, "given twice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormats(tt.formats)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateLimit(t *testing.T) {
	if err := ValidateLimit("max-states", 0, 0); err != nil {
		t.Errorf("zero = %v", err)
	}
	if err := ValidateLimit("max-states", -1, 0); !Is(err, ErrCodeInvalidOption) {
		t.Errorf("negative = %v", err)
	}
	if err := ValidateLimit("max-sets", 40, 31); !Is(err, ErrCodeInvalidOption) {
		t.Errorf("too large = %v", err)
	}
	if err := ValidateLimit("max-sets", 31, 31); err != nil {
		t.Errorf("at bound = %v", err)
	}
}

func TestValidateName(t *testing.T) {
	if err := ValidateName("GFa & GFb"); err != nil {
		t.Errorf("valid name: %v", err)
	}
	if err := ValidateName("bad\x00name"); err == nil {
		t.Error("control characters should be rejected")
	}
	if err := ValidateName(strings.Repeat("x", 300)); err == nil {
		t.Error("long names should be rejected")
	}
}
