package guard

import (
	"testing"
)

func mustDict(t *testing.T, aps ...string) *Dict {
	t.Helper()
	d, err := NewDict(aps...)
	if err != nil {
		t.Fatalf("NewDict: %v", err)
	}
	return d
}

func mustVar(t *testing.T, d *Dict, i int) Cond {
	t.Helper()
	v, err := d.Var(i)
	if err != nil {
		t.Fatalf("Var(%d): %v", i, err)
	}
	return v
}

func TestConstants(t *testing.T) {
	d := mustDict(t)
	if !d.IsTrue(d.True()) || d.IsTrue(d.False()) {
		t.Error("True/False misclassified")
	}
	if !d.IsFalse(d.False()) {
		t.Error("False not recognised")
	}
	if got := d.Format(d.True()); got != "t" {
		t.Errorf("Format(true) = %q, want t", got)
	}
	if got := d.Format(d.False()); got != "f" {
		t.Errorf("Format(false) = %q, want f", got)
	}
	if d.NumAPs() != 0 {
		t.Errorf("NumAPs() = %d, want 0", d.NumAPs())
	}
}

func TestVarOutOfRange(t *testing.T) {
	d := mustDict(t, "a")
	if _, err := d.Var(1); err == nil {
		t.Error("Var(1) with one proposition should fail")
	}
	if _, err := d.Var(-1); err == nil {
		t.Error("Var(-1) should fail")
	}
}

func TestBooleanLaws(t *testing.T) {
	d := mustDict(t, "a", "b")
	a, b := mustVar(t, d, 0), mustVar(t, d, 1)

	if !d.IsTrue(d.Or(a, d.Not(a))) {
		t.Error("a | !a should be true")
	}
	if !d.IsFalse(d.And(a, d.Not(a))) {
		t.Error("a & !a should be false")
	}
	if !d.Equal(d.Not(d.And(a, b)), d.Or(d.Not(a), d.Not(b))) {
		t.Error("De Morgan failed")
	}
	if !d.IsTrue(d.And()) || !d.IsFalse(d.Or()) {
		t.Error("empty And/Or should be true/false")
	}
}

func TestFormat(t *testing.T) {
	d := mustDict(t, "a", "b")
	a, b := mustVar(t, d, 0), mustVar(t, d, 1)

	tests := []struct {
		name  string
		cond  Cond
		index string
		names string
	}{
		{"literal", a, "0", "a"},
		{"negation", d.Not(b), "!1", "!b"},
		{"cube", d.And(a, d.Not(b)), "0&!1", "a & !b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Format(tt.cond); got != tt.index {
				t.Errorf("Format = %q, want %q", got, tt.index)
			}
			if got := d.FormatNames(tt.cond); got != tt.names {
				t.Errorf("FormatNames = %q, want %q", got, tt.names)
			}
		})
	}
}

func TestFormatQuotesOddNames(t *testing.T) {
	d := mustDict(t, "x > 1")
	if got := d.FormatNames(mustVar(t, d, 0)); got != `"x > 1"` {
		t.Errorf("FormatNames = %s, want quoted name", got)
	}
}

func TestAPsIsCopy(t *testing.T) {
	d := mustDict(t, "a", "b")
	aps := d.APs()
	aps[0] = "z"
	if d.APs()[0] != "a" {
		t.Error("APs() exposed internal slice")
	}
}
