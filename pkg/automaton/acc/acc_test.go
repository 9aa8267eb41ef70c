package acc

import (
	"errors"
	"slices"
	"testing"
)

func TestMark(t *testing.T) {
	m := MarkOf(5, 0, 2)

	if got := m.Slice(); !slices.Equal(got, []int{0, 2, 5}) {
		t.Errorf("Slice() = %v, want [0 2 5]", got)
	}
	if m.Count() != 3 {
		t.Errorf("Count() = %d, want 3", m.Count())
	}
	if m.Max() != 5 {
		t.Errorf("Max() = %d, want 5", m.Max())
	}
	if !m.Has(2) || m.Has(1) || m.Has(-1) || m.Has(MaxSets) {
		t.Error("Has() gave wrong membership")
	}
	if got := m.String(); got != "{0,2,5}" {
		t.Errorf("String() = %q, want {0,2,5}", got)
	}
	if Mark(0).Max() != -1 || !Mark(0).IsEmpty() {
		t.Error("empty mark should have Max -1 and be empty")
	}
	if got := m.Minus(MarkOf(2)).Union(MarkOf(7)); got != MarkOf(0, 5, 7) {
		t.Errorf("Minus/Union = %v, want {0,5,7}", got)
	}
	if got := m.Intersect(MarkOf(2, 3)); got != MarkOf(2) {
		t.Errorf("Intersect = %v, want {2}", got)
	}
}

func TestMarkOfPanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MarkOf(64) did not panic")
		}
	}()
	MarkOf(MaxSets)
}

func TestAllSets(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 0}, {-3, 0}, {1, 1}, {5, 5}, {MaxSets, MaxSets}, {100, MaxSets},
	}
	for _, tt := range tests {
		if got := AllSets(tt.n).Count(); got != tt.want {
			t.Errorf("AllSets(%d).Count() = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestMarkStrip(t *testing.T) {
	tests := []struct {
		name    string
		m       Mark
		useless Mark
		want    Mark
	}{
		{"nothing removed", MarkOf(1, 3), 0, MarkOf(1, 3)},
		{"remove below", MarkOf(1, 3), MarkOf(0), MarkOf(0, 2)},
		{"remove member", MarkOf(1, 3), MarkOf(1), MarkOf(2)},
		{"remove above", MarkOf(1, 3), MarkOf(4), MarkOf(1, 3)},
		{"remove all", MarkOf(0, 1), MarkOf(0, 1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Strip(tt.useless); got != tt.want {
				t.Errorf("Strip = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSimplification(t *testing.T) {
	tests := []struct {
		name string
		got  Code
		want string
	}{
		{"or false", Or(Inf(0), False()), "Inf(0)"},
		{"and true", And(Fin(1), True()), "Fin(1)"},
		{"and false absorbs", And(Inf(0), False(), Inf(1)), "f"},
		{"or true absorbs", Or(Inf(0), True()), "t"},
		{"empty and", And(), "t"},
		{"empty or", Or(), "f"},
		{"flatten", And(Inf(0), And(Inf(1), Inf(2))), "Inf(0) & Inf(1) & Inf(2)"},
		{"nested parens", Or(Fin(0), And(Inf(1), Fin(2))), "Fin(0) | (Inf(1) & Fin(2))"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if s := tt.got.String(); s != tt.want {
				t.Errorf("String() = %q, want %q", s, tt.want)
			}
		})
	}
}

func TestParityFormulas(t *testing.T) {
	tests := []struct {
		max, odd bool
		n        int
		want     string
	}{
		{true, false, 3, "Inf(2) | (Fin(1) & Inf(0))"},
		{true, true, 3, "Fin(2) & (Inf(1) | Fin(0))"},
		{false, false, 3, "Inf(0) | (Fin(1) & Inf(2))"},
		{false, true, 3, "Fin(0) & (Inf(1) | Fin(2))"},
		{false, false, 2, "Inf(0) | Fin(1)"},
		{true, false, 1, "Inf(0)"},
		{true, true, 1, "Fin(0)"},
		{true, false, 0, "f"},
		{true, true, 0, "t"},
	}
	for _, tt := range tests {
		if got := Parity(tt.max, tt.odd, tt.n).String(); got != tt.want {
			t.Errorf("Parity(%v, %v, %d) = %q, want %q", tt.max, tt.odd, tt.n, got, tt.want)
		}
	}
}

// The parity formulas must agree with the definition: the max (or min)
// priority seen decides, and even (or odd) priorities are good.
func TestParitySemantics(t *testing.T) {
	const n = 5
	for _, max := range []bool{true, false} {
		for _, odd := range []bool{true, false} {
			code := Parity(max, odd, n)
			for m := Mark(1); m < Mark(1)<<n; m++ {
				s := m.Slice()
				decisive := s[0]
				if max {
					decisive = s[len(s)-1]
				}
				want := (decisive%2 == 1) == odd
				if got := code.Accepting(m); got != want {
					t.Errorf("Parity(%v, %v) on %v = %v, want %v", max, odd, m, got, want)
				}
			}
		}
	}
}

func TestEqualIgnoresOperandOrder(t *testing.T) {
	a := Or(Fin(0), Inf(1))
	b := Or(Inf(1), Fin(0))
	if !a.Equal(b) {
		t.Error("Equal should ignore operand order")
	}
	if a.Equal(And(Fin(0), Inf(1))) {
		t.Error("Equal should distinguish And from Or")
	}
	if Or(Inf(0), Inf(0)).Equal(Or(Inf(0), Inf(1))) {
		t.Error("Equal should match operands one to one")
	}
}

func TestFixAndStrip(t *testing.T) {
	code := And(Inf(0), Or(Fin(1), Inf(2)), Inf(3))

	fixed := code.Fix(MarkOf(1), true)
	if got := fixed.String(); got != "Inf(0) & Inf(2) & Inf(3)" {
		t.Errorf("Fix seen = %q", got)
	}
	fixed = code.Fix(MarkOf(1), false)
	if got := fixed.String(); got != "Inf(0) & Inf(3)" {
		t.Errorf("Fix unseen = %q", got)
	}
	if got := fixed.Strip(MarkOf(1, 2)).String(); got != "Inf(0) & Inf(1)" {
		t.Errorf("Strip = %q", got)
	}
	if got := code.UsedSets(); got != MarkOf(0, 1, 2, 3) {
		t.Errorf("UsedSets = %v", got)
	}
}

func TestRename(t *testing.T) {
	tests := []struct {
		name string
		code Code
		f    func(int) int
		want string
	}{
		{"atom", Inf(2), func(s int) int { return s - 2 }, "Inf(0)"},
		{"nested", And(Fin(3), Or(Inf(1), Fin(2))), func(s int) int { return s * 2 }, "Fin(6) & (Inf(2) | Fin(4))"},
		{"merge", Or(Inf(0), Inf(1)), func(int) int { return 0 }, "Inf(0)"},
		{"merge nested", Or(And(Fin(0), Inf(1)), And(Fin(0), Inf(2))), func(s int) int { return min(s, 1) }, "Fin(0) & Inf(1)"},
		{"constant", True(), func(int) int { return 9 }, "t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.code.Rename(tt.f).String(); got != tt.want {
				t.Errorf("Rename = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewCondition(t *testing.T) {
	if _, err := NewCondition(2, Inf(2)); !errors.Is(err, ErrSetOutOfRange) {
		t.Errorf("NewCondition(2, Inf(2)) error = %v, want ErrSetOutOfRange", err)
	}
	if _, err := NewCondition(65, True()); !errors.Is(err, ErrTooManySets) {
		t.Errorf("NewCondition(65) error = %v, want ErrTooManySets", err)
	}
	if _, err := NewCondition(1, Fin(-1)); !errors.Is(err, ErrSetOutOfRange) {
		t.Errorf("NewCondition(1, Fin(-1)) error = %v, want ErrSetOutOfRange", err)
	}
	c, err := NewCondition(3, Inf(1))
	if err != nil {
		t.Fatalf("NewCondition: %v", err)
	}
	if c.NumSets() != 3 || c.AllSets() != MarkOf(0, 1, 2) {
		t.Errorf("NumSets/AllSets = %d/%v", c.NumSets(), c.AllSets())
	}
}

func TestIsParity(t *testing.T) {
	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"zero value", Condition{}, false},
		{"t with no sets", MustCondition(0, True()), false},
		{"buchi", MustCondition(1, Buchi()), true},
		{"co-buchi", MustCondition(1, CoBuchi()), true},
		{"parity min odd", ParityCondition(false, true, 4), true},
		{"streett one pair", MustCondition(2, Streett(1)), true},
		{"generalized buchi", MustCondition(2, GeneralizedBuchi(2)), false},
		{"rabin two pairs", MustCondition(4, Rabin(2)), false},
		{"parity over fewer sets", MustCondition(3, Parity(true, false, 2)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cond.IsParity(); got != tt.want {
				t.Errorf("IsParity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConditionName(t *testing.T) {
	tests := []struct {
		cond Condition
		want string
	}{
		{Condition{}, "all"},
		{MustCondition(0, False()), "none"},
		{MustCondition(1, Buchi()), "Buchi"},
		{MustCondition(1, CoBuchi()), "co-Buchi"},
		{MustCondition(3, GeneralizedBuchi(3)), "generalized-Buchi 3"},
		{MustCondition(2, GeneralizedCoBuchi(2)), "generalized-co-Buchi 2"},
		{MustCondition(4, Rabin(2)), "Rabin 2"},
		{MustCondition(4, Streett(2)), "Streett 2"},
		{ParityCondition(true, false, 4), "parity max even 4"},
		{ParityCondition(false, true, 3), "parity min odd 3"},
		{MustCondition(2, Or(Inf(0), Inf(1))), ""},
	}
	for _, tt := range tests {
		if got := tt.cond.Name(); got != tt.want {
			t.Errorf("Name() of %v = %q, want %q", tt.cond, got, tt.want)
		}
	}
}
