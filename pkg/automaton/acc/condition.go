package acc

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrTooManySets is returned when a condition declares more than MaxSets sets.
	ErrTooManySets = errors.New("too many acceptance sets")
	// ErrSetOutOfRange is returned when a formula mentions an undeclared set.
	ErrSetOutOfRange = errors.New("acceptance set out of range")
)

// Condition pairs a number of acceptance sets with a formula over them.
//
// The zero value declares no set and accepts every run.
type Condition struct {
	numSets int
	code    Code
}

// NewCondition returns the condition with numSets sets and formula code.
// Every set mentioned by code must be below numSets.
func NewCondition(numSets int, code Code) (Condition, error) {
	if numSets < 0 || numSets > MaxSets {
		return Condition{}, fmt.Errorf("%w: %d (max %d)", ErrTooManySets, numSets, MaxSets)
	}
	if m := code.MaxSet(); m >= numSets {
		return Condition{}, fmt.Errorf("%w: set %d with %d declared", ErrSetOutOfRange, m, numSets)
	}
	if code.minSet() < 0 {
		return Condition{}, fmt.Errorf("%w: negative set", ErrSetOutOfRange)
	}
	return Condition{numSets: numSets, code: code}, nil
}

// MustCondition is like NewCondition but panics on error.
func MustCondition(numSets int, code Code) Condition {
	c, err := NewCondition(numSets, code)
	if err != nil {
		panic(err)
	}
	return c
}

// ParityCondition returns the parity condition over n priorities.
func ParityCondition(max, odd bool, n int) Condition {
	return MustCondition(n, Parity(max, odd, n))
}

func (c Code) minSet() int {
	switch c.Op {
	case OpInf, OpFin:
		return c.Set
	case OpAnd, OpOr:
		low := 0
		for _, a := range c.Args {
			low = min(low, a.minSet())
		}
		return low
	}
	return 0
}

// NumSets returns the number of declared acceptance sets.
func (c Condition) NumSets() int { return c.numSets }

// Code returns the acceptance formula.
func (c Condition) Code() Code { return c.code }

// AllSets returns the mark holding every declared set.
func (c Condition) AllSets() Mark { return AllSets(c.numSets) }

// Accepting reports whether visiting exactly the sets of m infinitely often
// satisfies the condition.
func (c Condition) Accepting(m Mark) bool { return c.code.Accepting(m) }

// IsParity reports whether the condition is one of the four canonical
// parity conditions over all of its sets.
func (c Condition) IsParity() bool {
	_, _, ok := c.ParityStyle()
	return ok
}

// ParityStyle returns the flavour of a parity condition. A condition with no
// set is never considered parity.
func (c Condition) ParityStyle() (max, odd, ok bool) {
	if c.numSets == 0 {
		return false, false, false
	}
	for _, style := range [...]struct{ max, odd bool }{
		{true, false}, {true, true}, {false, false}, {false, true},
	} {
		if c.code.Equal(Parity(style.max, style.odd, c.numSets)) {
			return style.max, style.odd, true
		}
	}
	return false, false, false
}

// Name returns the HOA acc-name of the condition, or "" if it has none.
func (c Condition) Name() string {
	n := c.numSets
	switch {
	case c.code.Op == OpTrue && n == 0:
		return "all"
	case c.code.Op == OpFalse && n == 0:
		return "none"
	case n == 1 && c.code.Equal(Buchi()):
		return "Buchi"
	case n == 1 && c.code.Equal(CoBuchi()):
		return "co-Buchi"
	case n > 1 && c.code.Equal(GeneralizedBuchi(n)):
		return "generalized-Buchi " + strconv.Itoa(n)
	case n > 1 && c.code.Equal(GeneralizedCoBuchi(n)):
		return "generalized-co-Buchi " + strconv.Itoa(n)
	case n%2 == 0 && n > 0 && c.code.Equal(Rabin(n/2)):
		return "Rabin " + strconv.Itoa(n/2)
	case n%2 == 0 && n > 0 && c.code.Equal(Streett(n/2)):
		return "Streett " + strconv.Itoa(n/2)
	}
	if max, odd, ok := c.ParityStyle(); ok {
		return fmt.Sprintf("parity %s %s %d", pick(max, "max", "min"), pick(odd, "odd", "even"), n)
	}
	return ""
}

func pick(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}

// String formats the condition as the value of an HOA Acceptance header,
// e.g. "3 Inf(2) | (Fin(1) & Inf(0))".
func (c Condition) String() string {
	return strconv.Itoa(c.numSets) + " " + c.code.String()
}
