// Package guard represents edge guards of omega-automata as binary decision
// diagrams over the automaton's atomic propositions.
//
// A [Dict] owns the decision diagram and the ordered list of atomic
// propositions; proposition i is BDD variable i. Guards built from one Dict
// must not be mixed with guards of another. A Dict is not safe for
// concurrent mutation, but guards may be shared read-only between automata
// that use the same Dict.
package guard

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dalzilio/rudd"
)

// Cond is a Boolean formula over atomic propositions.
type Cond = rudd.Node

// Dict binds atomic proposition names to BDD variables.
type Dict struct {
	bdd *rudd.BDD
	aps []string
}

// NewDict returns a dictionary over the given atomic propositions.
func NewDict(aps ...string) (*Dict, error) {
	// The BDD needs at least one variable even when there is no proposition.
	b, err := rudd.New(max(len(aps), 1))
	if err != nil {
		return nil, fmt.Errorf("guard: create bdd: %w", err)
	}
	return &Dict{bdd: b, aps: slices.Clone(aps)}, nil
}

// APs returns the atomic proposition names in variable order.
func (d *Dict) APs() []string { return slices.Clone(d.aps) }

// NumAPs returns the number of atomic propositions.
func (d *Dict) NumAPs() int { return len(d.aps) }

// True returns the guard satisfied by every valuation.
func (d *Dict) True() Cond { return d.bdd.True() }

// False returns the unsatisfiable guard.
func (d *Dict) False() Cond { return d.bdd.False() }

// Var returns the guard "proposition i holds".
func (d *Dict) Var(i int) (Cond, error) {
	if i < 0 || i >= len(d.aps) {
		return nil, fmt.Errorf("guard: proposition %d out of range [0,%d)", i, len(d.aps))
	}
	return d.bdd.Ithvar(i), nil
}

// Not returns the negation of c.
func (d *Dict) Not(c Cond) Cond { return d.bdd.Not(c) }

// And returns the conjunction of cs.
func (d *Dict) And(cs ...Cond) Cond {
	if len(cs) == 0 {
		return d.True()
	}
	return d.bdd.And(cs...)
}

// Or returns the disjunction of cs.
func (d *Dict) Or(cs ...Cond) Cond {
	if len(cs) == 0 {
		return d.False()
	}
	return d.bdd.Or(cs...)
}

// Equal reports whether a and b denote the same Boolean function.
func (d *Dict) Equal(a, b Cond) bool { return d.bdd.Equal(a, b) }

// IsTrue reports whether c holds for every valuation.
func (d *Dict) IsTrue(c Cond) bool { return d.bdd.Equal(c, d.bdd.True()) }

// IsFalse reports whether c is unsatisfiable.
func (d *Dict) IsFalse(c Cond) bool { return d.bdd.Equal(c, d.bdd.False()) }

// Format writes c as an HOA label, a disjunction of cubes over proposition
// indices such as "0&!1 | 2".
func (d *Dict) Format(c Cond) string {
	return d.format(c, strconv.Itoa, "&")
}

// FormatNames writes c like Format but with proposition names, e.g.
// "a & !b | c". Names that are not plain identifiers are quoted.
func (d *Dict) FormatNames(c Cond) string {
	return d.format(c, func(i int) string {
		name := d.aps[i]
		if isIdent(name) {
			return name
		}
		return strconv.Quote(name)
	}, " & ")
}

func (d *Dict) format(c Cond, lit func(int) string, sep string) string {
	switch {
	case d.IsTrue(c):
		return "t"
	case d.IsFalse(c):
		return "f"
	}
	var cubes []string
	err := d.bdd.Allsat(func(assign []int) error {
		var parts []string
		for i := 0; i < len(d.aps) && i < len(assign); i++ {
			switch assign[i] {
			case 0:
				parts = append(parts, "!"+lit(i))
			case 1:
				parts = append(parts, lit(i))
			}
		}
		if len(parts) == 0 {
			parts = append(parts, "t")
		}
		cubes = append(cubes, strings.Join(parts, sep))
		return nil
	}, c)
	if err != nil {
		return "f"
	}
	return strings.Join(cubes, " | ")
}

func isIdent(s string) bool {
	if s == "" || s == "t" || s == "f" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '.' || r == '-'):
		default:
			return false
		}
	}
	return true
}
