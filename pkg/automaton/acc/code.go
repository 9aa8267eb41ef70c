package acc

import (
	"slices"
	"strconv"
	"strings"
)

// Op identifies the kind of a [Code] node.
type Op uint8

const (
	OpTrue Op = iota
	OpFalse
	OpInf
	OpFin
	OpAnd
	OpOr
)

// Code is a positive Boolean acceptance formula over Inf and Fin atoms.
//
// Codes are values: constructors never modify their arguments. The zero
// value is the formula "t".
type Code struct {
	Op   Op
	Set  int    // acceptance set, for OpInf and OpFin
	Args []Code // operands, for OpAnd and OpOr
}

// True returns the formula accepting every run.
func True() Code { return Code{Op: OpTrue} }

// False returns the formula accepting no run.
func False() Code { return Code{Op: OpFalse} }

// Inf returns the atom "set is visited infinitely often".
func Inf(set int) Code { return Code{Op: OpInf, Set: set} }

// Fin returns the atom "set is visited finitely often".
func Fin(set int) Code { return Code{Op: OpFin, Set: set} }

func constant(v bool) Code {
	if v {
		return True()
	}
	return False()
}

// And returns the conjunction of cs. Nested conjunctions are flattened,
// "t" operands dropped, and any "f" operand absorbs the whole formula.
func And(cs ...Code) Code { return junction(OpAnd, cs) }

// Or returns the disjunction of cs, simplified like [And].
func Or(cs ...Code) Code { return junction(OpOr, cs) }

func junction(op Op, cs []Code) Code {
	unit, zero := OpTrue, OpFalse
	if op == OpOr {
		unit, zero = OpFalse, OpTrue
	}
	args := make([]Code, 0, len(cs))
	for _, c := range cs {
		switch c.Op {
		case unit:
		case zero:
			return c
		case op:
			args = append(args, c.Args...)
		default:
			args = append(args, c)
		}
	}
	switch len(args) {
	case 0:
		return Code{Op: unit}
	case 1:
		return args[0]
	}
	return Code{Op: op, Args: args}
}

// Accepting reports whether a run whose infinitely-often-visited sets are
// exactly m satisfies c.
func (c Code) Accepting(m Mark) bool {
	switch c.Op {
	case OpTrue:
		return true
	case OpFalse:
		return false
	case OpInf:
		return m.Has(c.Set)
	case OpFin:
		return !m.Has(c.Set)
	case OpAnd:
		for _, a := range c.Args {
			if !a.Accepting(m) {
				return false
			}
		}
		return true
	case OpOr:
		for _, a := range c.Args {
			if a.Accepting(m) {
				return true
			}
		}
		return false
	}
	return false
}

// UsedSets returns the sets mentioned by some Inf or Fin atom of c.
func (c Code) UsedSets() Mark {
	switch c.Op {
	case OpInf, OpFin:
		if c.Set >= 0 && c.Set < MaxSets {
			return MarkOf(c.Set)
		}
	case OpAnd, OpOr:
		var m Mark
		for _, a := range c.Args {
			m |= a.UsedSets()
		}
		return m
	}
	return 0
}

// MaxSet returns the largest set index mentioned by c, or -1.
func (c Code) MaxSet() int {
	switch c.Op {
	case OpInf, OpFin:
		return c.Set
	case OpAnd, OpOr:
		best := -1
		for _, a := range c.Args {
			best = max(best, a.MaxSet())
		}
		return best
	}
	return -1
}

// Equal reports whether c and o are the same formula up to the order of
// operands in conjunctions and disjunctions.
func (c Code) Equal(o Code) bool {
	if c.Op != o.Op {
		return false
	}
	switch c.Op {
	case OpInf, OpFin:
		return c.Set == o.Set
	case OpAnd, OpOr:
		if len(c.Args) != len(o.Args) {
			return false
		}
		used := make([]bool, len(o.Args))
	next:
		for _, a := range c.Args {
			for j, b := range o.Args {
				if !used[j] && a.Equal(b) {
					used[j] = true
					continue next
				}
			}
			return false
		}
	}
	return true
}

// Fix replaces every atom over a set in sets by the constant it takes when
// those sets are (seen) or are not (!seen) visited infinitely often.
func (c Code) Fix(sets Mark, seen bool) Code {
	switch c.Op {
	case OpInf:
		if sets.Has(c.Set) {
			return constant(seen)
		}
	case OpFin:
		if sets.Has(c.Set) {
			return constant(!seen)
		}
	case OpAnd, OpOr:
		args := make([]Code, len(c.Args))
		for i, a := range c.Args {
			args[i] = a.Fix(sets, seen)
		}
		return junction(c.Op, args)
	}
	return c
}

// Strip renumbers the atoms of c as if the sets in useless were removed,
// matching [Mark.Strip]. Atoms over sets in useless must have been fixed
// beforehand.
func (c Code) Strip(useless Mark) Code {
	switch c.Op {
	case OpInf, OpFin:
		below := useless.Intersect(AllSets(c.Set)).Count()
		return Code{Op: c.Op, Set: c.Set - below}
	case OpAnd, OpOr:
		args := make([]Code, len(c.Args))
		for i, a := range c.Args {
			args[i] = a.Strip(useless)
		}
		return Code{Op: c.Op, Args: args}
	}
	return c
}

// Rename returns c with every atom over set s rewritten to f(s). Operands
// that become equal are kept once.
func (c Code) Rename(f func(int) int) Code {
	switch c.Op {
	case OpInf, OpFin:
		return Code{Op: c.Op, Set: f(c.Set)}
	case OpAnd, OpOr:
		args := make([]Code, 0, len(c.Args))
		for _, a := range c.Args {
			if r := a.Rename(f); !slices.ContainsFunc(args, r.Equal) {
				args = append(args, r)
			}
		}
		return junction(c.Op, args)
	}
	return c
}

// String formats c in HOA syntax, e.g. "Inf(2) | (Fin(1) & Inf(0))".
func (c Code) String() string {
	var b strings.Builder
	c.write(&b, false)
	return b.String()
}

func (c Code) write(b *strings.Builder, nested bool) {
	switch c.Op {
	case OpTrue:
		b.WriteByte('t')
	case OpFalse:
		b.WriteByte('f')
	case OpInf, OpFin:
		if c.Op == OpInf {
			b.WriteString("Inf(")
		} else {
			b.WriteString("Fin(")
		}
		b.WriteString(strconv.Itoa(c.Set))
		b.WriteByte(')')
	case OpAnd, OpOr:
		sep := " & "
		if c.Op == OpOr {
			sep = " | "
		}
		if nested {
			b.WriteByte('(')
		}
		for i, a := range c.Args {
			if i > 0 {
				b.WriteString(sep)
			}
			a.write(b, true)
		}
		if nested {
			b.WriteByte(')')
		}
	}
}
