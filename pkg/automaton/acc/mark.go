package acc

import (
	"fmt"
	"iter"
	"math/bits"
	"strconv"
	"strings"
)

// MaxSets is the number of acceptance sets a [Mark] can address.
const MaxSets = 64

// Mark is an immutable set of acceptance set indices, stored as a bit vector.
// Bit i is set when the edge carrying the mark belongs to acceptance set i.
//
// The zero value is the empty mark.
type Mark uint64

// MarkOf returns the mark containing exactly the given sets.
// It panics if a set index is outside [0, MaxSets).
func MarkOf(sets ...int) Mark {
	var m Mark
	for _, s := range sets {
		m = m.With(s)
	}
	return m
}

// AllSets returns the mark containing sets 0 through n-1.
func AllSets(n int) Mark {
	switch {
	case n <= 0:
		return 0
	case n >= MaxSets:
		return ^Mark(0)
	}
	return Mark(1)<<uint(n) - 1
}

// With returns m with set i added.
// It panics if i is outside [0, MaxSets).
func (m Mark) With(i int) Mark {
	if i < 0 || i >= MaxSets {
		panic(fmt.Sprintf("acc: set index %d out of range [0,%d)", i, MaxSets))
	}
	return m | Mark(1)<<uint(i)
}

// Has reports whether set i belongs to m.
func (m Mark) Has(i int) bool {
	if i < 0 || i >= MaxSets {
		return false
	}
	return m&(Mark(1)<<uint(i)) != 0
}

// Union returns the sets in m or o.
func (m Mark) Union(o Mark) Mark { return m | o }

// Intersect returns the sets in both m and o.
func (m Mark) Intersect(o Mark) Mark { return m & o }

// Minus returns the sets of m that are not in o.
func (m Mark) Minus(o Mark) Mark { return m &^ o }

// IsEmpty reports whether m contains no set.
func (m Mark) IsEmpty() bool { return m == 0 }

// Count returns the number of sets in m.
func (m Mark) Count() int { return bits.OnesCount64(uint64(m)) }

// Max returns the largest set index in m, or -1 if m is empty.
func (m Mark) Max() int {
	if m == 0 {
		return -1
	}
	return bits.Len64(uint64(m)) - 1
}

// Sets iterates over the set indices of m in ascending order.
func (m Mark) Sets() iter.Seq[int] {
	return func(yield func(int) bool) {
		for rest := uint64(m); rest != 0; rest &= rest - 1 {
			if !yield(bits.TrailingZeros64(rest)) {
				return
			}
		}
	}
}

// Slice returns the set indices of m in ascending order.
func (m Mark) Slice() []int {
	out := make([]int, 0, m.Count())
	for s := range m.Sets() {
		out = append(out, s)
	}
	return out
}

// Strip removes the sets in useless from m and renumbers the remaining sets
// so that they stay dense: every set above a removed one moves down by one.
func (m Mark) Strip(useless Mark) Mark {
	if useless == 0 {
		return m
	}
	var out Mark
	shift := 0
	for i := 0; i < MaxSets; i++ {
		if useless.Has(i) {
			shift++
			continue
		}
		if m.Has(i) {
			out |= Mark(1) << uint(i-shift)
		}
	}
	return out
}

// String formats m as "{0,2,5}".
func (m Mark) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for s := range m.Sets() {
		if !first {
			b.WriteByte(',')
		}
		first = false
		b.WriteString(strconv.Itoa(s))
	}
	b.WriteByte('}')
	return b.String()
}
