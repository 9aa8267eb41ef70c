package transform

import (
	"encoding/binary"
	"strconv"

	"github.com/matzehuels/toparity/pkg/automaton/perm"
)

// larState is a state of the IAR: a source state and its record.
type larState struct {
	state int
	perm  []int
}

// key packs the state and record into a map key. Records hold set indices
// below 64, so each fits in one byte.
func (s larState) key(buf []byte) []byte {
	buf = binary.AppendUvarint(buf[:0], uint64(s.state))
	for _, p := range s.perm {
		buf = append(buf, byte(p))
	}
	return buf
}

func (s larState) String() string {
	return strconv.Itoa(s.state) + " " + perm.Format(s.perm)
}

// stateTable numbers IAR states densely in discovery order and queues every
// new state for expansion.
type stateTable struct {
	ids    map[string]int
	states []larState // indexed by output state
	head   int        // next state to expand
	buf    []byte
}

// newStateTable returns an empty table sized for up to hint states.
func newStateTable(hint int) *stateTable {
	hint = min(hint, maxTableHint)
	return &stateTable{
		ids:    make(map[string]int, hint),
		states: make([]larState, 0, hint),
	}
}

const maxTableHint = 1 << 12

// getOrCreate returns the number of s, allocating the next one if s is new.
func (t *stateTable) getOrCreate(s larState) (id int, created bool) {
	t.buf = s.key(t.buf)
	if id, ok := t.ids[string(t.buf)]; ok {
		return id, false
	}
	id = len(t.states)
	t.ids[string(t.buf)] = id
	t.states = append(t.states, s)
	return id, true
}

// pop returns the oldest state not yet expanded.
func (t *stateTable) pop() (larState, int, bool) {
	if t.head == len(t.states) {
		return larState{}, 0, false
	}
	id := t.head
	t.head++
	return t.states[id], id, true
}

func (t *stateTable) len() int { return len(t.states) }

func (t *stateTable) names() []string {
	names := make([]string, len(t.states))
	for i, s := range t.states {
		names[i] = s.String()
	}
	return names
}
