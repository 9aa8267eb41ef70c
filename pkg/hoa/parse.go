package hoa

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/matzehuels/toparity/pkg/automaton"
	"github.com/matzehuels/toparity/pkg/automaton/acc"
	"github.com/matzehuels/toparity/pkg/automaton/guard"
)

// ErrAborted is returned when the input ends with --ABORT--.
var ErrAborted = errors.New("hoa: automaton aborted by producer")

// MaxStates is the largest number of states Parse accepts. Smaller inputs
// get a tighter bound, see [stateBudget].
const MaxStates = 1 << 22

// stateBudget returns how many states an input of size bytes may declare or
// reference. States without a "State:" line are allowed, so the bound is
// loose, but it keeps a short header from allocating gigabytes.
func stateBudget(size int) int {
	return min(size/8+1024, MaxStates)
}

// ParseError reports malformed or unsupported HOA input.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("hoa: line %d: %s", e.Line, e.Msg)
	}
	return "hoa: " + e.Msg
}

// Read parses one automaton in HOA format from r.
func Read(r io.Reader) (*automaton.Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("hoa: read: %w", err)
	}
	return Parse(data)
}

// Parse parses one automaton in HOA format.
//
// Supported are explicit transition labels, state-based or transition-based
// marks (state marks are copied onto the leaving edges), universal
// destinations and initial states written with '&', and state names.
// Implicit labels, aliases and negated Inf/Fin atoms are rejected.
func Parse(data []byte) (*automaton.Graph, error) {
	toks, err := lex(string(data))
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, size: len(data)}
	return p.automaton()
}

// ParseAcceptance parses an acceptance formula such as
// "Inf(0) & (Fin(1) | Inf(2))".
func ParseAcceptance(s string) (acc.Code, error) {
	toks, err := lex(s)
	if err != nil {
		return acc.Code{}, err
	}
	p := &parser{toks: toks}
	code, err := p.accOr()
	if err != nil {
		return acc.Code{}, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return acc.Code{}, p.errorf("unexpected %v after acceptance formula", t)
	}
	return code, nil
}

// ParseCondition parses the value of an Acceptance header, such as
// "2 Inf(0) & Inf(1)".
func ParseCondition(s string) (acc.Condition, error) {
	toks, err := lex(s)
	if err != nil {
		return acc.Condition{}, err
	}
	p := &parser{toks: toks}
	cond, err := p.condition()
	if err != nil {
		return acc.Condition{}, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return acc.Condition{}, p.errorf("unexpected %v after acceptance", t)
	}
	return cond, nil
}

// ParseLabel parses an HOA label expression such as "0 & !1 | t" into a
// guard of dict.
func ParseLabel(dict *guard.Dict, s string) (guard.Cond, error) {
	toks, err := lex(s)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, dict: dict}
	c, err := p.labelOr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.errorf("unexpected %v after label", t)
	}
	return c, nil
}

type parser struct {
	toks []token
	pos  int
	size int // input length in bytes
	dict *guard.Dict
}

type rawEdge struct {
	cond guard.Cond
	dsts []int
	acc  acc.Mark
	line int
}

type rawState struct {
	name  string
	named bool
	acc   acc.Mark
	edges []rawEdge
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Line: p.peek().line, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) isPunct(s string) bool {
	t := p.peek()
	return t.kind == tokPunct && t.text == s
}

func (p *parser) expectPunct(s string) error {
	if !p.isPunct(s) {
		return p.errorf("expected %q, got %v", s, p.peek())
	}
	p.next()
	return nil
}

func (p *parser) expectInt() (int, error) {
	t := p.peek()
	if t.kind != tokInt {
		return 0, p.errorf("expected number, got %v", t)
	}
	p.next()
	return t.num, nil
}

func (p *parser) automaton() (*automaton.Graph, error) {
	if t := p.next(); t.kind != tokHeader || t.text != "HOA:" {
		return nil, &ParseError{Line: t.line, Msg: "missing HOA: header"}
	}
	if t := p.next(); t.kind != tokIdent || t.text != "v1" {
		return nil, &ParseError{Line: t.line, Msg: fmt.Sprintf("unsupported HOA version %v", t)}
	}

	var (
		name      string
		numStates = -1
		starts    [][]int
		aps       []string
		cond      acc.Condition
		haveAcc   bool
	)
	for {
		t := p.peek()
		if t.kind == tokBody {
			p.next()
			break
		}
		if t.kind != tokHeader {
			return nil, p.errorf("expected header or --BODY--, got %v", t)
		}
		p.next()
		var err error
		switch t.text {
		case "name:":
			s := p.next()
			if s.kind != tokString {
				return nil, &ParseError{Line: s.line, Msg: "name: expects a string"}
			}
			name = s.text
		case "States:":
			if numStates, err = p.expectInt(); err == nil && numStates > stateBudget(p.size) {
				err = p.errorf("States: %d exceeds the limit of %d for a %d-byte input",
					numStates, stateBudget(p.size), p.size)
			}
		case "Start:":
			var start []int
			start, err = p.conjunction()
			starts = append(starts, start)
		case "AP:":
			aps, err = p.apList()
		case "Acceptance:":
			cond, err = p.condition()
			haveAcc = true
		case "State:":
			return nil, p.errorf("State: before --BODY--")
		default:
			p.skipHeader()
		}
		if err != nil {
			return nil, err
		}
	}
	if !haveAcc {
		return nil, p.errorf("missing Acceptance: header")
	}
	if len(starts) > 1 {
		return nil, p.errorf("%d Start: headers; only one initial state is supported", len(starts))
	}

	dict, err := guard.NewDict(aps...)
	if err != nil {
		return nil, err
	}
	p.dict = dict

	states, err := p.body()
	if err != nil {
		return nil, err
	}
	return build(dict, name, numStates, starts, cond, states, stateBudget(p.size))
}

// skipHeader drops the values of a header this parser does not interpret.
func (p *parser) skipHeader() {
	for {
		switch p.peek().kind {
		case tokHeader, tokBody, tokEOF:
			return
		}
		p.next()
	}
}

func (p *parser) conjunction() ([]int, error) {
	first, err := p.expectInt()
	if err != nil {
		return nil, err
	}
	out := []int{first}
	for p.isPunct("&") {
		p.next()
		s, err := p.expectInt()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (p *parser) apList() ([]string, error) {
	n, err := p.expectInt()
	if err != nil {
		return nil, err
	}
	// n comes from the input; grow with the names actually present.
	var aps []string
	for range n {
		t := p.next()
		if t.kind != tokString {
			return nil, &ParseError{Line: t.line, Msg: fmt.Sprintf("AP: expected %d names", n)}
		}
		aps = append(aps, t.text)
	}
	return aps, nil
}

func (p *parser) condition() (acc.Condition, error) {
	n, err := p.expectInt()
	if err != nil {
		return acc.Condition{}, err
	}
	line := p.peek().line
	code, err := p.accOr()
	if err != nil {
		return acc.Condition{}, err
	}
	cond, err := acc.NewCondition(n, code)
	if err != nil {
		return acc.Condition{}, &ParseError{Line: line, Msg: err.Error()}
	}
	return cond, nil
}

func (p *parser) accOr() (acc.Code, error) {
	first, err := p.accAnd()
	if err != nil {
		return acc.Code{}, err
	}
	args := []acc.Code{first}
	for p.isPunct("|") {
		p.next()
		c, err := p.accAnd()
		if err != nil {
			return acc.Code{}, err
		}
		args = append(args, c)
	}
	return acc.Or(args...), nil
}

func (p *parser) accAnd() (acc.Code, error) {
	first, err := p.accAtom()
	if err != nil {
		return acc.Code{}, err
	}
	args := []acc.Code{first}
	for p.isPunct("&") {
		p.next()
		c, err := p.accAtom()
		if err != nil {
			return acc.Code{}, err
		}
		args = append(args, c)
	}
	return acc.And(args...), nil
}

func (p *parser) accAtom() (acc.Code, error) {
	t := p.peek()
	switch {
	case t.kind == tokPunct && t.text == "(":
		p.next()
		c, err := p.accOr()
		if err != nil {
			return acc.Code{}, err
		}
		return c, p.expectPunct(")")
	case t.kind == tokIdent && t.text == "t":
		p.next()
		return acc.True(), nil
	case t.kind == tokIdent && t.text == "f":
		p.next()
		return acc.False(), nil
	case t.kind == tokIdent && (t.text == "Inf" || t.text == "Fin"):
		p.next()
		if err := p.expectPunct("("); err != nil {
			return acc.Code{}, err
		}
		if p.isPunct("!") {
			return acc.Code{}, p.errorf("negated acceptance sets are not supported")
		}
		set, err := p.expectInt()
		if err != nil {
			return acc.Code{}, err
		}
		if set >= acc.MaxSets {
			return acc.Code{}, p.errorf("acceptance set %d exceeds %d", set, acc.MaxSets-1)
		}
		if err := p.expectPunct(")"); err != nil {
			return acc.Code{}, err
		}
		if t.text == "Inf" {
			return acc.Inf(set), nil
		}
		return acc.Fin(set), nil
	}
	return acc.Code{}, p.errorf("unexpected %v in acceptance formula", t)
}

func (p *parser) labelOr() (guard.Cond, error) {
	first, err := p.labelAnd()
	if err != nil {
		return nil, err
	}
	args := []guard.Cond{first}
	for p.isPunct("|") {
		p.next()
		c, err := p.labelAnd()
		if err != nil {
			return nil, err
		}
		args = append(args, c)
	}
	if len(args) == 1 {
		return first, nil
	}
	return p.dict.Or(args...), nil
}

func (p *parser) labelAnd() (guard.Cond, error) {
	first, err := p.labelAtom()
	if err != nil {
		return nil, err
	}
	args := []guard.Cond{first}
	for p.isPunct("&") {
		p.next()
		c, err := p.labelAtom()
		if err != nil {
			return nil, err
		}
		args = append(args, c)
	}
	if len(args) == 1 {
		return first, nil
	}
	return p.dict.And(args...), nil
}

func (p *parser) labelAtom() (guard.Cond, error) {
	t := p.peek()
	switch {
	case t.kind == tokPunct && t.text == "!":
		p.next()
		c, err := p.labelAtom()
		if err != nil {
			return nil, err
		}
		return p.dict.Not(c), nil
	case t.kind == tokPunct && t.text == "(":
		p.next()
		c, err := p.labelOr()
		if err != nil {
			return nil, err
		}
		return c, p.expectPunct(")")
	case t.kind == tokIdent && t.text == "t":
		p.next()
		return p.dict.True(), nil
	case t.kind == tokIdent && t.text == "f":
		p.next()
		return p.dict.False(), nil
	case t.kind == tokInt:
		p.next()
		v, err := p.dict.Var(t.num)
		if err != nil {
			return nil, &ParseError{Line: t.line, Msg: err.Error()}
		}
		return v, nil
	case t.kind == tokIdent && len(t.text) > 0 && t.text[0] == '@':
		return nil, p.errorf("aliases are not supported")
	}
	return nil, p.errorf("unexpected %v in label", t)
}

func (p *parser) marks() (acc.Mark, error) {
	var m acc.Mark
	if !p.isPunct("{") {
		return m, nil
	}
	p.next()
	for !p.isPunct("}") {
		set, err := p.expectInt()
		if err != nil {
			return 0, err
		}
		if set >= acc.MaxSets {
			return 0, p.errorf("acceptance set %d exceeds %d", set, acc.MaxSets-1)
		}
		m = m.With(set)
	}
	p.next()
	return m, nil
}

func (p *parser) body() (map[int]*rawState, error) {
	states := make(map[int]*rawState)
	for {
		t := p.next()
		switch {
		case t.kind == tokEnd:
			return states, nil
		case t.kind == tokAbort:
			return nil, ErrAborted
		case t.kind != tokHeader || t.text != "State:":
			return nil, &ParseError{Line: t.line, Msg: fmt.Sprintf("expected State: or --END--, got %v", t)}
		}
		if p.isPunct("[") {
			return nil, p.errorf("state labels are not supported")
		}
		id, err := p.expectInt()
		if err != nil {
			return nil, err
		}
		if _, dup := states[id]; dup {
			return nil, &ParseError{Line: t.line, Msg: fmt.Sprintf("state %d defined twice", id)}
		}
		st := &rawState{}
		if s := p.peek(); s.kind == tokString {
			p.next()
			st.name, st.named = s.text, true
		}
		if st.acc, err = p.marks(); err != nil {
			return nil, err
		}
		states[id] = st

		for {
			e := p.peek()
			if e.kind == tokInt {
				return nil, p.errorf("implicit labels are not supported")
			}
			if !p.isPunct("[") {
				break
			}
			p.next()
			cond, err := p.labelOr()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct("]"); err != nil {
				return nil, err
			}
			dsts, err := p.conjunction()
			if err != nil {
				return nil, err
			}
			m, err := p.marks()
			if err != nil {
				return nil, err
			}
			st.edges = append(st.edges, rawEdge{cond: cond, dsts: dsts, acc: m, line: e.line})
		}
	}
}

func build(dict *guard.Dict, name string, numStates int, starts [][]int, cond acc.Condition, states map[int]*rawState, budget int) (*automaton.Graph, error) {
	if numStates < 0 {
		numStates = 0
		for id, st := range states {
			numStates = max(numStates, id+1)
			for _, e := range st.edges {
				numStates = max(numStates, slices.Max(e.dsts)+1)
			}
		}
		for _, s := range starts {
			numStates = max(numStates, slices.Max(s)+1)
		}
		if numStates > budget {
			return nil, &ParseError{Msg: fmt.Sprintf("state %d exceeds the limit of %d states for this input", numStates-1, budget)}
		}
	}

	meta := automaton.Metadata{}
	if name != "" {
		meta["name"] = name
	}
	g := automaton.New(dict, meta)
	g.NewStates(numStates)
	g.SetAcceptance(cond)

	if len(starts) == 1 {
		if err := g.SetUnivInit(starts[0]); err != nil {
			return nil, &ParseError{Msg: "Start: " + err.Error()}
		}
	}

	ids := slices.Sorted(maps.Keys(states))
	named := false
	names := make([]string, numStates)
	for _, id := range ids {
		st := states[id]
		if id >= numStates {
			return nil, &ParseError{Msg: fmt.Sprintf("state %d exceeds States: %d", id, numStates)}
		}
		if st.named {
			named = true
			names[id] = st.name
		}
		for _, e := range st.edges {
			if _, err := g.NewUnivEdge(id, e.dsts, e.cond, e.acc.Union(st.acc)); err != nil {
				return nil, &ParseError{Line: e.line, Msg: err.Error()}
			}
		}
	}
	if named {
		if err := g.SetStateNames(names); err != nil {
			return nil, err
		}
	}
	if numStates > 0 {
		if err := g.Validate(); err != nil {
			return nil, fmt.Errorf("hoa: %w", err)
		}
	}
	return g, nil
}
