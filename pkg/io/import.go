package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/toparity/pkg/automaton"
	"github.com/matzehuels/toparity/pkg/automaton/acc"
	"github.com/matzehuels/toparity/pkg/automaton/guard"
	"github.com/matzehuels/toparity/pkg/hoa"
)

// ReadJSON decodes a JSON automaton from r.
//
// State ids must be dense, starting at 0, though they may be listed in any
// order. Errors are wrapped with context describing which state or edge
// caused the problem; errors.Is recognises the automaton package's errors.
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*automaton.Graph, error) {
	var data graph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	cond, err := hoa.ParseCondition(data.Acceptance)
	if err != nil {
		return nil, fmt.Errorf("acceptance: %w", err)
	}
	dict, err := guard.NewDict(data.APs...)
	if err != nil {
		return nil, err
	}

	meta := automaton.Metadata{}
	if data.Name != "" {
		meta["name"] = data.Name
	}
	g := automaton.New(dict, meta)
	g.NewStates(len(data.States))
	g.SetAcceptance(cond)

	names := make([]string, len(data.States))
	named := false
	for _, st := range data.States {
		if st.ID < 0 || st.ID >= len(data.States) {
			return nil, fmt.Errorf("state %d: %w", st.ID, automaton.ErrUnknownState)
		}
		if st.Name != "" {
			names[st.ID], named = st.Name, true
		}
	}
	// Edges are added in state order so that Out matches the written file.
	byID := make([]*state, len(data.States))
	for i := range data.States {
		byID[data.States[i].ID] = &data.States[i]
	}
	for id, st := range byID {
		if st == nil {
			return nil, fmt.Errorf("state %d: missing", id)
		}
		for _, e := range st.Edges {
			cond, err := hoa.ParseLabel(dict, e.Label)
			if err != nil {
				return nil, fmt.Errorf("state %d: label %q: %w", id, e.Label, err)
			}
			var m acc.Mark
			for _, s := range e.Acc {
				if s < 0 || s >= acc.MaxSets {
					return nil, fmt.Errorf("state %d: %w: %d", id, automaton.ErrInvalidMark, s)
				}
				m = m.With(s)
			}
			if _, err := g.NewUnivEdge(id, e.To, cond, m); err != nil {
				return nil, fmt.Errorf("edge %d->%v: %w", id, e.To, err)
			}
		}
	}
	if len(data.Start) > 0 {
		if err := g.SetUnivInit(data.Start); err != nil {
			return nil, fmt.Errorf("start: %w", err)
		}
	}
	if named {
		if err := g.SetStateNames(names); err != nil {
			return nil, err
		}
	}
	if g.NumStates() > 0 {
		if err := g.Validate(); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// ImportJSON reads a JSON file at path and returns the decoded automaton.
// See [ReadJSON] for the validation performed.
func ImportJSON(path string) (*automaton.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
