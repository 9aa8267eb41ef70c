package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/toparity/pkg/automaton"
)

type graph struct {
	Name       string   `json:"name,omitempty"`
	APs        []string `json:"aps"`
	Acceptance string   `json:"acceptance"`
	AccName    string   `json:"acc_name,omitempty"`
	Start      []int    `json:"start"`
	States     []state  `json:"states"`
}

type state struct {
	ID    int    `json:"id"`
	Name  string `json:"name,omitempty"`
	Edges []edge `json:"edges,omitempty"`
}

type edge struct {
	To    []int  `json:"to"`
	Label string `json:"label"`
	Acc   []int  `json:"acc,omitempty"`
}

// WriteJSON encodes an automaton as JSON and writes it to w.
// Guards are written as HOA label expressions and the acceptance condition
// as the value of an HOA Acceptance header.
// The output can be re-imported with [ReadJSON].
func WriteJSON(g *automaton.Graph, w io.Writer) error {
	dict := g.Dict()
	out := graph{
		Name:       g.Name(),
		APs:        dict.APs(),
		Acceptance: g.Acceptance().String(),
		AccName:    g.Acceptance().Name(),
		Start:      g.InitStates(),
		States:     make([]state, g.NumStates()),
	}
	for s := range g.NumStates() {
		st := state{ID: s, Name: g.StateName(s)}
		for e := range g.Out(s) {
			st.Edges = append(st.Edges, edge{
				To:    e.Dsts(),
				Label: dict.Format(e.Cond),
				Acc:   e.Acc.Slice(),
			})
		}
		out.States[s] = st
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes an automaton to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *automaton.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
