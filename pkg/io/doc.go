// Package io provides JSON import and export for omega-automata.
//
// # JSON Format
//
//	{
//	  "name": "GFa",
//	  "aps": ["a"],
//	  "acceptance": "1 Inf(0)",
//	  "acc_name": "Buchi",
//	  "start": [0],
//	  "states": [
//	    {"id": 0, "edges": [
//	      {"to": [0], "label": "0", "acc": [0]},
//	      {"to": [0], "label": "!0"}
//	    ]}
//	  ]
//	}
//
// Labels use HOA label syntax over proposition indices, and "acceptance" is
// the value of an HOA Acceptance header (see package hoa). An edge with more
// than one "to" state is universal. "acc_name" is informational and
// ignored on import.
//
// # Import
//
// Use [ImportJSON] to read an automaton from a file path, or [ReadJSON] to
// read from any io.Reader. Both validate state references and acceptance
// marks.
//
// # Export
//
// Use [ExportJSON] to write an automaton to a file, or [WriteJSON] to write
// to any io.Writer. Export followed by import reproduces states, edge order,
// guards, marks, state names and the acceptance condition.
package io
