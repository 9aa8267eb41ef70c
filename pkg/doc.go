// Package pkg provides the core libraries of toparity.
//
// # Overview
//
// toparity converts omega-automata with arbitrary Emerson-Lei acceptance
// conditions into equivalent parity automata. The pkg directory is organized
// into three areas:
//
//  1. [automaton] - Domain logic (transition graphs, acceptance conditions,
//     guards, the parity construction)
//  2. [hoa], [io], [render] - Encodings (HOA, JSON, DOT/SVG/PDF/PNG)
//  3. [pipeline], [cache], [server], [config], [observability] - Orchestration
//     and infrastructure
//
// # Architecture
//
// The typical data flow through toparity:
//
//	HOA or JSON input
//	         ↓
//	    [hoa] / [io] (decode)
//	         ↓
//	    [automaton/transform] (cleanup, index appearance record)
//	         ↓
//	    [hoa] / [io] / [render] (encode)
//	         ↓
//	    HOA/JSON/DOT/SVG/PDF/PNG output
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/toparity/pkg/automaton/transform"
//	    "github.com/matzehuels/toparity/pkg/hoa"
//	)
//
//	g, _ := hoa.Parse(data)
//	p, _ := transform.ToParity(g, true)
//	hoa.Write(os.Stdout, p)
//
// # Main Packages
//
// [automaton] - Transition-based omega-automata with BDD guards. Subpackages
// [automaton/acc] for acceptance conditions and marks, [automaton/guard] for
// guards over atomic propositions, [automaton/perm] for permutation helpers
// and [automaton/transform] for the parity construction.
//
// [pipeline] - Decode, convert and encode with caching, used by both the CLI
// and the HTTP API.
//
// [cache] - Result caching with file, BadgerDB, Redis and MongoDB backends.
//
// [errors] - Structured error codes shared by the CLI and the HTTP API.
package pkg
