// Package transform provides acceptance transformations on omega-automata.
//
// # Overview
//
// [ToParity] converts an existential automaton with an arbitrary
// Emerson-Lei acceptance condition (generalized Büchi, Rabin, Streett or any
// other Inf/Fin formula) into an equivalent automaton with a parity max even
// condition, using the index appearance record (IAR) construction, also
// known as the latest appearance record.
//
// # Index Appearance Records
//
// Each output state pairs a source state with a permutation of the source's
// acceptance sets ordered from least to most recently visited. Crossing an
// edge moves the sets of its mark to the tail of the permutation in
// ascending order ([Rotate]). If h is the length of the shortest suffix
// holding all moved sets, the output edge gets priority 2h when those h
// sets satisfy the source condition and 2h+1 otherwise ([Color]).
//
// Output states are discovered breadth first from (initial state, identity
// permutation) and numbered in discovery order, so the result is fully
// deterministic for a given edge order.
//
// # Cost
//
// The output can have up to n! × |S| states ([StateBound]), where n is the
// number of acceptance sets and S the source states. Use [ToParityContext] with
// [Options.MaxStates] or a context deadline to bound the work.
//
// # Acceptance Cleanup
//
// [CleanupAcceptance] removes acceptance sets that cannot influence
// acceptance, which reduces n and so the size of the IAR.
// [SimplifyAcceptance] also merges sets that always occur together and
// simplifies the formula around complementary sets.
package transform
