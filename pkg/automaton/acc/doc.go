// Package acc implements Emerson-Lei acceptance conditions for
// omega-automata: sets of acceptance marks carried by edges, positive
// Boolean formulas over Inf and Fin atoms, and recognition of the common
// named conditions (Büchi, Rabin, Streett, parity and their variants).
//
// A run is accepting when the set of acceptance sets it visits infinitely
// often satisfies the formula:
//
//	cond := acc.MustCondition(2, acc.GeneralizedBuchi(2))
//	cond.Accepting(acc.MarkOf(0, 1)) // true
//	cond.Accepting(acc.MarkOf(1))    // false
//
// Parity conditions come in four flavours, selected by whether the maximal
// or minimal priority decides and whether even or odd priorities are good.
// [Parity] builds the canonical formula for each flavour and
// [Condition.ParityStyle] recognises it, up to operand order.
package acc
