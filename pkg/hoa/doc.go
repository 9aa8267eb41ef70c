// Package hoa reads and writes omega-automata in the Hanoi Omega-Automata
// format (HOA v1, https://adl.github.io/hoaf/).
//
// [Parse] and [Read] accept the subset of HOA produced by common tools:
// explicit transition labels over numbered atomic propositions, state- or
// transition-based acceptance marks, arbitrary Inf/Fin acceptance formulas,
// universal branching and state names. [Write] always emits
// transition-based acceptance.
//
//	g, err := hoa.Parse(data)
//	if err != nil {
//		return err
//	}
//	return hoa.Write(os.Stdout, g)
package hoa
