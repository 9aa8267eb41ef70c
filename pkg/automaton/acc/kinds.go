package acc

// Buchi returns Inf(0).
func Buchi() Code { return Inf(0) }

// CoBuchi returns Fin(0).
func CoBuchi() Code { return Fin(0) }

// GeneralizedBuchi returns Inf(0) & ... & Inf(n-1).
func GeneralizedBuchi(n int) Code {
	cs := make([]Code, n)
	for i := range cs {
		cs[i] = Inf(i)
	}
	return And(cs...)
}

// GeneralizedCoBuchi returns Fin(0) | ... | Fin(n-1).
func GeneralizedCoBuchi(n int) Code {
	cs := make([]Code, n)
	for i := range cs {
		cs[i] = Fin(i)
	}
	return Or(cs...)
}

// Rabin returns the disjunction over pairs i of Fin(2i) & Inf(2i+1).
func Rabin(pairs int) Code {
	cs := make([]Code, pairs)
	for i := range cs {
		cs[i] = And(Fin(2*i), Inf(2*i+1))
	}
	return Or(cs...)
}

// Streett returns the conjunction over pairs i of Fin(2i) | Inf(2i+1).
func Streett(pairs int) Code {
	cs := make([]Code, pairs)
	for i := range cs {
		cs[i] = Or(Fin(2*i), Inf(2*i+1))
	}
	return And(cs...)
}

// Parity returns the canonical parity formula over n priorities.
//
// With max set, the largest priority seen infinitely often decides; with
// odd set, odd priorities are the accepting ones. For instance
// Parity(true, false, 3) is "Inf(2) | (Fin(1) & Inf(0))" and
// Parity(false, true, 3) is "Fin(0) & (Inf(1) | Fin(2))".
func Parity(max, odd bool, n int) Code {
	good := func(k int) bool { return (k%2 == 0) != odd }
	step := func(k int, rest Code) Code {
		if good(k) {
			return Or(Inf(k), rest)
		}
		return And(Fin(k), rest)
	}
	if max {
		// Priorities below 0 never occur; the empty run decides by parity of -1.
		res := constant(odd)
		for k := 0; k < n; k++ {
			res = step(k, res)
		}
		return res
	}
	res := constant(good(n))
	for k := n - 1; k >= 0; k-- {
		res = step(k, res)
	}
	return res
}
