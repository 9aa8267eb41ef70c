// Package perm provides helpers for permutations of acceptance set indices,
// the records tracked by index appearance record constructions.
package perm

import (
	"math"
	"strconv"
	"strings"
)

// Seq returns the identity permutation [0, 1, ..., n-1].
// For n <= 0, Seq returns an empty slice.
func Seq(n int) []int {
	result := make([]int, max(n, 0))
	for i := range result {
		result[i] = i
	}
	return result
}

// Factorial returns n!, the number of permutations of n elements.
// For n <= 1, Factorial returns 1. Results that do not fit in an int
// saturate at math.MaxInt.
func Factorial(n int) int {
	result := 1
	for i := 2; i <= n; i++ {
		if result > math.MaxInt/i {
			return math.MaxInt
		}
		result *= i
	}
	return result
}

// Format renders p as "[0,1,2]".
func Format(p []int) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range p {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	b.WriteByte(']')
	return b.String()
}
