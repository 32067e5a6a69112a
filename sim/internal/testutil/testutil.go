// Package testutil provides shared assertion helpers for the simulator's
// test packages.
package testutil

import (
	"math"
	"testing"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertRate checks that an observed event fraction matches an expected
// probability within an absolute tolerance. Used for statistical checks on
// seeded simulations, where the tolerance budgets the sampling noise.
func AssertRate(t *testing.T, name string, want, got, tol float64) {
	t.Helper()
	if math.Abs(want-got) > tol {
		t.Errorf("%s: observed rate %v, expected %v +/- %v", name, got, want, tol)
	}
}
