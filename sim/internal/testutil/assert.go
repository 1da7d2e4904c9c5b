// Package testutil provides shared assertion helpers for series produced by
// the simulator. It takes plain slices so tests of sim and its subpackages
// can use it without an import cycle.
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

// AssertNonDecreasing fails if any value is smaller than its predecessor.
func AssertNonDecreasing(t *testing.T, name string, values []float64) {
	t.Helper()
	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1] {
			t.Errorf("%s: value[%d]=%v < value[%d]=%v", name, i, values[i], i-1, values[i-1])
			return
		}
	}
}

// AssertWithin fails if any value lies outside [lo, hi].
func AssertWithin(t *testing.T, name string, values []float64, lo, hi float64) {
	t.Helper()
	for i, v := range values {
		if v < lo || v > hi {
			t.Errorf("%s: value[%d]=%v outside [%v, %v]", name, i, v, lo, hi)
			return
		}
	}
}

// FirstIndexAtLeast returns the index of the first value >= threshold, or -1.
func FirstIndexAtLeast(values []float64, threshold float64) int {
	for i, v := range values {
		if v >= threshold {
			return i
		}
	}
	return -1
}
