// Package testutil provides assertions and signal generators shared by the demodulator tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertSymmetric verifies that a coefficient set is symmetric (s[i] == s[n-1-i]).
func AssertSymmetric(t *testing.T, s []float64, tolerance float64) bool {
	t.Helper()
	n := len(s)
	for i := range n / 2 {
		j := n - 1 - i
		if !assert.InDelta(t, s[i], s[j], tolerance,
			"not symmetric at i=%d: s[%d]=%g != s[%d]=%g", i, i, s[i], j, s[j]) {
			return false
		}
	}
	return true
}

// AssertFinite verifies that no element is NaN or Inf.
func AssertFinite(t *testing.T, s []float64) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return assert.Fail(t, "non-finite value", "s[%d] = %v", i, v)
		}
	}
	return true
}

// AssertAllNear verifies that every element is within tolerance of want.
// Only the first offending index is reported.
func AssertAllNear(t *testing.T, s []float64, want, tolerance float64) bool {
	t.Helper()
	for i, v := range s {
		if math.Abs(v-want) > tolerance {
			return assert.Fail(t, "value out of tolerance",
				"s[%d]=%f, want %f ± %f (%d samples checked)", i, v, want, tolerance, len(s))
		}
	}
	return true
}

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%g, actual=%g)",
		relError, tolerance, expected, actual)
}

// MaxStep returns the largest absolute difference between neighbouring samples.
func MaxStep(s []float64) float64 {
	var step float64
	for i := 1; i < len(s); i++ {
		step = max(step, math.Abs(s[i]-s[i-1]))
	}
	return step
}
