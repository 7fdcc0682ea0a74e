package extensions

import (
	"math"
	"testing"
)

func AssertAreEqual[T comparable](t *testing.T, name string, expected T, actual T) {
	t.Helper()
	if expected != actual {
		t.Fatalf("value mismatch for %s, expected %v, got %v", name, expected, actual)
	}
}

// AssertInDelta compares floats with a tolerance, two NaNs are considered equal
func AssertInDelta(t *testing.T, name string, expected, actual, delta float64) {
	t.Helper()
	if math.IsNaN(expected) && math.IsNaN(actual) {
		return
	}
	if math.IsNaN(actual) || math.Abs(expected-actual) > delta {
		t.Fatalf("value mismatch for %s, expected %v (+/- %v), got %v", name, expected, delta, actual)
	}
}

func AssertNaN(t *testing.T, name string, actual float64) {
	t.Helper()
	if !math.IsNaN(actual) {
		t.Fatalf("expected %s to be NaN, got %v", name, actual)
	}
}
