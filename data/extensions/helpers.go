package extensions

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Number is anything we do arithmetic on in the series helpers
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// FilterMultiple return all elements that satisfy the predicate
func FilterMultiple[T any](elements []T, predicate func(T) bool) (results []T) {
	for _, element := range elements {
		if predicate(element) {
			results = append(results, element)
		}
	}
	return
}

// FilterFirst return the first element that satisfies the predicate, and if one was found
func FilterFirst[T any](elements []T, predicate func(T) bool) (result T, found bool) {
	for _, element := range elements {
		if predicate(element) {
			return element, true
		}
	}
	return
}

// FilterSingle return the single element that satisfies the predicate.
// If zero or more than one, default T and an error is returned.
func FilterSingle[T any](elements []T, predicate func(T) bool) (T, error) {
	res := FilterMultiple(elements, predicate)

	if len(res) != 1 {
		var zero T
		return zero, fmt.Errorf("error getting single, found %d matches", len(res))
	}

	return res[0], nil
}

// Map projects every element through fn
func Map[T, R any](elements []T, fn func(T) R) []R {
	res := make([]R, len(elements))
	for i, element := range elements {
		res[i] = fn(element)
	}
	return res
}

// IndexOfFold finds a header by case invariant comparison, -1 if it is not there
func IndexOfFold(values []string, target string) int {
	for i, v := range values {
		if AreEqual(strings.TrimSpace(v), target) {
			return i
		}
	}
	return -1
}

// AreEqual is a simple case invariant string comparason
func AreEqual(s, c string) bool {
	return strings.EqualFold(s, c)
}

// IsFinite is false for NaN and both infinities
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FmtShort formats a time in a date only string
func FmtShort(t time.Time) string {
	return t.Format(time.DateOnly)
}

// FmtLong formats a time to a full date string
func FmtLong(t time.Time) string {
	return t.Format(time.RFC3339)
}

func Min[T Number](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Sum[T Number](inp []T) (res T) {
	for _, v := range inp {
		res += v
	}
	return
}
