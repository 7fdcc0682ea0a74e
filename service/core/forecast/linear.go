package forecast

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// LinearDelta fits close against the index 0..n-1 and returns the projection at n minus the last close
func LinearDelta(closes []float64) (float64, error) {
	n := len(closes)
	if n < 2 {
		return math.NaN(), ErrInsufficientHistory
	}

	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}

	alpha, beta := stat.LinearRegression(x, closes, nil, false)
	next := alpha + beta*float64(n)

	return next - closes[n-1], nil
}
