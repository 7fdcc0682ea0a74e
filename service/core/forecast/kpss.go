package forecast

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// 5% critical value for the level stationary kpss test
const kpssCritical = 0.463

// KPSS returns the level stationarity statistic with the short bartlett lag trunc(3*sqrt(n)/13).
// A series with no variance is stationary and returns 0.
func KPSS(x []float64) float64 {
	n := len(x)
	if n < 2 {
		return 0
	}

	mean := stat.Mean(x, nil)
	e := make([]float64, n)
	for i, v := range x {
		e[i] = v - mean
	}

	var eta, s float64
	for _, v := range e {
		s += v
		eta += s * s
	}
	eta /= float64(n * n)

	lag := int(math.Trunc(3 * math.Sqrt(float64(n)) / 13))
	var s2 float64
	for _, v := range e {
		s2 += v * v
	}
	for l := 1; l <= lag; l++ {
		var cov float64
		for t := l; t < n; t++ {
			cov += e[t] * e[t-l]
		}
		s2 += 2 * (1 - float64(l)/float64(lag+1)) * cov
	}
	s2 /= float64(n)

	if s2 <= 1e-12*math.Max(1, mean*mean) {
		return 0
	}

	return eta / s2
}

// NDiffs is how many differences, up to maxD, it takes for kpss to stop rejecting
func NDiffs(x []float64, maxD int) int {
	d := 0
	cur := x
	for d < maxD && len(cur) > 3 && KPSS(cur) > kpssCritical {
		cur = Difference(cur)
		d++
	}
	return d
}

func Difference(x []float64) []float64 {
	if len(x) < 2 {
		return nil
	}
	res := make([]float64, len(x)-1)
	for i := 1; i < len(x); i++ {
		res[i-1] = x[i] - x[i-1]
	}
	return res
}
