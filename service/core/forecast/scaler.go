package forecast

import (
	"gonum.org/v1/gonum/floats"
)

// MinMaxScaler maps the fitted range onto [0, 1]
type MinMaxScaler struct {
	Min float64
	Max float64
}

func FitMinMax(values []float64) MinMaxScaler {
	if len(values) == 0 {
		return MinMaxScaler{}
	}
	return MinMaxScaler{Min: floats.Min(values), Max: floats.Max(values)}
}

func (s MinMaxScaler) span() float64 {
	if s.Max == s.Min {
		return 1
	}
	return s.Max - s.Min
}

func (s MinMaxScaler) Transform(values []float64) []float64 {
	res := make([]float64, len(values))
	for i, v := range values {
		res[i] = (v - s.Min) / s.span()
	}
	return res
}

// Inverse takes scaled values back to price units
func (s MinMaxScaler) Inverse(values []float64) []float64 {
	res := make([]float64, len(values))
	for i, v := range values {
		if s.Max == s.Min {
			res[i] = s.Min
			continue
		}
		res[i] = v*s.span() + s.Min
	}
	return res
}
