package core

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	m "wpicorr/data/models"
	sm "wpicorr/service/models"
)

// Observation is a dated value, the common shape for prices and index readings
type Observation struct {
	Date  time.Time
	Value float64
}

func PriceObservations(ps m.PriceSeries) []Observation {
	res := make([]Observation, len(ps.Points))
	for i, p := range ps.Points {
		res[i] = Observation{Date: p.Date, Value: p.Close}
	}
	return res
}

func InflationObservations(s m.InflationSeries) []Observation {
	res := make([]Observation, len(s.Points))
	for i, p := range s.Points {
		res[i] = Observation{Date: p.Date, Value: p.Value}
	}
	return res
}

// PercentChange is (v[t] - v[t-1]) / v[t-1], keyed by the later date.
// Pairs with a zero base are dropped.
func PercentChange(obs []Observation) []Observation {
	if len(obs) < 2 {
		return nil
	}

	res := make([]Observation, 0, len(obs)-1)
	for i := 1; i < len(obs); i++ {
		prev := obs[i-1].Value
		if prev == 0 {
			continue
		}
		change := (obs[i].Value - prev) / prev
		if math.IsNaN(change) || math.IsInf(change, 0) {
			continue
		}
		res = append(res, Observation{Date: obs[i].Date, Value: change})
	}

	return res
}

// Resample keeps the last observation per calendar month, keyed by the first of the month.
// Exact mode returns obs unchanged.
func Resample(obs []Observation, mode string) []Observation {
	if mode != sm.AlignMonthly {
		return obs
	}

	res := make([]Observation, 0, len(obs))
	for _, o := range obs {
		key := time.Date(o.Date.Year(), o.Date.Month(), 1, 0, 0, 0, 0, time.UTC)
		if n := len(res); n > 0 && res[n-1].Date.Equal(key) {
			res[n-1].Value = o.Value
			continue
		}
		res = append(res, Observation{Date: key, Value: o.Value})
	}

	return res
}

// Align is an inner join on date, in the order of a
func Align(a, b []Observation) ([]float64, []float64) {
	byDate := make(map[time.Time]float64, len(b))
	for _, o := range b {
		byDate[o.Date] = o.Value
	}

	x := make([]float64, 0, len(a))
	y := make([]float64, 0, len(a))
	for _, o := range a {
		v, ok := byDate[o.Date]
		if !ok {
			continue
		}
		x = append(x, o.Value)
		y = append(y, v)
	}

	return x, y
}

// CorrelationWithChange correlates price changes with index changes on shared dates
func CorrelationWithChange(prices, wpi []Observation, mode string) float64 {
	x, y := Align(PercentChange(Resample(prices, mode)), PercentChange(Resample(wpi, mode)))
	return Pearson(x, y)
}

// ActualCorrelation correlates the levels themselves
func ActualCorrelation(prices, wpi []Observation, mode string) float64 {
	x, y := Align(Resample(prices, mode), Resample(wpi, mode))
	return Pearson(x, y)
}

// Pearson is NaN for fewer than two pairs or when either side has no variance
func Pearson(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return math.NaN()
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}

func DailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}

	res := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		res = append(res, closes[i]/closes[i-1]-1)
	}
	return res
}

// AnnualizedVolatility is the sample standard deviation of daily returns scaled to a year
func AnnualizedVolatility(closes []float64) float64 {
	returns := DailyReturns(closes)
	if len(returns) < 2 {
		return math.NaN()
	}
	return stat.StdDev(returns, nil) * math.Sqrt(sm.Daily)
}

// SharpeRatio uses an annual risk free rate given as a fraction, 0.05 for 5%
func SharpeRatio(closes []float64, riskFreeRate float64) float64 {
	returns := DailyReturns(closes)
	if len(returns) < 2 {
		return math.NaN()
	}

	mean, std := stat.MeanStdDev(returns, nil)
	if std == 0 {
		return math.NaN()
	}

	return (mean - riskFreeRate/sm.Daily) / std * math.Sqrt(sm.Daily)
}

// InflationImpliedChange regresses price change on index change and reads the fit at the
// expected inflation. expected and the result are both percentages.
func InflationImpliedChange(prices, wpi []Observation, mode string, expected float64) float64 {
	y, x := Align(PercentChange(Resample(prices, mode)), PercentChange(Resample(wpi, mode)))
	if len(x) < 3 || stat.Variance(x, nil) == 0 {
		return math.NaN()
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	return (alpha + beta*expected/100) * 100
}
