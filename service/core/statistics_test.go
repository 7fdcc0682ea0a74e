package core

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	ex "wpicorr/data/extensions"
	sm "wpicorr/service/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func obs(start time.Time, step time.Duration, values ...float64) []Observation {
	res := make([]Observation, len(values))
	for i, v := range values {
		res[i] = Observation{Date: start.Add(time.Duration(i) * step), Value: v}
	}
	return res
}

func TestPercentChange(t *testing.T) {
	in := obs(day(2024, 1, 1), 24*time.Hour, 100, 110, 99, 0, 5)
	got := PercentChange(in)

	// the change off a zero base is dropped
	require.Len(t, got, 3)
	ex.AssertInDelta(t, "first change", 0.1, got[0].Value, 1e-12)
	ex.AssertAreEqual(t, "keyed by later date", day(2024, 1, 2), got[0].Date)
	ex.AssertInDelta(t, "second change", -0.1, got[1].Value, 1e-12)
	ex.AssertInDelta(t, "to zero", -1, got[2].Value, 1e-12)

	require.Nil(t, PercentChange(in[:1]))
}

func TestAlignIsInnerJoin(t *testing.T) {
	a := []Observation{{day(2024, 1, 1), 1}, {day(2024, 1, 2), 2}, {day(2024, 1, 4), 4}}
	b := []Observation{{day(2024, 1, 2), 20}, {day(2024, 1, 3), 30}, {day(2024, 1, 4), 40}}

	x, y := Align(a, b)
	require.Equal(t, []float64{2, 4}, x)
	require.Equal(t, []float64{20, 40}, y)
}

func TestResampleMonthlyKeepsLastObservation(t *testing.T) {
	in := []Observation{
		{day(2024, 1, 3), 1},
		{day(2024, 1, 30), 2},
		{day(2024, 2, 14), 3},
	}

	got := Resample(in, sm.AlignMonthly)
	require.Len(t, got, 2)
	ex.AssertAreEqual(t, "january", 2.0, got[0].Value)
	ex.AssertAreEqual(t, "january key", day(2024, 1, 1), got[0].Date)
	ex.AssertAreEqual(t, "february", 3.0, got[1].Value)

	require.Equal(t, in, Resample(in, sm.AlignExact))
}

func TestMonthlyAlignmentJoinsDailyPricesToMonthlyIndex(t *testing.T) {
	wpi := []Observation{{day(2024, 1, 1), 100}, {day(2024, 2, 1), 102}, {day(2024, 3, 1), 101}, {day(2024, 4, 1), 104}}
	prices := []Observation{
		{day(2024, 1, 31), 1000}, {day(2024, 2, 28), 1020}, {day(2024, 3, 29), 1010}, {day(2024, 4, 30), 1040},
	}

	ex.AssertNaN(t, "exact has no shared dates", CorrelationWithChange(prices, wpi, sm.AlignExact))
	ex.AssertInDelta(t, "monthly", 1, CorrelationWithChange(prices, wpi, sm.AlignMonthly), 1e-9)
}

func TestCorrelationEdgeCases(t *testing.T) {
	start := day(2024, 1, 1)
	flat := obs(start, 24*time.Hour, 5, 5, 5, 5)
	moving := obs(start, 24*time.Hour, 1, 2, 4, 3)

	ex.AssertNaN(t, "zero variance", ActualCorrelation(flat, moving, sm.AlignExact))
	ex.AssertNaN(t, "one pair", ActualCorrelation(moving[:1], moving[:1], sm.AlignExact))
	ex.AssertNaN(t, "no overlap", ActualCorrelation(moving, obs(day(2025, 1, 1), 24*time.Hour, 1, 2, 3), sm.AlignExact))
	ex.AssertInDelta(t, "self", 1, ActualCorrelation(moving, moving, sm.AlignExact), 1e-12)
}

func TestAnnualizedVolatility(t *testing.T) {
	closes := []float64{100, 101, 99, 102, 100}
	returns := DailyReturns(closes)
	require.Len(t, returns, 4)

	expected := stat.StdDev(returns, nil) * math.Sqrt(252)
	ex.AssertInDelta(t, "volatility", expected, AnnualizedVolatility(closes), 1e-12)

	ex.AssertNaN(t, "two closes", AnnualizedVolatility([]float64{1, 2}))
	ex.AssertNaN(t, "no closes", AnnualizedVolatility(nil))
}

func TestSharpeRatio(t *testing.T) {
	closes := []float64{100, 101, 99, 102, 100, 103}
	returns := DailyReturns(closes)
	mean, std := stat.MeanStdDev(returns, nil)

	ex.AssertInDelta(t, "zero rate", mean/std*math.Sqrt(252), SharpeRatio(closes, 0), 1e-12)
	ex.AssertInDelta(t, "five percent", (mean-0.05/252)/std*math.Sqrt(252), SharpeRatio(closes, 0.05), 1e-12)

	ex.AssertNaN(t, "flat", SharpeRatio([]float64{1, 1, 1, 1}, 0))
	ex.AssertNaN(t, "short", SharpeRatio([]float64{1}, 0))
}

func TestInflationImpliedChange(t *testing.T) {
	start := day(2024, 1, 1)
	wpi := obs(start, 24*time.Hour, 100, 102, 101, 104, 103)
	prices := make([]Observation, len(wpi))
	for i, w := range wpi {
		prices[i] = Observation{Date: w.Date, Value: 3 * w.Value}
	}

	ex.AssertInDelta(t, "one for one", 5, InflationImpliedChange(prices, wpi, sm.AlignExact, 5), 1e-9)
	ex.AssertNaN(t, "too few pairs", InflationImpliedChange(prices[:3], wpi[:3], sm.AlignExact, 5))
}
