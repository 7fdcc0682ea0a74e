package models

import (
	"slices"
	"time"
)

// InflationPoint is one index reading, WPI in our case
type InflationPoint struct {
	Date  time.Time `db:"date"`
	Value float64   `db:"value"`
}

// InflationSeries is kept ascending and unique by date, see NewInflationSeries
type InflationSeries struct {
	Points []InflationPoint
}

// NewInflationSeries sorts and dedupes the points, last reading for a date wins
func NewInflationSeries(points []InflationPoint) InflationSeries {
	byDate := make(map[time.Time]int, len(points))
	res := make([]InflationPoint, 0, len(points))
	for _, p := range points {
		key := dateKey(p.Date)
		if idx, ok := byDate[key]; ok {
			res[idx].Value = p.Value
			continue
		}
		byDate[key] = len(res)
		res = append(res, InflationPoint{Date: key, Value: p.Value})
	}

	slices.SortFunc(res, func(a, b InflationPoint) int {
		return a.Date.Compare(b.Date)
	})

	return InflationSeries{Points: res}
}

// Between returns the readings in [start, end], both ends inclusive.
// An empty series is a valid answer, not an error.
func (s InflationSeries) Between(start, end time.Time) InflationSeries {
	res := make([]InflationPoint, 0, len(s.Points))
	for _, p := range s.Points {
		if p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		res = append(res, p)
	}
	return InflationSeries{Points: res}
}

func (s InflationSeries) Len() int {
	return len(s.Points)
}

func (s InflationSeries) Dates() []time.Time {
	res := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		res[i] = p.Date
	}
	return res
}

func (s InflationSeries) Values() []float64 {
	res := make([]float64, len(s.Points))
	for i, p := range s.Points {
		res[i] = p.Value
	}
	return res
}

// PricePoint is a single closing price
type PricePoint struct {
	Date  time.Time `db:"date"`
	Close float64   `db:"close"`
}

// PriceSeries holds the closes for one symbol, ascending by date
type PriceSeries struct {
	Symbol string
	Points []PricePoint
}

// NewPriceSeries sorts and dedupes the points the same way as the inflation series
func NewPriceSeries(symbol string, points []PricePoint) PriceSeries {
	byDate := make(map[time.Time]int, len(points))
	res := make([]PricePoint, 0, len(points))
	for _, p := range points {
		key := dateKey(p.Date)
		if idx, ok := byDate[key]; ok {
			res[idx].Close = p.Close
			continue
		}
		byDate[key] = len(res)
		res = append(res, PricePoint{Date: key, Close: p.Close})
	}

	slices.SortFunc(res, func(a, b PricePoint) int {
		return a.Date.Compare(b.Date)
	})

	return PriceSeries{Symbol: symbol, Points: res}
}

// Between returns closes in [start, end] inclusive
func (s PriceSeries) Between(start, end time.Time) PriceSeries {
	res := make([]PricePoint, 0, len(s.Points))
	for _, p := range s.Points {
		if p.Date.Before(start) || p.Date.After(end) {
			continue
		}
		res = append(res, p)
	}
	return PriceSeries{Symbol: s.Symbol, Points: res}
}

func (s PriceSeries) Len() int {
	return len(s.Points)
}

func (s PriceSeries) Dates() []time.Time {
	res := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		res[i] = p.Date
	}
	return res
}

func (s PriceSeries) Closes() []float64 {
	res := make([]float64, len(s.Points))
	for i, p := range s.Points {
		res[i] = p.Close
	}
	return res
}

// dateKey drops the clock so readings from different sources line up by calendar day
func dateKey(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
