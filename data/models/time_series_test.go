package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ex "wpicorr/data/extensions"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewInflationSeriesSortsAndKeepsLastDuplicate(t *testing.T) {
	s := NewInflationSeries([]InflationPoint{
		{Date: date(2024, 3, 1), Value: 3},
		{Date: date(2024, 1, 1), Value: 1},
		{Date: date(2024, 3, 1).Add(5 * time.Hour), Value: 4},
	})

	ex.AssertAreEqual(t, "len", 2, s.Len())
	require.Equal(t, []float64{1, 4}, s.Values())
}

func TestInflationBetweenIsInclusive(t *testing.T) {
	s := NewInflationSeries([]InflationPoint{
		{Date: date(2024, 1, 1), Value: 1},
		{Date: date(2024, 2, 1), Value: 2},
		{Date: date(2024, 3, 1), Value: 3},
		{Date: date(2024, 4, 1), Value: 4},
	})

	got := s.Between(date(2024, 2, 1), date(2024, 3, 1))
	require.Equal(t, []float64{2, 3}, got.Values())

	empty := s.Between(date(2025, 1, 1), date(2025, 6, 1))
	ex.AssertAreEqual(t, "empty", 0, empty.Len())
}
