package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	ex "wpicorr/data/extensions"
	dm "wpicorr/data/models"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Commit(context.Context) error {
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	if !tx.committed {
		tx.rolledBack = true
	}
	return nil
}

type fakePriceStore struct {
	points []dm.PricePoint
	tx     *fakeTx
}

func (s *fakePriceStore) GetTransaction(context.Context) (pgx.Tx, error) {
	s.tx = &fakeTx{}
	return s.tx, nil
}

func (s *fakePriceStore) GetPriceSeries(_ context.Context, symbol string, start, end time.Time) (dm.PriceSeries, error) {
	return dm.NewPriceSeries(symbol, s.points).Between(start, end), nil
}

func (s *fakePriceStore) GetMostRecentPriceDate(context.Context, string) (*time.Time, error) {
	if len(s.points) == 0 {
		return nil, nil
	}
	latest := s.points[0].Date
	for _, p := range s.points {
		if p.Date.After(latest) {
			latest = p.Date
		}
	}
	return &latest, nil
}

func (s *fakePriceStore) InsertPriceHistory(_ context.Context, _ string, points []dm.PricePoint, _ pgx.Tx) (int64, error) {
	s.points = append(s.points, points...)
	return int64(len(points)), nil
}

type countingUpstream struct {
	calls  int
	series dm.PriceSeries
	err    error
}

func (u *countingUpstream) GetPriceSeries(_ context.Context, _ string, start, end time.Time) (dm.PriceSeries, error) {
	u.calls++
	if u.err != nil {
		return dm.PriceSeries{}, u.err
	}
	return u.series.Between(start, end), nil
}

func upstreamSeries() dm.PriceSeries {
	return dm.NewPriceSeries("TCS", []dm.PricePoint{
		{Date: day(2024, 3, 1), Close: 10},
		{Date: day(2024, 3, 4), Close: 11},
		{Date: day(2024, 3, 5), Close: 12},
	})
}

func newTestCache(store PriceStore, upstream PriceProvider, now time.Time) *CachedPriceProvider {
	cp := NewCachedPriceProvider(store, upstream, 24*time.Hour, arbor.NewLogger())
	cp.now = func() time.Time { return now }
	return cp
}

func TestCachedPriceProviderFillsEmptyStore(t *testing.T) {
	store := &fakePriceStore{}
	upstream := &countingUpstream{series: upstreamSeries()}
	cp := newTestCache(store, upstream, day(2024, 3, 6))

	got, err := cp.GetPriceSeries(context.Background(), "TCS", day(2024, 3, 2), day(2024, 3, 6))
	require.NoError(t, err)
	require.Equal(t, []float64{11, 12}, got.Closes())
	require.Len(t, store.points, 3)
	require.True(t, store.tx.committed)
}

func TestCachedPriceProviderServesFreshStore(t *testing.T) {
	store := &fakePriceStore{points: upstreamSeries().Points}
	upstream := &countingUpstream{series: upstreamSeries()}
	cp := newTestCache(store, upstream, day(2024, 3, 5).Add(time.Hour))

	_, err := cp.GetPriceSeries(context.Background(), "TCS", day(2024, 3, 1), day(2024, 3, 6))
	require.NoError(t, err)
	ex.AssertAreEqual(t, "upstream calls", 0, upstream.calls)
}

func TestCachedPriceProviderOnlyInsertsNewerCloses(t *testing.T) {
	store := &fakePriceStore{points: upstreamSeries().Points[:2]}
	upstream := &countingUpstream{series: upstreamSeries()}
	cp := newTestCache(store, upstream, day(2024, 3, 8))

	got, err := cp.GetPriceSeries(context.Background(), "TCS", day(2024, 3, 1), day(2024, 3, 8))
	require.NoError(t, err)
	require.Equal(t, []float64{10, 11, 12}, got.Closes())
	require.Len(t, store.points, 3)
}

func TestCachedPriceProviderFallsBackToStaleHistory(t *testing.T) {
	store := &fakePriceStore{points: upstreamSeries().Points}
	upstream := &countingUpstream{err: errors.New("quota exceeded")}
	cp := newTestCache(store, upstream, day(2024, 4, 1))

	got, err := cp.GetPriceSeries(context.Background(), "TCS", day(2024, 3, 1), day(2024, 4, 1))
	require.NoError(t, err)
	ex.AssertAreEqual(t, "closes", 3, got.Len())
	ex.AssertAreEqual(t, "upstream calls", 1, upstream.calls)
}

func TestCachedPriceProviderFailsWithNothingStored(t *testing.T) {
	store := &fakePriceStore{}
	upstream := &countingUpstream{err: errors.New("quota exceeded")}
	cp := newTestCache(store, upstream, day(2024, 4, 1))

	_, err := cp.GetPriceSeries(context.Background(), "TCS", day(2024, 3, 1), day(2024, 4, 1))
	require.ErrorContains(t, err, "quota exceeded")
	require.Nil(t, store.tx)
}
