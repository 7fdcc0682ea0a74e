package core

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ternarybob/arbor"

	ex "wpicorr/data/extensions"
	m "wpicorr/data/models"
)

// PriceStore is the slice of repos.Postgres the cached provider needs
type PriceStore interface {
	GetTransaction(ctx context.Context) (pgx.Tx, error)
	GetPriceSeries(ctx context.Context, symbol string, start, end time.Time) (m.PriceSeries, error)
	GetMostRecentPriceDate(ctx context.Context, symbol string) (*time.Time, error)
	InsertPriceHistory(ctx context.Context, symbol string, points []m.PricePoint, tx pgx.Tx) (int64, error)
}

// CachedPriceProvider serves closes from postgres and tops the table up from upstream
// once the newest stored close is older than refreshAfter
type CachedPriceProvider struct {
	store        PriceStore
	upstream     PriceProvider
	refreshAfter time.Duration
	logger       arbor.ILogger
	now          func() time.Time
}

func NewCachedPriceProvider(store PriceStore, upstream PriceProvider, refreshAfter time.Duration, logger arbor.ILogger) *CachedPriceProvider {
	if logger == nil {
		logger = arbor.NewLogger()
	}
	return &CachedPriceProvider{
		store:        store,
		upstream:     upstream,
		refreshAfter: refreshAfter,
		logger:       logger,
		now:          time.Now,
	}
}

func (cp *CachedPriceProvider) GetPriceSeries(ctx context.Context, symbol string, start, end time.Time) (m.PriceSeries, error) {
	mrd, err := cp.store.GetMostRecentPriceDate(ctx, symbol)
	if err != nil {
		return m.PriceSeries{}, fmt.Errorf("error determining most recent stored price for %s: %w", symbol, err)
	}

	if mrd == nil || cp.now().Sub(*mrd) > cp.refreshAfter {
		if _, err := cp.sync(ctx, symbol, mrd); err != nil {
			if mrd == nil {
				return m.PriceSeries{}, err
			}
			// stale closes beat no closes
			cp.logger.Warn().Str("symbol", symbol).Str("last_stored", ex.FmtShort(*mrd)).Err(err).Msg("price refresh failed, serving stored history")
		}
	}

	return cp.store.GetPriceSeries(ctx, symbol, start, end)
}

// sync inserts every upstream close newer than mrd and returns how many went in
func (cp *CachedPriceProvider) sync(ctx context.Context, symbol string, mrd *time.Time) (int64, error) {
	fetched, err := cp.upstream.GetPriceSeries(ctx, symbol, time.Time{}, cp.now())
	if err != nil {
		return 0, fmt.Errorf("error fetching prices for %s: %w", symbol, err)
	}

	f := func(p m.PricePoint) bool { return mrd == nil || p.Date.After(*mrd) }
	toInsert := ex.FilterMultiple(fetched.Points, f)
	if len(toInsert) == 0 {
		cp.logger.Debug().Str("symbol", symbol).Msg("no new closes to store")
		return 0, nil
	}

	tx, err := cp.store.GetTransaction(ctx)
	if err != nil {
		return 0, fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op once committed

	ra, err := cp.store.InsertPriceHistory(ctx, symbol, toInsert, tx)
	if err != nil {
		return 0, fmt.Errorf("error inserting price history for %s: %w", symbol, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("error committing price history for %s: %w", symbol, err)
	}

	cp.logger.Info().Str("symbol", symbol).Int("fetched", len(fetched.Points)).Int64("inserted", ra).Msg("price history synced")
	return ra, nil
}
