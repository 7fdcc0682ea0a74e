package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	m "wpicorr/data/models"
	q "wpicorr/data/queries"
)

func (pg *Postgres) GetPriceSeries(ctx context.Context, symbol string, start, end time.Time) (m.PriceSeries, error) {
	query := q.Get(q.QueryHelper.Select.PriceHistoryBySymbol)
	args := pgx.NamedArgs{
		"symbol":     symbol,
		"start_date": start,
		"end_date":   end,
	}

	res, err := Query[m.PricePoint](ctx, pg, query, args)
	if err != nil {
		return m.PriceSeries{}, fmt.Errorf("unable to query price history by symbol (%s): %w", symbol, err)
	}

	points := make([]m.PricePoint, len(res))
	for i, p := range res {
		points[i] = *p
	}

	return m.NewPriceSeries(symbol, points), nil
}

// GetMostRecentPriceDate is nil when nothing has been stored for the symbol yet
func (pg *Postgres) GetMostRecentPriceDate(ctx context.Context, symbol string) (*time.Time, error) {
	query := q.Get(q.QueryHelper.Select.MostRecentPriceDateBySymbol)
	args := pgx.NamedArgs{
		"symbol": symbol,
	}

	var res *time.Time
	if err := pg.db.QueryRow(ctx, query, args).Scan(&res); err != nil {
		return nil, fmt.Errorf("unable to query most recent price date for %s: %w", symbol, err)
	}

	return res, nil
}

func (pg *Postgres) InsertPriceHistory(ctx context.Context, symbol string, points []m.PricePoint, tx pgx.Tx) (int64, error) {
	columns := []string{"symbol", "date", "close"}

	entries := make([][]any, len(points))
	for i, p := range points {
		entries[i] = []any{symbol, p.Date, p.Close}
	}

	return pg.BulkInsert(ctx, "price_history", columns, entries, tx)
}

func (pg *Postgres) DeletePriceHistory(ctx context.Context, symbol string, tx pgx.Tx) error {
	query := q.Get(q.QueryHelper.Delete.PriceHistoryBySymbol)
	args := pgx.NamedArgs{
		"symbol": symbol,
	}

	var err error
	if tx == nil {
		_, err = pg.db.Exec(ctx, query, args)
	} else {
		_, err = tx.Exec(ctx, query, args)
	}

	if err != nil {
		return fmt.Errorf("error deleting price history for %s: %w", symbol, err)
	}
	return nil
}
