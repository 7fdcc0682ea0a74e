package repos

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	m "wpicorr/data/models"
	q "wpicorr/data/queries"
)

// LookupRiskProfile returns nil, nil for a symbol with no row
func (pg *Postgres) LookupRiskProfile(ctx context.Context, symbol string) (*m.RiskProfile, error) {
	query := q.Get(q.QueryHelper.Select.RiskProfileBySymbol)
	args := pgx.NamedArgs{
		"symbol": symbol,
	}

	res, err := QuerySingle[m.RiskProfile](ctx, pg, query, args)
	if err != nil {
		return nil, fmt.Errorf("unable to query risk profile by symbol (%s): %w", symbol, err)
	}

	return res, nil
}

func (pg *Postgres) GetRiskProfiles(ctx context.Context) (m.RiskTable, error) {
	query := q.Get(q.QueryHelper.Select.AllRiskProfiles)

	res, err := Query[m.RiskProfile](ctx, pg, query, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to query risk profiles: %w", err)
	}

	profiles := make([]m.RiskProfile, len(res))
	for i, p := range res {
		profiles[i] = *p
	}

	return m.NewRiskTable(profiles), nil
}

// InsertRiskProfiles is used to seed the table from the reference spreadsheet
func (pg *Postgres) InsertRiskProfiles(ctx context.Context, profiles []m.RiskProfile, tx pgx.Tx) (int64, error) {
	columns := []string{
		"symbol", "volatility", "beta", "return_on_investment", "debt_to_equity_ratio", "category",
	}

	entries := make([][]any, len(profiles))
	for i, p := range profiles {
		entries[i] = []any{
			p.Symbol, p.Volatility, p.Beta, p.ReturnOnInvestment, p.DebtToEquityRatio, p.Category,
		}
	}

	return pg.BulkInsert(ctx, "risk_profiles", columns, entries, tx)
}
