package core

import (
	"context"

	m "wpicorr/data/models"
)

// RiskSource returns nil, nil for a symbol it has nothing for
type RiskSource interface {
	Lookup(ctx context.Context, symbol string) (*m.RiskProfile, error)
}

// TableRiskSource serves the reference spreadsheet loaded at startup
type TableRiskSource struct {
	Table m.RiskTable
}

func (ts TableRiskSource) Lookup(_ context.Context, symbol string) (*m.RiskProfile, error) {
	p, ok := ts.Table.Lookup(symbol)
	if !ok {
		return nil, nil
	}
	return p, nil
}

// RiskProfileStore is the slice of repos.Postgres the risk source needs
type RiskProfileStore interface {
	LookupRiskProfile(ctx context.Context, symbol string) (*m.RiskProfile, error)
}

// PostgresRiskSource asks the risk_profiles table per symbol
type PostgresRiskSource struct {
	store RiskProfileStore
}

func NewPostgresRiskSource(store RiskProfileStore) *PostgresRiskSource {
	return &PostgresRiskSource{store: store}
}

func (ps *PostgresRiskSource) Lookup(ctx context.Context, symbol string) (*m.RiskProfile, error) {
	return ps.store.LookupRiskProfile(ctx, symbol)
}

// NoRiskSource is used when no reference table is configured
type NoRiskSource struct{}

func (NoRiskSource) Lookup(context.Context, string) (*m.RiskProfile, error) {
	return nil, nil
}
