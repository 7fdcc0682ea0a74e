package sheets

import (
	"io"
	"strings"

	"github.com/guregu/null/v6"

	ex "wpicorr/data/extensions"
	m "wpicorr/data/models"
)

const (
	SymbolColumn             = "Symbol"
	VolatilityColumn         = "Volatility"
	BetaColumn               = "Beta"
	ReturnOnInvestmentColumn = "Return_on_Investment"
	DebtToEquityColumn       = "Debt_to_Equity_Ratio"
	CategoryColumn           = "Category"
)

// LoadRiskTable needs a Symbol column, the metric columns are optional and blanks become nulls
func LoadRiskTable(name string, r io.Reader) (m.RiskTable, error) {
	table, err := ReadTable(name, r)
	if err != nil {
		return nil, err
	}

	return RiskTableFromTable(table)
}

func RiskTableFromTable(table *Table) (m.RiskTable, error) {
	symbolIdx := ex.IndexOfFold(table.Headers, SymbolColumn)
	if symbolIdx < 0 {
		return nil, missingColumn(table.Source, SymbolColumn)
	}

	volIdx := ex.IndexOfFold(table.Headers, VolatilityColumn)
	betaIdx := ex.IndexOfFold(table.Headers, BetaColumn)
	roiIdx := ex.IndexOfFold(table.Headers, ReturnOnInvestmentColumn)
	deIdx := ex.IndexOfFold(table.Headers, DebtToEquityColumn)
	catIdx := ex.IndexOfFold(table.Headers, CategoryColumn)

	profiles := make([]m.RiskProfile, 0, len(table.Rows))
	for i, row := range table.Rows {
		symbol := strings.TrimSpace(row[symbolIdx])
		if symbol == "" {
			continue
		}

		p := m.RiskProfile{Symbol: symbol}
		var err error
		if p.Volatility, err = optionalFloat(table, row, volIdx, i); err != nil {
			return nil, err
		}
		if p.Beta, err = optionalFloat(table, row, betaIdx, i); err != nil {
			return nil, err
		}
		if p.ReturnOnInvestment, err = optionalFloat(table, row, roiIdx, i); err != nil {
			return nil, err
		}
		if p.DebtToEquityRatio, err = optionalFloat(table, row, deIdx, i); err != nil {
			return nil, err
		}
		if catIdx >= 0 {
			category := strings.TrimSpace(row[catIdx])
			p.Category = null.NewString(category, category != "")
		}

		profiles = append(profiles, p)
	}

	return m.NewRiskTable(profiles), nil
}

func optionalFloat(table *Table, row []string, idx, rowIdx int) (null.Float, error) {
	if idx < 0 || strings.TrimSpace(row[idx]) == "" {
		return null.Float{}, nil
	}

	v, err := parseNumber(row[idx])
	if err != nil {
		return null.Float{}, loadError(table.Source, table.Headers[idx], rowIdx+2, err)
	}

	return null.FloatFrom(v), nil
}
