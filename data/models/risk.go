package models

import (
	"github.com/guregu/null/v6"
)

// RiskProfile is the static metadata we have for a symbol, any column can be blank
type RiskProfile struct {
	Symbol             string      `db:"symbol" json:"symbol"`
	Volatility         null.Float  `db:"volatility" json:"volatility"`
	Beta               null.Float  `db:"beta" json:"beta"`
	ReturnOnInvestment null.Float  `db:"return_on_investment" json:"returnOnInvestment"`
	DebtToEquityRatio  null.Float  `db:"debt_to_equity_ratio" json:"debtToEquityRatio"`
	Category           null.String `db:"category" json:"category"`
}

// RiskTable is the reference table keyed by exact symbol
type RiskTable map[string]RiskProfile

func NewRiskTable(profiles []RiskProfile) RiskTable {
	res := make(RiskTable, len(profiles))
	for _, p := range profiles {
		res[p.Symbol] = p
	}
	return res
}

// Lookup is an exact match, no case folding, same as the reference join
func (rt RiskTable) Lookup(symbol string) (*RiskProfile, bool) {
	p, ok := rt[symbol]
	if !ok {
		return nil, false
	}
	return &p, true
}
