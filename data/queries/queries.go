package queries

import (
	"embed"
	"fmt"
)

//go:embed delete/*.sql select/*.sql
var Files embed.FS

// ^^^ the go:embed directive compiles the sql files into the binary, paths below are relative to this package

type DeleteQueries struct {
	PriceHistoryBySymbol string
}

type SelectQueries struct {
	AllRiskProfiles             string
	MostRecentPriceDateBySymbol string
	PriceHistoryBySymbol        string
	RiskProfileBySymbol         string
}

type QueryHelperStruct struct {
	Delete DeleteQueries
	Select SelectQueries
}

var QueryHelper = QueryHelperStruct{
	Delete: DeleteQueries{
		PriceHistoryBySymbol: "delete/price_history_by_symbol.sql",
	},
	Select: SelectQueries{
		AllRiskProfiles:             "select/all_risk_profiles.sql",
		MostRecentPriceDateBySymbol: "select/most_recent_price_date_by_symbol.sql",
		PriceHistoryBySymbol:        "select/price_history_by_symbol.sql",
		RiskProfileBySymbol:         "select/risk_profile_by_symbol.sql",
	},
}

// Get panics on a missing file, every path in QueryHelper is checked by the package tests
func Get(path string) string {
	content, err := Files.ReadFile(path)
	if err != nil {
		panic(fmt.Errorf("error reading query file: %w", err))
	}

	return string(content)
}
