package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v6"
)

// StockRequest is one identifier from the upload
type StockRequest struct {
	Symbol string
}

// NewsSentimentRecord is a scored article
type NewsSentimentRecord struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Score       float64 `json:"sentimentScore"`
	Link        string  `json:"link"`
}

type NewsStatus string

const (
	NewsStatusOK            NewsStatus = "ok"
	NewsStatusNoArticles    NewsStatus = "no_articles"
	NewsStatusProviderError NewsStatus = "provider_error"
)

// NewsOutcome keeps "nothing found" apart from "provider broke", both have no records
type NewsOutcome struct {
	Records []NewsSentimentRecord
	Status  NewsStatus
	Err     error
}

// ModelIssue is why a predictor did not give a number
type ModelIssue struct {
	Model  string
	Reason string
}

// ForecastResult holds one prediction per model, NaN when the model was unavailable.
// LinearDelta is a change against LatestActualPrice, the other two are price levels.
type ForecastResult struct {
	LatestActualPrice float64
	LinearDelta       float64
	ArimaLevel        float64
	ArimaOrder        string
	SequenceLevels    []float64
	SequenceLevel     float64
	Issues            []ModelIssue
}

// ResultRow is one line of the report, built once per stock and never changed after
type ResultRow struct {
	Stock string

	CorrelationWithWPIChange float64
	ActualCorrelationWithWPI float64
	InflationImpliedChange   float64

	Forecast ForecastResult

	Volatility  float64
	SharpeRatio float64

	ReferenceVolatility null.Float
	Beta                null.Float
	ReturnOnInvestment  null.Float
	DebtToEquityRatio   null.Float
	Category            null.String

	News             []NewsSentimentRecord
	NewsStatus       NewsStatus
	AverageSentiment null.Float

	Issues []string
}

// Report is the sorted output of a batch
type Report struct {
	RunID             uuid.UUID
	Lookback          string
	ExpectedInflation float64
	GeneratedAt       time.Time
	Rows              []ResultRow
}
