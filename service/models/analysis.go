package models

import (
	"math"
	"time"

	"github.com/guregu/null/v6"

	dm "wpicorr/data/models"
)

// AnalysisRequest is what the form and the cli hand to the controller
type AnalysisRequest struct {
	Stocks            []dm.StockRequest `validate:"required,min=1"`
	Lookback          string            `validate:"required"`
	ExpectedInflation float64           `validate:"gte=0"`
}

type NewsArticleResponse struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	SentimentScore float64 `json:"sentimentScore"`
	Link           string  `json:"link"`
}

// ResultRowResponse is the json shape of a report row, NaN is sent as null
type ResultRowResponse struct {
	Stock                    string                `json:"stock"`
	CorrelationWithWPIChange null.Float            `json:"correlationWithWpiChange"`
	ActualCorrelationWithWPI null.Float            `json:"actualCorrelationWithWpi"`
	InflationImpliedChange   null.Float            `json:"inflationImpliedChange"`
	PredictedChangeLinear    null.Float            `json:"predictedPriceChangeLinearRegression"`
	PredictedPriceArima      null.Float            `json:"predictedPriceArima"`
	ArimaOrder               null.String           `json:"arimaOrder"`
	LatestActualPrice        null.Float            `json:"latestActualPrice"`
	PredictedPriceSequence   null.Float            `json:"predictedStockPriceLstm"`
	SequencePath             []float64             `json:"predictedStockPathLstm,omitempty"`
	Volatility               null.Float            `json:"volatility"`
	ReferenceVolatility      null.Float            `json:"referenceVolatility"`
	Beta                     null.Float            `json:"beta"`
	ReturnOnInvestment       null.Float            `json:"returnOnInvestment"`
	DebtToEquityRatio        null.Float            `json:"debtToEquityRatio"`
	Category                 null.String           `json:"category"`
	SharpeRatio              null.Float            `json:"sharpeRatio"`
	AverageSentiment         null.Float            `json:"averageSentiment"`
	NewsStatus               string                `json:"newsStatus"`
	News                     []NewsArticleResponse `json:"newsSentimentScores"`
	Issues                   []string              `json:"issues,omitempty"`
}

type AnalysisResponse struct {
	RunID             string              `json:"runId"`
	Lookback          string              `json:"lookback"`
	ExpectedInflation float64             `json:"expectedInflation"`
	GeneratedAt       time.Time           `json:"generatedAt"`
	Rows              []ResultRowResponse `json:"rows"`
}

func MapReport(report *dm.Report) *AnalysisResponse {
	rows := make([]ResultRowResponse, len(report.Rows))
	for i, r := range report.Rows {
		rows[i] = mapResultRow(r)
	}

	return &AnalysisResponse{
		RunID:             report.RunID.String(),
		Lookback:          report.Lookback,
		ExpectedInflation: report.ExpectedInflation,
		GeneratedAt:       report.GeneratedAt,
		Rows:              rows,
	}
}

func mapResultRow(r dm.ResultRow) ResultRowResponse {
	news := make([]NewsArticleResponse, len(r.News))
	for i, n := range r.News {
		news[i] = NewsArticleResponse{
			Title:          n.Title,
			Description:    n.Description,
			SentimentScore: n.Score,
			Link:           n.Link,
		}
	}

	return ResultRowResponse{
		Stock:                    r.Stock,
		CorrelationWithWPIChange: FloatOrNull(r.CorrelationWithWPIChange),
		ActualCorrelationWithWPI: FloatOrNull(r.ActualCorrelationWithWPI),
		InflationImpliedChange:   FloatOrNull(r.InflationImpliedChange),
		PredictedChangeLinear:    FloatOrNull(r.Forecast.LinearDelta),
		PredictedPriceArima:      FloatOrNull(r.Forecast.ArimaLevel),
		ArimaOrder:               null.NewString(r.Forecast.ArimaOrder, r.Forecast.ArimaOrder != ""),
		LatestActualPrice:        FloatOrNull(r.Forecast.LatestActualPrice),
		PredictedPriceSequence:   FloatOrNull(r.Forecast.SequenceLevel),
		SequencePath:             r.Forecast.SequenceLevels,
		Volatility:               FloatOrNull(r.Volatility),
		ReferenceVolatility:      r.ReferenceVolatility,
		Beta:                     r.Beta,
		ReturnOnInvestment:       r.ReturnOnInvestment,
		DebtToEquityRatio:        r.DebtToEquityRatio,
		Category:                 r.Category,
		SharpeRatio:              FloatOrNull(r.SharpeRatio),
		AverageSentiment:         r.AverageSentiment,
		NewsStatus:               string(r.NewsStatus),
		News:                     news,
		Issues:                   r.Issues,
	}
}

// FloatOrNull is null for NaN and the infinities, json has no way to carry them
func FloatOrNull(v float64) null.Float {
	return null.NewFloat(v, !math.IsNaN(v) && !math.IsInf(v, 0))
}
