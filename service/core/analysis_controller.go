package core

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/guregu/null/v6"

	dm "wpicorr/data/models"
	sm "wpicorr/service/models"
)

var validate = validator.New()

// ErrInvalidRequest wraps everything that stops a batch from starting
var ErrInvalidRequest = errors.New("invalid analysis request")

// RunAnalysis runs every stock through the pipeline in input order and returns the rows
// sorted by correlation with wpi change. A stock failing never fails the batch.
func (sc *ServiceContext) RunAnalysis(ctx context.Context, request sm.AnalysisRequest) (*dm.Report, error) {
	start := time.Now()
	logger := sc.logger()

	lookback, err := validateRequest(request)
	if err != nil {
		logger.Warn().Err(err).Msg("rejected analysis request")
		return nil, err
	}

	today := sc.today()
	window := analysisWindow{start: lookback.Start(today), end: today}
	report := &dm.Report{
		RunID:             uuid.New(),
		Lookback:          lookback.Label(),
		ExpectedInflation: request.ExpectedInflation,
		GeneratedAt:       today,
	}
	runID := report.RunID.String()

	wpi := sc.Inflation.Between(window.start, window.end)
	logger.Info().
		Str("run_id", runID).
		Str("lookback", lookback.Label()).
		Int("stocks", len(request.Stocks)).
		Int("wpi_points", wpi.Len()).
		Msg("received request to run analysis")

	progress := sc.progress()
	total := len(request.Stocks)
	progress.Report(ProgressEvent{RunID: runID, Total: total, Stage: StageBatchStarted})

	rows := make([]dm.ResultRow, 0, total)
	for i, stock := range request.Stocks {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("analysis cancelled after %d of %d stocks: %w", i, total, err)
		}

		ev := ProgressEvent{RunID: runID, Stock: stock.Symbol, Index: i, Total: total}
		row := sc.analyzeStock(ctx, stock, wpi, window, request.ExpectedInflation, func(stage Stage, risk *dm.RiskProfile) {
			ev.Stage = stage
			ev.Risk = risk
			progress.Report(ev)
		})
		rows = append(rows, row)

		ev.Stage, ev.Risk, ev.Issues = StageStockDone, nil, row.Issues
		progress.Report(ev)
		logger.Info().Str("run_id", runID).Str("stock", stock.Symbol).Int("issues", len(row.Issues)).Dur("elapsed", time.Since(start)).Msg("stock analysed")
	}

	SortRows(rows)
	report.Rows = rows

	progress.Report(ProgressEvent{RunID: runID, Index: total, Total: total, Stage: StageBatchFinished})
	logger.Info().Str("run_id", runID).Int("rows", len(rows)).Dur("elapsed", time.Since(start)).Msg("analysis completed")
	return report, nil
}

func validateRequest(request sm.AnalysisRequest) (sm.Lookback, error) {
	if err := validate.Struct(request); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if math.IsNaN(request.ExpectedInflation) || math.IsInf(request.ExpectedInflation, 0) {
		return 0, fmt.Errorf("%w: expected inflation must be a finite number", ErrInvalidRequest)
	}

	lookback, err := sm.ParseLookback(request.Lookback)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	return lookback, nil
}

type analysisWindow struct {
	start time.Time
	end   time.Time
}

type stageFunc func(stage Stage, risk *dm.RiskProfile)

// analyzeStock builds one row. Every step records its own failure, a panic anywhere ends
// as an issue on the row rather than taking the batch down.
func (sc *ServiceContext) analyzeStock(ctx context.Context, stock dm.StockRequest, wpi dm.InflationSeries, window analysisWindow, expected float64, stage stageFunc) (row dm.ResultRow) {
	row = emptyRow(stock.Symbol)
	logger := sc.logger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Str("stock", stock.Symbol).Str("panic", fmt.Sprint(r)).Msg("stock analysis panicked")
			row.Issues = append(row.Issues, fmt.Sprintf("analysis aborted: %v", r))
		}
	}()

	stage(StageStockStarted, nil)

	// risk metadata first so it can go out with the progress event
	risk, err := sc.lookupRisk(ctx, stock.Symbol)
	if err != nil {
		row.Issues = append(row.Issues, fmt.Sprintf("risk lookup failed: %v", err))
	} else if risk == nil {
		if sc.hasRiskSource() {
			row.Issues = append(row.Issues, "no risk metadata for symbol")
		}
	} else {
		row.ReferenceVolatility = risk.Volatility
		row.Beta = risk.Beta
		row.ReturnOnInvestment = risk.ReturnOnInvestment
		row.DebtToEquityRatio = risk.DebtToEquityRatio
		row.Category = risk.Category
	}
	stage(StageRisk, risk)

	prices, err := sc.fetchPrices(ctx, stock.Symbol, window)
	stage(StagePrices, nil)
	if err != nil {
		row.Issues = append(row.Issues, err.Error())
	} else {
		closes := prices.Closes()
		priceObs := PriceObservations(prices)
		wpiObs := InflationObservations(wpi)
		mode := sc.Settings.Alignment

		row.CorrelationWithWPIChange = CorrelationWithChange(priceObs, wpiObs, mode)
		row.ActualCorrelationWithWPI = ActualCorrelation(priceObs, wpiObs, mode)
		row.InflationImpliedChange = InflationImpliedChange(priceObs, wpiObs, mode, expected)
		row.Volatility = AnnualizedVolatility(closes)
		row.SharpeRatio = SharpeRatio(closes, sc.Settings.RiskFreeRate)
		if math.IsNaN(row.CorrelationWithWPIChange) {
			row.Issues = append(row.Issues, "not enough overlapping wpi dates for a correlation")
		}
		stage(StageCorrelation, nil)

		if sc.Forecaster != nil {
			row.Forecast = sc.Forecaster.Forecast(ctx, closes)
			for _, issue := range row.Forecast.Issues {
				row.Issues = append(row.Issues, fmt.Sprintf("%s forecast unavailable: %s", issue.Model, issue.Reason))
			}
		} else if len(closes) > 0 {
			row.Forecast.LatestActualPrice = closes[len(closes)-1]
		}
		stage(StageForecast, nil)
	}

	news := sc.ScoreStock(ctx, stock.Symbol)
	row.News = news.Records
	row.NewsStatus = news.Status
	row.AverageSentiment = AverageSentiment(news.Records)
	switch news.Status {
	case dm.NewsStatusProviderError:
		row.Issues = append(row.Issues, fmt.Sprintf("news unavailable: %v", news.Err))
	case dm.NewsStatusNoArticles:
		row.Issues = append(row.Issues, "no news articles found")
	}
	stage(StageNews, nil)

	return row
}

func (sc *ServiceContext) lookupRisk(ctx context.Context, symbol string) (*dm.RiskProfile, error) {
	if sc.Risk == nil {
		return nil, nil
	}
	return sc.Risk.Lookup(ctx, symbol)
}

func (sc *ServiceContext) hasRiskSource() bool {
	if sc.Risk == nil {
		return false
	}
	_, none := sc.Risk.(NoRiskSource)
	return !none
}

func (sc *ServiceContext) fetchPrices(ctx context.Context, symbol string, window analysisWindow) (dm.PriceSeries, error) {
	if sc.Prices == nil {
		return dm.PriceSeries{}, errors.New("no price provider configured")
	}

	prices, err := sc.Prices.GetPriceSeries(ctx, symbol, window.start, window.end)
	if err != nil {
		sc.logger().Warn().Str("stock", symbol).Err(err).Msg("price fetch failed")
		return dm.PriceSeries{}, fmt.Errorf("price history unavailable: %w", err)
	}
	if prices.Len() == 0 {
		return dm.PriceSeries{}, errors.New("price history unavailable: no closes in the selected range")
	}

	return prices, nil
}

func emptyRow(symbol string) dm.ResultRow {
	nan := math.NaN()
	return dm.ResultRow{
		Stock:                    symbol,
		CorrelationWithWPIChange: nan,
		ActualCorrelationWithWPI: nan,
		InflationImpliedChange:   nan,
		Forecast: dm.ForecastResult{
			LatestActualPrice: nan,
			LinearDelta:       nan,
			ArimaLevel:        nan,
			SequenceLevel:     nan,
		},
		Volatility:       nan,
		SharpeRatio:      nan,
		AverageSentiment: null.Float{},
	}
}

// SortRows orders by correlation with wpi change, highest first. NaN goes last and equal
// values keep their input order.
func SortRows(rows []dm.ResultRow) {
	slices.SortStableFunc(rows, func(a, b dm.ResultRow) int {
		an, bn := math.IsNaN(a.CorrelationWithWPIChange), math.IsNaN(b.CorrelationWithWPIChange)
		switch {
		case an && bn:
			return 0
		case an:
			return 1
		case bn:
			return -1
		}
		return cmp.Compare(b.CorrelationWithWPIChange, a.CorrelationWithWPIChange)
	})
}
