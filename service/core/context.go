package core

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	m "wpicorr/data/models"
	"wpicorr/service/api/newsapi"
	sm "wpicorr/service/models"
)

// PriceProvider is anything that can hand back closes for a symbol, alpha vantage or postgres
type PriceProvider interface {
	GetPriceSeries(ctx context.Context, symbol string, start, end time.Time) (m.PriceSeries, error)
}

type NewsSearcher interface {
	Search(ctx context.Context, q string, pageSize int) ([]newsapi.Article, error)
}

type Forecaster interface {
	Forecast(ctx context.Context, closes []float64) m.ForecastResult
}

type AnalysisSettings struct {
	RiskFreeRate float64
	Alignment    string
	NewsRegion   string
	MaxArticles  int
}

func DefaultAnalysisSettings() AnalysisSettings {
	return AnalysisSettings{
		RiskFreeRate: 0,
		Alignment:    sm.AlignExact,
		NewsRegion:   "India",
		MaxArticles:  5,
	}
}

// ServiceContext holds everything a batch reads from. The inflation series and the risk
// source are loaded once at startup and only read afterwards.
type ServiceContext struct {
	Logger     arbor.ILogger
	Inflation  m.InflationSeries
	Risk       RiskSource
	Prices     PriceProvider
	News       NewsSearcher
	Forecaster Forecaster
	Progress   ProgressReporter
	Settings   AnalysisSettings

	// Now is swapped out in tests so lookbacks resolve against a fixed day
	Now func() time.Time
}

func (sc *ServiceContext) today() time.Time {
	if sc.Now != nil {
		return sc.Now()
	}
	return time.Now()
}

func (sc *ServiceContext) logger() arbor.ILogger {
	if sc.Logger == nil {
		sc.Logger = arbor.NewLogger()
	}
	return sc.Logger
}

func (sc *ServiceContext) progress() ProgressReporter {
	if sc.Progress == nil {
		return NewLogReporter(sc.logger())
	}
	return sc.Progress
}
