package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ternarybob/arbor"

	m "wpicorr/data/models"
)

var (
	ErrInsufficientHistory = errors.New("insufficient history")
	ErrNoModel             = errors.New("no arima candidate could be fitted")
	ErrTrainingFailed      = errors.New("sequence model training failed")
)

const (
	ModelLinear   = "linear"
	ModelArima    = "arima"
	ModelSequence = "lstm"
)

type Settings struct {
	Arima      ArimaSettings
	WindowSize int
	NumSteps   int
}

// Engine runs the three predictors over one close series, each one independent of the others
type Engine struct {
	settings Settings
	trainer  SequenceTrainer
	logger   arbor.ILogger
}

func NewEngine(settings Settings, trainer SequenceTrainer, logger arbor.ILogger) *Engine {
	if settings.WindowSize <= 0 {
		settings.WindowSize = 5
	}
	if settings.NumSteps <= 0 {
		settings.NumSteps = 1
	}
	if logger == nil {
		logger = arbor.NewLogger()
	}
	return &Engine{settings: settings, trainer: trainer, logger: logger}
}

// Forecast never fails as a whole, an unavailable model is NaN plus an issue
func (e *Engine) Forecast(ctx context.Context, closes []float64) m.ForecastResult {
	res := m.ForecastResult{
		LatestActualPrice: math.NaN(),
		LinearDelta:       math.NaN(),
		ArimaLevel:        math.NaN(),
		SequenceLevel:     math.NaN(),
	}
	if len(closes) > 0 {
		res.LatestActualPrice = closes[len(closes)-1]
	}

	start := time.Now()
	if err := guard(func() error {
		v, err := LinearDelta(closes)
		if err != nil {
			return err
		}
		res.LinearDelta = v
		return nil
	}); err != nil {
		res.Issues = append(res.Issues, m.ModelIssue{Model: ModelLinear, Reason: err.Error()})
	}
	e.logger.Debug().Str("model", ModelLinear).Int("observations", len(closes)).Dur("elapsed", time.Since(start)).Msg("forecast model done")

	start = time.Now()
	if err := guard(func() error {
		model, err := AutoArima(closes, e.settings.Arima)
		if err != nil {
			return err
		}
		v := model.Forecast()
		if !isFinite(v) {
			return fmt.Errorf("order %s gave a non finite forecast", model.Order)
		}
		res.ArimaLevel = v
		res.ArimaOrder = model.Order.String()
		return nil
	}); err != nil {
		res.Issues = append(res.Issues, m.ModelIssue{Model: ModelArima, Reason: err.Error()})
	}
	e.logger.Debug().Str("model", ModelArima).Str("order", res.ArimaOrder).Dur("elapsed", time.Since(start)).Msg("forecast model done")

	start = time.Now()
	if err := guard(func() error {
		levels, err := e.sequence(ctx, closes)
		if err != nil {
			return err
		}
		res.SequenceLevels = levels
		res.SequenceLevel = levels[len(levels)-1]
		return nil
	}); err != nil {
		res.Issues = append(res.Issues, m.ModelIssue{Model: ModelSequence, Reason: err.Error()})
	}
	e.logger.Debug().Str("model", ModelSequence).Int("steps", len(res.SequenceLevels)).Dur("elapsed", time.Since(start)).Msg("forecast model done")

	return res
}

func (e *Engine) sequence(ctx context.Context, closes []float64) ([]float64, error) {
	if e.trainer == nil {
		return nil, errors.New("no sequence trainer configured")
	}

	size := e.settings.WindowSize
	// at least two windows, one pair is not something to train on
	if len(closes) < size+2 {
		return nil, fmt.Errorf("%w: need %d closes for a window of %d, have %d", ErrInsufficientHistory, size+2, size, len(closes))
	}

	scaler := FitMinMax(closes)
	scaled := scaler.Transform(closes)
	windows, targets := MakeWindows(scaled, size)

	model, err := e.trainer.Fit(ctx, windows, targets)
	if err != nil {
		return nil, err
	}

	last := scaled[len(scaled)-size:]
	levels := PredictForward(model, scaler, last, e.settings.NumSteps)
	if len(levels) != e.settings.NumSteps {
		return nil, fmt.Errorf("expected %d predictions, got %d", e.settings.NumSteps, len(levels))
	}
	for _, v := range levels {
		if !isFinite(v) {
			return nil, fmt.Errorf("%w: non finite prediction", ErrTrainingFailed)
		}
	}

	return levels, nil
}

// guard turns a panic inside a predictor into an error
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
