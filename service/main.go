package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/sync/errgroup"

	_ "time/tzdata"

	m "wpicorr/data/models"
	r "wpicorr/data/repos"
	"wpicorr/data/sheets"
	av "wpicorr/service/api/alpha_vantage"
	"wpicorr/service/api/newsapi"
	"wpicorr/service/common"
	c "wpicorr/service/core"
	"wpicorr/service/core/forecast"
	sm "wpicorr/service/models"
)

func main() {
	configPath := flag.String("config", "", "path to a toml config file")
	stocksPath := flag.String("stocks", "", "run one batch for this xlsx/csv file and print the report")
	lookback := flag.String("lookback", "", "data range for the batch, 6m 1y 3y or 5y")
	inflation := flag.Float64("inflation", 0, "expected upcoming wpi inflation")
	flag.Parse()

	// initialize context and signal handler, listen for interrupt and term signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *stocksPath, *lookback, *inflation); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, stocksPath, lookback string, inflation float64) error {
	config, err := common.LoadFromFiles(configPath)
	if err != nil {
		return err
	}

	logger := common.InitLogger(config)
	logger.Info().Str("environment", config.Environment).Str("price_source", config.Data.PriceSource).Str("risk_source", config.Data.RiskSource).Msg("configuration loaded")

	// only connect when something reads from postgres
	var postgresConnection *r.Postgres
	if config.Data.RiskSource == common.RiskSourcePostgres || config.Data.PriceSource != common.PriceSourceAlphaVantage {
		postgresConnection, err = r.GetPostgresConnection(ctx, config.Data.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer postgresConnection.Close()

		if err := postgresConnection.Ping(ctx); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}
	}

	sc, err := buildServiceContext(ctx, config, logger, postgresConnection)
	if err != nil {
		return err
	}

	if lookback == "" {
		lookback = config.Analysis.DefaultLookback
	}

	if stocksPath != "" {
		return runOnce(ctx, sc, stocksPath, lookback, inflation)
	}

	return serve(ctx, config, sc, logger)
}

func buildServiceContext(ctx context.Context, config *common.Config, logger arbor.ILogger, pg *r.Postgres) (*c.ServiceContext, error) {
	inflation, err := loadInflation(config.Data)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("file", config.Data.InflationFile).Int("points", inflation.Len()).Msg("inflation series loaded")

	risk, err := loadRiskSource(ctx, config.Data, pg)
	if err != nil {
		return nil, err
	}

	avClient, err := av.GetClient(config.Market.APIKey,
		av.WithBaseURL(config.Market.BaseURL),
		av.WithTimeout(common.ParseDurationOr(config.Market.Timeout, 30*time.Second)),
		av.WithRateLimit(config.Market.RequestsPerMinute),
		av.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	var prices c.PriceProvider = avClient
	switch config.Data.PriceSource {
	case common.PriceSourcePostgres:
		prices = pg
	case common.PriceSourceCached:
		prices = c.NewCachedPriceProvider(pg, avClient, common.ParseDurationOr(config.Market.RefreshAfter, 24*time.Hour), logger)
	}

	newsClient, err := newsapi.NewClient(config.News.APIKey,
		newsapi.WithBaseURL(config.News.BaseURL),
		newsapi.WithTimeout(common.ParseDurationOr(config.News.Timeout, 10*time.Second)),
		newsapi.WithRateLimit(config.News.RequestsPerSecond),
		newsapi.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	fc := config.Forecast
	trainer := forecast.NewLSTMTrainer(forecast.LSTMSettings{
		HiddenSize:   fc.HiddenSize,
		Epochs:       fc.Epochs,
		BatchSize:    fc.BatchSize,
		LearningRate: fc.LearningRate,
		Seed:         fc.Seed,
	})
	engine := forecast.NewEngine(forecast.Settings{
		Arima: forecast.ArimaSettings{
			MinObservations: fc.MinObservations,
			MaxP:            fc.MaxP,
			MaxD:            fc.MaxD,
			MaxQ:            fc.MaxQ,
		},
		WindowSize: fc.WindowSize,
		NumSteps:   fc.NumSteps,
	}, trainer, logger)

	return &c.ServiceContext{
		Logger:     logger,
		Inflation:  inflation,
		Risk:       risk,
		Prices:     prices,
		News:       newsClient,
		Forecaster: engine,
		Progress:   c.NewLogReporter(logger),
		Settings: c.AnalysisSettings{
			RiskFreeRate: config.Analysis.RiskFreeRate,
			Alignment:    config.Analysis.Alignment,
			NewsRegion:   config.News.Region,
			MaxArticles:  config.News.MaxArticles,
		},
	}, nil
}

// loadInflation failing is fatal, nothing can be correlated without it
func loadInflation(data common.DataConfig) (m.InflationSeries, error) {
	f, err := os.Open(data.InflationFile)
	if err != nil {
		return m.InflationSeries{}, fmt.Errorf("failed to open inflation file: %w", err)
	}
	defer f.Close()

	series, err := sheets.LoadInflationSeries(data.InflationFile, f, data.InflationColumn)
	if err != nil {
		return m.InflationSeries{}, fmt.Errorf("failed to load inflation file: %w", err)
	}
	return series, nil
}

func loadRiskSource(ctx context.Context, data common.DataConfig, pg *r.Postgres) (c.RiskSource, error) {
	switch data.RiskSource {
	case common.RiskSourceFile:
		f, err := os.Open(data.RiskFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open risk file: %w", err)
		}
		defer f.Close()

		table, err := sheets.LoadRiskTable(data.RiskFile, f)
		if err != nil {
			return nil, fmt.Errorf("failed to load risk file: %w", err)
		}
		return c.TableRiskSource{Table: table}, nil
	case common.RiskSourcePostgres:
		// fail at startup rather than on the first lookup
		if _, err := pg.GetRiskProfiles(ctx); err != nil {
			return nil, err
		}
		return c.NewPostgresRiskSource(pg), nil
	default:
		return c.NoRiskSource{}, nil
	}
}

func runOnce(ctx context.Context, sc *c.ServiceContext, stocksPath, lookback string, inflation float64) error {
	f, err := os.Open(stocksPath)
	if err != nil {
		return fmt.Errorf("failed to open stocks file: %w", err)
	}
	defer f.Close()

	stocks, err := sheets.LoadStockRequests(stocksPath, f)
	if err != nil {
		return err
	}

	report, err := sc.RunAnalysis(ctx, sm.AnalysisRequest{Stocks: stocks, Lookback: lookback, ExpectedInflation: inflation})
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(os.Stdout, c.RenderMarkdown(report))
	return err
}

func serve(ctx context.Context, config *common.Config, sc *c.ServiceContext, logger arbor.ILogger) error {
	hub := c.NewProgressHub(logger)
	sc.Progress = c.FanOut{sc.Progress, hub}

	s := c.GetHttpServer(sc, hub, c.ServerSettings{
		Addr:            net.JoinHostPort(config.Server.Host, strconv.Itoa(config.Server.Port)),
		ReadTimeout:     common.ParseDurationOr(config.Server.ReadTimeout, 30*time.Second),
		WriteTimeout:    common.ParseDurationOr(config.Server.WriteTimeout, 10*time.Minute),
		MaxUploadBytes:  int64(config.Server.MaxUploadMB) << 20,
		DefaultLookback: config.Analysis.DefaultLookback,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", s.Addr).Msg("starting wpicorr server")
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		// wait here until the context is closed (ie, ctrl+C) or the server died
		<-gctx.Done()
		logger.Info().Msg("received shutdown signal, shutting down gracefully...")

		// this gives the server 10 seconds to shutdown gracefully
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := s.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		logger.Info().Msg("server stopped successfully")
		return nil
	})

	return g.Wait()
}
