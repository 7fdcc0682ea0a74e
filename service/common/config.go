package common

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	RiskSourceNone     = "none"
	RiskSourceFile     = "file"
	RiskSourcePostgres = "postgres"

	PriceSourceAlphaVantage = "alphavantage"
	PriceSourcePostgres     = "postgres"
	PriceSourceCached       = "cached"
)

// Config is loaded defaults -> toml files -> environment, later wins
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Logging     LoggingConfig  `toml:"logging"`
	Data        DataConfig     `toml:"data"`
	Market      MarketConfig   `toml:"market"`
	News        NewsConfig     `toml:"news"`
	Forecast    ForecastConfig `toml:"forecast"`
	Analysis    AnalysisConfig `toml:"analysis"`
}

type ServerConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port" validate:"min=1,max=65535"`
	ReadTimeout  string `toml:"read_timeout"`
	WriteTimeout string `toml:"write_timeout"` // a batch trains models inside the request, keep this generous
	MaxUploadMB  int    `toml:"max_upload_mb" validate:"min=1"`
}

type LoggingConfig struct {
	Level     string   `toml:"level" validate:"oneof=debug info warn error"`
	Output    []string `toml:"output" validate:"dive,oneof=stdout console file"`
	Directory string   `toml:"directory"`
}

type DataConfig struct {
	InflationFile   string `toml:"inflation_file" validate:"required"`
	InflationColumn string `toml:"inflation_column"` // empty picks the first numeric column
	RiskSource      string `toml:"risk_source" validate:"oneof=none file postgres"`
	RiskFile        string `toml:"risk_file" validate:"required_if=RiskSource file"`
	PriceSource     string `toml:"price_source" validate:"oneof=alphavantage postgres cached"`
	DatabaseURL     string `toml:"-"` // DATABASE_URL only
}

type MarketConfig struct {
	BaseURL           string `toml:"base_url" validate:"required,url"`
	APIKey            string `toml:"-"` // ALPHAVANTAGE_API_KEY only
	Timeout           string `toml:"timeout"`
	RequestsPerMinute int    `toml:"requests_per_minute" validate:"min=1"`
	RefreshAfter      string `toml:"refresh_after"` // cached price source only
}

type NewsConfig struct {
	BaseURL           string  `toml:"base_url" validate:"required,url"`
	APIKey            string  `toml:"-"` // NEWS_API_KEY only
	Region            string  `toml:"region"`
	MaxArticles       int     `toml:"max_articles" validate:"min=1,max=100"`
	Timeout           string  `toml:"timeout"`
	RequestsPerSecond float64 `toml:"requests_per_second" validate:"gt=0"`
}

type ForecastConfig struct {
	MinObservations int     `toml:"min_observations" validate:"min=3"`
	MaxP            int     `toml:"max_p" validate:"min=0,max=5"`
	MaxD            int     `toml:"max_d" validate:"min=0,max=2"`
	MaxQ            int     `toml:"max_q" validate:"min=0,max=5"`
	WindowSize      int     `toml:"window_size" validate:"min=1"`
	HiddenSize      int     `toml:"hidden_size" validate:"min=1"`
	Epochs          int     `toml:"epochs" validate:"min=1"`
	BatchSize       int     `toml:"batch_size" validate:"min=1"`
	LearningRate    float64 `toml:"learning_rate" validate:"gt=0"`
	Seed            uint64  `toml:"seed"`
	NumSteps        int     `toml:"num_steps" validate:"min=1"`
}

type AnalysisConfig struct {
	RiskFreeRate    float64 `toml:"risk_free_rate"`
	Alignment       string  `toml:"alignment" validate:"oneof=exact monthly"`
	DefaultLookback string  `toml:"default_lookback" validate:"oneof=6m 1y 3y 5y"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host:         "localhost",
			Port:         8080,
			ReadTimeout:  "30s",
			WriteTimeout: "10m",
			MaxUploadMB:  10,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Output:    []string{"stdout"},
			Directory: "./logs",
		},
		Data: DataConfig{
			InflationFile: "WPI.xlsx",
			RiskSource:    RiskSourceNone,
			PriceSource:   PriceSourceAlphaVantage,
		},
		Market: MarketConfig{
			BaseURL:           "https://www.alphavantage.co",
			Timeout:           "30s",
			RequestsPerMinute: 5,
			RefreshAfter:      "24h",
		},
		News: NewsConfig{
			BaseURL:           "https://newsapi.org/v2/everything",
			Region:            "India",
			MaxArticles:       5,
			Timeout:           "10s",
			RequestsPerSecond: 1,
		},
		Forecast: ForecastConfig{
			MinObservations: 10,
			MaxP:            3,
			MaxD:            2,
			MaxQ:            3,
			WindowSize:      5,
			HiddenSize:      16,
			Epochs:          60,
			BatchSize:       16,
			LearningRate:    0.01,
			Seed:            42,
			NumSteps:        1,
		},
		Analysis: AnalysisConfig{
			RiskFreeRate:    0,
			Alignment:       "exact",
			DefaultLookback: "1y",
		},
	}
}

// LoadFromFiles merges each file over the defaults in order then applies the environment.
// A .env in the working directory is loaded first when present.
func LoadFromFiles(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	config := NewDefaultConfig()
	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	needsDatabase := c.Data.RiskSource == RiskSourcePostgres || c.Data.PriceSource != PriceSourceAlphaVantage
	if needsDatabase && c.Data.DatabaseURL == "" {
		return errors.New("invalid configuration: DATABASE_URL is required for the postgres risk or price source")
	}

	for name, d := range map[string]string{
		"server.read_timeout":  c.Server.ReadTimeout,
		"server.write_timeout": c.Server.WriteTimeout,
		"market.timeout":       c.Market.Timeout,
		"market.refresh_after": c.Market.RefreshAfter,
		"news.timeout":         c.News.Timeout,
	} {
		if d == "" {
			continue
		}
		if _, err := time.ParseDuration(d); err != nil {
			return fmt.Errorf("invalid configuration: %s: %w", name, err)
		}
	}

	return nil
}

func applyEnvOverrides(config *Config) {
	if env := os.Getenv("WPI_ENV"); env != "" {
		config.Environment = env
	}

	// server
	if port := os.Getenv("WPI_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("WPI_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// logging
	if level := os.Getenv("WPI_LOG_LEVEL"); level != "" {
		config.Logging.Level = strings.ToLower(level)
	}

	// data
	if file := os.Getenv("WPI_INFLATION_FILE"); file != "" {
		config.Data.InflationFile = file
	}
	if source := os.Getenv("WPI_RISK_SOURCE"); source != "" {
		config.Data.RiskSource = strings.ToLower(source)
	}
	if file := os.Getenv("WPI_RISK_FILE"); file != "" {
		config.Data.RiskFile = file
	}
	if source := os.Getenv("WPI_PRICE_SOURCE"); source != "" {
		config.Data.PriceSource = strings.ToLower(source)
	}

	// news
	if region := os.Getenv("WPI_NEWS_REGION"); region != "" {
		config.News.Region = region
	}

	// analysis
	if rf := os.Getenv("WPI_RISK_FREE_RATE"); rf != "" {
		if v, err := strconv.ParseFloat(rf, 64); err == nil {
			config.Analysis.RiskFreeRate = v
		}
	}

	// secrets never come from the toml files
	config.Data.DatabaseURL = os.Getenv("DATABASE_URL")
	config.Market.APIKey = os.Getenv("ALPHAVANTAGE_API_KEY")
	config.News.APIKey = os.Getenv("NEWS_API_KEY")
}

// ParseDurationOr is d parsed, or fallback when d is empty or bad
func ParseDurationOr(d string, fallback time.Duration) time.Duration {
	if d == "" {
		return fallback
	}
	res, err := time.ParseDuration(d)
	if err != nil {
		return fallback
	}
	return res
}
