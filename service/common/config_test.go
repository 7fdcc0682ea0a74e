package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ex "wpicorr/data/extensions"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"WPI_SERVER_PORT", "WPI_LOG_LEVEL", "WPI_RISK_SOURCE", "WPI_RISK_FILE", "WPI_PRICE_SOURCE",
		"WPI_NEWS_REGION", "WPI_RISK_FREE_RATE", "DATABASE_URL", "ALPHAVANTAGE_API_KEY", "NEWS_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wpicorr.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, NewDefaultConfig().Validate())
}

func TestLoadFromFilesMergesInOrder(t *testing.T) {
	clearEnv(t)

	base := writeConfig(t, `
[server]
port = 9090

[news]
region = "US"
max_articles = 10
`)
	override := writeConfig(t, `
[news]
max_articles = 3

[analysis]
alignment = "monthly"
`)

	cfg, err := LoadFromFiles(base, override)
	require.NoError(t, err)

	ex.AssertAreEqual(t, "port", 9090, cfg.Server.Port)
	ex.AssertAreEqual(t, "region", "US", cfg.News.Region)
	ex.AssertAreEqual(t, "max articles", 3, cfg.News.MaxArticles)
	ex.AssertAreEqual(t, "alignment", "monthly", cfg.Analysis.Alignment)
	// untouched values keep their defaults
	ex.AssertAreEqual(t, "window size", 5, cfg.Forecast.WindowSize)
}

func TestEnvironmentOverridesFiles(t *testing.T) {
	clearEnv(t)
	t.Setenv("WPI_SERVER_PORT", "7070")
	t.Setenv("WPI_NEWS_REGION", "UK")
	t.Setenv("NEWS_API_KEY", "news-test-key")
	t.Setenv("WPI_RISK_FREE_RATE", "0.065")

	cfg, err := LoadFromFiles(writeConfig(t, "[server]\nport = 9090\n"))
	require.NoError(t, err)

	ex.AssertAreEqual(t, "port", 7070, cfg.Server.Port)
	ex.AssertAreEqual(t, "region", "UK", cfg.News.Region)
	ex.AssertAreEqual(t, "news key", "news-test-key", cfg.News.APIKey)
	assert.InDelta(t, 0.065, cfg.Analysis.RiskFreeRate, 1e-12)
}

func TestValidationRejectsBadSettings(t *testing.T) {
	clearEnv(t)

	cases := map[string]string{
		"risk file missing":      "[data]\nrisk_source = \"file\"\n",
		"unknown risk source":    "[data]\nrisk_source = \"sheet\"\n",
		"postgres without url":   "[data]\nrisk_source = \"postgres\"\n",
		"bad alignment":          "[analysis]\nalignment = \"weekly\"\n",
		"bad timeout":            "[news]\ntimeout = \"soon\"\n",
		"too many news articles": "[news]\nmax_articles = 500\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFromFiles(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestParseDurationOrFallsBack(t *testing.T) {
	ex.AssertAreEqual(t, "valid", 10*time.Second, ParseDurationOr("10s", time.Minute))
	ex.AssertAreEqual(t, "empty", time.Minute, ParseDurationOr("", time.Minute))
	ex.AssertAreEqual(t, "bad", time.Minute, ParseDurationOr("nope", time.Minute))
}

func TestInitLoggerConsoleOnly(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Logging.Output = nil

	logger := InitLogger(cfg)
	require.NotNil(t, logger)
	logger.Info().Str("test", t.Name()).Msg("logger initialised")
}
