package core

import (
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/require"

	dm "wpicorr/data/models"
)

func testReport() *dm.Report {
	row := emptyRow("TCS|BSE")
	row.CorrelationWithWPIChange = 0.81234
	row.Forecast.ArimaLevel = 4130.5
	row.Forecast.ArimaOrder = "(1,1,0)"
	row.Beta = null.FloatFrom(0.9)
	row.News = []dm.NewsSentimentRecord{{Title: "TCS [wins] deal", Description: "big contract", Score: 0.6, Link: "https://example.com/tcs"}}
	row.NewsStatus = dm.NewsStatusOK
	row.AverageSentiment = null.FloatFrom(0.6)

	other := emptyRow("INFY")
	other.NewsStatus = dm.NewsStatusProviderError
	other.Issues = []string{"news unavailable: timeout"}

	return &dm.Report{
		RunID:             uuid.New(),
		Lookback:          "1 year",
		ExpectedInflation: 5,
		GeneratedAt:       fixedToday,
		Rows:              []dm.ResultRow{row, other},
	}
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown(testReport())

	for _, c := range reportColumns {
		require.Contains(t, md, c)
	}
	require.Contains(t, md, "| TCS\\|BSE | 0.8123 |")
	require.Contains(t, md, "4130.5000 (1,1,0)")
	require.Contains(t, md, "| INFY | - |")
	require.Contains(t, md, "- [TCS \\[wins\\] deal](https://example.com/tcs) (0.6000): big contract")
	require.Contains(t, md, "No articles (provider_error).")
	require.Contains(t, md, "- INFY: news unavailable: timeout")
	require.False(t, strings.Contains(md, "NaN"))
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML(testReport())
	require.NoError(t, err)

	require.Contains(t, html, "<table>")
	require.Contains(t, html, "<th>Correlation with WPI Change</th>")
	require.Contains(t, html, `<a href="https://example.com/tcs">`)
}

func TestFormatFloat(t *testing.T) {
	require.Equal(t, "-", formatFloat(math.NaN()))
	require.Equal(t, "-", formatFloat(math.Inf(1)))
	require.Equal(t, "1.2346", formatFloat(1.23456))
	require.Equal(t, "-", formatNull(null.Float{}))
}
