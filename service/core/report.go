package core

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/guregu/null/v6"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	ex "wpicorr/data/extensions"
	dm "wpicorr/data/models"
)

const missingCell = "-"

var reportColumns = []string{
	"Stock",
	"Correlation with WPI Change",
	"Actual Correlation with WPI",
	"Inflation Implied Change (%)",
	"Predicted Price Change (Linear Regression)",
	"Predicted Price Change (ARIMA)",
	"Latest Actual Price",
	"Predicted Stock Price (LSTM)",
	"Volatility",
	"Reference Volatility",
	"Beta",
	"Return_on_Investment",
	"Debt_to_Equity_Ratio",
	"Category",
	"Sharpe Ratio",
	"News Sentiment Scores",
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// RenderMarkdown writes the sorted table followed by the scored articles per stock
func RenderMarkdown(report *dm.Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## Results Sorted by Correlation\n\n")
	fmt.Fprintf(&sb, "Data range: %s, expected WPI inflation: %s, generated %s (run %s)\n\n",
		report.Lookback, formatFloat(report.ExpectedInflation), ex.FmtLong(report.GeneratedAt), report.RunID)

	sb.WriteString("| " + strings.Join(reportColumns, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat(" --- |", len(reportColumns)) + "\n")

	for _, r := range report.Rows {
		cells := []string{
			escapeCell(r.Stock),
			formatFloat(r.CorrelationWithWPIChange),
			formatFloat(r.ActualCorrelationWithWPI),
			formatFloat(r.InflationImpliedChange),
			formatFloat(r.Forecast.LinearDelta),
			formatArima(r.Forecast),
			formatFloat(r.Forecast.LatestActualPrice),
			formatFloat(r.Forecast.SequenceLevel),
			formatFloat(r.Volatility),
			formatNull(r.ReferenceVolatility),
			formatNull(r.Beta),
			formatNull(r.ReturnOnInvestment),
			formatNull(r.DebtToEquityRatio),
			formatNullString(r.Category),
			formatFloat(r.SharpeRatio),
			formatSentiment(r),
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	sb.WriteString("\n## News Sentiment\n")
	for _, r := range report.Rows {
		fmt.Fprintf(&sb, "\n### %s\n\n", escapeCell(r.Stock))
		if len(r.News) == 0 {
			fmt.Fprintf(&sb, "No articles (%s).\n", r.NewsStatus)
			continue
		}
		for _, n := range r.News {
			fmt.Fprintf(&sb, "- [%s](%s) (%s): %s\n", escapeLinkText(n.Title), n.Link, formatFloat(n.Score), escapeCell(n.Description))
		}
	}

	var issues []string
	for _, r := range report.Rows {
		for _, i := range r.Issues {
			issues = append(issues, fmt.Sprintf("- %s: %s", escapeCell(r.Stock), escapeCell(i)))
		}
	}
	if len(issues) > 0 {
		sb.WriteString("\n## Issues\n\n")
		sb.WriteString(strings.Join(issues, "\n"))
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderHTML is the markdown report converted to an html fragment
func RenderHTML(report *dm.Report) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(RenderMarkdown(report)), &buf); err != nil {
		return "", fmt.Errorf("error rendering report html: %w", err)
	}
	return buf.String(), nil
}

func formatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return missingCell
	}
	return fmt.Sprintf("%.4f", v)
}

func formatNull(v null.Float) string {
	if !v.Valid {
		return missingCell
	}
	return formatFloat(v.Float64)
}

func formatNullString(v null.String) string {
	if !v.Valid || v.String == "" {
		return missingCell
	}
	return escapeCell(v.String)
}

func formatArima(f dm.ForecastResult) string {
	if math.IsNaN(f.ArimaLevel) {
		return missingCell
	}
	return fmt.Sprintf("%s %s", formatFloat(f.ArimaLevel), f.ArimaOrder)
}

func formatSentiment(r dm.ResultRow) string {
	if len(r.News) == 0 {
		return missingCell
	}
	scores := ex.Map(r.News, func(n dm.NewsSentimentRecord) string { return formatFloat(n.Score) })
	return fmt.Sprintf("%s (avg %s)", strings.Join(scores, ", "), formatNull(r.AverageSentiment))
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}

func escapeLinkText(s string) string {
	r := strings.NewReplacer("[", "\\[", "]", "\\]", "|", "\\|", "\n", " ")
	return r.Replace(s)
}
