package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/guregu/null/v6"

	m "wpicorr/data/models"
)

func newsQuery(stock, region string) string {
	q := fmt.Sprintf("%s AND (business OR finance)", stock)
	if region = strings.TrimSpace(region); region != "" {
		q += " AND " + region
	}
	return q
}

// ScoreStock fetches and scores recent articles for a stock. It never returns an error,
// a failed search is an outcome with no records and the provider error status.
func (sc *ServiceContext) ScoreStock(ctx context.Context, stock string) m.NewsOutcome {
	if sc.News == nil {
		return m.NewsOutcome{Status: m.NewsStatusProviderError, Err: fmt.Errorf("no news client configured")}
	}

	maxArticles := sc.Settings.MaxArticles
	if maxArticles <= 0 {
		maxArticles = DefaultAnalysisSettings().MaxArticles
	}

	articles, err := sc.News.Search(ctx, newsQuery(stock, sc.Settings.NewsRegion), maxArticles)
	if err != nil {
		sc.logger().Warn().Str("stock", stock).Err(err).Msg("news search failed")
		return m.NewsOutcome{Status: m.NewsStatusProviderError, Err: err}
	}

	if len(articles) == 0 {
		return m.NewsOutcome{Status: m.NewsStatusNoArticles}
	}

	records := make([]m.NewsSentimentRecord, len(articles))
	for i, a := range articles {
		records[i] = m.NewsSentimentRecord{
			Title:       a.Title,
			Description: a.Description,
			Score:       ScoreText(fmt.Sprintf("%s. %s", a.Title, a.Description)),
			Link:        a.URL,
		}
	}

	return m.NewsOutcome{Records: records, Status: m.NewsStatusOK}
}

// AverageSentiment is null when there is nothing to average
func AverageSentiment(records []m.NewsSentimentRecord) null.Float {
	if len(records) == 0 {
		return null.Float{}
	}

	var sum float64
	for _, r := range records {
		sum += r.Score
	}
	return null.FloatFrom(sum / float64(len(records)))
}
