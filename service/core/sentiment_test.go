package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	ex "wpicorr/data/extensions"
	dm "wpicorr/data/models"
	"wpicorr/service/api/newsapi"
)

func TestScoreTextPolarity(t *testing.T) {
	ex.AssertInDelta(t, "good", 0.4404, ScoreText("good"), 1e-4)
	ex.AssertAreEqual(t, "neutral", 0.0, ScoreText("The meeting is on Tuesday"))
	ex.AssertAreEqual(t, "empty", 0.0, ScoreText(""))

	if s := ScoreText("Shares slump as the company warns of losses"); s >= 0 {
		t.Fatalf("expected a negative score, got %v", s)
	}
}

func TestScoreTextRules(t *testing.T) {
	base := ScoreText("The results were good")

	if s := ScoreText("The results were very good"); s <= base {
		t.Fatalf("expected a booster to raise %v, got %v", base, s)
	}
	if s := ScoreText("The results were GOOD"); s <= base {
		t.Fatalf("expected caps to raise %v, got %v", base, s)
	}
	if s := ScoreText("The results were good!"); s <= base {
		t.Fatalf("expected an exclamation to raise %v, got %v", base, s)
	}
	if s := ScoreText("The results were not good"); s >= 0 {
		t.Fatalf("expected negation to flip the score, got %v", s)
	}
	if s := ScoreText("The results weren't good"); s >= 0 {
		t.Fatalf("expected a contracted negation to flip the score, got %v", s)
	}
	if s := ScoreText("The outlook was good but the results were terrible"); s >= 0 {
		t.Fatalf("expected the clause after but to dominate, got %v", s)
	}
}

func TestScoreTextIsBoundedAndDeterministic(t *testing.T) {
	text := strings.Repeat("great excellent amazing profits soar ", 50) + "!!!!!!"
	s := ScoreText(text)
	if s > 1 || s < -1 {
		t.Fatalf("expected a score in [-1, 1], got %v", s)
	}
	ex.AssertAreEqual(t, "repeatable", s, ScoreText(text))
}

func TestNewsQuery(t *testing.T) {
	ex.AssertAreEqual(t, "with region", "TCS AND (business OR finance) AND India", newsQuery("TCS", "India"))
	ex.AssertAreEqual(t, "without region", "TCS AND (business OR finance)", newsQuery("TCS", " "))
}

type capturingNews struct {
	query    string
	pageSize int
	articles []newsapi.Article
	err      error
}

func (c *capturingNews) Search(_ context.Context, q string, pageSize int) ([]newsapi.Article, error) {
	c.query, c.pageSize = q, pageSize
	return c.articles, c.err
}

func TestScoreStockOutcomes(t *testing.T) {
	news := &capturingNews{articles: []newsapi.Article{
		{Title: "Profits surge", Description: "", URL: "https://example.com/1"},
	}}
	sc := &ServiceContext{Logger: arbor.NewLogger(), News: news, Settings: AnalysisSettings{NewsRegion: "India", MaxArticles: 3}}

	outcome := sc.ScoreStock(context.Background(), "INFY")
	ex.AssertAreEqual(t, "status", dm.NewsStatusOK, outcome.Status)
	ex.AssertAreEqual(t, "page size", 3, news.pageSize)
	ex.AssertAreEqual(t, "query", "INFY AND (business OR finance) AND India", news.query)
	require.Len(t, outcome.Records, 1)
	ex.AssertAreEqual(t, "score", ScoreText("Profits surge. "), outcome.Records[0].Score)
	ex.AssertAreEqual(t, "link", "https://example.com/1", outcome.Records[0].Link)

	news.articles = nil
	outcome = sc.ScoreStock(context.Background(), "INFY")
	ex.AssertAreEqual(t, "empty status", dm.NewsStatusNoArticles, outcome.Status)
	require.Empty(t, outcome.Records)
	require.NoError(t, outcome.Err)

	news.err = newsapi.ErrMissingArticles
	outcome = sc.ScoreStock(context.Background(), "INFY")
	ex.AssertAreEqual(t, "error status", dm.NewsStatusProviderError, outcome.Status)
	require.True(t, errors.Is(outcome.Err, newsapi.ErrMissingArticles))
	require.Empty(t, outcome.Records)
}

func TestAverageSentiment(t *testing.T) {
	require.False(t, AverageSentiment(nil).Valid)

	avg := AverageSentiment([]dm.NewsSentimentRecord{{Score: 0.5}, {Score: -0.1}})
	require.True(t, avg.Valid)
	ex.AssertInDelta(t, "average", 0.2, avg.Float64, 1e-12)
}
