package newsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ex "wpicorr/data/extensions"
)

func getTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient("news-test-key", WithBaseURL(server.URL+"/v2/everything"), WithTimeout(time.Second))
	require.NoError(t, err)
	return c
}

func TestSearchSendsQueryAndParsesArticles(t *testing.T) {
	var gotPath, gotKey, gotQuery, gotPageSize string
	c := getTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("apiKey")
		gotQuery = r.URL.Query().Get("q")
		gotPageSize = r.URL.Query().Get("pageSize")
		w.Write([]byte(`{"status":"ok","totalResults":2,"articles":[
			{"title":"TCS wins deal","description":"<p>Shares <b>rise</b> after the win</p>","url":"https://example.com/a"},
			{"title":"TCS misses","description":null,"url":"https://example.com/b"}
		]}`))
	})

	res, err := c.Search(context.Background(), "TCS AND (business OR finance) AND India", 5)
	require.NoError(t, err)

	ex.AssertAreEqual(t, "path", "/v2/everything", gotPath)
	ex.AssertAreEqual(t, "key", "news-test-key", gotKey)
	ex.AssertAreEqual(t, "query", "TCS AND (business OR finance) AND India", gotQuery)
	ex.AssertAreEqual(t, "page size", "5", gotPageSize)

	require.Len(t, res, 2)
	ex.AssertAreEqual(t, "stripped description", "Shares rise after the win", res[0].Description)
	ex.AssertAreEqual(t, "null description", "", res[1].Description)
	ex.AssertAreEqual(t, "link", "https://example.com/b", res[1].URL)
}

func TestSearchTruncatesToPageSize(t *testing.T) {
	c := getTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","articles":[{"title":"a"},{"title":"b"},{"title":"c"}]}`))
	})

	res, err := c.Search(context.Background(), "x", 2)
	require.NoError(t, err)
	assert.Len(t, res, 2)
}

func TestSearchEmptyArticlesIsNotAnError(t *testing.T) {
	c := getTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","totalResults":0,"articles":[]}`))
	})

	res, err := c.Search(context.Background(), "x", 5)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestSearchFailureKinds(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		body     string
		expected error
	}{
		{"non 2xx", http.StatusUnauthorized, `{"status":"error","code":"apiKeyInvalid","message":"bad key"}`, ErrProvider},
		{"error body with 200", http.StatusOK, `{"status":"error","code":"rateLimited","message":"slow down"}`, ErrProvider},
		{"malformed", http.StatusOK, `not json`, ErrProvider},
		{"missing articles", http.StatusOK, `{"status":"ok","totalResults":0}`, ErrMissingArticles},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := getTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})

			res, err := c.Search(context.Background(), "x", 5)
			if !errors.Is(err, tc.expected) {
				t.Fatalf("expected %v, got %v", tc.expected, err)
			}
			assert.Empty(t, res)
		})
	}
}

func TestStripHTML(t *testing.T) {
	ex.AssertAreEqual(t, "plain", "no tags here", StripHTML("  no   tags here "))
	ex.AssertAreEqual(t, "tags", "Profit up 5%", StripHTML("<div>Profit <i>up</i> 5%</div>"))
	ex.AssertAreEqual(t, "entity", "R&D spend", StripHTML("R&amp;D spend"))
}
