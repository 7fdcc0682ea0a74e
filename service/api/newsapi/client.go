package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"

	c "wpicorr/service/api"
)

const (
	BaseURLDefault = "https://newsapi.org/v2/everything"

	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
)

var (
	// ErrProvider covers transport failures, non 2xx codes and bodies we cannot decode
	ErrProvider = errors.New("news provider error")

	// ErrMissingArticles is a decodable body with no articles field at all
	ErrMissingArticles = errors.New("news response has no articles field")
)

type Article struct {
	Title       string
	Description string
	URL         string
}

type searchResponse struct {
	Status   string        `json:"status"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Articles *[]rawArticle `json:"articles"`
}

type rawArticle struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	URL         *string `json:"url"`
}

type Client struct {
	*c.Client
	logger arbor.ILogger
}

type Option func(*options)

type options struct {
	baseURL           string
	timeout           time.Duration
	requestsPerSecond float64
	logger            arbor.ILogger
}

func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *options) { o.timeout = timeout }
}

func WithRateLimit(requestsPerSecond float64) Option {
	return func(o *options) { o.requestsPerSecond = requestsPerSecond }
}

func WithLogger(logger arbor.ILogger) Option {
	return func(o *options) { o.logger = logger }
}

func NewClient(apiKey string, opts ...Option) (*Client, error) {
	o := options{
		baseURL: BaseURLDefault,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = arbor.NewLogger()
	}

	client, err := c.ClientFactory(o.baseURL, apiKey, o.timeout, c.PerSecond(o.requestsPerSecond))
	if err != nil {
		return nil, fmt.Errorf("error building news client: %w", err)
	}

	return &Client{Client: client, logger: o.logger}, nil
}

// Search asks for at most pageSize articles matching q. Descriptions come back as plain text.
func (nc *Client) Search(ctx context.Context, q string, pageSize int) ([]Article, error) {
	endpoint := &url.URL{}
	params := endpoint.Query()
	params.Set("apiKey", nc.Client.ApiKey)
	params.Set("q", q)
	params.Set("pageSize", strconv.Itoa(pageSize))
	endpoint.RawQuery = params.Encode()

	response, err := nc.Client.Connection.Request(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: error reading body: %w", ErrProvider, err)
	}

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: status %d: %s", ErrProvider, response.StatusCode, providerMessage(body))
	}

	var decoded searchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: malformed body: %w", ErrProvider, err)
	}

	if decoded.Articles == nil {
		if decoded.Status == "error" {
			return nil, fmt.Errorf("%w: %s: %s", ErrProvider, decoded.Code, decoded.Message)
		}
		return nil, ErrMissingArticles
	}

	raw := *decoded.Articles
	if len(raw) > pageSize {
		raw = raw[:pageSize]
	}

	res := make([]Article, 0, len(raw))
	for _, a := range raw {
		res = append(res, Article{
			Title:       StripHTML(deref(a.Title)),
			Description: StripHTML(deref(a.Description)),
			URL:         deref(a.URL),
		})
	}

	nc.logger.Debug().Str("query", q).Int("articles", len(res)).Msg("news search complete")
	return res, nil
}

// StripHTML returns the text content of s with whitespace collapsed
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}

	return strings.Join(strings.Fields(doc.Text()), " ")
}

func providerMessage(body []byte) string {
	var decoded searchResponse
	if err := json.Unmarshal(body, &decoded); err == nil && decoded.Message != "" {
		return decoded.Message
	}
	if len(body) > 200 {
		return string(body[:200])
	}
	return string(body)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
