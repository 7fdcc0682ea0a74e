package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"time"

	"golang.org/x/time/rate"
)

type Connection interface {
	Request(ctx context.Context, endpoint *url.URL) (*http.Response, error)
}

type ClientHost struct {
	client  *http.Client
	base    *url.URL
	limiter *rate.Limiter
}

type Client struct {
	Connection Connection
	ApiKey     string
}

// Request resolves endpoint against the base url, waits on the limiter, then sends a GET.
// An empty endpoint path means the base path itself.
func (conn *ClientHost) Request(ctx context.Context, endpoint *url.URL) (*http.Response, error) {
	if conn.limiter != nil {
		if err := conn.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}
	}

	target := *conn.base
	if endpoint.Path != "" {
		target.Path = path.Join(conn.base.Path, endpoint.Path)
	}
	target.RawQuery = endpoint.RawQuery

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return conn.client.Do(req)
}

// ClientFactory builds a client for one provider, limiter may be nil
func ClientFactory(baseURL string, apiKey string, timeout time.Duration, limiter *rate.Limiter) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing base url %s: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %s needs a scheme and host", baseURL)
	}

	client := &http.Client{
		Timeout: timeout,
	}

	clientHost := &ClientHost{
		client:  client,
		base:    base,
		limiter: limiter,
	}

	return &Client{
		Connection: clientHost,
		ApiKey:     apiKey,
	}, nil
}

// PerMinute is a limiter allowing n calls a minute with a burst of one
func PerMinute(n int) *rate.Limiter {
	if n <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
}

// PerSecond is a limiter allowing n calls a second with a burst of one
func PerSecond(n float64) *rate.Limiter {
	if n <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(n), 1)
}
