package alpha_vantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	ex "wpicorr/data/extensions"
	m "wpicorr/data/models"
	c "wpicorr/service/api"
)

// public
const (
	BaseURLDefault = "https://www.alphavantage.co"
)

// private
const (
	defaultOutputSize = "full"
	defaultDataType   = "json"
	defaultTimeout    = time.Second * 30

	// api request elements
	query    = "query"
	symbol   = "symbol"
	function = "function"
)

var (
	ErrProvider = errors.New("alpha vantage returned an error")

	timeSeriesDateFormats = []string{
		"2006-01-02",
		"2006-01-02 15:04:05",
	}

	// bodies with one of these keys and no time series are failures, not empty data
	errorResultKeys = []string{"Error Message", "Note", "Information"}
)

type AlphaVantageClient struct {
	*c.Client
	logger arbor.ILogger
	series TimeSeries
}

type Option func(*options)

type options struct {
	baseURL           string
	timeout           time.Duration
	requestsPerMinute int
	logger            arbor.ILogger
	series            TimeSeries
}

func WithBaseURL(baseURL string) Option {
	return func(o *options) { o.baseURL = baseURL }
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *options) { o.timeout = timeout }
}

// WithRateLimit matches the plan quota, the free tier is 5 a minute
func WithRateLimit(requestsPerMinute int) Option {
	return func(o *options) { o.requestsPerMinute = requestsPerMinute }
}

func WithLogger(logger arbor.ILogger) Option {
	return func(o *options) { o.logger = logger }
}

func WithTimeSeries(series TimeSeries) Option {
	return func(o *options) { o.series = series }
}

func GetClient(apiKey string, opts ...Option) (*AlphaVantageClient, error) {
	o := options{
		baseURL: BaseURLDefault,
		timeout: defaultTimeout,
		series:  TimeSeriesDaily,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = arbor.NewLogger()
	}

	client, err := c.ClientFactory(o.baseURL, apiKey, o.timeout, c.PerMinute(o.requestsPerMinute))
	if err != nil {
		return nil, fmt.Errorf("error building alpha vantage client: %w", err)
	}

	return &AlphaVantageClient{
		Client: client,
		logger: o.logger,
		series: o.series,
	}, nil
}

// GetPriceSeries fetches the configured series for ticker and keeps the closes in [start, end]
func (avc *AlphaVantageClient) GetPriceSeries(ctx context.Context, ticker string, start, end time.Time) (m.PriceSeries, error) {
	res, err := avc.GetTimeSeries(ctx, ticker, avc.series)
	if err != nil {
		return m.PriceSeries{}, err
	}
	return res.Between(start, end), nil
}

// https://www.alphavantage.co/documentation/#daily
func (avc *AlphaVantageClient) GetTimeSeries(ctx context.Context, ticker string, series TimeSeries) (m.PriceSeries, error) {
	if avc == nil {
		panic("alpha vantage client has not been set.")
	}

	start := time.Now()
	params := map[string]string{
		function: series.Function(),
		symbol:   ticker,
	}
	if series.SupportsOutputSize() {
		params["outputsize"] = defaultOutputSize
	}
	endpoint := avc.buildRequestPath(params)

	response, err := avc.Client.Connection.Request(ctx, endpoint)
	if err != nil {
		return m.PriceSeries{}, fmt.Errorf("error requesting %s for %s: %w", series.Function(), ticker, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return m.PriceSeries{}, fmt.Errorf("%w: status %d for %s", ErrProvider, response.StatusCode, ticker)
	}

	raw, err := parseRawJson(response.Body)
	if err != nil {
		return m.PriceSeries{}, err
	}

	if err := parseProviderError(raw, series.TimeSeriesKey()); err != nil {
		return m.PriceSeries{}, err
	}

	timeZone, err := parseTimeZone(raw)
	if err != nil {
		return m.PriceSeries{}, err
	}

	points, err := parseTimeSeriesCloses(raw, series.TimeSeriesKey(), timeZone)
	if err != nil {
		return m.PriceSeries{}, err
	}

	avc.logger.Debug().
		Str("symbol", ticker).
		Str("function", series.Function()).
		Int("points", len(points)).
		Dur("elapsed", time.Since(start)).
		Msg("fetched alpha vantage time series")

	return m.NewPriceSeries(ticker, points), nil
}

func (avc *AlphaVantageClient) buildRequestPath(params map[string]string) *url.URL {
	endpoint := &url.URL{}
	endpoint.Path = query

	// base parameters
	query := endpoint.Query()
	query.Set("apikey", avc.Client.ApiKey)
	query.Set("datatype", defaultDataType)

	// additional parameters
	for key, value := range params {
		query.Set(key, value)
	}

	endpoint.RawQuery = query.Encode()

	return endpoint
}

func parseRawJson(reader io.Reader) (raw map[string]json.RawMessage, err error) {
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	// converting to a <string, raw message> map
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %w", err)
	}

	return
}

func parseProviderError(raw map[string]json.RawMessage, seriesKey string) error {
	if _, ok := raw[seriesKey]; ok {
		return nil
	}

	for _, key := range errorResultKeys {
		if msg, ok := raw[key]; ok {
			var text string
			if err := json.Unmarshal(msg, &text); err != nil {
				text = string(msg)
			}
			return fmt.Errorf("%w: %s: %s", ErrProvider, key, text)
		}
	}

	return fmt.Errorf("%w: response has no %q key", ErrProvider, seriesKey)
}

func parseTimeZone(raw map[string]json.RawMessage) (*time.Location, error) {
	metaData, ok := raw["Meta Data"]
	if !ok {
		return time.UTC, nil
	}

	var metadataElements map[string]string
	if err := json.Unmarshal(metaData, &metadataElements); err != nil {
		return nil, fmt.Errorf("error unmarshaling meta data: %w", err)
	}

	metaDataKeys := slices.Collect(maps.Keys(metadataElements))
	tzf := func(s string) bool { return strings.HasSuffix(s, ". Time Zone") }
	timeZoneKey, found := ex.FilterFirst(metaDataKeys, tzf)
	if !found {
		return time.UTC, nil
	}

	return getTimeZone(metadataElements[timeZoneKey])
}

func parseTimeSeriesCloses(raw map[string]json.RawMessage, key string, location *time.Location) ([]m.PricePoint, error) {
	var timeSeriesElements map[string]map[string]string
	if err := json.Unmarshal(raw[key], &timeSeriesElements); err != nil {
		return nil, fmt.Errorf("error unmarshaling time series: %w", err)
	}

	points := make([]m.PricePoint, 0, len(timeSeriesElements))
	if len(timeSeriesElements) == 0 {
		return points, nil
	}

	// every row has the same headers, so the close key is resolved once
	var firstValue map[string]string
	for _, v := range timeSeriesElements {
		firstValue = v
		break
	}

	cf := func(s string) bool { return strings.HasSuffix(strings.ToLower(s), ". close") }
	closeKey, err := ex.FilterSingle(slices.Collect(maps.Keys(firstValue)), cf)
	if err != nil {
		return nil, fmt.Errorf("error extracting close key for time series, available headers: %v", slices.Sorted(maps.Keys(firstValue)))
	}

	for timeSeriesKey, timeSeriesValue := range timeSeriesElements {
		timestamp, err := parseDate(timeSeriesKey, location)
		if err != nil {
			return nil, fmt.Errorf("error converting TIMESTAMP from string to time.Time: %w", err)
		}

		closePrice, err := strconv.ParseFloat(timeSeriesValue[closeKey], 64)
		if err != nil {
			return nil, fmt.Errorf("error parsing close %q on %s: %w", timeSeriesValue[closeKey], timeSeriesKey, err)
		}

		points = append(points, m.PricePoint{Date: timestamp, Close: closePrice})
	}

	return points, nil
}

func getTimeZone(location string) (*time.Location, error) {
	var loc string
	switch strings.ToUpper(location) {
	case "US/EASTERN":
		loc = "America/New_York"
	case "ASIA/KOLKATA", "ASIA/CALCUTTA":
		loc = "Asia/Kolkata"
	default:
		return time.UTC, nil
	}

	res, err := time.LoadLocation(loc)
	if err != nil {
		return nil, fmt.Errorf("error parsing time zone %s in time.LoadLocation", loc)
	}

	return res, nil
}

func parseDate(dateString string, location *time.Location) (time.Time, error) {
	for _, format := range timeSeriesDateFormats {
		t, err := time.ParseInLocation(format, dateString, location)
		if err != nil {
			continue
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("error converting date %s to time.Time", dateString)
}
