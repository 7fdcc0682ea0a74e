package alpha_vantage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	ex "wpicorr/data/extensions"
)

const (
	avKeyName = "ALPHAVANTAGE_API_KEY"
)

const dailyBody = `{
	"Meta Data": {
		"1. Information": "Daily Prices (open, high, low, close) and Volumes",
		"2. Symbol": "TCS.BSE",
		"3. Last Refreshed": "2024-03-05",
		"4. Output Size": "Full size",
		"5. Time Zone": "UTC"
	},
	"Time Series (Daily)": {
		"2024-03-05": {"1. open": "4100.0", "2. high": "4150.0", "3. low": "4080.0", "4. close": "4120.5", "5. volume": "1000"},
		"2024-03-04": {"1. open": "4050.0", "2. high": "4110.0", "3. low": "4040.0", "4. close": "4101.0", "5. volume": "1200"},
		"2024-03-01": {"1. open": "4000.0", "2. high": "4060.0", "3. low": "3990.0", "4. close": "4055.25", "5. volume": "900"}
	}
}`

func Test_AlphaVantage_GetApiKey(t *testing.T) {
	env, err := godotenv.Read("testenv")
	if err != nil {
		t.Fatalf("error loading environment: %s", err)
	}

	actual := env[avKeyName]
	if actual == "" {
		t.Fatalf("error finding key %s in testenv", avKeyName)
	}

	expected := "av-test-api-key"
	if actual != expected {
		t.Fatalf("error validating key. expected %s, got %s", expected, actual)
	}
}

func getTestClient(t *testing.T, handler http.HandlerFunc) *AlphaVantageClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := GetClient("av-test-api-key", WithBaseURL(server.URL), WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("error building client: %s", err)
	}
	return c
}

func Test_AlphaVantage_DailySeriesIsSortedAndFiltered(t *testing.T) {
	var gotFunction, gotKey, gotOutputSize string
	c := getTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotFunction = r.URL.Query().Get("function")
		gotKey = r.URL.Query().Get("apikey")
		gotOutputSize = r.URL.Query().Get("outputsize")
		w.Write([]byte(dailyBody))
	})

	start := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)
	res, err := c.GetPriceSeries(context.Background(), "TCS.BSE", start, end)
	if err != nil {
		t.Fatalf("error getting price series: %s", err)
	}

	ex.AssertAreEqual(t, "function", "TIME_SERIES_DAILY", gotFunction)
	ex.AssertAreEqual(t, "api key", "av-test-api-key", gotKey)
	ex.AssertAreEqual(t, "output size", "full", gotOutputSize)
	ex.AssertAreEqual(t, "symbol", "TCS.BSE", res.Symbol)
	ex.AssertAreEqual(t, "length", 2, res.Len())
	ex.AssertAreEqual(t, "first date", "2024-03-04", ex.FmtShort(res.Points[0].Date))
	ex.AssertAreEqual(t, "first close", 4101.0, res.Points[0].Close)
	ex.AssertAreEqual(t, "last close", 4120.5, res.Points[1].Close)
}

func Test_AlphaVantage_ErrorBodiesAreProviderErrors(t *testing.T) {
	bodies := map[string]string{
		"error message": `{"Error Message": "Invalid API call."}`,
		"note":          `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute"}`,
		"information":   `{"Information": "The demo API key is for demo purposes only."}`,
		"unknown shape": `{"Something": "else"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c := getTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})

			_, err := c.GetTimeSeries(context.Background(), "TCS.BSE", TimeSeriesDaily)
			if !errors.Is(err, ErrProvider) {
				t.Fatalf("expected ErrProvider, got %v", err)
			}
		})
	}
}

func Test_AlphaVantage_NonSuccessStatus(t *testing.T) {
	c := getTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.GetTimeSeries(context.Background(), "TCS.BSE", TimeSeriesDaily)
	require.ErrorIs(t, err, ErrProvider)
}

func Test_AlphaVantage_MalformedBody(t *testing.T) {
	c := getTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	})

	_, err := c.GetTimeSeries(context.Background(), "TCS.BSE", TimeSeriesDaily)
	require.Error(t, err)
}

func Test_AlphaVantage_TimeSeriesKeys(t *testing.T) {
	ex.AssertAreEqual(t, "daily", "Time Series (Daily)", TimeSeriesDaily.TimeSeriesKey())
	ex.AssertAreEqual(t, "weekly", "TIME_SERIES_WEEKLY", TimeSeriesWeekly.Function())
	ex.AssertAreEqual(t, "monthly supports output size", false, TimeSeriesMonthly.SupportsOutputSize())
}
