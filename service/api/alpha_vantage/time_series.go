package alpha_vantage

// TimeSeries specifies a frequency to query for closing prices.
type TimeSeries uint8

const (
	TimeSeriesDaily TimeSeries = iota
	TimeSeriesWeekly
	TimeSeriesMonthly
)

type seriesSpec struct {
	name       string
	function   string
	key        string
	outputSize bool // weekly and monthly always return the full history
}

var seriesSpecs = map[TimeSeries]seriesSpec{
	TimeSeriesDaily:   {"TimeSeriesDaily", "TIME_SERIES_DAILY", "Time Series (Daily)", true},
	TimeSeriesWeekly:  {"TimeSeriesWeekly", "TIME_SERIES_WEEKLY", "Weekly Time Series", false},
	TimeSeriesMonthly: {"TimeSeriesMonthly", "TIME_SERIES_MONTHLY", "Monthly Time Series", false},
}

func (t TimeSeries) Name() string { return seriesSpecs[t].name }

func (t TimeSeries) Function() string { return seriesSpecs[t].function }

// TimeSeriesKey is the top level json key the closes live under
func (t TimeSeries) TimeSeriesKey() string { return seriesSpecs[t].key }

func (t TimeSeries) SupportsOutputSize() bool { return seriesSpecs[t].outputSize }
