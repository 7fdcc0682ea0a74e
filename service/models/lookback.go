package models

import (
	"fmt"
	"strings"
	"time"
)

type Lookback uint8

// Lookback is the data range the models are trained on
const (
	LookbackSixMonths Lookback = iota
	LookbackOneYear
	LookbackThreeYears
	LookbackFiveYears
)

var lookbacks = []Lookback{
	LookbackSixMonths,
	LookbackOneYear,
	LookbackThreeYears,
	LookbackFiveYears,
}

func Lookbacks() []Lookback {
	res := make([]Lookback, len(lookbacks))
	copy(res, lookbacks)
	return res
}

func (l Lookback) Code() string {
	switch l {
	case LookbackSixMonths:
		return "6m"
	case LookbackOneYear:
		return "1y"
	case LookbackThreeYears:
		return "3y"
	case LookbackFiveYears:
		return "5y"
	default:
		return ""
	}
}

func (l Lookback) Label() string {
	switch l {
	case LookbackSixMonths:
		return "6 months"
	case LookbackOneYear:
		return "1 year"
	case LookbackThreeYears:
		return "3 years"
	case LookbackFiveYears:
		return "5 years"
	default:
		return ""
	}
}

func (l Lookback) Months() int {
	switch l {
	case LookbackSixMonths:
		return 6
	case LookbackOneYear:
		return 12
	case LookbackThreeYears:
		return 36
	case LookbackFiveYears:
		return 60
	default:
		return 0
	}
}

func (l Lookback) String() string {
	return l.Label()
}

// Start is today minus the lookback in calendar months. The day is clamped to the
// end of the target month so 31 Aug minus 6 months is 28/29 Feb, not 2/3 Mar.
func (l Lookback) Start(today time.Time) time.Time {
	return subtractMonths(today, l.Months())
}

// ParseLookback takes either a code (1y) or a label (1 year)
func ParseLookback(s string) (Lookback, error) {
	v := strings.TrimSpace(s)
	for _, l := range lookbacks {
		if strings.EqualFold(v, l.Code()) || strings.EqualFold(v, l.Label()) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown lookback %q", s)
}

// LookbackResources maps codes to labels for the form and /api/lookbacks
func LookbackResources() map[string]string {
	res := make(map[string]string, len(lookbacks))
	for _, l := range lookbacks {
		res[l.Code()] = l.Label()
	}
	return res
}

func subtractMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	total := int(m) - 1 - months
	year := y + total/12
	month := total % 12
	if month < 0 {
		month += 12
		year--
	}

	target := time.Month(month + 1)
	// day 0 of the next month is the last day of target
	last := time.Date(year, target+1, 0, 0, 0, 0, 0, t.Location()).Day()
	if d > last {
		d = last
	}

	return time.Date(year, target, d, hh, mm, ss, t.Nanosecond(), t.Location())
}
