package sheets

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	ex "wpicorr/data/extensions"
	m "wpicorr/data/models"
)

const (
	DateColumn = "Date"
)

var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	time.RFC3339,
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	"01/02/2006",
	"2-Jan-2006",
	"02-Jan-2006",
	"Jan-06",
	"Jan 2006",
	"January 2006",
	"2006-01",
}

// LoadInflationSeries reads a Date column and one numeric index column.
// With column empty the first column after Date that is fully numeric is used.
func LoadInflationSeries(name string, r io.Reader, column string) (m.InflationSeries, error) {
	table, err := ReadTable(name, r)
	if err != nil {
		return m.InflationSeries{}, err
	}

	return InflationSeriesFromTable(table, column)
}

func InflationSeriesFromTable(table *Table, column string) (m.InflationSeries, error) {
	dateIdx := ex.IndexOfFold(table.Headers, DateColumn)
	if dateIdx < 0 {
		return m.InflationSeries{}, missingColumn(table.Source, DateColumn)
	}

	valueIdx, err := resolveValueColumn(table, dateIdx, column)
	if err != nil {
		return m.InflationSeries{}, err
	}
	valueName := table.Headers[valueIdx]

	points := make([]m.InflationPoint, 0, len(table.Rows))
	for i, row := range table.Rows {
		// header is row 1
		rowNumber := i + 2

		if isBlank(row) {
			continue
		}

		date, err := ParseDate(row[dateIdx])
		if err != nil {
			return m.InflationSeries{}, loadError(table.Source, table.Headers[dateIdx], rowNumber, err)
		}

		value, err := parseNumber(row[valueIdx])
		if err != nil {
			return m.InflationSeries{}, loadError(table.Source, valueName, rowNumber, err)
		}

		points = append(points, m.InflationPoint{Date: date, Value: value})
	}

	return m.NewInflationSeries(points), nil
}

func resolveValueColumn(table *Table, dateIdx int, column string) (int, error) {
	if column != "" {
		idx := ex.IndexOfFold(table.Headers, column)
		if idx < 0 {
			return -1, missingColumn(table.Source, column)
		}
		return idx, nil
	}

	for idx := range table.Headers {
		if idx == dateIdx || table.Headers[idx] == "" {
			continue
		}
		if columnIsNumeric(table.Rows, idx) {
			return idx, nil
		}
	}

	return -1, loadError(table.Source, "", 0, fmt.Errorf("no numeric index column found next to %q", DateColumn))
}

func columnIsNumeric(rows [][]string, idx int) bool {
	seen := false
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		if _, err := parseNumber(row[idx]); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

// ParseDate accepts an excel serial number or any of the known text layouts
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("error converting excel serial %s: %w", s, err)
		}
		return t, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("error converting date %s to time.Time", s)
}

func parseNumber(raw string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing %q as a number: %w", raw, err)
	}
	if !ex.IsFinite(v) {
		return 0, fmt.Errorf("value %q is not finite", raw)
	}

	return v, nil
}
