package sheets

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is a header row plus the data rows under it, every row padded to the header width
type Table struct {
	Source  string
	Headers []string
	Rows    [][]string
}

// ReadTable picks a reader from the file extension of name
func ReadTable(name string, r io.Reader) (*Table, error) {
	var (
		raw [][]string
		err error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		raw, err = readWorkbook(r)
	case ".csv":
		raw, err = readCsv(r)
	default:
		return nil, loadError(name, "", 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name)))
	}

	if err != nil {
		return nil, loadError(name, "", 0, err)
	}

	return newTable(name, raw)
}

func newTable(name string, raw [][]string) (*Table, error) {
	// skip leading blank rows, some exports put a title line above the header
	start := 0
	for start < len(raw) && isBlank(raw[start]) {
		start++
	}
	if start == len(raw) {
		return nil, loadError(name, "", 0, errors.New("no header row found"))
	}

	headers := make([]string, len(raw[start]))
	for i, h := range raw[start] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([][]string, 0, len(raw)-start-1)
	for _, r := range raw[start+1:] {
		row := make([]string, len(headers))
		copy(row, r)
		rows = append(rows, row)
	}

	return &Table{Source: name, Headers: headers, Rows: rows}, nil
}

func readWorkbook(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	// raw values keep date cells as serial numbers instead of the display format
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %s: %w", sheets[0], err)
	}

	return rows, nil
}

func readCsv(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading csv: %w", err)
	}

	return rows, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
