package sheets

import (
	"errors"
	"io"
	"strings"

	ex "wpicorr/data/extensions"
	m "wpicorr/data/models"
)

const (
	StockColumn = "Stock"
)

// LoadStockRequests returns the Stock column in file order, blank cells are skipped
func LoadStockRequests(name string, r io.Reader) ([]m.StockRequest, error) {
	table, err := ReadTable(name, r)
	if err != nil {
		return nil, err
	}

	return StockRequestsFromTable(table)
}

func StockRequestsFromTable(table *Table) ([]m.StockRequest, error) {
	idx := ex.IndexOfFold(table.Headers, StockColumn)
	if idx < 0 {
		return nil, missingColumn(table.Source, StockColumn)
	}

	res := make([]m.StockRequest, 0, len(table.Rows))
	for _, row := range table.Rows {
		symbol := strings.TrimSpace(row[idx])
		if symbol == "" {
			continue
		}
		res = append(res, m.StockRequest{Symbol: symbol})
	}

	if len(res) == 0 {
		return nil, loadError(table.Source, StockColumn, 0, errors.New("no stock identifiers found"))
	}

	return res, nil
}
