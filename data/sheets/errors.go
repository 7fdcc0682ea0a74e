package sheets

import (
	"errors"
	"fmt"
)

var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// DataLoadError points at the part of an input that could not be used.
// Row is 1 based and counts the header, 0 means the whole table.
type DataLoadError struct {
	Source string
	Column string
	Row    int
	Err    error
}

func (e *DataLoadError) Error() string {
	switch {
	case e.Column == "" && e.Row == 0:
		return fmt.Sprintf("error loading %s: %v", e.Source, e.Err)
	case e.Row == 0:
		return fmt.Sprintf("error loading %s, column %q: %v", e.Source, e.Column, e.Err)
	default:
		return fmt.Sprintf("error loading %s, column %q row %d: %v", e.Source, e.Column, e.Row, e.Err)
	}
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

func loadError(source, column string, row int, err error) *DataLoadError {
	return &DataLoadError{Source: source, Column: column, Row: row, Err: err}
}

func missingColumn(source, column string) *DataLoadError {
	return loadError(source, column, 0, fmt.Errorf("required column %q not found", column))
}
