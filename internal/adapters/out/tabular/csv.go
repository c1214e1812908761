// Package tabular adapts uploaded spreadsheet files to the row stream the
// ingestion pipeline consumes. Sources stream one row at a time and enforce
// a row ceiling so an oversized upload cannot exhaust memory.
package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"cardtrack/internal/pkg/errs"
)

// ErrRowLimitExceeded is returned when an upload carries more data rows
// than the configured ceiling. It is a resource-limit flavor of
// errs.ErrIOFailure, so both sentinels match with errors.Is.
var ErrRowLimitExceeded = fmt.Errorf("%w: row limit exceeded", errs.ErrIOFailure)

func rowLimitError(maxRows int) error {
	return fmt.Errorf("%w: more than %d data rows", ErrRowLimitExceeded, maxRows)
}

// CSVRowSource streams rows out of a CSV upload. The first row returned is
// the header row; it does not count against the ceiling.
type CSVRowSource struct {
	reader  *csv.Reader
	closer  io.Closer
	maxRows int
	rows    int
}

// NewCSVRowSource creates a row source over the reader. maxRows caps the
// number of data rows; the source fails mid-stream once the cap is passed.
func NewCSVRowSource(r io.ReadCloser, maxRows int) *CSVRowSource {
	reader := csv.NewReader(r)
	// upstream exports pad or truncate rows freely
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	return &CSVRowSource{
		reader:  reader,
		closer:  r,
		maxRows: maxRows,
	}
}

// Next returns the next row. The second return value is false at end of file.
func (s *CSVRowSource) Next() ([]string, bool, error) {
	record, err := s.reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errs.NewIOFailureError("csv read", err)
	}

	s.rows++
	if s.maxRows > 0 && s.rows > s.maxRows+1 { // header row is free
		return nil, false, rowLimitError(s.maxRows)
	}

	return record, true, nil
}

// Close releases the underlying reader.
func (s *CSVRowSource) Close() error {
	return s.closer.Close()
}
