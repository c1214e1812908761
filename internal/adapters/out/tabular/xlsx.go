package tabular

import (
	"io"

	"github.com/xuri/excelize/v2"

	"cardtrack/internal/pkg/errs"
)

// XLSXRowSource streams rows out of the first sheet of an XLSX upload using
// excelize's streaming row iterator, so the sheet is never fully decoded
// into memory.
type XLSXRowSource struct {
	file    *excelize.File
	rows    *excelize.Rows
	maxRows int
	read    int
}

// NewXLSXRowSource opens the workbook and positions the source at the first
// sheet. maxRows caps the number of data rows, as with CSV.
func NewXLSXRowSource(r io.Reader, maxRows int) (*XLSXRowSource, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errs.NewIOFailureError("xlsx open", err)
	}

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		_ = file.Close()
		return nil, errs.NewValueIsRequiredError("worksheet")
	}

	rows, err := file.Rows(sheets[0])
	if err != nil {
		_ = file.Close()
		return nil, errs.NewIOFailureError("xlsx rows", err)
	}

	return &XLSXRowSource{
		file:    file,
		rows:    rows,
		maxRows: maxRows,
	}, nil
}

// Next returns the next row. The second return value is false when the
// sheet is exhausted.
func (s *XLSXRowSource) Next() ([]string, bool, error) {
	if !s.rows.Next() {
		if err := s.rows.Error(); err != nil {
			return nil, false, errs.NewIOFailureError("xlsx read", err)
		}
		return nil, false, nil
	}

	record, err := s.rows.Columns()
	if err != nil {
		return nil, false, errs.NewIOFailureError("xlsx read", err)
	}

	s.read++
	if s.maxRows > 0 && s.read > s.maxRows+1 { // header row is free
		return nil, false, rowLimitError(s.maxRows)
	}

	return record, true, nil
}

// Close releases the row iterator and the workbook.
func (s *XLSXRowSource) Close() error {
	rowsErr := s.rows.Close()
	if err := s.file.Close(); err != nil {
		return err
	}
	return rowsErr
}
