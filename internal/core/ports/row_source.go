package ports

// RowSource streams positional rows out of a tabular file one at a time.
// The first row returned is the header row. Implementations enforce a row
// ceiling and must never buffer the whole file in memory.
type RowSource interface {
	// Next returns the next row of cell values. The second return value
	// is false when the source is exhausted.
	Next() ([]string, bool, error)

	// Close releases resources held by the source.
	Close() error
}
