// Package input defines the Row Source contract: a finite, restartable
// sequence of raw rows consumed by the graph builder.
//
// Raw field parsing beyond tab splitting is a caller concern; the graph
// builder handles complex-column sub-token splitting itself.
package input

import "io"

// Row is one input record: exactly one raw field per configured column.
// Complex column fields may contain several delimiter-separated sub-tokens.
type Row []string

// RowSource supplies rows in a fixed order and can be restarted.
//
// Next returns io.EOF after the last row. A source must support
// Reset-then-Next cycles so the same data can feed several builds.
type RowSource interface {
	// Reset rewinds the source to the first row.
	Reset() error

	// Next returns the next row, or io.EOF when exhausted.
	// Parse errors are returned unchanged and are fatal to the build.
	Next() (Row, error)
}

// Slice is a RowSource over in-memory rows.
type Slice struct {
	rows []Row
	pos  int
}

var _ RowSource = (*Slice)(nil)

// NewSlice creates a RowSource backed by rows. The slice is not copied.
func NewSlice(rows []Row) *Slice {
	return &Slice{rows: rows}
}

// Reset implements RowSource.
func (s *Slice) Reset() error {
	s.pos = 0
	return nil
}

// Next implements RowSource.
func (s *Slice) Next() (Row, error) {
	if s.pos >= len(s.rows) {
		return nil, io.EOF
	}

	row := s.rows[s.pos]
	s.pos++

	return row, nil
}
