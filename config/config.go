// Package config holds the immutable run configuration shared by the graph
// builder and the embedding engine.
package config

import (
	"errors"
	"fmt"
)

// Default values applied by Validate when a field is left zero.
const (
	// DefaultDelimiter separates sub-tokens inside complex column fields.
	DefaultDelimiter = " "
	// DefaultLogEveryNRows is the row interval for build progress logging.
	DefaultLogEveryNRows = 10000
)

var (
	// ErrNoColumns is returned when the column list is empty.
	ErrNoColumns = errors.New("config: no columns configured")
	// ErrNoPairs is returned when the column list yields no relation pairs
	// (a single non-reflexive column).
	ErrNoPairs = errors.New("config: column list yields no relation pairs")
	// ErrNegativeIterations is returned for a negative iteration count.
	ErrNegativeIterations = errors.New("config: iterations must be >= 0")
)

// ErrInvalidDimension indicates a non-positive embedding dimension.
type ErrInvalidDimension struct {
	Dimension int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("config: invalid dimension: %d", e.Dimension)
}

// ErrDuplicateColumn indicates two columns sharing a name.
type ErrDuplicateColumn struct {
	Name string
}

func (e *ErrDuplicateColumn) Error() string {
	return fmt.Sprintf("config: duplicate column name %q", e.Name)
}

// Mode selects the physical execution strategy for the embedding matrix.
type Mode int

const (
	// ModeResident keeps both matrix buffers in process memory.
	ModeResident Mode = iota
	// ModeMmap backs both matrix buffers with memory-mapped temp files,
	// letting the working set exceed physical RAM.
	ModeMmap
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeResident:
		return "resident"
	case ModeMmap:
		return "mmap"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// Column describes one input column.
type Column struct {
	// Name identifies the column; it becomes part of relation descriptors.
	Name string

	// Complex marks a column whose fields may hold several sub-tokens,
	// split on the configured delimiter. Each sub-token is a separate
	// entity occurrence.
	Complex bool

	// Reflexive additionally pairs the column with itself, producing
	// edges among its own row-level values.
	Reflexive bool
}

// Config is the immutable configuration for one run.
// Validate must be called (and succeed) before the config is used.
type Config struct {
	// Dimension is the embedding vector length. Must be positive.
	Dimension int

	// Iterations is the number of propagation steps. Zero is legal and
	// returns the initial random embeddings.
	Iterations int

	// Seed, when non-nil, makes initialization bit-for-bit reproducible.
	// When nil, a seed is drawn once per run and logged.
	Seed *int64

	// Mode selects resident or memory-mapped matrix buffers.
	Mode Mode

	// RelationName identifies the run in logs and output. Not interpreted.
	RelationName string

	// Columns are the configured input columns, in input field order.
	Columns []Column

	// ProduceOccurrenceCounts controls whether text persistors built by
	// the bundled TextFiles factory write the per-entity occurrence count
	// column. The engine always passes counts to PutData.
	ProduceOccurrenceCounts bool

	// Delimiter splits complex column fields. Defaults to a single space.
	Delimiter string

	// LogEveryNRows is the row interval for build progress logging.
	LogEveryNRows int

	// MmapDir is the directory for memory-mapped backing files.
	// Defaults to os.TempDir().
	MmapDir string
}

// Validate checks the configuration and applies defaults for zero-valued
// optional fields. It is safe to call more than once.
func (c *Config) Validate() error {
	if c.Dimension <= 0 {
		return &ErrInvalidDimension{Dimension: c.Dimension}
	}
	if c.Iterations < 0 {
		return ErrNegativeIterations
	}
	if len(c.Columns) == 0 {
		return ErrNoColumns
	}

	seen := make(map[string]struct{}, len(c.Columns))
	pairs := false
	for _, col := range c.Columns {
		if _, ok := seen[col.Name]; ok {
			return &ErrDuplicateColumn{Name: col.Name}
		}
		seen[col.Name] = struct{}{}
		if col.Reflexive {
			pairs = true
		}
	}
	if len(c.Columns) > 1 {
		pairs = true
	}
	if !pairs {
		return ErrNoPairs
	}

	if c.Delimiter == "" {
		c.Delimiter = DefaultDelimiter
	}
	if c.LogEveryNRows <= 0 {
		c.LogEveryNRows = DefaultLogEveryNRows
	}

	return nil
}
