package graphembed

import (
	"github.com/hupe1980/graphembed/config"
	"github.com/hupe1980/graphembed/entity"
	"github.com/hupe1980/graphembed/graph"
)

// Re-exported error surface, so callers of the facade can match pipeline
// failures without importing every subpackage.

// ErrInvalidDimension indicates a non-positive embedding dimension.
type ErrInvalidDimension = config.ErrInvalidDimension

// ErrRowShape indicates a row whose field count does not match the column
// list.
type ErrRowShape = graph.ErrRowShape

var (
	// ErrNoColumns is returned when the column list is empty.
	ErrNoColumns = config.ErrNoColumns

	// ErrNoPairs is returned when the column list yields no relation pairs.
	ErrNoPairs = config.ErrNoPairs

	// ErrEntityNotFound is returned for lookups of never-assigned ids.
	ErrEntityNotFound = entity.ErrNotFound
)
