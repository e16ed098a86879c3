// Package entity defines the Entity Mapping Store contract consumed by the
// graph builder and the embedding engine, plus a bundled in-memory
// implementation.
//
// A mapping assigns each distinct entity string a dense integer id,
// contiguous from zero and stable for the lifetime of the run.
package entity

import "errors"

// ID is a dense, zero-based entity identifier.
type ID uint32

// ErrNotFound is returned by Lookup for an id that was never assigned.
var ErrNotFound = errors.New("entity: not found")

// Mapping is the Entity Mapping Store contract.
//
// Implementations must serialize concurrent Resolve calls internally; the
// graph builder and embedding engine may share one mapping.
type Mapping interface {
	// Resolve returns the id for value, assigning the next free id on
	// first use. It is idempotent.
	Resolve(value string) (ID, error)

	// Lookup returns the string for id, or ErrNotFound if the id was
	// never assigned.
	Lookup(id ID) (string, error)

	// ForEach calls fn for every known (id, value) pair in ascending id
	// order. It stops early and returns fn's error if fn fails.
	ForEach(fn func(id ID, value string) error) error
}
