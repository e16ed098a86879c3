package graph

import (
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/graphembed/entity"
)

// Descriptor identifies a relation matrix by its ordered column pair.
type Descriptor struct {
	// ColA is the source column; edges run from its values.
	ColA string
	// ColB is the target column. Equal to ColA for reflexive relations.
	ColB string
}

// Name returns the canonical "colA_colB" identifier used in logs and
// output naming.
func (d Descriptor) Name() string {
	return d.ColA + "_" + d.ColB
}

// Reflexive reports whether the relation pairs a column with itself.
func (d Descriptor) Reflexive() bool {
	return d.ColA == d.ColB
}

// Edge is one outgoing, weight-normalized adjacency entry.
// Target is a matrix-local entity index.
type Edge struct {
	Target uint32
	Weight float32
}

// Matrix is the sparse relation structure for one column pair.
//
// Entities are indexed by a matrix-local dense id (assignment order), with
// the global mapping-store id kept alongside. After Normalize the outgoing
// weights of every connected entity sum to 1 and the matrix is immutable.
type Matrix struct {
	desc        Descriptor
	local       map[entity.ID]uint32
	globals     []entity.ID
	rows        [][]Edge
	occurrences []uint32
	connected   *roaring.Bitmap
	edgeCount   int
	normalized  bool
}

// NewMatrix creates an empty matrix for desc.
func NewMatrix(desc Descriptor) *Matrix {
	return &Matrix{
		desc:      desc,
		local:     make(map[entity.ID]uint32),
		connected: roaring.New(),
	}
}

// ensure returns the local index for a global entity id, registering the
// entity on first sight.
func (m *Matrix) ensure(global entity.ID) uint32 {
	if local, ok := m.local[global]; ok {
		return local
	}

	local := uint32(len(m.globals))
	m.local[global] = local
	m.globals = append(m.globals, global)
	m.rows = append(m.rows, nil)
	m.occurrences = append(m.occurrences, 0)

	return local
}

// addOccurrence counts one appearance of the entity in this relation's
// columns, registering the entity if needed.
func (m *Matrix) addOccurrence(global entity.ID) {
	m.occurrences[m.ensure(global)]++
}

// addEdge accumulates a directed edge with the given weight.
// Duplicate edges are kept as-is and coalesced by Normalize.
func (m *Matrix) addEdge(src, dst entity.ID, weight float32) {
	s := m.ensure(src)
	d := m.ensure(dst)
	m.rows[s] = append(m.rows[s], Edge{Target: d, Weight: weight})
}

// Normalize coalesces duplicate edges and rescales every entity's outgoing
// weights by their sum, making the matrix row-stochastic. It also fixes the
// connected-entity bitmap. Calling Normalize twice is an error.
func (m *Matrix) Normalize() error {
	if m.normalized {
		return fmt.Errorf("graph: matrix %s already normalized", m.desc.Name())
	}

	m.edgeCount = 0
	for i, row := range m.rows {
		if len(row) == 0 {
			continue
		}

		sort.Slice(row, func(a, b int) bool { return row[a].Target < row[b].Target })

		// Merge duplicate targets in place.
		out := row[:1]
		for _, e := range row[1:] {
			if last := &out[len(out)-1]; last.Target == e.Target {
				last.Weight += e.Weight
			} else {
				out = append(out, e)
			}
		}

		var sum float32
		for _, e := range out {
			sum += e.Weight
		}
		for j := range out {
			out[j].Weight /= sum
		}

		m.rows[i] = out
		m.edgeCount += len(out)
		m.connected.Add(uint32(i))
	}

	m.normalized = true

	return nil
}

// Descriptor returns the matrix identity.
func (m *Matrix) Descriptor() Descriptor {
	return m.desc
}

// EntityCount returns the number of entities in this relation, including
// zero-degree ones.
func (m *Matrix) EntityCount() int {
	return len(m.globals)
}

// EdgeCount returns the number of distinct directed edges.
// Valid after Normalize.
func (m *Matrix) EdgeCount() int {
	return m.edgeCount
}

// ConnectedCount returns the number of entities with out-degree > 0.
// Valid after Normalize.
func (m *Matrix) ConnectedCount() uint64 {
	return m.connected.GetCardinality()
}

// HasOutgoing reports whether the entity at local index i has at least one
// outgoing edge. Valid after Normalize.
func (m *Matrix) HasOutgoing(i uint32) bool {
	return m.connected.Contains(i)
}

// Row returns the normalized outgoing edges of the entity at local index i.
// The returned slice must not be modified.
func (m *Matrix) Row(i uint32) []Edge {
	return m.rows[i]
}

// GlobalID returns the mapping-store id of the entity at local index i.
func (m *Matrix) GlobalID(i uint32) entity.ID {
	return m.globals[i]
}

// LocalID returns the local index for a global entity id.
func (m *Matrix) LocalID(global entity.ID) (uint32, bool) {
	local, ok := m.local[global]
	return local, ok
}

// Occurrences returns how many times the entity at local index i appeared
// in this relation's columns across all rows.
func (m *Matrix) Occurrences(i uint32) uint32 {
	return m.occurrences[i]
}
