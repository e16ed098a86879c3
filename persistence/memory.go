package persistence

import "sort"

// Entry is one persisted entity held by Memory.
type Entry struct {
	Value       string
	Occurrences uint32
	Vector      []float32
}

// Memory is an EmbeddingPersistor that keeps everything in memory.
// It is the harness used by the strategy-equivalence tests and is handy for
// programmatic consumers that post-process embeddings themselves.
type Memory struct {
	EntityCount int
	Dimension   int
	Entries     []Entry
	finished    bool
}

var _ EmbeddingPersistor = (*Memory)(nil)

// NewMemory creates an empty in-memory persistor.
func NewMemory() *Memory {
	return &Memory{}
}

// PutMetadata implements EmbeddingPersistor.
func (m *Memory) PutMetadata(entityCount, dimension int) error {
	m.EntityCount = entityCount
	m.Dimension = dimension

	return nil
}

// PutData implements EmbeddingPersistor. The vector is copied.
func (m *Memory) PutData(value string, occurrences uint32, vector []float32) error {
	vec := make([]float32, len(vector))
	copy(vec, vector)

	m.Entries = append(m.Entries, Entry{
		Value:       value,
		Occurrences: occurrences,
		Vector:      vec,
	})

	return nil
}

// Finish implements EmbeddingPersistor.
func (m *Memory) Finish() error {
	m.finished = true
	return nil
}

// Finished reports whether Finish has been called.
func (m *Memory) Finished() bool {
	return m.finished
}

// SortByValue orders entries by entity string, for order-independent
// comparison of two runs.
func (m *Memory) SortByValue() {
	sort.Slice(m.Entries, func(i, j int) bool {
		return m.Entries[i].Value < m.Entries[j].Value
	})
}

// Get returns the entry for value.
func (m *Memory) Get(value string) (Entry, bool) {
	for _, e := range m.Entries {
		if e.Value == value {
			return e, true
		}
	}

	return Entry{}, false
}
