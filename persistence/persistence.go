// Package persistence defines the Embedding Persistor contract that
// receives final embeddings, plus bundled text and in-memory
// implementations.
package persistence

// EmbeddingPersistor receives the final embeddings of one relation.
//
// The engine calls PutMetadata exactly once, then PutData exactly once per
// entity (order not guaranteed; persistors needing a specific order must
// sort internally), then Finish exactly once. Any returned error aborts the
// remaining calls for that relation; already-persisted entities are not
// rolled back.
type EmbeddingPersistor interface {
	// PutMetadata announces the entity count and vector dimension.
	PutMetadata(entityCount int, dimension int) error

	// PutData persists one entity: its string, its occurrence count for
	// the relation, and its final vector. The vector slice is only valid
	// for the duration of the call.
	PutData(value string, occurrences uint32, vector []float32) error

	// Finish flushes and releases any buffered resources.
	Finish() error
}
