// Package embedding turns a sparse relation matrix into dense entity
// embeddings by iterative propagation.
//
// Vectors start as seeded pseudo-random values and are repeatedly replaced
// by the L2-normalized, edge-weighted average of their neighbors' vectors.
// Each iteration reads from the current matrix buffer and writes to the
// next one, so the result of iteration k depends only on the complete
// snapshot of iteration k-1.
//
// Two execution strategies share the algorithm and differ only in buffer
// storage: resident (heap slices) and memory-mapped (disk-backed temp
// files sized up front), selected through config.Mode. For a fixed seed
// they produce equivalent results.
package embedding
