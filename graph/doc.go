// Package graph builds sparse weighted relation matrices from tokenized
// rows.
//
// For every pair of configured columns (and every reflexive column paired
// with itself) the builder accumulates directed co-occurrence edges across
// all rows, resolves entity strings to dense ids through an entity.Mapping,
// and normalizes each entity's outgoing weights to a row-stochastic
// transition relation. The resulting Matrix is immutable and is consumed by
// the embedding engine.
package graph
