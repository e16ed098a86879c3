// Package graphembed computes dense entity embeddings from multi-relational
// tabular data.
//
// For every pair of configured columns the graph builder accumulates a
// sparse, row-stochastic co-occurrence matrix; the embedding engine then
// propagates seeded random vectors through it, L2-normalizing after every
// iteration. The engine runs fully in memory or against memory-mapped
// disk-backed buffers, with equivalent results.
//
// # Quick Start
//
//	cfg := &config.Config{
//	    Dimension:  128,
//	    Iterations: 4,
//	    Columns: []config.Column{
//	        {Name: "user"},
//	        {Name: "item"},
//	    },
//	}
//
//	mapping := entity.NewInMemory()
//	src := input.NewTSV("edges.tsv")
//
//	err := graphembed.Run(ctx, cfg, src, mapping, graphembed.TextFiles(cfg, "out"))
//
// The pipeline stages are also available individually via BuildGraphs and
// CalculateEmbeddings.
//
// # Determinism
//
// With a configured seed the resident strategy is bit-for-bit reproducible;
// the memory-mapped strategy matches it up to floating-point
// summation-order variance. Without a seed, one is drawn per run and
// logged.
package graphembed
