package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/graphembed/config"
	"github.com/hupe1980/graphembed/entity"
	"github.com/hupe1980/graphembed/graph"
	"github.com/hupe1980/graphembed/internal/math32"
	"github.com/hupe1980/graphembed/persistence"
)

// Options configures a calculation.
type Options struct {
	// Logger receives structured progress. Defaults to slog.Default().
	Logger *slog.Logger

	// Workers is the number of parallel propagation workers.
	// Defaults to runtime.GOMAXPROCS(0).
	Workers int
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) func(*Options) {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithWorkers sets the propagation worker count.
func WithWorkers(n int) func(*Options) {
	return func(o *Options) {
		o.Workers = n
	}
}

// Calculate computes final embeddings for one normalized relation matrix
// and streams them through the persistor.
//
// The execution strategy is selected by cfg.Mode; both strategies share the
// same initialization, propagation, and persistence code. The engine never
// falls back from one strategy to the other: a buffer-creation failure is
// returned with the failing strategy named.
func Calculate(ctx context.Context, cfg *config.Config, m *graph.Matrix, mapping entity.Mapping, persistor persistence.EmbeddingPersistor, optFns ...func(*Options)) error {
	opts := Options{
		Logger:  slog.Default(),
		Workers: runtime.GOMAXPROCS(0),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	if cfg.Dimension <= 0 {
		return &config.ErrInvalidDimension{Dimension: cfg.Dimension}
	}
	if cfg.Iterations < 0 {
		return config.ErrNegativeIterations
	}

	seed := resolveSeed(cfg, opts.Logger)

	n := m.EntityCount()
	opts.Logger.Info("calculating embeddings",
		"pair", m.Descriptor().Name(),
		"mode", cfg.Mode.String(),
		"entities", n,
		"dimension", cfg.Dimension,
		"iterations", cfg.Iterations,
	)

	if n == 0 {
		return persist(cfg, m, mapping, persistor, nil)
	}

	cur, next, err := newBufferPair(cfg, n)
	if err != nil {
		return err
	}
	defer cur.Close()
	defer next.Close()

	initMatrix(cur, n, cfg.Dimension, seed)

	for it := 1; it <= cfg.Iterations; it++ {
		if err := propagate(ctx, m, cur, next, opts.Workers); err != nil {
			return err
		}
		cur, next = next, cur

		opts.Logger.Debug("iteration complete",
			"pair", m.Descriptor().Name(),
			"iteration", it,
		)
	}

	return persist(cfg, m, mapping, persistor, cur)
}

// resolveSeed returns the configured seed, or draws one from the wall
// clock and logs it so the run stays reproducible.
func resolveSeed(cfg *config.Config, logger *slog.Logger) int64 {
	if cfg.Seed != nil {
		return *cfg.Seed
	}

	seed := time.Now().UnixNano()
	logger.Info("no seed configured, generated one",
		"relation", cfg.RelationName,
		"seed", seed,
	)

	return seed
}

// newBufferPair allocates the current and next matrix buffers for the
// configured strategy.
func newBufferPair(cfg *config.Config, n int) (buffer, buffer, error) {
	switch cfg.Mode {
	case config.ModeMmap:
		cur, err := newMmapBuffer(cfg.MmapDir, n, cfg.Dimension)
		if err != nil {
			return nil, nil, fmt.Errorf("embedding: mmap strategy: %w", err)
		}
		next, err := newMmapBuffer(cfg.MmapDir, n, cfg.Dimension)
		if err != nil {
			cur.Close()
			return nil, nil, fmt.Errorf("embedding: mmap strategy: %w", err)
		}
		return cur, next, nil
	default:
		return newMemoryBuffer(n, cfg.Dimension), newMemoryBuffer(n, cfg.Dimension), nil
	}
}

// initMatrix fills the buffer with uniform values in [-1,1), row by row in
// local-id order. math/rand's Go 1 source keeps this bit-for-bit
// reproducible for a given seed and entity ordering.
func initMatrix(b buffer, n, dim int, seed int64) {
	rng := rand.New(rand.NewSource(seed)) // nolint gosec

	for i := 0; i < n; i++ {
		row := b.Row(i)
		for j := 0; j < dim; j++ {
			row[j] = 2*rng.Float32() - 1
		}
	}
}

// propagate computes one full iteration: every entity's next vector from
// the current snapshot. Entities are chunked across workers; each entity
// owns exactly one destination row, so workers share no mutable state.
func propagate(ctx context.Context, m *graph.Matrix, cur, next buffer, workers int) error {
	n := m.EntityCount()
	chunk := (n + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < n; start += chunk {
		start := start
		end := min(start+chunk, n)

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			for i := start; i < end; i++ {
				dst := next.Row(i)

				if !m.HasOutgoing(uint32(i)) {
					copy(dst, cur.Row(i))
					continue
				}

				math32.Zero(dst)
				for _, e := range m.Row(uint32(i)) {
					math32.Axpy(dst, cur.Row(int(e.Target)), e.Weight)
				}

				// A cancelled weighted sum keeps the previous vector.
				if !math32.NormalizeL2InPlace(dst) {
					copy(dst, cur.Row(i))
				}
			}

			return nil
		})
	}

	return g.Wait()
}

// persist streams the final matrix through the persistor in local-id
// order: metadata once, one PutData per entity, Finish once.
func persist(cfg *config.Config, m *graph.Matrix, mapping entity.Mapping, persistor persistence.EmbeddingPersistor, final buffer) error {
	n := m.EntityCount()

	if err := persistor.PutMetadata(n, cfg.Dimension); err != nil {
		return fmt.Errorf("embedding: put metadata for %s: %w", m.Descriptor().Name(), err)
	}

	for i := 0; i < n; i++ {
		value, err := mapping.Lookup(m.GlobalID(uint32(i)))
		if err != nil {
			return fmt.Errorf("embedding: lookup entity %d: %w", m.GlobalID(uint32(i)), err)
		}

		if err := persistor.PutData(value, m.Occurrences(uint32(i)), final.Row(i)); err != nil {
			return fmt.Errorf("embedding: put data for %q: %w", value, err)
		}
	}

	if err := persistor.Finish(); err != nil {
		return fmt.Errorf("embedding: finish %s: %w", m.Descriptor().Name(), err)
	}

	return nil
}
