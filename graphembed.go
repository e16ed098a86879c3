package graphembed

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/graphembed/config"
	"github.com/hupe1980/graphembed/embedding"
	"github.com/hupe1980/graphembed/entity"
	"github.com/hupe1980/graphembed/graph"
	"github.com/hupe1980/graphembed/input"
	"github.com/hupe1980/graphembed/persistence"
)

// PersistorFactory returns the persistor for one relation. Run calls it
// once per column pair; persistors shared across relations must serialize
// their own access.
type PersistorFactory func(desc graph.Descriptor) (persistence.EmbeddingPersistor, error)

// TextFiles returns a PersistorFactory writing one plain-text embedding
// file per relation into dir, named "<relation>__<colA>__<colB>.out" (the
// relation prefix is omitted when cfg.RelationName is empty). The occurrence
// count column follows cfg.ProduceOccurrenceCounts.
func TextFiles(cfg *config.Config, dir string) PersistorFactory {
	return func(desc graph.Descriptor) (persistence.EmbeddingPersistor, error) {
		name := desc.ColA + "__" + desc.ColB + ".out"
		if cfg.RelationName != "" {
			name = cfg.RelationName + "__" + name
		}

		var optFns []func(*persistence.TextOptions)
		if cfg.ProduceOccurrenceCounts {
			optFns = append(optFns, persistence.WithOccurrenceCounts())
		}

		return persistence.NewText(filepath.Join(dir, name), optFns...)
	}
}

// BuildGraphs consumes the row source once and returns one normalized
// relation matrix per configured column pair.
func BuildGraphs(ctx context.Context, cfg *config.Config, src input.RowSource, mapping entity.Mapping, optFns ...Option) ([]*graph.Matrix, error) {
	opts := applyOptions(optFns)

	return graph.Build(ctx, cfg, src, mapping, func(o *graph.Options) {
		o.Logger = opts.Logger.Logger
	})
}

// CalculateEmbeddings computes final embeddings for one relation matrix and
// streams them through the persistor, using the execution strategy selected
// by cfg.Mode.
func CalculateEmbeddings(ctx context.Context, cfg *config.Config, m *graph.Matrix, mapping entity.Mapping, persistor persistence.EmbeddingPersistor, optFns ...Option) error {
	opts := applyOptions(optFns)

	return embedding.Calculate(ctx, cfg, m, mapping, persistor,
		embedding.WithLogger(opts.Logger.Logger),
		embedding.WithWorkers(opts.Workers),
	)
}

// Run executes the full pipeline: build every relation matrix, then compute
// and persist embeddings for all relations concurrently. The first failing
// relation cancels the remaining ones.
func Run(ctx context.Context, cfg *config.Config, src input.RowSource, mapping entity.Mapping, factory PersistorFactory, optFns ...Option) error {
	opts := applyOptions(optFns)

	matrices, err := BuildGraphs(ctx, cfg, src, mapping, optFns...)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	if opts.MaxConcurrentRelations > 0 {
		g.SetLimit(opts.MaxConcurrentRelations)
	}

	for _, m := range matrices {
		m := m
		g.Go(func() error {
			desc := m.Descriptor()
			log := opts.Logger.WithRelation(cfg.RelationName).WithPair(desc.Name())

			persistor, err := factory(desc)
			if err != nil {
				return fmt.Errorf("graphembed: persistor for %s: %w", desc.Name(), err)
			}

			if err := CalculateEmbeddings(ctx, cfg, m, mapping, persistor, optFns...); err != nil {
				return err
			}

			log.Info("relation complete", "entities", m.EntityCount())

			return nil
		})
	}

	return g.Wait()
}

func applyOptions(optFns []Option) Options {
	opts := Options{
		Logger: NewLogger(nil),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = NoopLogger()
	}

	return opts
}
