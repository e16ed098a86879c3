package graphembed_test

import (
	"context"
	"fmt"

	"github.com/hupe1980/graphembed"
	"github.com/hupe1980/graphembed/config"
	"github.com/hupe1980/graphembed/entity"
	"github.com/hupe1980/graphembed/graph"
	"github.com/hupe1980/graphembed/input"
	"github.com/hupe1980/graphembed/persistence"
)

func ExampleBuildGraphs() {
	cfg := &config.Config{
		Dimension:  4,
		Iterations: 1,
		Columns: []config.Column{
			{Name: "user"},
			{Name: "item"},
		},
	}

	rows := input.NewSlice([]input.Row{
		{"x", "y"},
		{"x", "z"},
	})

	matrices, err := graphembed.BuildGraphs(context.Background(), cfg, rows, entity.NewInMemory(),
		graphembed.WithLogger(graphembed.NoopLogger()),
	)
	if err != nil {
		panic(err)
	}

	for _, m := range matrices {
		fmt.Printf("%s: %d entities, %d edges\n", m.Descriptor().Name(), m.EntityCount(), m.EdgeCount())
	}
	// Output:
	// user_item: 3 entities, 2 edges
}

func ExampleRun() {
	seed := int64(42)
	cfg := &config.Config{
		Dimension:    8,
		Iterations:   2,
		Seed:         &seed,
		RelationName: "clicks",
		Columns: []config.Column{
			{Name: "user"},
			{Name: "item"},
		},
		ProduceOccurrenceCounts: true,
	}

	rows := input.NewSlice([]input.Row{
		{"alice", "apples"},
		{"alice", "pears"},
		{"bob", "apples"},
	})

	var result *persistence.Memory
	err := graphembed.Run(context.Background(), cfg, rows, entity.NewInMemory(),
		func(desc graph.Descriptor) (persistence.EmbeddingPersistor, error) {
			result = persistence.NewMemory()
			return result, nil
		},
		graphembed.WithLogger(graphembed.NoopLogger()),
	)
	if err != nil {
		panic(err)
	}

	result.SortByValue()
	for _, e := range result.Entries {
		fmt.Printf("%s appeared %d times, vector length %d\n", e.Value, e.Occurrences, len(e.Vector))
	}
	// Output:
	// alice appeared 2 times, vector length 8
	// apples appeared 2 times, vector length 8
	// bob appeared 1 times, vector length 8
	// pears appeared 1 times, vector length 8
}
