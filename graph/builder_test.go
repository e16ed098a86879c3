package graph

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/graphembed/config"
	"github.com/hupe1980/graphembed/entity"
	"github.com/hupe1980/graphembed/input"
)

func buildOne(t *testing.T, cfg *config.Config, rows []input.Row) ([]*Matrix, *entity.InMemory) {
	t.Helper()

	mapping := entity.NewInMemory()
	matrices, err := Build(context.Background(), cfg, input.NewSlice(rows), mapping)
	require.NoError(t, err)

	return matrices, mapping
}

func localFor(t *testing.T, m *Matrix, mapping entity.Mapping, value string) uint32 {
	t.Helper()

	global, err := mapping.(*entity.InMemory).Resolve(value)
	require.NoError(t, err)
	local, ok := m.LocalID(global)
	require.True(t, ok, "entity %q not in matrix %s", value, m.Descriptor().Name())

	return local
}

func TestBuildConcreteScenario(t *testing.T) {
	cfg := &config.Config{
		Dimension:  4,
		Iterations: 1,
		Columns:    []config.Column{{Name: "a"}, {Name: "b"}},
	}

	matrices, mapping := buildOne(t, cfg, []input.Row{{"x", "y"}, {"x", "z"}})
	require.Len(t, matrices, 1)

	m := matrices[0]
	assert.Equal(t, "a_b", m.Descriptor().Name())
	assert.Equal(t, 3, m.EntityCount())
	assert.Equal(t, 2, m.EdgeCount())
	assert.Equal(t, uint64(1), m.ConnectedCount())

	x := localFor(t, m, mapping, "x")
	y := localFor(t, m, mapping, "y")
	z := localFor(t, m, mapping, "z")

	row := m.Row(x)
	require.Len(t, row, 2)
	for _, e := range row {
		assert.InDelta(t, 0.5, e.Weight, 1e-6)
	}

	assert.Empty(t, m.Row(y))
	assert.Empty(t, m.Row(z))
	assert.True(t, m.HasOutgoing(x))
	assert.False(t, m.HasOutgoing(y))

	assert.Equal(t, uint32(2), m.Occurrences(x))
	assert.Equal(t, uint32(1), m.Occurrences(y))
	assert.Equal(t, uint32(1), m.Occurrences(z))
}

func TestBuildComplexExpansion(t *testing.T) {
	cfg := &config.Config{
		Dimension: 4,
		Columns:   []config.Column{{Name: "tags", Complex: true}, {Name: "doc"}},
	}

	matrices, mapping := buildOne(t, cfg, []input.Row{{"red green", "d1"}})
	m := matrices[0]

	// Edge count = |sub-values of A| x |sub-values of B|.
	assert.Equal(t, 2, m.EdgeCount())

	red := localFor(t, m, mapping, "red")
	green := localFor(t, m, mapping, "green")
	d1 := localFor(t, m, mapping, "d1")

	require.Len(t, m.Row(red), 1)
	assert.Equal(t, d1, m.Row(red)[0].Target)
	assert.InDelta(t, 1.0, m.Row(red)[0].Weight, 1e-6)
	require.Len(t, m.Row(green), 1)
	assert.Empty(t, m.Row(d1))
}

func TestBuildReflexiveExpansion(t *testing.T) {
	cfg := &config.Config{
		Dimension: 4,
		Columns:   []config.Column{{Name: "set", Complex: true, Reflexive: true}},
	}

	matrices, mapping := buildOne(t, cfg, []input.Row{{"p q r"}})
	require.Len(t, matrices, 1)

	m := matrices[0]
	assert.True(t, m.Descriptor().Reflexive())
	assert.Equal(t, 3, m.EntityCount())

	// All ordered pairs among {p,q,r} excluding self-pairs.
	assert.Equal(t, 6, m.EdgeCount())

	for _, v := range []string{"p", "q", "r"} {
		local := localFor(t, m, mapping, v)
		row := m.Row(local)
		require.Len(t, row, 2)
		for _, e := range row {
			assert.NotEqual(t, local, e.Target)
			assert.InDelta(t, 0.5, e.Weight, 1e-6)
		}
		assert.Equal(t, uint32(1), m.Occurrences(local))
	}
}

func TestBuildDuplicateEdgesCoalesce(t *testing.T) {
	cfg := &config.Config{
		Dimension: 4,
		Columns:   []config.Column{{Name: "a"}, {Name: "b"}},
	}

	matrices, mapping := buildOne(t, cfg, []input.Row{
		{"x", "y"}, {"x", "y"}, {"x", "y"}, {"x", "z"},
	})
	m := matrices[0]

	x := localFor(t, m, mapping, "x")
	row := m.Row(x)
	require.Len(t, row, 2)

	// 3 of 4 co-occurrences go to y.
	weights := map[uint32]float32{}
	for _, e := range row {
		weights[e.Target] = e.Weight
	}
	y := localFor(t, m, mapping, "y")
	z := localFor(t, m, mapping, "z")
	assert.InDelta(t, 0.75, weights[y], 1e-6)
	assert.InDelta(t, 0.25, weights[z], 1e-6)
}

func TestBuildRowStochastic(t *testing.T) {
	cfg := &config.Config{
		Dimension: 4,
		Columns: []config.Column{
			{Name: "a", Complex: true, Reflexive: true},
			{Name: "b"},
			{Name: "c", Complex: true},
		},
	}

	rows := []input.Row{
		{"u1 u2", "b1", "t1 t2 t3"},
		{"u2 u3", "b2", "t1"},
		{"u1", "b1", "t2 t4"},
	}

	matrices, _ := buildOne(t, cfg, rows)
	require.Len(t, matrices, 4) // a_a, a_b, a_c, b_c

	names := []string{"a_a", "a_b", "a_c", "b_c"}
	for i, m := range matrices {
		assert.Equal(t, names[i], m.Descriptor().Name())

		for local := uint32(0); local < uint32(m.EntityCount()); local++ {
			row := m.Row(local)
			if len(row) == 0 {
				assert.False(t, m.HasOutgoing(local))
				continue
			}
			var sum float32
			for _, e := range row {
				sum += e.Weight
			}
			assert.InDelta(t, 1.0, sum, 1e-5, "matrix %s entity %d", m.Descriptor().Name(), local)
		}
	}
}

func TestBuildEmptyInput(t *testing.T) {
	cfg := &config.Config{
		Dimension: 4,
		Columns:   []config.Column{{Name: "a"}, {Name: "b"}},
	}

	matrices, _ := buildOne(t, cfg, nil)
	require.Len(t, matrices, 1)
	assert.Equal(t, 0, matrices[0].EntityCount())
	assert.Equal(t, 0, matrices[0].EdgeCount())
}

func TestBuildRowShapeError(t *testing.T) {
	cfg := &config.Config{
		Dimension: 4,
		Columns:   []config.Column{{Name: "a"}, {Name: "b"}},
	}

	_, err := Build(context.Background(), cfg, input.NewSlice([]input.Row{
		{"x", "y"},
		{"only-one-field"},
	}), entity.NewInMemory())

	var shapeErr *ErrRowShape
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, 2, shapeErr.Row)
	assert.Equal(t, 2, shapeErr.Want)
	assert.Equal(t, 1, shapeErr.Got)
}

func TestBuildSourceErrorPropagatesUnchanged(t *testing.T) {
	cfg := &config.Config{
		Dimension: 4,
		Columns:   []config.Column{{Name: "a"}, {Name: "b"}},
	}

	src := &failingSource{failAt: 2}
	_, err := Build(context.Background(), cfg, src, entity.NewInMemory())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestBuildInvalidConfig(t *testing.T) {
	cfg := &config.Config{Dimension: 0, Columns: []config.Column{{Name: "a"}, {Name: "b"}}}
	_, err := Build(context.Background(), cfg, input.NewSlice(nil), entity.NewInMemory())
	assert.Error(t, err)
}

func TestBuildCancelledContext(t *testing.T) {
	cfg := &config.Config{
		Dimension: 4,
		Columns:   []config.Column{{Name: "a"}, {Name: "b"}},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, cfg, input.NewSlice([]input.Row{{"x", "y"}}), entity.NewInMemory())
	assert.ErrorIs(t, err, context.Canceled)
}

type failingSource struct {
	pos    int
	failAt int
}

func (s *failingSource) Reset() error {
	s.pos = 0
	return nil
}

func (s *failingSource) Next() (input.Row, error) {
	s.pos++
	if s.pos >= s.failAt {
		return nil, assert.AnError
	}
	if s.pos > 3 {
		return nil, io.EOF
	}
	return input.Row{"x", "y"}, nil
}
