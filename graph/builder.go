package graph

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/graphembed/config"
	"github.com/hupe1980/graphembed/entity"
	"github.com/hupe1980/graphembed/input"
)

// ErrRowShape indicates a row whose field count does not match the
// configured column list. It aborts the whole build.
type ErrRowShape struct {
	// Row is the 1-based row number.
	Row  int
	Want int
	Got  int
}

func (e *ErrRowShape) Error() string {
	return fmt.Sprintf("graph: row %d has %d fields, want %d", e.Row, e.Got, e.Want)
}

// Options configures a build.
type Options struct {
	// Logger receives structured build progress. Defaults to slog.Default().
	Logger *slog.Logger
}

// Build consumes the row source once and returns one normalized Matrix per
// selected column pair: every i<j pair of configured columns plus a
// self-pair for every reflexive column, in column order.
//
// Entity strings are resolved to ids through mapping, creating them on
// first occurrence. Empty input yields empty matrices, not an error; a
// malformed row or a source error is fatal and returned as-is.
func Build(ctx context.Context, cfg *config.Config, src input.RowSource, mapping entity.Mapping, optFns ...func(*Options)) ([]*Matrix, error) {
	opts := Options{Logger: slog.Default()}
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pairs := selectPairs(cfg.Columns)
	matrices := make([]*Matrix, len(pairs))
	for i, p := range pairs {
		matrices[i] = NewMatrix(Descriptor{
			ColA: cfg.Columns[p.a].Name,
			ColB: cfg.Columns[p.b].Name,
		})
	}

	if err := src.Reset(); err != nil {
		return nil, err
	}

	progress := rate.Sometimes{Interval: time.Second}

	ids := make([][]entity.ID, len(cfg.Columns))
	rowNum := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rowNum++

		if len(row) != len(cfg.Columns) {
			return nil, &ErrRowShape{Row: rowNum, Want: len(cfg.Columns), Got: len(row)}
		}

		for i, col := range cfg.Columns {
			ids[i], err = resolveField(mapping, row[i], col.Complex, cfg.Delimiter, ids[i][:0])
			if err != nil {
				return nil, err
			}
		}

		for i, p := range pairs {
			accumulateRow(matrices[i], ids[p.a], ids[p.b], p.a == p.b)
		}

		if rowNum%cfg.LogEveryNRows == 0 {
			progress.Do(func() {
				opts.Logger.Info("building graphs",
					"relation", cfg.RelationName,
					"rows", rowNum,
				)
			})
		}
	}

	for _, m := range matrices {
		if err := m.Normalize(); err != nil {
			return nil, err
		}
		opts.Logger.Info("graph built",
			"relation", cfg.RelationName,
			"pair", m.Descriptor().Name(),
			"entities", m.EntityCount(),
			"edges", m.EdgeCount(),
			"connected", m.ConnectedCount(),
		)
	}

	return matrices, nil
}

type pair struct {
	a, b int
}

// selectPairs returns the column index pairs to build, reflexive self-pairs
// first for each column, then all i<j cross pairs, in column order.
func selectPairs(columns []config.Column) []pair {
	var pairs []pair
	for i, col := range columns {
		if col.Reflexive {
			pairs = append(pairs, pair{a: i, b: i})
		}
		for j := i + 1; j < len(columns); j++ {
			pairs = append(pairs, pair{a: i, b: j})
		}
	}

	return pairs
}

// resolveField turns one raw field into entity ids, splitting complex
// fields on the delimiter and skipping empty sub-tokens.
func resolveField(mapping entity.Mapping, field string, complexCol bool, delimiter string, buf []entity.ID) ([]entity.ID, error) {
	if !complexCol {
		id, err := mapping.Resolve(field)
		if err != nil {
			return nil, err
		}
		return append(buf, id), nil
	}

	for _, tok := range strings.Split(field, delimiter) {
		if tok == "" {
			continue
		}
		id, err := mapping.Resolve(tok)
		if err != nil {
			return nil, err
		}
		buf = append(buf, id)
	}

	return buf, nil
}

// accumulateRow records one row's contribution to a matrix.
//
// Cross pairs count every value occurrence in both columns and emit the
// directed cartesian product a→b. Reflexive pairs count each occurrence
// once and emit edges between every ordered pair of distinct positions.
func accumulateRow(m *Matrix, a, b []entity.ID, reflexive bool) {
	if reflexive {
		for _, id := range a {
			m.addOccurrence(id)
		}
		for i, src := range a {
			for j, dst := range a {
				if i == j {
					continue
				}
				m.addEdge(src, dst, 1)
			}
		}
		return
	}

	for _, id := range a {
		m.addOccurrence(id)
	}
	for _, id := range b {
		m.addOccurrence(id)
	}
	for _, src := range a {
		for _, dst := range b {
			m.addEdge(src, dst, 1)
		}
	}
}
