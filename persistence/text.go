package persistence

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/klauspost/compress/gzip"
)

// TextOptions configures a Text persistor.
type TextOptions struct {
	// OccurrenceCounts controls whether the per-entity occurrence count
	// column is written.
	OccurrenceCounts bool

	// Gzip compresses the output stream.
	Gzip bool
}

// Text is an EmbeddingPersistor writing a plain-text embedding file:
// a "entityCount dimension" header line, then one line per entity with the
// entity string, optionally its occurrence count, and its vector values.
type Text struct {
	f    *os.File
	gz   *gzip.Writer
	w    *bufio.Writer
	opts TextOptions
}

var _ EmbeddingPersistor = (*Text)(nil)

// NewText creates a text persistor writing to the file at path.
func NewText(path string, optFns ...func(*TextOptions)) (*Text, error) {
	var opts TextOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("persistence: create %s: %w", path, err)
	}

	t := &Text{f: f, opts: opts}

	var sink io.Writer = f
	if opts.Gzip {
		t.gz = gzip.NewWriter(f)
		sink = t.gz
	}
	t.w = bufio.NewWriter(sink)

	return t, nil
}

// WithOccurrenceCounts enables the occurrence count column.
func WithOccurrenceCounts() func(*TextOptions) {
	return func(o *TextOptions) {
		o.OccurrenceCounts = true
	}
}

// WithGzip compresses the output with gzip.
func WithGzip() func(*TextOptions) {
	return func(o *TextOptions) {
		o.Gzip = true
	}
}

// PutMetadata implements EmbeddingPersistor.
func (t *Text) PutMetadata(entityCount, dimension int) error {
	_, err := fmt.Fprintf(t.w, "%d %d\n", entityCount, dimension)
	return err
}

// PutData implements EmbeddingPersistor.
func (t *Text) PutData(value string, occurrences uint32, vector []float32) error {
	if _, err := t.w.WriteString(value); err != nil {
		return err
	}

	if t.opts.OccurrenceCounts {
		if _, err := fmt.Fprintf(t.w, " %d", occurrences); err != nil {
			return err
		}
	}

	for _, v := range vector {
		if err := t.w.WriteByte(' '); err != nil {
			return err
		}
		if _, err := t.w.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32)); err != nil {
			return err
		}
	}

	return t.w.WriteByte('\n')
}

// Finish implements EmbeddingPersistor. It flushes and closes the file.
func (t *Text) Finish() error {
	if err := t.w.Flush(); err != nil {
		t.f.Close()
		return err
	}
	if t.gz != nil {
		if err := t.gz.Close(); err != nil {
			t.f.Close()
			return err
		}
	}

	return t.f.Close()
}
