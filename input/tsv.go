package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// TSV is a RowSource reading tab-separated rows from a file.
// Blank lines are skipped. The file is re-opened on Reset.
type TSV struct {
	path    string
	f       *os.File
	scanner *bufio.Scanner
}

var _ RowSource = (*TSV)(nil)

// NewTSV creates a RowSource for the tab-separated file at path.
// Call Reset before the first Next.
func NewTSV(path string) *TSV {
	return &TSV{path: path}
}

// Reset implements RowSource.
func (t *TSV) Reset() error {
	if t.f != nil {
		t.f.Close()
		t.f = nil
		t.scanner = nil
	}

	f, err := os.Open(t.path)
	if err != nil {
		return fmt.Errorf("input: open %s: %w", t.path, err)
	}

	t.f = f
	t.scanner = bufio.NewScanner(f)
	t.scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	return nil
}

// Next implements RowSource.
func (t *TSV) Next() (Row, error) {
	if t.scanner == nil {
		return nil, fmt.Errorf("input: %s: Next before Reset", t.path)
	}

	for t.scanner.Scan() {
		line := t.scanner.Text()
		if line == "" {
			continue
		}
		return Row(strings.Split(line, "\t")), nil
	}

	if err := t.scanner.Err(); err != nil {
		return nil, fmt.Errorf("input: read %s: %w", t.path, err)
	}

	return nil, io.EOF
}

// Close releases the underlying file. The source may be Reset afterwards.
func (t *TSV) Close() error {
	if t.f == nil {
		return nil
	}

	err := t.f.Close()
	t.f = nil
	t.scanner = nil

	return err
}
