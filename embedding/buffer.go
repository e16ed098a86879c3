package embedding

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/hupe1980/graphembed/internal/mmap"
)

// buffer is one embedding matrix generation: a dense entityCount x dim
// float32 arena addressed by local entity id.
type buffer interface {
	// Row returns the mutable vector of the entity at local index i.
	Row(i int) []float32

	// Close releases the backing storage. Idempotent.
	Close() error
}

// memoryBuffer keeps the matrix in one heap-resident slice.
type memoryBuffer struct {
	dim  int
	data []float32
}

func newMemoryBuffer(count, dim int) *memoryBuffer {
	return &memoryBuffer{
		dim:  dim,
		data: make([]float32, count*dim),
	}
}

func (b *memoryBuffer) Row(i int) []float32 {
	start := i * b.dim
	end := start + b.dim

	return b.data[start:end:end]
}

func (b *memoryBuffer) Close() error {
	b.data = nil
	return nil
}

// mmapBuffer keeps the matrix in a memory-mapped temp file, so the working
// set may exceed physical RAM. The file is removed on Close.
type mmapBuffer struct {
	dim     int
	data    []float32
	mapping *mmap.Mapping
	path    string
}

func newMmapBuffer(dir string, count, dim int) (*mmapBuffer, error) {
	if dir == "" {
		dir = os.TempDir()
	}

	f, err := os.CreateTemp(dir, "graphembed-*.mat")
	if err != nil {
		return nil, fmt.Errorf("create backing file: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, err
	}

	m, err := mmap.Create(path, count*dim*4)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("map backing file %s: %w", path, err)
	}

	// Zero-copy float32 view over the mapping; mappings are page-aligned.
	data := unsafe.Slice((*float32)(unsafe.Pointer(&m.Bytes()[0])), count*dim) //nolint:gosec // required for mmap access

	return &mmapBuffer{
		dim:     dim,
		data:    data,
		mapping: m,
		path:    path,
	}, nil
}

func (b *mmapBuffer) Row(i int) []float32 {
	start := i * b.dim
	end := start + b.dim

	return b.data[start:end:end]
}

func (b *mmapBuffer) Close() error {
	b.data = nil
	err := b.mapping.Close()
	if rmErr := os.Remove(b.path); rmErr != nil && err == nil && !os.IsNotExist(rmErr) {
		err = rmErr
	}

	return err
}
