package mmap

import (
	"errors"
	"os"
	"sync/atomic"
)

// ErrInvalidSize is returned when the requested size is not positive.
var ErrInvalidSize = errors.New("mmap: invalid size")

// Mapping represents a read-write memory-mapped file.
// It owns the underlying byte slice and is responsible for unmapping it
// and closing the file.
type Mapping struct {
	data   []byte
	size   int
	f      *os.File
	closed atomic.Bool
	// unmap is the platform-specific function to unmap the memory.
	unmap func([]byte) error
}

// Create truncates the file at path to size bytes and maps it read-write.
// The mapping is shared, so writes reach the backing file.
func Create(path string, size int) (*Mapping, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}

	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, err
	}

	data, unmapFunc, err := osMapRW(f, size)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Mapping{
		data:  data,
		size:  size,
		f:     f,
		unmap: unmapFunc,
	}, nil
}

// Close unmaps the memory and closes the underlying file. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil // Already closed
	}

	var err error
	if m.unmap != nil && m.data != nil {
		err = m.unmap(m.data)
		m.data = nil
	}
	if m.f != nil {
		if closeErr := m.f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		m.f = nil
	}

	return err
}

// Bytes returns the underlying byte slice.
// The slice is valid only until Close() is called; accessing it afterwards
// results in undefined behavior.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int {
	return m.size
}

// Name returns the path of the backing file.
func (m *Mapping) Name() string {
	if m.f == nil {
		return ""
	}
	return m.f.Name()
}
