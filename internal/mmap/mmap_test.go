package mmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buf.mat")

	m, err := Create(path, 4096)
	require.NoError(t, err)

	assert.Equal(t, 4096, m.Size())
	assert.Len(t, m.Bytes(), 4096)
	assert.Equal(t, path, m.Name())

	// Writes go through the mapping and reach the file.
	copy(m.Bytes(), []byte("hello"))
	assert.Equal(t, byte('h'), m.Bytes()[0])

	require.NoError(t, m.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), raw[:5])
}

func TestCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buf.mat")

	m, err := Create(path, 64)
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.Nil(t, m.Bytes())
}

func TestCreateInvalidSize(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "buf.mat"), 0)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = Create(filepath.Join(t.TempDir(), "buf.mat"), -1)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestCreateBadPath(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "missing", "buf.mat"), 64)
	assert.Error(t, err)
}
