package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mapped.bin")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestOpen(t *testing.T) {
	m, err := Open(writeFile(t, []byte("columnar buffers")))
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 16, m.Size())
	assert.Equal(t, []byte("columnar buffers"), m.Bytes())

	t.Run("read at", func(t *testing.T) {
		buf := make([]byte, 7)
		n, err := m.ReadAt(buf, 9)
		require.NoError(t, err)
		assert.Equal(t, 7, n)
		assert.Equal(t, "buffers", string(buf))
	})

	t.Run("short read", func(t *testing.T) {
		buf := make([]byte, 10)
		n, err := m.ReadAt(buf, 9)
		assert.Equal(t, 7, n)
		assert.Equal(t, io.EOF, err)
	})

	t.Run("past end", func(t *testing.T) {
		n, err := m.ReadAt(make([]byte, 4), 100)
		assert.Zero(t, n)
		assert.Equal(t, io.EOF, err)
	})

	t.Run("negative offset", func(t *testing.T) {
		_, err := m.ReadAt(make([]byte, 4), -1)
		assert.ErrorIs(t, err, ErrInvalidOffset)
	})
}

func TestOpen_Empty(t *testing.T) {
	m, err := Open(writeFile(t, nil))
	require.NoError(t, err)
	assert.Zero(t, m.Size())
	assert.Empty(t, m.Bytes())
	require.NoError(t, m.Close())
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRegion(t *testing.T) {
	m, err := Open(writeFile(t, make([]byte, 1024)))
	require.NoError(t, err)

	require.NoError(t, m.Advise(AccessRandom))

	r, err := m.Region(100, 200)
	require.NoError(t, err)
	assert.Len(t, r.Bytes(), 200)
	assert.Equal(t, 200, cap(r.Bytes()))
	require.NoError(t, r.Advise(AccessWillNeed))

	_, err = m.Region(-1, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = m.Region(1000, 100)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	assert.Nil(t, r.Bytes())
	assert.ErrorIs(t, r.Advise(AccessDefault), ErrClosed)
	assert.Nil(t, m.Bytes())
	_, err = m.Region(0, 1)
	assert.ErrorIs(t, err, ErrClosed)
}
