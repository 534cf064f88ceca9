package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeString(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func TestWriteAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")

	require.NoError(t, WriteAtomic(nil, path, 0o644, writeString("first")))
	require.NoError(t, WriteAtomic(Default, path, 0o644, writeString("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWriteAtomic_Faults(t *testing.T) {
	tests := []struct {
		name  string
		fault Fault
	}{
		{"write", Fault{FailAfterBytes: 3}},
		{"sync", Fault{FailAfterBytes: -1, FailOnSync: true}},
		{"close", Fault{FailAfterBytes: -1, FailOnClose: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "out.bin")
			require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

			ffs := NewFaultyFS(nil)
			ffs.AddRule("out.bin", tt.fault)
			err := WriteAtomic(ffs, path, 0o644, writeString("replacement"))
			assert.ErrorIs(t, err, ErrInjected)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, "old", string(data))

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1)
		})
	}
}

func TestWriteAtomic_WriterError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	boom := errors.New("boom")
	err := WriteAtomic(nil, path, 0o644, func(io.Writer) error { return boom })
	assert.ErrorIs(t, err, boom)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFaultyFS_LongestRuleWins(t *testing.T) {
	dir := t.TempDir()
	custom := errors.New("custom")
	ffs := NewFaultyFS(LocalFS{})
	ffs.AddRule(".bin", Fault{FailAfterBytes: 0})
	ffs.AddRule("keep.bin", Fault{FailAfterBytes: -1, Err: custom})

	f, err := ffs.OpenFile(filepath.Join(dir, "keep.bin"), os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	n, err := f.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	require.NoError(t, f.Close())
	assert.Equal(t, int64(5), ffs.Written())

	f, err = ffs.OpenFile(filepath.Join(dir, "drop.bin"), os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrInjected)
	require.NoError(t, f.Close())
}

func TestFaultyFS_Delegates(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sub")
	ffs := NewFaultyFS(nil)
	require.NoError(t, ffs.MkdirAll(dir, 0o755))

	path := filepath.Join(dir, "a")
	f, err := ffs.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, ffs.Rename(path, path+"2"))
	_, err = ffs.Stat(path + "2")
	require.NoError(t, err)
	entries, err := ffs.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	require.NoError(t, ffs.Remove(path+"2"))
}
