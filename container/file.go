package container

import (
	"bufio"
	"context"
	"io"

	"github.com/hupe1980/jagged/internal/fs"
	"github.com/hupe1980/jagged/internal/mmap"
	"github.com/hupe1980/jagged/layout"
)

// WriteFile writes n as a packed container at path. The file is replaced
// atomically; a failed write leaves any previous file in place.
func WriteFile(ctx context.Context, path string, n layout.Node, opts ...Option) error {
	return fs.WriteAtomic(nil, path, 0o644, func(w io.Writer) error {
		bw := bufio.NewWriter(w)
		if _, err := Write(ctx, bw, n, opts...); err != nil {
			return err
		}
		return bw.Flush()
	})
}

// OpenFile maps a packed container into memory. Uncompressed buffers are
// bound to the mapping without copying.
func OpenFile(ctx context.Context, path string, opts ...Option) (*Container, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	_ = m.Advise(mmap.AccessWillNeed)

	c, err := Decode(ctx, m.Bytes(), opts...)
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	c.closers = append(c.closers, m)
	return c, nil
}
