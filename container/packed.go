package container

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hupe1980/jagged/internal/hash"
	"github.com/hupe1980/jagged/layout"
)

// Packed file layout, all integers little-endian:
//
//	[0:4]   magic "JAGD"
//	[4:8]   version
//	[8:16]  manifest offset
//	[16:24] manifest length
//	[24:28] manifest CRC32C
//	[28:32] reserved
//	[32:]   payloads, each starting on an 8-byte boundary
//	        manifest JSON
const (
	magic      = "JAGD"
	headerSize = 32
	alignment  = 8
)

var padding [alignment]byte

func align(n uint64) uint64 {
	return (n + alignment - 1) &^ (alignment - 1)
}

// Write encodes n as a packed container. It returns the bytes written.
func Write(ctx context.Context, w io.Writer, n layout.Node, opts ...Option) (int64, error) {
	o := newOptions(opts)
	start := time.Now()

	enc, err := encode(ctx, n, o)
	if err != nil {
		return 0, err
	}

	off := uint64(headerSize)
	for i := range enc.manifest.Buffers {
		enc.manifest.Buffers[i].Offset = off
		off = align(off + enc.manifest.Buffers[i].Stored)
	}
	meta, err := o.codec.Marshal(&enc.manifest)
	if err != nil {
		return 0, err
	}

	var header [headerSize]byte
	copy(header[0:4], magic)
	binary.LittleEndian.PutUint32(header[4:], Version)
	binary.LittleEndian.PutUint64(header[8:], off)
	binary.LittleEndian.PutUint64(header[16:], uint64(len(meta)))
	binary.LittleEndian.PutUint32(header[24:], hash.CRC32C(meta))

	cw := &countingWriter{w: w}
	if _, err := cw.Write(header[:]); err != nil {
		return cw.n, err
	}
	for i, e := range enc.manifest.Buffers {
		if _, err := cw.Write(enc.payloads[i]); err != nil {
			return cw.n, err
		}
		if pad := align(e.Offset+e.Stored) - (e.Offset + e.Stored); pad > 0 {
			if _, err := cw.Write(padding[:pad]); err != nil {
				return cw.n, err
			}
		}
	}
	if _, err := cw.Write(meta); err != nil {
		return cw.n, err
	}

	o.logger.Debug("container written",
		"length", enc.manifest.Length,
		"buffers", len(enc.manifest.Buffers),
		"raw", humanize.IBytes(enc.manifest.rawSize()),
		"stored", humanize.IBytes(enc.manifest.storedSize()),
		"compression", o.compression.String(),
		"duration", time.Since(start),
	)
	return cw.n, nil
}

// Decode reads a packed container from data. Uncompressed buffers alias
// data, so data must stay unmodified while the node is in use.
func Decode(ctx context.Context, data []byte, opts ...Option) (*Container, error) {
	o := newOptions(opts)

	if len(data) < headerSize || string(data[0:4]) != magic {
		return nil, fmt.Errorf("%w: bad magic", ErrInvalidFormat)
	}
	if v := binary.LittleEndian.Uint32(data[4:]); v != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidFormat, v)
	}
	metaOff := binary.LittleEndian.Uint64(data[8:])
	metaLen := binary.LittleEndian.Uint64(data[16:])
	size := uint64(len(data))
	if metaOff < headerSize || metaOff > size || metaLen > size-metaOff {
		return nil, fmt.Errorf("%w: manifest [%d,+%d) outside %d bytes", ErrInvalidFormat, metaOff, metaLen, size)
	}
	meta := data[metaOff : metaOff+metaLen]
	if sum := hash.CRC32C(meta); sum != binary.LittleEndian.Uint32(data[24:]) {
		return nil, fmt.Errorf("%w: manifest", ErrChecksum)
	}

	m, err := decodeManifest(meta)
	if err != nil {
		return nil, err
	}
	payloads := make([][]byte, len(m.Buffers))
	for i, e := range m.Buffers {
		if e.Offset < headerSize || e.Offset > metaOff || e.Stored > metaOff-e.Offset {
			return nil, fmt.Errorf("%w: buffer %q [%d,+%d) outside payload area", ErrInvalidFormat, e.Key, e.Offset, e.Stored)
		}
		end := e.Offset + e.Stored
		payloads[i] = data[e.Offset:end:end]
	}

	n, f, err := restore(ctx, m, payloads, o)
	if err != nil {
		return nil, err
	}
	return &Container{Node: n, Form: f, Length: m.Length}, nil
}

// Read decodes a packed container from r. The bytes are read into memory
// first.
func Read(ctx context.Context, r io.Reader, opts ...Option) (*Container, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(ctx, data, opts...)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
