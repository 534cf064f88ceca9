package container

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/jagged/codec"
	"github.com/hupe1980/jagged/form"
	"github.com/hupe1980/jagged/internal/conv"
	"github.com/hupe1980/jagged/internal/hash"
	"github.com/hupe1980/jagged/layout"
)

// Version is the container format version.
const Version = 1

// Entry describes one stored buffer.
type Entry struct {
	Key         string      `json:"key"`
	Compression Compression `json:"compression"`
	// Offset is the payload position in a packed file; unused in blob
	// stores, where every buffer is its own object.
	Offset uint64 `json:"offset,omitempty"`
	Stored uint64 `json:"stored"`
	Raw    uint64 `json:"raw"`
	CRC32C uint32 `json:"crc32c"`
}

// manifest is the JSON envelope stored next to the buffers. It is always
// plain JSON; Codec names the codec that encoded Form.
type manifest struct {
	Version int             `json:"version"`
	Codec   string          `json:"codec"`
	Length  int             `json:"length"`
	Form    json.RawMessage `json:"form"`
	Buffers []Entry         `json:"buffers"`
}

func (m *manifest) rawSize() uint64 {
	var n uint64
	for _, e := range m.Buffers {
		n += e.Raw
	}
	return n
}

func (m *manifest) storedSize() uint64 {
	var n uint64
	for _, e := range m.Buffers {
		n += e.Stored
	}
	return n
}

func decodeManifest(data []byte) (*manifest, error) {
	var m manifest
	if err := codec.Default.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: manifest: %w", ErrInvalidFormat, err)
	}
	if m.Version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidFormat, m.Version)
	}
	if m.Length < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrInvalidFormat, m.Length)
	}
	return &m, nil
}

func (m *manifest) form() (*form.Form, error) {
	c, ok := codec.ByName(m.Codec)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, m.Codec)
	}
	return form.Unmarshal(m.Form, c)
}

// encoded is a node split into stored payloads, parallel to
// manifest.Buffers.
type encoded struct {
	manifest manifest
	payloads [][]byte
}

func encode(ctx context.Context, n layout.Node, o options) (*encoded, error) {
	f, length, bufs, err := form.ToBuffers(n, o.formOpts...)
	if err != nil {
		return nil, err
	}
	formJSON, err := form.Marshal(f, o.codec)
	if err != nil {
		return nil, err
	}

	keys := f.Keys()
	enc := &encoded{
		manifest: manifest{
			Version: Version,
			Codec:   o.codec.Name(),
			Length:  length,
			Form:    formJSON,
			Buffers: make([]Entry, len(keys)),
		},
		payloads: make([][]byte, len(keys)),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, key := range keys {
		raw, ok := bufs[key]
		if !ok {
			return nil, fmt.Errorf("%w: %q", form.ErrMissingBuffer, key)
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			stored, applied, err := compress(raw, o.compression)
			if err != nil {
				return fmt.Errorf("compress %s: %w", key, err)
			}
			enc.payloads[i] = stored
			enc.manifest.Buffers[i] = Entry{
				Key:         key,
				Compression: applied,
				Stored:      uint64(len(stored)),
				Raw:         uint64(len(raw)),
				CRC32C:      hash.CRC32C(stored),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return enc, nil
}

// restore verifies and decompresses payloads, parallel to m.Buffers, and
// reconstructs the node.
func restore(ctx context.Context, m *manifest, payloads [][]byte, o options) (layout.Node, *form.Form, error) {
	f, err := m.form()
	if err != nil {
		return nil, nil, err
	}

	bufs := make(form.Buffers, len(m.Buffers))
	raws := make([][]byte, len(m.Buffers))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, e := range m.Buffers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			stored := payloads[i]
			if uint64(len(stored)) != e.Stored {
				return fmt.Errorf("%w: buffer %q has %d bytes, manifest says %d", ErrInvalidFormat, e.Key, len(stored), e.Stored)
			}
			if o.verify {
				if sum := hash.CRC32C(stored); sum != e.CRC32C {
					return fmt.Errorf("%w: buffer %q: expected %08x, got %08x", ErrChecksum, e.Key, e.CRC32C, sum)
				}
			}
			if e.Raw > maxBuffer || e.Raw > maxRaw(e.Stored, e.Compression) {
				return fmt.Errorf("%w: buffer %q declares %d raw bytes for %d stored", ErrInvalidFormat, e.Key, e.Raw, e.Stored)
			}
			size, err := conv.Uint64ToInt(e.Raw)
			if err != nil {
				return fmt.Errorf("%w: buffer %q: %w", ErrInvalidFormat, e.Key, err)
			}
			if e.Compression != CompressionNone {
				if err := o.controller.AcquireMemory(ctx, int64(size)); err != nil {
					return err
				}
				defer o.controller.ReleaseMemory(int64(size))
			}
			raw, err := decompress(stored, e.Compression, size)
			if err != nil {
				return fmt.Errorf("%w: buffer %q: %w", ErrInvalidFormat, e.Key, err)
			}
			raws[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	for i, e := range m.Buffers {
		bufs[e.Key] = raws[i]
	}

	n, err := form.FromBuffers(f, m.Length, bufs)
	if err != nil {
		return nil, nil, err
	}
	return n, f, nil
}

// maxBuffer bounds the decompressed size of one buffer.
const maxBuffer uint64 = 1 << 40
