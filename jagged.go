package jagged

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/hupe1980/jagged/blobstore"
	"github.com/hupe1980/jagged/container"
	"github.com/hupe1980/jagged/convert"
	"github.com/hupe1980/jagged/form"
	"github.com/hupe1980/jagged/layout"
)

// Node is a layout tree. See package layout.
type Node = layout.Node

// Form describes the shape of a Node. See package form.
type Form = form.Form

// Buffers maps buffer keys to little-endian bytes.
type Buffers = form.Buffers

// Container is a loaded node with the storage that backs it.
type Container = container.Container

// FromIter builds a node holding every value of values, inferring the
// smallest layout that fits them.
func FromIter(values iter.Seq[any], opts ...Option) (Node, error) {
	o := applyOptions(opts)
	ctx := context.Background()
	start := time.Now()

	count := 0
	counted := func(yield func(any) bool) {
		for v := range values {
			count++
			if !yield(v) {
				return
			}
		}
	}
	n, err := convert.FromIter(counted, o.convertOptions()...)
	if err == nil && o.validate {
		err = layout.Check(n)
	}
	err = translateError(err)

	o.metricsCollector.RecordFromIter(count, time.Since(start), err)
	o.logger.LogFromIter(ctx, count, err)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// FromSlice is FromIter over the elements of values.
func FromSlice[T any](values []T, opts ...Option) (Node, error) {
	return FromIter(func(yield func(any) bool) {
		for _, v := range values {
			if !yield(v) {
				return
			}
		}
	}, opts...)
}

// FromJSON builds a node from a JSON array. Integers stay integers with
// the built-in codecs.
func FromJSON(data []byte, opts ...Option) (Node, error) {
	o := applyOptions(opts)
	ctx := context.Background()
	start := time.Now()

	n, err := convert.FromJSON(data, o.convertOptions()...)
	if err == nil && o.validate {
		err = layout.Check(n)
	}
	if err != nil {
		// Decoding failures carry no package sentinel.
		if t := translateError(err); errors.Is(t, ErrInvalidInput) {
			err = t
		} else {
			err = fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}

	length := 0
	if n != nil {
		length = n.Len()
	}
	o.metricsCollector.RecordFromIter(length, time.Since(start), err)
	o.logger.LogFromIter(ctx, length, err)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ToVector returns the elements of n as plain Go values: lists become []any,
// strings and byte strings stay string and []byte, records become
// map[string]any and missing elements are nil.
func ToVector(n Node) ([]any, error) {
	out, err := convert.ToVector(n)
	return out, translateError(err)
}

// ToBuffers validates n and exports its descriptor, length and buffers.
// The buffers alias the node's storage.
func ToBuffers(n Node, opts ...Option) (*Form, int, Buffers, error) {
	o := applyOptions(opts)
	ctx := context.Background()
	start := time.Now()

	f, length, bufs, err := form.ToBuffers(n)
	err = translateError(err)

	var size int64
	for _, b := range bufs {
		size += int64(len(b))
	}
	o.metricsCollector.RecordToBuffers(size, time.Since(start), err)
	o.logger.WithForm(f).LogToBuffers(ctx, length, size, err)
	if err != nil {
		return nil, 0, nil, err
	}
	return f, length, bufs, nil
}

// FromBuffers reconstructs a node of the given length from f and buffers
// without copying them.
func FromBuffers(f *Form, length int, buffers Buffers, opts ...Option) (Node, error) {
	o := applyOptions(opts)
	ctx := context.Background()
	start := time.Now()

	n, err := form.FromBuffers(f, length, buffers)
	err = translateError(err)

	o.metricsCollector.RecordFromBuffers(time.Since(start), err)
	o.logger.WithForm(f).LogFromBuffers(ctx, length, err)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// MarshalForm encodes f as JSON with the configured codec.
func MarshalForm(f *Form, opts ...Option) ([]byte, error) {
	o := applyOptions(opts)
	b, err := form.Marshal(f, o.codec)
	return b, translateError(err)
}

// UnmarshalForm decodes a JSON descriptor with the configured codec.
func UnmarshalForm(data []byte, opts ...Option) (*Form, error) {
	o := applyOptions(opts)
	f, err := form.Unmarshal(data, o.codec)
	return f, translateError(err)
}

// Save writes n as a new generation under prefix in store and returns the
// generation name. Readers keep seeing the previous generation until the
// write completes.
func Save(ctx context.Context, store blobstore.BlobStore, prefix string, n Node, opts ...Option) (string, error) {
	o := applyOptions(opts)
	start := time.Now()

	gen, err := container.Save(ctx, store, prefix, n, o.containerOptions()...)
	err = translateError(err)

	o.metricsCollector.RecordSave(time.Since(start), err)
	o.logger.LogSave(ctx, prefix, gen, err)
	return gen, err
}

// Load reads the current generation under prefix. Close the container once
// its node is no longer used.
func Load(ctx context.Context, store blobstore.BlobStore, prefix string, opts ...Option) (*Container, error) {
	o := applyOptions(opts)
	start := time.Now()

	c, err := container.Load(ctx, store, prefix, o.containerOptions()...)
	return finishLoad(ctx, o, prefix, start, c, err)
}

// WriteFile atomically writes n to path in the packed format.
func WriteFile(ctx context.Context, path string, n Node, opts ...Option) error {
	o := applyOptions(opts)
	start := time.Now()

	err := translateError(container.WriteFile(ctx, path, n, o.containerOptions()...))

	o.metricsCollector.RecordSave(time.Since(start), err)
	o.logger.LogSave(ctx, path, "", err)
	return err
}

// OpenFile memory-maps a packed file. Uncompressed buffers are bound
// without copying, so the container must stay open while its node is used.
func OpenFile(ctx context.Context, path string, opts ...Option) (*Container, error) {
	o := applyOptions(opts)
	start := time.Now()

	c, err := container.OpenFile(ctx, path, o.containerOptions()...)
	return finishLoad(ctx, o, path, start, c, err)
}

func finishLoad(ctx context.Context, o options, target string, start time.Time, c *Container, err error) (*Container, error) {
	err = translateError(err)
	o.metricsCollector.RecordLoad(time.Since(start), err)
	if err != nil {
		o.logger.LogLoad(ctx, target, 0, err)
		return nil, err
	}
	o.logger.WithForm(c.Form).LogLoad(ctx, target, c.Length, nil)
	return c, nil
}
