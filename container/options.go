package container

import (
	"io"
	"log/slog"

	"github.com/hupe1980/jagged/codec"
	"github.com/hupe1980/jagged/form"
	"github.com/hupe1980/jagged/resource"
)

// Option configures writing and loading containers.
type Option func(*options)

type options struct {
	compression Compression
	logger      *slog.Logger
	concurrency int
	ioLimit     int64
	memoryLimit int64
	controller  *resource.Controller
	codec       codec.Codec
	formOpts    []form.Option
	verify      bool
}

// WithCompression sets the compression applied to every buffer.
// Default: CompressionNone.
func WithCompression(c Compression) Option {
	return func(o *options) { o.compression = c }
}

// WithLogger sets the logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithConcurrency bounds the buffers compressed or transferred at once.
// Default: 4.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithIOLimit caps blob transfer throughput in bytes per second.
// Zero means unlimited.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) { o.ioLimit = max(bytesPerSec, 0) }
}

// WithMemoryLimit caps the bytes held by in-flight transfers.
// Zero means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) { o.memoryLimit = max(bytes, 0) }
}

// WithController shares a resource controller across calls. It overrides
// WithConcurrency, WithIOLimit and WithMemoryLimit.
func WithController(c *resource.Controller) Option {
	return func(o *options) { o.controller = c }
}

// WithCodec sets the codec used to encode descriptors. Default:
// codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithFormOptions passes options to form.ToBuffers.
func WithFormOptions(opts ...form.Option) Option {
	return func(o *options) { o.formOpts = append(o.formOpts, opts...) }
}

// WithVerify enables or disables CRC verification on load. Default: true.
func WithVerify(verify bool) Option {
	return func(o *options) { o.verify = verify }
}

func newOptions(opts []Option) options {
	o := options{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		concurrency: 4,
		codec:       codec.Default,
		verify:      true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.controller == nil {
		o.controller = resource.NewController(resource.Config{
			MemoryLimitBytes:   o.memoryLimit,
			MaxConcurrency:     int64(o.concurrency),
			IOLimitBytesPerSec: o.ioLimit,
		})
	}
	return o
}
