package jagged

import (
	"log/slog"

	"github.com/hupe1980/jagged/codec"
	"github.com/hupe1980/jagged/container"
	"github.com/hupe1980/jagged/convert"
	"github.com/hupe1980/jagged/layout"
)

type options struct {
	codec            codec.Codec
	compression      container.Compression
	concurrency      int
	ioLimit          int64
	memoryLimit      int64
	optionKind       layout.Kind
	validate         bool
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures the package-level operations.
type Option func(*options)

// WithCodec configures the codec used for descriptors and JSON input.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression selects the compression applied to each buffer by Save
// and WriteFile. Buffers that do not shrink are stored raw.
func WithCompression(c container.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithConcurrency bounds the number of buffers compressed or transferred at
// once.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithIOLimit caps blob-store transfer throughput in bytes per second.
// Zero or a negative value disables the limit.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimit = bytesPerSec
	}
}

// WithMemoryLimit caps the bytes Load may hold in downloaded buffers.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithOptionKind selects the variant FromIter uses for missing values. See
// convert.WithOptionKind.
func WithOptionKind(k layout.Kind) Option {
	return func(o *options) {
		o.optionKind = k
	}
}

// WithValidation controls the structural check of nodes built by FromIter
// and the checksum verification of loaded containers. It is on by default.
func WithValidation(validate bool) Option {
	return func(o *options) {
		o.validate = validate
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &jagged.BasicMetricsCollector{}
//	n, _ := jagged.FromSlice(rows, jagged.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
//	fmt.Printf("conversions: %d\n", stats.FromIterCount)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := jagged.NewJSONLogger(slog.LevelInfo)
//	gen, _ := jagged.Save(ctx, store, "events", n, jagged.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		compression:      container.CompressionNone,
		optionKind:       layout.KindIndexedOption,
		validate:         true,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o options) convertOptions() []convert.Option {
	return []convert.Option{
		convert.WithCodec(o.codec),
		convert.WithOptionKind(o.optionKind),
	}
}

func (o options) containerOptions() []container.Option {
	opts := []container.Option{
		container.WithCodec(o.codec),
		container.WithCompression(o.compression),
		container.WithLogger(o.logger.Logger),
		container.WithVerify(o.validate),
	}
	if o.concurrency > 0 {
		opts = append(opts, container.WithConcurrency(o.concurrency))
	}
	if o.ioLimit > 0 {
		opts = append(opts, container.WithIOLimit(o.ioLimit))
	}
	if o.memoryLimit > 0 {
		opts = append(opts, container.WithMemoryLimit(o.memoryLimit))
	}
	return opts
}
