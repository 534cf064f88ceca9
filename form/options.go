package form

// Option configures Of and ToBuffers.
type Option func(*options)

type options struct {
	keyFormat string
}

// DefaultKeyFormat generates form keys "node0", "node1", ... in preorder.
const DefaultKeyFormat = "node%d"

// WithKeyFormat sets the fmt pattern used to generate form keys. It receives
// the node's preorder position.
func WithKeyFormat(format string) Option {
	return func(o *options) {
		if format != "" {
			o.keyFormat = format
		}
	}
}

func newOptions(opts []Option) options {
	o := options{keyFormat: DefaultKeyFormat}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
