package convert

import (
	"github.com/hupe1980/jagged/codec"
	"github.com/hupe1980/jagged/layout"
)

// Option configures FromIter, FromSlice and FromJSON.
type Option func(*options)

type options struct {
	optionKind layout.Kind
	codec      codec.Codec
}

// WithOptionKind selects the variant that represents missing values:
// layout.KindIndexedOption (default), layout.KindByteMasked or
// layout.KindBitMasked. Other kinds are ignored.
func WithOptionKind(k layout.Kind) Option {
	return func(o *options) {
		switch k {
		case layout.KindIndexedOption, layout.KindByteMasked, layout.KindBitMasked:
			o.optionKind = k
		}
	}
}

// WithCodec sets the codec used by FromJSON.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

func newOptions(opts []Option) options {
	o := options{optionKind: layout.KindIndexedOption, codec: codec.Default}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// wrap returns n as an option node. Empty cannot hold placeholders, so it is
// always wrapped by IndexedOption.
func (o options) wrap(n layout.Node) layout.Node {
	if _, empty := n.(*layout.Empty); empty {
		return layout.NewIndexedOption(nil, n)
	}
	switch o.optionKind {
	case layout.KindByteMasked:
		return layout.NewByteMasked(nil, n, true)
	case layout.KindBitMasked:
		return layout.NewBitMasked(nil, n, true, true, 0)
	}
	return layout.NewIndexedOption(nil, n)
}
