package convert

import (
	"fmt"
	"iter"
	"slices"

	"github.com/hupe1980/jagged/codec"
	"github.com/hupe1980/jagged/layout"
)

// FromIter builds a node holding every value of values. The sequence is
// consumed once; its values are normalized, their common type is inferred,
// and a builder of that type receives them in order.
func FromIter(values iter.Seq[any], opts ...Option) (layout.Node, error) {
	o := newOptions(opts)
	var (
		s    shape
		rows []any
	)
	for v := range values {
		nv, err := normalize(v)
		if err != nil {
			return nil, fmt.Errorf("convert: element %d: %w", len(rows), err)
		}
		if err := s.observe(nv); err != nil {
			return nil, fmt.Errorf("convert: element %d: %w", len(rows), err)
		}
		rows = append(rows, nv)
	}
	n := s.node(o)
	if err := layout.Extend(n, slices.Values(rows)); err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	return n, nil
}

// FromSlice is FromIter over the elements of values.
func FromSlice[T any](values []T, opts ...Option) (layout.Node, error) {
	return FromIter(func(yield func(any) bool) {
		for _, v := range values {
			if !yield(v) {
				return
			}
		}
	}, opts...)
}

// FromJSON decodes a JSON array and builds a node from its elements. Codecs
// implementing codec.NumberDecoder keep integers exact; others decode every
// number as float64.
func FromJSON(data []byte, opts ...Option) (layout.Node, error) {
	o := newOptions(opts)
	var values []any
	var err error
	if nd, ok := o.codec.(codec.NumberDecoder); ok {
		err = nd.UnmarshalNumbers(data, &values)
	} else {
		err = o.codec.Unmarshal(data, &values)
	}
	if err != nil {
		return nil, fmt.Errorf("convert: decode %s: %w", o.codec.Name(), err)
	}
	return FromSlice(values, opts...)
}

// ToVector returns the elements of n as plain Go values: sub-lists become
// []any (strings and byte strings stay string and []byte), records become
// map[string]any, tuples become []any and missing elements are nil.
func ToVector(n layout.Node) ([]any, error) {
	out := make([]any, 0, n.Len())
	for v, err := range layout.Values(n) {
		if err != nil {
			return nil, err
		}
		pv, err := plain(v)
		if err != nil {
			return nil, err
		}
		out = append(out, pv)
	}
	return out, nil
}

func plain(v any) (any, error) {
	switch x := v.(type) {
	case layout.Node:
		return ToVector(x)
	case layout.RecordView:
		out := make(map[string]any, len(x.Fields()))
		for i, name := range x.Fields() {
			e, err := x.At(i)
			if err != nil {
				return nil, err
			}
			if out[name], err = plain(e); err != nil {
				return nil, err
			}
		}
		return out, nil
	case layout.TupleView:
		out := make([]any, x.Len())
		for i := range out {
			e, err := x.At(i)
			if err != nil {
				return nil, err
			}
			if out[i], err = plain(e); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	return v, nil
}
