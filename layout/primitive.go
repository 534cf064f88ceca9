package layout

import (
	"fmt"
	"time"

	"github.com/hupe1980/jagged/buffer"
)

// PrimitiveNode is the dtype-erased view of a *Primitive[T].
type PrimitiveNode interface {
	Node
	DType() buffer.DType
	// Bytes returns the little-endian element bytes, aliasing the buffer on
	// little-endian hosts.
	Bytes() []byte
}

// Primitive is a flat buffer of fixed-width scalars.
type Primitive[T buffer.Scalar] struct {
	meta
	buf *buffer.Buffer[T]
}

// NewPrimitive wraps data without copying. A nil slice yields an empty
// builder.
func NewPrimitive[T buffer.Scalar](data []T, opts ...Option) *Primitive[T] {
	return &Primitive[T]{meta: newMeta(opts), buf: buffer.New(data)}
}

// NewPrimitiveDType returns an empty Primitive of the given dtype.
func NewPrimitiveDType(dt buffer.DType, opts ...Option) (PrimitiveNode, error) {
	return PrimitiveFromBytes(dt, nil, opts...)
}

// PrimitiveFromBytes reinterprets little-endian bytes as a Primitive of the
// given dtype, sharing b whenever the host and alignment allow it.
func PrimitiveFromBytes(dt buffer.DType, b []byte, opts ...Option) (PrimitiveNode, error) {
	switch dt {
	case buffer.Bool:
		return primitiveView[bool](b, opts)
	case buffer.Int8:
		return primitiveView[int8](b, opts)
	case buffer.Int16:
		return primitiveView[int16](b, opts)
	case buffer.Int32:
		return primitiveView[int32](b, opts)
	case buffer.Int64:
		return primitiveView[int64](b, opts)
	case buffer.Uint8:
		return primitiveView[uint8](b, opts)
	case buffer.Uint16:
		return primitiveView[uint16](b, opts)
	case buffer.Uint32:
		return primitiveView[uint32](b, opts)
	case buffer.Uint64:
		return primitiveView[uint64](b, opts)
	case buffer.Float32:
		return primitiveView[float32](b, opts)
	case buffer.Float64:
		return primitiveView[float64](b, opts)
	case buffer.Datetime64:
		return primitiveView[buffer.Datetime](b, opts)
	case buffer.Timedelta64:
		return primitiveView[time.Duration](b, opts)
	}
	return nil, fmt.Errorf("%w: dtype %s", ErrUnsupported, dt)
}

func primitiveView[T buffer.Scalar](b []byte, opts []Option) (PrimitiveNode, error) {
	if len(b) == 0 {
		return NewPrimitive[T](nil, opts...), nil
	}
	data, _, err := buffer.View[T](b)
	if err != nil {
		return nil, err
	}
	return NewPrimitive(data, opts...), nil
}

func (n *Primitive[T]) Kind() Kind { return KindPrimitive }

func (n *Primitive[T]) Len() int { return n.buf.Len() }

// DType returns the element type.
func (n *Primitive[T]) DType() buffer.DType { return buffer.DTypeOf[T]() }

// Data returns the elements. The slice aliases the node's buffer.
func (n *Primitive[T]) Data() []T { return n.buf.Data() }

// Buffer returns the backing buffer.
func (n *Primitive[T]) Buffer() *buffer.Buffer[T] { return n.buf }

func (n *Primitive[T]) Bytes() []byte { return n.buf.Bytes() }

func (n *Primitive[T]) Get(i int) (any, error) { return get(n, i) }

func (n *Primitive[T]) at(i int) (any, error) {
	v := n.buf.At(i)
	if d, ok := any(v).(buffer.Datetime); ok {
		return d.Time(), nil
	}
	return v, nil
}

func (n *Primitive[T]) Slice(start, stop int) (Node, error) {
	if err := checkRange(start, stop, n.Len()); err != nil {
		return nil, err
	}
	return &Primitive[T]{meta: n.meta, buf: n.buf.Slice(start, stop)}, nil
}

func (n *Primitive[T]) validate(string, *collector) {}

func (n *Primitive[T]) withParams(p Parameters) Node {
	c := *n
	c.params = p
	return &c
}

func (n *Primitive[T]) accepts(v any) bool {
	return acceptsScalar(n.DType(), v)
}

func (n *Primitive[T]) push(v any) error {
	x, err := convertScalar[T](v)
	if err != nil {
		return err
	}
	n.buf.Append(x)
	return nil
}

func (n *Primitive[T]) pushDummy() error {
	var zero T
	n.buf.Append(zero)
	return nil
}

func (n *Primitive[T]) end(k Kind) error {
	return unsupported(endName(k), KindPrimitive)
}

func (n *Primitive[T]) mark() func() {
	size := n.buf.Len()
	return func() { n.buf.Truncate(size) }
}

func (n *Primitive[T]) emptyLike() Node {
	return &Primitive[T]{meta: n.meta, buf: buffer.Make[T](0)}
}

func (n *Primitive[T]) project(FieldSelector) (Node, error) {
	return nil, unsupported("field selection", KindPrimitive)
}
