package buffer

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/hupe1980/jagged/internal/conv"
)

// ErrOverflow is returned when a value does not fit an index buffer's width.
var ErrOverflow = errors.New("buffer: value overflows index width")

// IndexKind names the integer width of an index buffer.
type IndexKind string

// Index widths, spelled the way schema descriptors spell them.
const (
	I8  IndexKind = "i8"
	U8  IndexKind = "u8"
	I32 IndexKind = "i32"
	U32 IndexKind = "u32"
	I64 IndexKind = "i64"
)

// ParseIndexKind validates an index width name.
func ParseIndexKind(s string) (IndexKind, error) {
	switch k := IndexKind(s); k {
	case I8, U8, I32, U32, I64:
		return k, nil
	}
	return "", fmt.Errorf("buffer: unknown index kind %q", s)
}

// Signed reports whether the kind can hold negative values.
func (k IndexKind) Signed() bool { return k == I8 || k == I32 || k == I64 }

// Integer is the set of element types an Index may use.
type Integer interface {
	int8 | uint8 | int32 | uint32 | int64
}

// Index is a type-erased integer buffer. Positions are always zero-based.
type Index interface {
	// Len returns the number of entries.
	Len() int
	// At returns entry i widened to int64. It panics if i is out of range.
	At(i int) int64
	// Append adds v, failing with ErrOverflow if v does not fit.
	Append(v int64) error
	// Truncate shrinks the index to n entries.
	Truncate(n int)
	// Slice returns a view of entries [start, stop) sharing storage.
	Slice(start, stop int) Index
	// Kind returns the width of the entries.
	Kind() IndexKind
	// Bytes returns the little-endian bytes, aliasing storage on little-endian hosts.
	Bytes() []byte
	// Pointer returns the address of the first entry, or nil if empty.
	Pointer() unsafe.Pointer
}

// IndexOf is an Index backed by a []T.
type IndexOf[T Integer] struct {
	buf *Buffer[T]
}

// NewIndex wraps data without copying.
func NewIndex[T Integer](data []T) *IndexOf[T] {
	return &IndexOf[T]{buf: New(data)}
}

// IndexKindOf returns the IndexKind of T.
func IndexKindOf[T Integer]() IndexKind {
	var zero T
	switch any(zero).(type) {
	case int8:
		return I8
	case uint8:
		return U8
	case int32:
		return I32
	case uint32:
		return U32
	}
	return I64
}

func (x *IndexOf[T]) Len() int                { return x.buf.Len() }
func (x *IndexOf[T]) At(i int) int64          { return int64(x.buf.At(i)) }
func (x *IndexOf[T]) Truncate(n int)          { x.buf.Truncate(n) }
func (x *IndexOf[T]) Kind() IndexKind         { return IndexKindOf[T]() }
func (x *IndexOf[T]) Bytes() []byte           { return x.buf.Bytes() }
func (x *IndexOf[T]) Pointer() unsafe.Pointer { return x.buf.Pointer() }

// Data returns the underlying slice.
func (x *IndexOf[T]) Data() []T { return x.buf.Data() }

func (x *IndexOf[T]) Append(v int64) error {
	n, err := conv.Narrow[T](v)
	if err != nil {
		return fmt.Errorf("%w: %d into %s", ErrOverflow, v, x.Kind())
	}
	x.buf.Append(n)
	return nil
}

func (x *IndexOf[T]) Slice(start, stop int) Index {
	return &IndexOf[T]{buf: x.buf.Slice(start, stop)}
}

// MakeIndex returns an empty index of the given kind.
func MakeIndex(kind IndexKind, capacity int) (Index, error) {
	switch kind {
	case I8:
		return &IndexOf[int8]{buf: Make[int8](capacity)}, nil
	case U8:
		return &IndexOf[uint8]{buf: Make[uint8](capacity)}, nil
	case I32:
		return &IndexOf[int32]{buf: Make[int32](capacity)}, nil
	case U32:
		return &IndexOf[uint32]{buf: Make[uint32](capacity)}, nil
	case I64:
		return &IndexOf[int64]{buf: Make[int64](capacity)}, nil
	}
	return nil, fmt.Errorf("buffer: unknown index kind %q", kind)
}

// IndexFromBytes reinterprets b as an index of the given kind, zero-copy when possible.
func IndexFromBytes(kind IndexKind, b []byte) (Index, error) {
	switch kind {
	case I8:
		return indexView[int8](b)
	case U8:
		return indexView[uint8](b)
	case I32:
		return indexView[int32](b)
	case U32:
		return indexView[uint32](b)
	case I64:
		return indexView[int64](b)
	}
	return nil, fmt.Errorf("buffer: unknown index kind %q", kind)
}

func indexView[T Integer](b []byte) (Index, error) {
	data, _, err := View[T](b)
	if err != nil {
		return nil, err
	}
	return NewIndex(data), nil
}
