package buffer

import "unsafe"

// Buffer is a growable contiguous buffer of scalars.
//
// Appends grow the backing array by doubling. Slice returns a view that shares
// storage with the parent; appending to a view reallocates instead of overwriting
// the parent's elements.
type Buffer[T Scalar] struct {
	data []T
}

// New wraps data without copying.
func New[T Scalar](data []T) *Buffer[T] {
	return &Buffer[T]{data: data}
}

// Make returns an empty buffer with room for capacity elements.
func Make[T Scalar](capacity int) *Buffer[T] {
	return &Buffer[T]{data: make([]T, 0, max(capacity, 0))}
}

// Len returns the number of elements.
func (b *Buffer[T]) Len() int { return len(b.data) }

// At returns element i. It panics if i is out of range.
func (b *Buffer[T]) At(i int) T { return b.data[i] }

// Set overwrites element i. It panics if i is out of range.
func (b *Buffer[T]) Set(i int, v T) { b.data[i] = v }

// Data returns the underlying slice. The slice aliases the buffer; do not modify it
// while a builder is appending.
func (b *Buffer[T]) Data() []T { return b.data }

// DType returns the element type.
func (b *Buffer[T]) DType() DType { return DTypeOf[T]() }

// Append adds v to the end, doubling capacity when full.
func (b *Buffer[T]) Append(v T) {
	if len(b.data) == cap(b.data) {
		b.grow(len(b.data) + 1)
	}
	b.data = append(b.data, v)
}

func (b *Buffer[T]) grow(required int) {
	newCap := max(required, cap(b.data)*2, 8)
	grown := make([]T, len(b.data), newCap)
	copy(grown, b.data)
	b.data = grown
}

// Truncate shrinks the buffer to n elements. It is a no-op if n >= Len.
func (b *Buffer[T]) Truncate(n int) {
	if n < len(b.data) && n >= 0 {
		b.data = b.data[:n]
	}
}

// Slice returns a view of elements [start, stop) sharing storage with b.
func (b *Buffer[T]) Slice(start, stop int) *Buffer[T] {
	return &Buffer[T]{data: b.data[start:stop:stop]}
}

// Bytes returns the little-endian byte representation of the buffer.
// On little-endian hosts the result aliases the buffer's memory.
func (b *Buffer[T]) Bytes() []byte {
	return AsBytes(b.data)
}

// Pointer returns the address of the first element, or nil if empty.
// Two buffers with the same Pointer share storage.
func (b *Buffer[T]) Pointer() unsafe.Pointer {
	if len(b.data) == 0 {
		return nil
	}
	return unsafe.Pointer(unsafe.SliceData(b.data))
}
