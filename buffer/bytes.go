package buffer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unsafe"
)

// ErrSize is returned when a byte buffer is not a whole number of elements.
var ErrSize = errors.New("buffer: byte length is not a multiple of the element size")

// ErrBool is returned when a bool buffer holds a byte other than 0 or 1.
var ErrBool = errors.New("buffer: bool byte is not 0 or 1")

var littleEndian = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// LittleEndian reports whether the host stores integers little-endian, in
// which case byte views alias typed buffers instead of copying them.
func LittleEndian() bool { return littleEndian }

// AsBytes returns the little-endian bytes of s. On little-endian hosts the result
// aliases s (zero-copy).
func AsBytes[T Scalar](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	size := DTypeOf[T]().Size()
	raw := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*size) //nolint:gosec // zero-copy view
	if littleEndian {
		return raw
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	swap(out, size)
	return out
}

// View reinterprets little-endian bytes as a []T. It aliases b when the host is
// little-endian and b is aligned for T; otherwise it copies. The second result
// reports whether the view is zero-copy. Bool bytes must be 0 or 1.
func View[T Scalar](b []byte) ([]T, bool, error) {
	size := DTypeOf[T]().Size()
	if len(b)%size != 0 {
		return nil, false, fmt.Errorf("%w: %d bytes for %s", ErrSize, len(b), DTypeOf[T]())
	}
	n := len(b) / size
	if n == 0 {
		return []T{}, true, nil
	}
	if DTypeOf[T]() == Bool {
		for i, c := range b {
			if c > 1 {
				return nil, false, fmt.Errorf("%w: byte %d is %d", ErrBool, i, c)
			}
		}
	}
	ptr := unsafe.Pointer(unsafe.SliceData(b))
	if littleEndian && uintptr(ptr)%uintptr(size) == 0 {
		return unsafe.Slice((*T)(ptr), n), true, nil //nolint:gosec // zero-copy view
	}
	out := make([]T, n)
	raw := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(out))), len(b)) //nolint:gosec // copy target
	copy(raw, b)
	if !littleEndian {
		swap(raw, size)
	}
	return out, false, nil
}

func swap(b []byte, size int) {
	if size == 1 {
		return
	}
	for i := 0; i+size <= len(b); i += size {
		for l, r := i, i+size-1; l < r; l, r = l+1, r-1 {
			b[l], b[r] = b[r], b[l]
		}
	}
}

// SameMemory reports whether a and b start at the same address.
func SameMemory(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return len(a) == len(b)
	}
	return unsafe.SliceData(a) == unsafe.SliceData(b)
}
