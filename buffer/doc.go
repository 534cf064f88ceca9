// Package buffer provides the flat storage underneath every layout node.
//
// A Buffer[T] is a growable, contiguous slice of fixed-width scalars. An Index is a
// type-erased integer buffer (i8, u8, i32, u32 or i64) used for offsets, starts/stops,
// gather indexes, union tags and masks.
//
// # Zero-copy
//
// Bytes returns a []byte that aliases the buffer's memory, and View reinterprets a
// []byte as a typed slice without copying when the bytes are suitably aligned. All
// buffers are little-endian on the wire; on big-endian hosts both directions copy.
//
// Buffers are not safe for concurrent mutation. Concurrent reads are safe.
package buffer
