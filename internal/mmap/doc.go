// Package mmap maps files read-only into memory.
//
// Packed containers are opened through a Mapping so that the buffers of the
// decoded layout tree alias the file pages directly:
//
//	m, err := mmap.Open("table.jag")
//	if err != nil { ... }
//	defer m.Close()
//
//	r, _ := m.Region(off, n) // a view of one buffer
//	_ = r.Advise(mmap.AccessRandom)
//
// Unix systems use mmap(2) and madvise(2). Windows uses
// CreateFileMapping/MapViewOfFile and ignores access hints.
//
// A Mapping may be read from many goroutines. Close is idempotent; slices
// obtained from Bytes must not be used after Close returns.
package mmap
