// Package container persists layout nodes.
//
// A node is stored as its form (the JSON descriptor), its length and its
// named buffers. Two storage shapes are supported:
//
//   - Packed: one self-describing blob (Write, Decode, WriteFile, OpenFile).
//     Payloads are 8-byte aligned, so an mmap-backed OpenFile binds
//     uncompressed buffers without copying.
//   - Blob store: one object per buffer plus a form.json manifest, grouped
//     in numbered generations below a prefix (Save, Load). A CURRENT object
//     names the live generation and is written last.
//
// Every payload carries a CRC32C checksum, and buffers may be compressed
// with LZ4 or zstd.
package container
