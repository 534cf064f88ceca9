// Package jagged provides columnar storage for nested, variable-length and
// missing-value data in Go.
//
// A value such as [[1.1, 2.2], [], [3.3]] or a list of records with optional
// fields is held as a tree of layout nodes over flat typed buffers: offsets
// describe where each list starts, masks or index arrays mark missing
// elements, and records keep one column per field. Packages:
//
//   - layout: the node variants, the append-only builder protocol, access,
//     slicing, field projection, equality and validation.
//   - form: schema descriptors and the zero-copy ToBuffers/FromBuffers pair.
//   - convert: shape inference from ordinary Go values and back.
//   - container: packed files and blob-store generations with compression
//     and checksums.
//   - blobstore: memory, local filesystem, MinIO and Amazon S3 backends.
//
// # Quick Start
//
//	n, _ := jagged.FromSlice([][]float64{{1.1, 2.2, 3.3}, {}, {4.4}})
//	values, _ := jagged.ToVector(n) // [[1.1 2.2 3.3] [] [4.4]]
//
// Exchanging buffers with another runtime:
//
//	f, length, buffers, _ := jagged.ToBuffers(n)
//	descriptor, _ := jagged.MarshalForm(f)
//	// ... hand descriptor, length and buffers over ...
//	back, _ := jagged.FromBuffers(f, length, buffers)
//
// The buffers returned by ToBuffers alias the node's storage, and FromBuffers
// binds them without copying. Writes through one side are visible on the
// other.
//
// # Persistence
//
// Local files:
//
//	_ = jagged.WriteFile(ctx, "events.jgd", n, jagged.WithCompression(container.CompressionZSTD))
//	c, _ := jagged.OpenFile(ctx, "events.jgd") // memory-mapped
//	defer c.Close()
//
// Object storage:
//
//	store, _ := s3.Connect(ctx, "my-bucket", "datasets/")
//	gen, _ := jagged.Save(ctx, store, "events", n)
//	c, _ := jagged.Load(ctx, store, "events")
//
// Each Save writes a new generation and switches the CURRENT pointer last,
// so readers never observe a partial write.
//
// # Concurrency
//
// Built nodes are immutable for readers and may be shared across
// goroutines. A node under construction must have a single writer.
package jagged
