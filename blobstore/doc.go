// Package blobstore abstracts the storage of container buffers and
// descriptors.
//
// A BlobStore holds immutable, named blobs. Implementations must be safe for
// concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, zero-copy reads
//   - LocalStore: local filesystem with atomic writes and mmap reads
//   - minio.Store: any S3-compatible service through minio-go
//   - s3.Store: Amazon S3 with range reads and parallel uploads
//
// Blobs that implement Mappable expose their bytes directly, which lets
// loaders bind buffers without a copy.
package blobstore
