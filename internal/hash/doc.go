// Package hash provides the CRC32-Castagnoli checksums stored next to every
// container buffer and sent with S3 uploads.
package hash
