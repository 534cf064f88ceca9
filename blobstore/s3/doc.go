// Package s3 stores containers in Amazon S3.
//
// # Usage
//
//	store, err := s3.Connect(ctx, "my-bucket", "arrays/",
//	    config.WithRegion("us-east-1"),
//	)
//	if err != nil {
//	    return err
//	}
//	err = jagged.Save(ctx, store, "events", node)
//
// # Features
//
//   - Range reads for partial fetches
//   - Multipart uploads with CRC32C checksums for large buffers
//   - Automatic pagination for listing
//   - S3 Express One Zone directory buckets with conditional writes
//   - DynamoDB-backed commit pointers for concurrent writers
package s3
