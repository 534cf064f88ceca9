// Package minio stores containers in MinIO or any S3-compatible service
// (Ceph, Garage, SeaweedFS) through the minio-go client.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "my-bucket", "arrays/")
//	err = jagged.Save(ctx, store, "events", node)
//
// Streaming writes run the upload in the background and finish on Close.
package minio
