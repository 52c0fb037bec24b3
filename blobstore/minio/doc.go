// Package minio provides a read-only BlobStore using the MinIO client.
//
// It works with MinIO and other S3-compatible object stores (Ceph,
// SeaweedFS, Garage) without any AWS dependency.
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "my-bucket", "datasets/")
//	data, err := ingest.Load(ctx, store, "points.jsonl.gz")
package minio
