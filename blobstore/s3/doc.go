// Package s3 provides a read-only Amazon S3 implementation of the
// blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("datasets/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	data, err := ingest.Load(ctx, store, "points.jsonl.zst")
//
// # Features
//
//   - Range reads for partial fetches
//   - Parallel whole-blob downloads (Fetch) via the SDK download manager
//   - Automatic pagination for listing
//   - Custom endpoints for S3-compatible services
package s3
