// Package blobstore provides read access to the blobs datasets are loaded
// from.
//
// BlobStore is the interface for opening and listing immutable data blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: Local filesystem with mmap support
//   - MemoryStore: In-process blobs
//   - minio.Store: MinIO and other S3-compatible services
//   - s3.Store: Amazon S3 with range reads and parallel downloads
//
// # Reading a blob
//
// ReadAll returns a sequential reader over a whole blob, using the fastest
// path the store offers (mmap, parallel download or a single ranged GET):
//
//	r, err := blobstore.ReadAll(ctx, store, "points.csv.gz")
//	if err != nil { ... }
//	defer r.Close()
package blobstore
