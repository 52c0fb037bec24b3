package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/kmeanspp/blobstore"
	minioblob "github.com/hupe1980/kmeanspp/blobstore/minio"
	s3blob "github.com/hupe1980/kmeanspp/blobstore/s3"
)

// openStore builds the blob store described by sc.
func openStore(ctx context.Context, sc SourceConfig) (blobstore.BlobStore, error) {
	switch sc.Type {
	case "local":
		return blobstore.NewLocalStore(sc.Root), nil
	case "minio":
		accessKey := sc.AccessKey
		if accessKey == "" {
			accessKey = os.Getenv("MINIO_ACCESS_KEY")
		}
		secretKey := sc.SecretKey
		if secretKey == "" {
			secretKey = os.Getenv("MINIO_SECRET_KEY")
		}

		client, err := minio.New(sc.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
			Secure: sc.Secure,
			Region: sc.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		return minioblob.NewStore(client, sc.Bucket, sc.Prefix), nil
	case "s3":
		opts := []s3blob.Option{s3blob.WithPrefix(sc.Prefix)}
		if sc.Region != "" {
			opts = append(opts, s3blob.WithRegion(sc.Region))
		}
		if sc.Endpoint != "" {
			opts = append(opts, s3blob.WithEndpoint(sc.Endpoint))
		}
		return s3blob.New(ctx, sc.Bucket, opts...)
	default:
		return nil, fmt.Errorf("unknown source type %q", sc.Type)
	}
}
