package blobstore

import (
	"bytes"
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore provides read access to immutable data blobs (datasets).
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)

	// List returns the sorted names of all blobs with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	io.Closer

	// Size returns the size of the blob in bytes.
	Size() int64

	// ReadAt reads len(p) bytes starting at off.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)

	// ReadRange returns a reader for length bytes starting at off.
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)
}

// Mappable is an optional interface for Blobs that support memory mapping.
type Mappable interface {
	// Bytes returns the underlying byte slice.
	// The slice is valid until the Blob is closed.
	Bytes() ([]byte, error)
}

// Fetcher is an optional interface for stores that can download a whole
// blob faster than a single sequential read, e.g. with parallel ranged
// requests.
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// NewReader returns a sequential reader over the whole blob.
// Mappable blobs are read without copying.
func NewReader(ctx context.Context, b Blob) (io.ReadCloser, error) {
	if m, ok := b.(Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	if b.Size() == 0 {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	return b.ReadRange(ctx, 0, b.Size())
}

// ReadAll opens name and returns a sequential reader over its content.
// Stores implementing Fetcher download the blob in one call; otherwise the
// blob stays open until the returned reader is closed.
func ReadAll(ctx context.Context, store BlobStore, name string) (io.ReadCloser, error) {
	if f, ok := store.(Fetcher); ok {
		data, err := f.Fetch(ctx, name)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	r, err := NewReader(ctx, b)
	if err != nil {
		_ = b.Close()
		return nil, err
	}

	return &blobReader{ReadCloser: r, blob: b}, nil
}

type blobReader struct {
	io.ReadCloser
	blob Blob
}

func (r *blobReader) Close() error {
	err := r.ReadCloser.Close()
	if cerr := r.blob.Close(); err == nil {
		err = cerr
	}
	return err
}

// rangeBounds clamps [off, off+length) to a blob of the given size.
func rangeBounds(size, off, length int64) (int64, int64) {
	if off < 0 {
		off = 0
	}
	if off > size {
		off = size
	}
	end := off + length
	if length < 0 || end > size {
		end = size
	}
	return off, end
}
