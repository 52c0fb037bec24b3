package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/kmeanspp/blobstore"
	"github.com/hupe1980/kmeanspp/codec"
	"github.com/hupe1980/kmeanspp/dataset"
	"github.com/hupe1980/kmeanspp/resource"
)

var (
	// ErrUnknownFormat is returned when the record format cannot be inferred.
	ErrUnknownFormat = errors.New("ingest: unknown record format")

	// ErrMalformedRecord is returned when a record cannot be parsed.
	ErrMalformedRecord = errors.New("ingest: malformed record")

	// ErrNoBlobs is returned by LoadPrefix when no blob matches the prefix.
	ErrNoBlobs = errors.New("ingest: no blobs")
)

type options struct {
	format      Format
	compression *Compression
	codec       codec.Codec
	comma       rune
	idColumn    bool
	resources   *resource.Controller
	partitions  int
	parallelism int
}

// Option configures loading.
type Option func(*options)

// WithFormat overrides format inference.
func WithFormat(f Format) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithCompression overrides compression inference.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = &c
	}
}

// WithCodec sets the JSON codec used for JSONL records.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithComma sets the CSV field delimiter (default ',').
func WithComma(r rune) Option {
	return func(o *options) {
		o.comma = r
	}
}

// WithIDColumn controls whether the first CSV column is the point identifier
// (default true). Without it points are numbered in load order.
func WithIDColumn(enabled bool) Option {
	return func(o *options) {
		o.idColumn = enabled
	}
}

// WithResources throttles blob reads with the controller's IO budget.
func WithResources(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithPartitions sets the partition count of the resulting collection.
func WithPartitions(n int) Option {
	return func(o *options) {
		o.partitions = n
	}
}

// WithParallelism sets the worker limit of the resulting collection and
// of LoadPrefix.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

func applyOptions(opts []Option) *options {
	o := &options{
		codec:    codec.Default,
		comma:    ',',
		idColumn: true,
	}
	for _, fn := range opts {
		if fn != nil {
			fn(o)
		}
	}
	return o
}

func (o *options) collection(points []dataset.Point) (*dataset.InMemory, error) {
	return dataset.NewInMemory(points,
		dataset.WithPartitions(o.partitions),
		dataset.WithParallelism(o.parallelism),
	)
}

// Load reads the named blob from store into an in-memory collection.
func Load(ctx context.Context, store blobstore.BlobStore, name string, opts ...Option) (*dataset.InMemory, error) {
	o := applyOptions(opts)

	points, err := load(ctx, store, name, o)
	if err != nil {
		return nil, err
	}

	return o.collection(numberMissing(points))
}

// LoadPrefix reads every blob whose name starts with prefix, in name order,
// into one collection. Blobs are fetched concurrently.
func LoadPrefix(ctx context.Context, store blobstore.BlobStore, prefix string, opts ...Option) (*dataset.InMemory, error) {
	o := applyOptions(opts)

	names, err := store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("ingest: list %q: %w", prefix, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: prefix %q", ErrNoBlobs, prefix)
	}

	parts := make([][]dataset.Point, len(names))

	g, gctx := errgroup.WithContext(ctx)
	if o.parallelism > 0 {
		g.SetLimit(o.parallelism)
	}
	for i, name := range names {
		g.Go(func() error {
			points, err := load(gctx, store, name, o)
			if err != nil {
				return err
			}
			parts[i] = points
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var total int
	for _, p := range parts {
		total += len(p)
	}

	points := make([]dataset.Point, 0, total)
	for _, p := range parts {
		points = append(points, p...)
	}

	return o.collection(numberMissing(points))
}

// Decode parses records of the given format from r.
// Points without an identifier are numbered from 0.
func Decode(r io.Reader, format Format, opts ...Option) ([]dataset.Point, error) {
	points, err := decode(r, format, applyOptions(opts))
	if err != nil {
		return nil, err
	}
	return numberMissing(points), nil
}

func load(ctx context.Context, store blobstore.BlobStore, name string, o *options) ([]dataset.Point, error) {
	comp, format := Detect(name)
	if o.compression != nil {
		comp = *o.compression
	}
	if o.format != FormatAuto {
		format = o.format
	}
	if format == FormatAuto {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}

	rc, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, fmt.Errorf("ingest: open %q: %w", name, err)
	}
	defer rc.Close()

	zr, err := decompress(resource.NewRateLimitedReader(ctx, rc, o.resources), comp)
	if err != nil {
		return nil, fmt.Errorf("ingest: %q: %w", name, err)
	}
	defer zr.Close()

	points, err := decode(zr, format, o)
	if err != nil {
		return nil, fmt.Errorf("ingest: %q: %w", name, err)
	}
	return points, nil
}

func decode(r io.Reader, format Format, o *options) ([]dataset.Point, error) {
	switch format {
	case FormatJSONL:
		return readJSONL(r, o.codec)
	case FormatCSV:
		return readCSV(r, o)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// numberMissing sets the id of every anonymous point to its index.
func numberMissing(points []dataset.Point) []dataset.Point {
	for i := range points {
		if points[i].ID == "" {
			points[i].ID = strconv.Itoa(i)
		}
	}
	return points
}
