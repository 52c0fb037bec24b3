package ingest

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Format is a record encoding.
type Format int

const (
	// FormatAuto infers the format from the blob name.
	FormatAuto Format = iota
	// FormatJSONL is one JSON object per line.
	FormatJSONL
	// FormatCSV is comma separated values.
	FormatCSV
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatJSONL:
		return "jsonl"
	case FormatCSV:
		return "csv"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// ParseFormat parses a format name as printed by Format.String.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "jsonl", "ndjson", "json":
		return FormatJSONL, nil
	case "csv":
		return FormatCSV, nil
	default:
		return FormatAuto, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Compression is a stream compression scheme.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionZstd
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGzip:
		return "gzip"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// Detect returns the compression and record format implied by name.
// The format is FormatAuto if the extension is not recognized.
func Detect(name string) (Compression, Format) {
	lower := strings.ToLower(name)

	comp := CompressionNone
	switch path.Ext(lower) {
	case ".gz", ".gzip":
		comp = CompressionGzip
	case ".zst", ".zstd":
		comp = CompressionZstd
	case ".lz4":
		comp = CompressionLZ4
	}
	if comp != CompressionNone {
		lower = strings.TrimSuffix(lower, path.Ext(lower))
	}

	switch path.Ext(lower) {
	case ".jsonl", ".ndjson", ".json":
		return comp, FormatJSONL
	case ".csv":
		return comp, FormatCSV
	default:
		return comp, FormatAuto
	}
}

// decompress wraps r in a decoder for c.
func decompress(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionNone:
		return io.NopCloser(r), nil
	case CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("ingest: gzip: %w", err)
		}
		return zr, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("ingest: zstd: %w", err)
		}
		return dec.IOReadCloser(), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("ingest: unsupported compression %s", c)
	}
}
