package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/hupe1980/kmeanspp/codec"
	"github.com/hupe1980/kmeanspp/dataset"
)

type record struct {
	ID       recordID    `json:"id"`
	Vector   []float64   `json:"vector"`
	Features [][]float64 `json:"features"`
}

// recordID accepts both string and numeric identifiers.
type recordID string

func (id *recordID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*id = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = recordID(s)
	default:
		if _, err := strconv.ParseFloat(string(b), 64); err != nil {
			return fmt.Errorf("id must be a string or number, got %s", b)
		}
		*id = recordID(b)
	}
	return nil
}

func (r *record) point() (dataset.Point, error) {
	size := len(r.Vector)
	for _, f := range r.Features {
		size += len(f)
	}
	if size == 0 {
		return dataset.Point{}, errors.New("record has no features")
	}

	vec := make([]float64, 0, size)
	vec = append(vec, r.Vector...)
	for _, f := range r.Features {
		vec = append(vec, f...)
	}

	return dataset.Point{ID: string(r.ID), Vector: vec}, nil
}

func readJSONL(r io.Reader, c codec.Codec) ([]dataset.Point, error) {
	dec := c.NewDecoder(r)

	var points []dataset.Point
	for n := 1; ; n++ {
		var rec record
		if err := dec.Decode(&rec); err != nil {
			if errors.Is(err, io.EOF) {
				return points, nil
			}
			return nil, fmt.Errorf("%w: record %d: %w", ErrMalformedRecord, n, err)
		}

		p, err := rec.point()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrMalformedRecord, n, err)
		}
		points = append(points, p)
	}
}
