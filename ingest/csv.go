package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/kmeanspp/dataset"
)

func readCSV(r io.Reader, o *options) ([]dataset.Point, error) {
	cr := csv.NewReader(r)
	cr.Comma = o.comma
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	first := 0
	if o.idColumn {
		first = 1
	}

	var points []dataset.Point
	for record := 0; ; record++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return points, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
		}
		line, _ := cr.FieldPos(0)
		if len(row) <= first {
			return nil, fmt.Errorf("%w: line %d: no feature columns", ErrMalformedRecord, line)
		}

		vec, err := parseFloats(row[first:])
		if err != nil {
			if record == 0 {
				// header
				continue
			}
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRecord, line, err)
		}

		var id string
		if o.idColumn {
			id = strings.Clone(strings.TrimSpace(row[0]))
		}
		points = append(points, dataset.Point{ID: id, Vector: vec})
	}
}

func parseFloats(fields []string) ([]float64, error) {
	vec := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, err
		}
		vec[i] = v
	}
	return vec, nil
}
