// Package codec centralizes the JSON encoding used for datasets and results.
//
// Two interchangeable implementations are provided: the standard library
// (JSON) and github.com/goccy/go-json (GoJSON, the default).
package codec

import (
	"fmt"
	"io"
)

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error

	// NewDecoder returns a streaming decoder reading consecutive values
	// (e.g. JSON Lines) from r.
	NewDecoder(r io.Reader) Decoder

	// NewEncoder returns a streaming encoder writing to w.
	NewEncoder(w io.Writer) Encoder

	Name() string
}

// Decoder reads a stream of values.
type Decoder interface {
	Decode(v any) error
	More() bool
}

// Encoder writes a stream of values.
type Encoder interface {
	Encode(v any) error
	SetIndent(prefix, indent string)
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// MustMarshal is a helper for tests and benchmarks.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
