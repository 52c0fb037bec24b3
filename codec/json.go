package codec

import (
	"encoding/json"
	"io"
)

// JSON is the standard-library JSON codec.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// NewDecoder implements Codec.
func (JSON) NewDecoder(r io.Reader) Decoder { return json.NewDecoder(r) }

// NewEncoder implements Codec.
func (JSON) NewEncoder(w io.Writer) Encoder { return json.NewEncoder(w) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the codec used when none is configured.
var Default Codec = GoJSON{}
