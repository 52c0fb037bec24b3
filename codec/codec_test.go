package codec

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID     string    `json:"id"`
	Vector []float64 `json:"vector"`
}

func TestByName(t *testing.T) {
	for _, name := range []string{"json", "go-json"} {
		c, ok := ByName(name)
		require.True(t, ok)
		assert.Equal(t, name, c.Name())
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestDecoder_Stream(t *testing.T) {
	input := `{"id":"a","vector":[1,2]}
{"id":"b","vector":[3.5,-4]}

{"id":"c","vector":[0,0]}
`

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			dec := c.NewDecoder(strings.NewReader(input))

			var got []record
			for dec.More() {
				var r record
				require.NoError(t, dec.Decode(&r))
				got = append(got, r)
			}

			assert.Equal(t, []record{
				{ID: "a", Vector: []float64{1, 2}},
				{ID: "b", Vector: []float64{3.5, -4}},
				{ID: "c", Vector: []float64{0, 0}},
			}, got)

			var extra record
			assert.ErrorIs(t, dec.Decode(&extra), io.EOF)
		})
	}
}

func TestEncoder_Indent(t *testing.T) {
	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			var buf bytes.Buffer
			enc := c.NewEncoder(&buf)
			enc.SetIndent("", "  ")
			require.NoError(t, enc.Encode(record{ID: "a", Vector: []float64{1}}))

			assert.Equal(t, "{\n  \"id\": \"a\",\n  \"vector\": [\n    1\n  ]\n}\n", buf.String())
		})
	}
}

func TestMustMarshal(t *testing.T) {
	assert.Equal(t, `{"id":"x","vector":null}`, string(MustMarshal(nil, record{ID: "x"})))
	assert.Panics(t, func() { MustMarshal(JSON{}, func() {}) })
}
