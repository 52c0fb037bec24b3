package distance

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSquaredL2(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"Simple", []float64{1, 2, 3}, []float64{4, 5, 6}, 27},
		{"Zero", []float64{0, 0, 0}, []float64{0, 0, 0}, 0},
		{"Identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 0},
		{"Mixed", []float64{1, -1}, []float64{-1, 1}, 8},
		{"Empty", []float64{}, []float64{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SquaredL2(tt.a, tt.b)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}
}

func TestL2(t *testing.T) {
	got, err := L2([]float64{0, 0}, []float64{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got, 1e-12)

	sq := MustSquaredL2([]float64{0, 0}, []float64{3, 4})
	assert.InDelta(t, got*got, sq, 1e-9)
}

func TestSquaredL2_Properties(t *testing.T) {
	vectors := [][]float64{
		{0, 0, 0},
		{1, 2, 3},
		{-1.5, 0.25, 8},
		{1, 2, 3.000001},
		{1e6, -1e6, 0},
	}

	for i, a := range vectors {
		for j, b := range vectors {
			ab, err := SquaredL2(a, b)
			require.NoError(t, err)
			ba, err := SquaredL2(b, a)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, ab, 0.0)
			assert.Equal(t, ab, ba, "symmetry %d/%d", i, j)
			if i == j {
				assert.Zero(t, ab)
			} else {
				assert.Positive(t, ab)
			}
		}
	}
}

func TestDimensionMismatch(t *testing.T) {
	_, err := SquaredL2([]float64{1, 2}, []float64{1, 2, 3})
	require.Error(t, err)

	var dm *ErrDimensionMismatch
	require.True(t, errors.As(err, &dm))
	assert.Equal(t, 2, dm.Expected)
	assert.Equal(t, 3, dm.Actual)
	assert.Contains(t, err.Error(), "expected 2, got 3")

	_, err = L2([]float64{1}, nil)
	assert.ErrorAs(t, err, &dm)

	assert.Panics(t, func() { MustL2([]float64{1}, []float64{1, 2}) })
	assert.Panics(t, func() { MustSquaredL2([]float64{1}, []float64{1, 2}) })
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite([]float64{1, -2, 0}))
	assert.True(t, IsFinite(nil))
	assert.False(t, IsFinite([]float64{1, math.NaN()}))
	assert.False(t, IsFinite([]float64{math.Inf(-1)}))
}

func BenchmarkSquaredL2(b *testing.B) {
	x := make([]float64, 768)
	y := make([]float64, 768)
	for i := range x {
		x[i] = float64(i)
		y[i] = float64(i) * 0.5
	}

	b.ReportAllocs()
	for b.Loop() {
		_ = MustSquaredL2(x, y)
	}
}
