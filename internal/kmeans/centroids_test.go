package kmeans

import (
	"math"
	"testing"

	"github.com/hupe1980/kmeanspp/distance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCentroidSet_Shape(t *testing.T) {
	cs := NewCentroidSet(3, 4, 5)
	assert.Equal(t, 3, cs.Runs())
	assert.Equal(t, 4, cs.K())
	assert.Equal(t, 5, cs.Dim())

	// Appending to one centroid must not spill into its neighbour.
	_ = append(cs[0][0], 9)
	assert.Zero(t, cs[0][1][0])

	var empty CentroidSet
	assert.Zero(t, empty.K())
	assert.Zero(t, empty.Dim())
}

func TestCentroidSet_Clone(t *testing.T) {
	cs := NewCentroidSet(2, 2, 2)
	cs[1][1][0] = 7

	clone := cs.Clone()
	assert.Equal(t, cs, clone)

	clone[1][1][0] = 8
	assert.Equal(t, 7.0, cs[1][1][0])
}

func TestCentroidSet_Validate(t *testing.T) {
	require.NoError(t, NewCentroidSet(2, 3, 4).Validate(4))

	assert.ErrorIs(t, CentroidSet{}.Validate(2), ErrInvalidCentroids)
	assert.ErrorIs(t, CentroidSet{{}}.Validate(2), ErrInvalidCentroids)

	ragged := CentroidSet{{{0, 0}, {1, 1}}, {{0, 0}}}
	assert.ErrorIs(t, ragged.Validate(2), ErrInvalidCentroids)

	err := NewCentroidSet(1, 2, 3).Validate(2)
	assert.ErrorIs(t, err, ErrInvalidCentroids)
	var dm *distance.ErrDimensionMismatch
	assert.ErrorAs(t, err, &dm)

	nan := NewCentroidSet(1, 1, 1)
	nan[0][0][0] = math.NaN()
	assert.ErrorIs(t, nan.Validate(1), ErrInvalidCentroids)
}

func TestShift(t *testing.T) {
	prev := CentroidSet{
		{{0, 0}, {1, 1}},
		{{0, 0}, {0, 0}},
	}
	next := CentroidSet{
		{{3, 4}, {1, 1}},
		{{1, 0}, {0, 1}},
	}

	perRun, maxShift := Shift(prev, next)
	assert.InDeltaSlice(t, []float64{5, 2}, perRun, 1e-12)
	assert.InDelta(t, 5.0, maxShift, 1e-12)

	perRun, maxShift = Shift(prev, prev)
	assert.Equal(t, []float64{0, 0}, perRun)
	assert.Zero(t, maxShift)
}
