package dataset

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"testing"

	"github.com/hupe1980/kmeanspp/distance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePoints(n, dim int) []Point {
	points := make([]Point, n)
	for i := range points {
		v := make([]float64, dim)
		for d := range v {
			v[d] = float64(i*dim + d)
		}
		points[i] = Point{ID: fmt.Sprintf("p%d", i), Vector: v}
	}
	return points
}

func TestNewInMemory(t *testing.T) {
	coll, err := NewInMemory(makePoints(10, 3), WithPartitions(4), WithParallelism(2))
	require.NoError(t, err)

	assert.Equal(t, 10, coll.Len())
	assert.Equal(t, 3, coll.Dim())
	assert.Equal(t, 4, coll.NumPartitions())
	assert.Equal(t, 2, coll.Parallelism())
	assert.Equal(t, 2, Parallelism(coll))
	assert.Equal(t, "p7", coll.Point(7).ID)
}

func TestNewInMemory_PartitionsClampedToLen(t *testing.T) {
	coll, err := NewInMemory(makePoints(3, 2), WithPartitions(16))
	require.NoError(t, err)
	assert.Equal(t, 3, coll.NumPartitions())

	empty, err := NewInMemory(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, 0, empty.Dim())
	assert.Equal(t, 1, empty.NumPartitions())
}

func TestNewInMemory_DimensionMismatch(t *testing.T) {
	points := makePoints(4, 2)
	points[2].Vector = []float64{1, 2, 3}

	_, err := NewInMemory(points)
	require.Error(t, err)

	var dm *distance.ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 2, dm.Expected)
	assert.Equal(t, 3, dm.Actual)
}

func TestNewInMemory_NonFinite(t *testing.T) {
	points := makePoints(4, 2)
	points[1].Vector[0] = math.NaN()

	_, err := NewInMemory(points)
	assert.ErrorIs(t, err, ErrNonFinite)
}

func TestScanPartition_Bounds(t *testing.T) {
	coll, err := NewInMemory(makePoints(10, 1), WithPartitions(3))
	require.NoError(t, err)

	var seen []int
	for part := range coll.NumPartitions() {
		require.NoError(t, coll.ScanPartition(context.Background(), part, func(idx int, p Point) error {
			seen = append(seen, idx)
			assert.Equal(t, fmt.Sprintf("p%d", idx), p.ID)
			return nil
		}))
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, seen)

	err = coll.ScanPartition(context.Background(), 3, func(int, Point) error { return nil })
	assert.ErrorIs(t, err, ErrInvalidPartition)
}

func TestScan_Order(t *testing.T) {
	coll, err := NewInMemory(makePoints(25, 2), WithPartitions(4))
	require.NoError(t, err)

	next := 0
	require.NoError(t, Scan(context.Background(), coll, func(idx int, _ Point) error {
		assert.Equal(t, next, idx)
		next++
		return nil
	}))
	assert.Equal(t, 25, next)
}

func TestForEach_VisitsAll(t *testing.T) {
	coll, err := NewInMemory(makePoints(1000, 2), WithPartitions(7), WithParallelism(3))
	require.NoError(t, err)

	var count atomic.Int64
	visited := make([]bool, coll.Len())
	require.NoError(t, ForEach(context.Background(), coll, func(idx int, _ Point) error {
		count.Add(1)
		visited[idx] = true
		return nil
	}))

	assert.EqualValues(t, 1000, count.Load())
	for i, v := range visited {
		assert.True(t, v, "point %d", i)
	}
}

func TestForEach_Error(t *testing.T) {
	coll, err := NewInMemory(makePoints(100, 2), WithPartitions(4))
	require.NoError(t, err)

	boom := errors.New("boom")
	err = ForEach(context.Background(), coll, func(idx int, _ Point) error {
		if idx == 42 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestForEach_Cancellation(t *testing.T) {
	coll, err := NewInMemory(makePoints(100, 2), WithPartitions(2))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = ForEach(ctx, coll, func(int, Point) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMap(t *testing.T) {
	coll, err := NewInMemory(makePoints(50, 2), WithPartitions(5))
	require.NoError(t, err)

	out, err := Map(context.Background(), coll, func(idx int, p Point) (float64, error) {
		return p.Vector[0] + float64(idx), nil
	})
	require.NoError(t, err)
	require.Len(t, out, 50)
	for i, v := range out {
		assert.Equal(t, float64(i*2+i), v)
	}
}

func TestMaterialize(t *testing.T) {
	points := makePoints(5, 3)
	coll, err := Sequential(points)
	require.NoError(t, err)
	assert.Equal(t, 1, coll.NumPartitions())

	vectors, err := Materialize(context.Background(), coll)
	require.NoError(t, err)
	for i := range points {
		assert.Equal(t, points[i].Vector, vectors[i])
	}
}

func TestMaterialize_DimensionMismatch(t *testing.T) {
	// Bypasses NewInMemory validation to model a collection that reports
	// a dimension its vectors do not have.
	coll := &InMemory{
		points:      []Point{{ID: "a", Vector: []float64{0, 0}}, {ID: "b", Vector: []float64{1, 1, 1}}, {ID: "c", Vector: []float64{5, 5}}},
		dim:         2,
		partitions:  2,
		parallelism: 2,
	}

	_, err := Materialize(context.Background(), coll)
	require.Error(t, err)

	var dimErr *distance.ErrDimensionMismatch
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, 2, dimErr.Expected)
	assert.Equal(t, 3, dimErr.Actual)
	assert.Contains(t, err.Error(), `"b"`)
}

func TestReduceByKey(t *testing.T) {
	for _, parts := range []int{1, 3, 8} {
		t.Run(fmt.Sprintf("partitions=%d", parts), func(t *testing.T) {
			coll, err := NewInMemory(makePoints(100, 1), WithPartitions(parts))
			require.NoError(t, err)

			type acc struct {
				sum   float64
				count int
			}

			got, err := ReduceByKey(context.Background(), coll,
				func(idx int, _ Point, emit func(int)) error {
					emit(idx % 3)
					if idx%10 == 0 {
						emit(-1)
					}
					return nil
				},
				Reducer[int, acc]{
					New: func(int) acc { return acc{} },
					Fold: func(a acc, _ int, _ int, p Point) acc {
						a.sum += p.Vector[0]
						a.count++
						return a
					},
					Merge: func(a, b acc) acc {
						return acc{sum: a.sum + b.sum, count: a.count + b.count}
					},
				})
			require.NoError(t, err)

			require.Len(t, got, 4)
			assert.Equal(t, 34, got[0].count)
			assert.Equal(t, 33, got[1].count)
			assert.Equal(t, 33, got[2].count)
			assert.Equal(t, 10, got[-1].count)
			assert.Equal(t, 4950.0, got[0].sum+got[1].sum+got[2].sum)
			assert.Equal(t, 450.0, got[-1].sum)
		})
	}
}

func TestReduceByKey_Error(t *testing.T) {
	coll, err := NewInMemory(makePoints(10, 1), WithPartitions(2))
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = ReduceByKey(context.Background(), coll,
		func(int, Point, func(int)) error { return boom },
		Reducer[int, int]{
			New:   func(int) int { return 0 },
			Fold:  func(a int, _ int, _ int, _ Point) int { return a + 1 },
			Merge: func(a, b int) int { return a + b },
		})
	assert.ErrorIs(t, err, boom)
}
