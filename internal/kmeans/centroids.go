package kmeans

import (
	"fmt"

	"github.com/hupe1980/kmeanspp/distance"
)

// CentroidSet holds K centroids for each of RUNS restarts, indexed
// [run][cluster][dim].
type CentroidSet [][][]float64

// NewCentroidSet allocates a zeroed set backed by one contiguous array.
func NewCentroidSet(runs, k, dim int) CentroidSet {
	backing := make([]float64, runs*k*dim)
	cs := make(CentroidSet, runs)
	for run := range cs {
		cs[run] = make([][]float64, k)
		for c := range cs[run] {
			off := (run*k + c) * dim
			cs[run][c] = backing[off : off+dim : off+dim]
		}
	}
	return cs
}

// Runs returns the number of restarts.
func (cs CentroidSet) Runs() int { return len(cs) }

// K returns the number of clusters per run.
func (cs CentroidSet) K() int {
	if len(cs) == 0 {
		return 0
	}
	return len(cs[0])
}

// Dim returns the centroid dimension.
func (cs CentroidSet) Dim() int {
	if len(cs) == 0 || len(cs[0]) == 0 {
		return 0
	}
	return len(cs[0][0])
}

// Clone returns a deep copy.
func (cs CentroidSet) Clone() CentroidSet {
	out := NewCentroidSet(cs.Runs(), cs.K(), cs.Dim())
	for run := range cs {
		for c := range cs[run] {
			copy(out[run][c], cs[run][c])
		}
	}
	return out
}

// Validate checks that the set is rectangular, finite and of dimension dim.
func (cs CentroidSet) Validate(dim int) error {
	if len(cs) == 0 {
		return fmt.Errorf("%w: no runs", ErrInvalidCentroids)
	}
	k := len(cs[0])
	if k == 0 {
		return fmt.Errorf("%w: no clusters", ErrInvalidCentroids)
	}
	for run := range cs {
		if len(cs[run]) != k {
			return fmt.Errorf("%w: run %d has %d clusters, want %d", ErrInvalidCentroids, run, len(cs[run]), k)
		}
		for c, v := range cs[run] {
			if len(v) != dim {
				return fmt.Errorf("%w: run %d cluster %d: %w", ErrInvalidCentroids, run, c,
					&distance.ErrDimensionMismatch{Expected: dim, Actual: len(v)})
			}
			if !distance.IsFinite(v) {
				return fmt.Errorf("%w: run %d cluster %d is not finite", ErrInvalidCentroids, run, c)
			}
		}
	}
	return nil
}

// Shift returns, per run, the summed Euclidean movement of its centroids
// between prev and next, and the maximum of those sums.
func Shift(prev, next CentroidSet) ([]float64, float64) {
	perRun := make([]float64, len(prev))
	var maxShift float64
	for run := range prev {
		var sum float64
		for c := range prev[run] {
			sum += distance.MustL2(prev[run][c], next[run][c])
		}
		perRun[run] = sum
		if sum > maxShift {
			maxShift = sum
		}
	}
	return perRun, maxShift
}
