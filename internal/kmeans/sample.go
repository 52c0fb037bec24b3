package kmeans

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// SampleIndex draws an index with probability proportional to its weight.
//
// Weights are normalized by their total. One uniform u in [0,1) is drawn and
// the smallest i whose cumulative normalized weight exceeds u is returned.
// Rounding can leave the final cumulative sum just below u; the last index
// with a positive weight is returned in that case. Zero-weight indexes are
// never selected.
func SampleIndex(r *rand.Rand, weights []float64) (int, error) {
	if len(weights) == 0 {
		return -1, fmt.Errorf("%w: no weights", ErrSamplingFailure)
	}

	last := -1
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return -1, fmt.Errorf("%w: invalid weight %v at index %d", ErrSamplingFailure, w, i)
		}
		if w > 0 {
			last = i
		}
	}

	total := floats.Sum(weights)
	if last < 0 || math.IsInf(total, 1) {
		return -1, fmt.Errorf("%w: total weight %v", ErrSamplingFailure, total)
	}

	u := r.Float64()
	var cum float64
	for i, w := range weights {
		cum += w / total
		if cum > u {
			return i, nil
		}
	}

	return last, nil
}
