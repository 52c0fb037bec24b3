// Package distance provides Euclidean vector math for clustering.
// Kernels delegate to gonum's floats package.
package distance

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrDimensionMismatch indicates two vectors of unequal length were compared.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Check returns an *ErrDimensionMismatch if a and b differ in length.
func Check(a, b []float64) error {
	if len(a) != len(b) {
		return &ErrDimensionMismatch{Expected: len(a), Actual: len(b)}
	}
	return nil
}

// SquaredL2 calculates the squared Euclidean distance between two vectors.
func SquaredL2(a, b []float64) (float64, error) {
	if err := Check(a, b); err != nil {
		return 0, err
	}
	return squaredL2(a, b), nil
}

// L2 calculates the Euclidean distance between two vectors.
func L2(a, b []float64) (float64, error) {
	if err := Check(a, b); err != nil {
		return 0, err
	}
	return floats.Distance(a, b, 2), nil
}

// MustSquaredL2 is SquaredL2 for inputs whose dimensions were validated up front.
// It panics on a length mismatch.
func MustSquaredL2(a, b []float64) float64 {
	d, err := SquaredL2(a, b)
	if err != nil {
		panic(err)
	}
	return d
}

// MustL2 is L2 for inputs whose dimensions were validated up front.
// It panics on a length mismatch.
func MustL2(a, b []float64) float64 {
	d, err := L2(a, b)
	if err != nil {
		panic(err)
	}
	return d
}

// IsFinite reports whether every component of v is neither NaN nor ±Inf.
func IsFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func squaredL2(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
