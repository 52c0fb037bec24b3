package testutil

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/hupe1980/kmeanspp/dataset"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// UniformVectors generates random vectors with values in range [0, 1).
// Uses a single backing array for efficiency.
func (r *RNG) UniformVectors(num int, dimensions int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dimensions)
	vectors := make([][]float64, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.Float64()
		}
		vectors[i] = vec
	}

	return vectors
}

// GaussianVectors generates random vectors with values from a standard normal distribution.
func (r *RNG) GaussianVectors(num int, dimensions int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dimensions)
	vectors := make([][]float64, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.NormFloat64()
		}
		vectors[i] = vec
	}

	return vectors
}

// Blobs generates perCluster points around each center with Gaussian noise
// of the given spread. It returns the points and the index of the center
// each point was drawn from. Points are interleaved across centers.
func (r *RNG) Blobs(centers [][]float64, perCluster int, spread float64) ([]dataset.Point, []int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(centers) * perCluster
	points := make([]dataset.Point, n)
	labels := make([]int, n)

	for i := range n {
		label := i % len(centers)
		center := centers[label]
		vec := make([]float64, len(center))
		for j := range vec {
			vec[j] = center[j] + r.rand.NormFloat64()*spread
		}
		points[i] = dataset.Point{ID: fmt.Sprintf("p%d", i), Vector: vec}
		labels[i] = label
	}

	return points, labels
}

// Points wraps vectors into points with generated identifiers.
func Points(vectors [][]float64) []dataset.Point {
	points := make([]dataset.Point, len(vectors))
	for i, v := range vectors {
		points[i] = dataset.Point{ID: fmt.Sprintf("p%d", i), Vector: v}
	}
	return points
}

// SamePartition reports whether two labelings group the points identically,
// up to a renaming of the labels.
func SamePartition(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}

	forward := make(map[int]int)
	backward := make(map[int]int)
	for i := range a {
		if l, ok := forward[a[i]]; ok && l != b[i] {
			return false
		}
		if l, ok := backward[b[i]]; ok && l != a[i] {
			return false
		}
		forward[a[i]] = b[i]
		backward[b[i]] = a[i]
	}

	return true
}
