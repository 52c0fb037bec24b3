// Package testutil provides testing utilities for kmeanspp.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded RNG, generators for well-separated synthetic
// clusters and helpers for comparing cluster assignments.
//
// # Synthetic Clusters
//
//	rng := testutil.NewRNG(seed)
//	points, labels := rng.Blobs([][]float64{{0, 0}, {10, 10}}, 50, 0.1)
//
// # Comparing Assignments
//
//	ok := testutil.SamePartition(labels, assignments)
package testutil
