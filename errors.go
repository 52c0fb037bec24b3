package kmeanspp

import (
	"errors"

	"github.com/hupe1980/kmeanspp/distance"
	"github.com/hupe1980/kmeanspp/internal/kmeans"
	"github.com/hupe1980/kmeanspp/resource"
)

var (
	// ErrEmptyDataset is returned when the dataset has fewer points than K or
	// the number of runs.
	ErrEmptyDataset = kmeans.ErrEmptyDataset

	// ErrEmptyCluster is returned under FailOnEmpty when a cluster receives
	// no points.
	ErrEmptyCluster = kmeans.ErrEmptyCluster

	// ErrSamplingFailure is returned when seeding weights are malformed.
	ErrSamplingFailure = kmeans.ErrSamplingFailure

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = kmeans.ErrInvalidK

	// ErrInvalidRuns is returned when the number of runs is not positive.
	ErrInvalidRuns = kmeans.ErrInvalidRuns

	// ErrInvalidCentroids is returned by Refine for a malformed initial set.
	ErrInvalidCentroids = kmeans.ErrInvalidCentroids

	// ErrInvalidEmptyClusterPolicy is returned for an unknown policy.
	ErrInvalidEmptyClusterPolicy = kmeans.ErrInvalidPolicy

	// ErrInvalidConvergeDist is returned when the convergence threshold is
	// negative, NaN or infinite.
	ErrInvalidConvergeDist = errors.New("kmeanspp: converge distance must be finite and non-negative")

	// ErrInvalidMaxIterations is returned when the iteration cap is negative.
	ErrInvalidMaxIterations = errors.New("kmeanspp: max iterations must not be negative")

	// ErrMemoryLimitExceeded is returned when working memory would exceed the
	// resource controller's budget.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)

// ErrDimensionMismatch indicates a vector/centroid dimensionality mismatch.
type ErrDimensionMismatch = distance.ErrDimensionMismatch
