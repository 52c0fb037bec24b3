package kmeans

import "errors"

var (
	// ErrEmptyDataset is returned when there are fewer points than K or RUNS.
	ErrEmptyDataset = errors.New("kmeans: too few points")

	// ErrEmptyCluster is returned under FailOnEmpty when a (run, cluster)
	// pair receives no points.
	ErrEmptyCluster = errors.New("kmeans: empty cluster")

	// ErrSamplingFailure is returned when weights cannot form a distribution.
	ErrSamplingFailure = errors.New("kmeans: sampling failure")

	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("kmeans: k must be positive")

	// ErrInvalidRuns is returned when the number of runs is not positive.
	ErrInvalidRuns = errors.New("kmeans: runs must be positive")

	// ErrInvalidPolicy is returned for an unknown empty-cluster policy.
	ErrInvalidPolicy = errors.New("kmeans: invalid empty-cluster policy")

	// ErrInvalidCentroids is returned when a caller-supplied centroid set
	// is malformed.
	ErrInvalidCentroids = errors.New("kmeans: invalid centroid set")
)
