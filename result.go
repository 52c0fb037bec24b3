package kmeanspp

import (
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/kmeanspp/distance"
	"github.com/hupe1980/kmeanspp/internal/kmeans"
)

// Result is the outcome of Fit or Refine.
type Result struct {
	// ID identifies the clustering job in logs.
	ID string `json:"id"`

	// Centroids is indexed [run][cluster][dim].
	Centroids CentroidSet `json:"centroids"`

	// Assignments is the cluster of every point against the final centroids,
	// indexed [run][point].
	Assignments [][]int `json:"assignments"`

	// Inertia is, per run, the sum of squared distances from every point to
	// its assigned centroid.
	Inertia []float64 `json:"inertia"`

	Iterations int     `json:"iterations"`
	Shift      float64 `json:"shift"`

	// RunShifts is the summed centroid movement of each run in the last
	// iteration.
	RunShifts []float64 `json:"run_shifts"`

	Status        Status              `json:"status"`
	EmptyClusters []EmptyClusterEvent `json:"empty_clusters,omitempty"`

	SeedDuration time.Duration `json:"seed_duration"`
	Duration     time.Duration `json:"duration"`
}

func newResult(id string, out *kmeans.Outcome, elapsed time.Duration) *Result {
	runs := out.Centroids.Runs()
	assignments := make([][]int, runs)
	for run := range assignments {
		assignments[run] = make([]int, len(out.Assignments))
		for p, row := range out.Assignments {
			assignments[run][p] = row[run]
		}
	}

	return &Result{
		ID:            id,
		Centroids:     out.Centroids,
		Assignments:   assignments,
		Inertia:       out.Inertia,
		Iterations:    out.Iterations,
		Shift:         out.Shift,
		RunShifts:     out.RunShifts,
		Status:        out.Status,
		EmptyClusters: out.EmptyClusters,
		SeedDuration:  out.SeedDuration,
		Duration:      elapsed,
	}
}

// Best returns the run with the lowest inertia. Ties go to the lowest run.
func (r *Result) Best() int {
	best := 0
	for run, v := range r.Inertia {
		if v < r.Inertia[best] {
			best = run
		}
	}
	return best
}

// Members returns the indexes of the points assigned to cluster in run.
// The bitmap is empty for an out-of-range run or cluster.
func (r *Result) Members(run, cluster int) *roaring.Bitmap {
	bm := roaring.New()
	if run < 0 || run >= len(r.Assignments) {
		return bm
	}
	for p, c := range r.Assignments[run] {
		if c == cluster {
			bm.Add(uint32(p))
		}
	}
	return bm
}

// Sizes returns the number of points in every cluster of run.
func (r *Result) Sizes(run int) []int {
	sizes := make([]int, r.Centroids.K())
	if run < 0 || run >= len(r.Assignments) {
		return sizes
	}
	for _, c := range r.Assignments[run] {
		sizes[c]++
	}
	return sizes
}

// Predict returns the cluster of the best run whose centroid is closest to
// vec. Ties go to the lowest cluster index.
func (r *Result) Predict(vec []float64) (int, error) {
	if err := distance.Check(r.Centroids[0][0], vec); err != nil {
		return -1, err
	}
	best := r.Best()
	return kmeans.NearestCluster(vec, r.Centroids[best:best+1])[0], nil
}
