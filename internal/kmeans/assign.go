package kmeans

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/hupe1980/kmeanspp/dataset"
	"github.com/hupe1980/kmeanspp/distance"
	"github.com/hupe1980/kmeanspp/resource"
	"gonum.org/v1/gonum/floats"
)

// EmptyClusterPolicy decides what happens to a centroid whose cluster
// received no points in an iteration.
type EmptyClusterPolicy int

const (
	// ReseedRandom moves the centroid to a random data point.
	ReseedRandom EmptyClusterPolicy = iota
	// KeepPrevious leaves the centroid where it was.
	KeepPrevious
	// FailOnEmpty aborts with ErrEmptyCluster.
	FailOnEmpty
)

func (p EmptyClusterPolicy) String() string {
	switch p {
	case ReseedRandom:
		return "reseed"
	case KeepPrevious:
		return "keep"
	case FailOnEmpty:
		return "fail"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// ParseEmptyClusterPolicy parses the String form of a policy.
func ParseEmptyClusterPolicy(s string) (EmptyClusterPolicy, error) {
	switch s {
	case "reseed":
		return ReseedRandom, nil
	case "keep":
		return KeepPrevious, nil
	case "fail":
		return FailOnEmpty, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidPolicy, s)
	}
}

// Valid reports whether p is one of the defined policies.
func (p EmptyClusterPolicy) Valid() bool {
	return p >= ReseedRandom && p <= FailOnEmpty
}

// MarshalText implements encoding.TextMarshaler.
func (p EmptyClusterPolicy) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPolicy, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *EmptyClusterPolicy) UnmarshalText(text []byte) error {
	v, err := ParseEmptyClusterPolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// EmptyClusterEvent records one empty (run, cluster) pair and how it was
// resolved.
type EmptyClusterEvent struct {
	Iteration int
	Run       int
	Cluster   int
	Policy    EmptyClusterPolicy
	// Point is the index of the data point used as the new centroid,
	// or -1 if the centroid was kept.
	Point int
}

// ClusterKey identifies one cluster of one run.
type ClusterKey struct {
	Run     int
	Cluster int
}

// Accumulator is the running sum and count of the points assigned to a cluster.
type Accumulator struct {
	Sum   []float64
	Count int
}

// NearestCluster returns, for each run, the index of the centroid closest to
// point. Ties go to the lowest index.
func NearestCluster(point []float64, cs CentroidSet) []int {
	out := make([]int, len(cs))
	for run := range cs {
		out[run], _ = nearest(point, cs[run])
	}
	return out
}

func nearest(point []float64, centroids [][]float64) (int, float64) {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		// Squared distance preserves the ordering of Euclidean distance.
		if d := distance.MustSquaredL2(point, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist
}

// Assign computes the nearest cluster of every point for every run,
// indexed [point][run].
func Assign(ctx context.Context, data dataset.Collection, cs CentroidSet) ([][]int, error) {
	return dataset.Map(ctx, data, func(_ int, p dataset.Point) ([]int, error) {
		return NearestCluster(p.Vector, cs), nil
	})
}

// Accumulate reduces the points into per-(run, cluster) sums and counts.
// Pairs that received no points are absent from the result.
func Accumulate(ctx context.Context, data dataset.Collection, assignments [][]int) (map[ClusterKey]*Accumulator, error) {
	dim := data.Dim()

	return dataset.ReduceByKey(ctx, data,
		func(idx int, _ dataset.Point, emit func(ClusterKey)) error {
			for run, c := range assignments[idx] {
				emit(ClusterKey{Run: run, Cluster: c})
			}
			return nil
		},
		dataset.Reducer[ClusterKey, *Accumulator]{
			New: func(ClusterKey) *Accumulator {
				return &Accumulator{Sum: make([]float64, dim)}
			},
			Fold: func(acc *Accumulator, _ ClusterKey, _ int, p dataset.Point) *Accumulator {
				floats.Add(acc.Sum, p.Vector)
				acc.Count++
				return acc
			},
			Merge: func(a, b *Accumulator) *Accumulator {
				floats.Add(a.Sum, b.Sum)
				a.Count += b.Count
				return a
			},
		})
}

// UpdateConfig configures a centroid update.
type UpdateConfig struct {
	Iteration   int
	Policy      EmptyClusterPolicy
	Parallelism int
	Resources   *resource.Controller
}

// Update computes the next centroid set as the mean of each cluster's
// points. prev is not modified. Empty clusters are resolved by cfg.Policy;
// vectors and streams are used for ReseedRandom.
func Update(
	ctx context.Context,
	prev CentroidSet,
	accs map[ClusterKey]*Accumulator,
	vectors [][]float64,
	streams []*rand.Rand,
	cfg UpdateConfig,
) (CentroidSet, []EmptyClusterEvent, error) {
	next := NewCentroidSet(prev.Runs(), prev.K(), prev.Dim())
	perRun := make([][]EmptyClusterEvent, prev.Runs())

	err := forEachRun(ctx, prev.Runs(), cfg.Parallelism, cfg.Resources, func(_ context.Context, run int) error {
		for c := range prev[run] {
			acc := accs[ClusterKey{Run: run, Cluster: c}]
			if acc != nil && acc.Count > 0 {
				copy(next[run][c], acc.Sum)
				floats.Scale(1/float64(acc.Count), next[run][c])
				continue
			}

			ev := EmptyClusterEvent{Iteration: cfg.Iteration, Run: run, Cluster: c, Policy: cfg.Policy, Point: -1}
			switch cfg.Policy {
			case ReseedRandom:
				ev.Point = streams[run].IntN(len(vectors))
				copy(next[run][c], vectors[ev.Point])
			case KeepPrevious:
				copy(next[run][c], prev[run][c])
			default:
				return fmt.Errorf("%w: run %d cluster %d at iteration %d", ErrEmptyCluster, run, c, cfg.Iteration)
			}
			perRun[run] = append(perRun[run], ev)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var events []EmptyClusterEvent
	for _, evs := range perRun {
		events = append(events, evs...)
	}

	return next, events, nil
}

// Inertia returns, per run, the sum of squared distances from every point to
// the centroid it is assigned to.
func Inertia(ctx context.Context, data dataset.Collection, cs CentroidSet, assignments [][]int) ([]float64, error) {
	sums, err := dataset.ReduceByKey(ctx, data,
		func(_ int, _ dataset.Point, emit func(int)) error {
			for run := range cs {
				emit(run)
			}
			return nil
		},
		dataset.Reducer[int, float64]{
			New: func(int) float64 { return 0 },
			Fold: func(acc float64, run int, idx int, p dataset.Point) float64 {
				return acc + distance.MustSquaredL2(p.Vector, cs[run][assignments[idx][run]])
			},
			Merge: func(a, b float64) float64 { return a + b },
		})
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(cs))
	for run := range out {
		out[run] = sums[run]
	}
	return out, nil
}
