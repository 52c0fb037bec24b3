package kmeans

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/hupe1980/kmeanspp/dataset"
	"github.com/hupe1980/kmeanspp/resource"
)

// Status is the terminal state of the refinement loop.
type Status int

const (
	// StatusConverged means the shift metric fell to the threshold.
	StatusConverged Status = iota
	// StatusMaxIterations means the iteration cap was reached first.
	StatusMaxIterations
)

func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusMaxIterations:
		return "max_iterations"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IterationStats describes one completed refinement iteration.
type IterationStats struct {
	Iteration     int
	Shift         float64
	RunShifts     []float64
	EmptyClusters int
	Duration      time.Duration
}

// RefineConfig configures the Lloyd loop.
type RefineConfig struct {
	// ConvergeDist is the shift metric at or below which the loop stops.
	ConvergeDist float64

	// MaxIterations caps the loop; <= 0 means no cap.
	MaxIterations int

	EmptyCluster EmptyClusterPolicy
	Parallelism  int
	Resources    *resource.Controller
	Observer     Observer
}

// Refinement is the outcome of the Lloyd loop.
type Refinement struct {
	Centroids     CentroidSet
	Iterations    int
	Shift         float64
	RunShifts     []float64
	Status        Status
	EmptyClusters []EmptyClusterEvent
}

// Refine iterates assignment and update on all runs of initial in lockstep
// until the shift metric is at most cfg.ConvergeDist or the iteration cap is
// reached. initial is not modified.
//
// Each iteration is a barrier: all runs are assigned and reduced against the
// same centroid snapshot before any centroid moves.
func Refine(
	ctx context.Context,
	data dataset.Collection,
	initial CentroidSet,
	cfg RefineConfig,
	streams []*rand.Rand,
) (*Refinement, error) {
	if data.Len() == 0 {
		return nil, fmt.Errorf("%w: no points", ErrEmptyDataset)
	}
	if err := initial.Validate(data.Dim()); err != nil {
		return nil, err
	}
	if err := validate(data, initial.K(), initial.Runs()); err != nil {
		return nil, err
	}
	if len(streams) != initial.Runs() {
		return nil, fmt.Errorf("kmeans: %d random streams for %d runs", len(streams), initial.Runs())
	}

	observer := cfg.Observer
	if observer == nil {
		observer = NopObserver{}
	}

	// Worst case every partition holds a partial sum for every cluster of
	// every run.
	accBytes := int64(data.NumPartitions()) * int64(initial.Runs()) * int64(initial.K()) * int64(data.Dim()+1) * 8
	if err := cfg.Resources.AcquireMemory(accBytes); err != nil {
		return nil, fmt.Errorf("kmeans: cluster accumulators (%d bytes): %w", accBytes, err)
	}
	defer cfg.Resources.ReleaseMemory(accBytes)

	vectors, err := dataset.Materialize(ctx, data)
	if err != nil {
		return nil, err
	}

	out := &Refinement{
		Centroids: initial.Clone(),
		Status:    StatusMaxIterations,
	}

	for iter := 1; cfg.MaxIterations <= 0 || iter <= cfg.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()

		assignments, err := Assign(ctx, data, out.Centroids)
		if err != nil {
			return nil, err
		}

		accs, err := Accumulate(ctx, data, assignments)
		if err != nil {
			return nil, err
		}

		next, events, err := Update(ctx, out.Centroids, accs, vectors, streams, UpdateConfig{
			Iteration:   iter,
			Policy:      cfg.EmptyCluster,
			Parallelism: cfg.Parallelism,
			Resources:   cfg.Resources,
		})
		if err != nil {
			return nil, err
		}

		runShifts, shift := Shift(out.Centroids, next)

		out.Centroids = next
		out.Iterations = iter
		out.Shift = shift
		out.RunShifts = runShifts
		out.EmptyClusters = append(out.EmptyClusters, events...)

		for _, ev := range events {
			observer.OnEmptyCluster(ev)
		}
		observer.OnIteration(IterationStats{
			Iteration:     iter,
			Shift:         shift,
			RunShifts:     runShifts,
			EmptyClusters: len(events),
			Duration:      time.Since(start),
		})

		if shift <= cfg.ConvergeDist {
			out.Status = StatusConverged
			break
		}
	}

	return out, nil
}
