package kmeans

import (
	"context"
	"time"

	"github.com/hupe1980/kmeanspp/dataset"
	"github.com/hupe1980/kmeanspp/resource"
)

// Observer receives progress events. Calls are made from the goroutine
// driving the loop, never concurrently.
type Observer interface {
	OnSeeded(runs, k int, elapsed time.Duration)
	OnIteration(stats IterationStats)
	OnEmptyCluster(ev EmptyClusterEvent)
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) OnSeeded(int, int, time.Duration) {}
func (NopObserver) OnIteration(IterationStats)       {}
func (NopObserver) OnEmptyCluster(EmptyClusterEvent) {}

// Config configures a full seeding plus refinement pass.
type Config struct {
	K             int
	Runs          int
	ConvergeDist  float64
	MaxIterations int
	Seed          int64
	EmptyCluster  EmptyClusterPolicy
	Parallelism   int
	Resources     *resource.Controller
	Observer      Observer

	// Initial, if set, skips seeding and refines these centroids instead.
	Initial CentroidSet
}

// Outcome is the result of Fit.
type Outcome struct {
	Refinement

	// Assignments is the nearest cluster of every point against the final
	// centroids, indexed [point][run].
	Assignments [][]int

	// Inertia is the per-run sum of squared distances to assigned centroids.
	Inertia []float64

	SeedDuration time.Duration
}

// Fit seeds (unless cfg.Initial is set) and refines until convergence or the
// iteration cap, then assigns every point to the final centroids.
func Fit(ctx context.Context, data dataset.Collection, cfg Config) (*Outcome, error) {
	observer := cfg.Observer
	if observer == nil {
		observer = NopObserver{}
	}

	initial := cfg.Initial
	runs := cfg.Runs
	if initial != nil {
		runs = initial.Runs()
	}
	streams := Streams(cfg.Seed, runs)

	var seedDuration time.Duration
	if initial == nil {
		start := time.Now()
		cs, err := Seed(ctx, data, SeedConfig{
			K:           cfg.K,
			Runs:        cfg.Runs,
			Parallelism: cfg.Parallelism,
			Resources:   cfg.Resources,
		}, streams)
		if err != nil {
			return nil, err
		}
		seedDuration = time.Since(start)
		observer.OnSeeded(cfg.Runs, cfg.K, seedDuration)
		initial = cs
	}

	ref, err := Refine(ctx, data, initial, RefineConfig{
		ConvergeDist:  cfg.ConvergeDist,
		MaxIterations: cfg.MaxIterations,
		EmptyCluster:  cfg.EmptyCluster,
		Parallelism:   cfg.Parallelism,
		Resources:     cfg.Resources,
		Observer:      observer,
	}, streams)
	if err != nil {
		return nil, err
	}

	assignments, err := Assign(ctx, data, ref.Centroids)
	if err != nil {
		return nil, err
	}

	inertia, err := Inertia(ctx, data, ref.Centroids, assignments)
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Refinement:   *ref,
		Assignments:  assignments,
		Inertia:      inertia,
		SeedDuration: seedDuration,
	}, nil
}
