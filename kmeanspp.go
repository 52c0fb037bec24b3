package kmeanspp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/kmeanspp/dataset"
	"github.com/hupe1980/kmeanspp/internal/kmeans"
)

// CentroidSet holds K centroids for each run, indexed [run][cluster][dim].
type CentroidSet = kmeans.CentroidSet

// NewCentroidSet allocates a zeroed centroid set.
func NewCentroidSet(runs, k, dim int) CentroidSet {
	return kmeans.NewCentroidSet(runs, k, dim)
}

// EmptyClusterPolicy decides what happens to a centroid whose cluster
// received no points in an iteration.
type EmptyClusterPolicy = kmeans.EmptyClusterPolicy

const (
	// ReseedRandom moves the centroid to a random data point drawn from the
	// run's own random stream.
	ReseedRandom = kmeans.ReseedRandom
	// KeepPrevious leaves the centroid where it was.
	KeepPrevious = kmeans.KeepPrevious
	// FailOnEmpty aborts with ErrEmptyCluster.
	FailOnEmpty = kmeans.FailOnEmpty
)

// ParseEmptyClusterPolicy parses "reseed", "keep" or "fail".
func ParseEmptyClusterPolicy(s string) (EmptyClusterPolicy, error) {
	return kmeans.ParseEmptyClusterPolicy(s)
}

// EmptyClusterEvent records one empty cluster and how it was resolved.
type EmptyClusterEvent = kmeans.EmptyClusterEvent

// IterationStats describes one completed refinement iteration.
type IterationStats = kmeans.IterationStats

// Status is the terminal state of refinement.
type Status = kmeans.Status

const (
	// StatusConverged means every run's centroid movement fell to the
	// convergence threshold.
	StatusConverged = kmeans.StatusConverged
	// StatusMaxIterations means the iteration cap was reached first.
	StatusMaxIterations = kmeans.StatusMaxIterations
)

// Fit clusters data into K clusters, RUNS times in parallel.
//
// Each run is seeded independently with k-means++ and all runs are then
// refined in lockstep with Lloyd's algorithm until, for every run, the summed
// movement of its centroids in one iteration is at most the convergence
// distance, or the iteration cap is reached.
func Fit(ctx context.Context, data dataset.Collection, opts ...Option) (*Result, error) {
	return fit(ctx, data, nil, applyOptions(opts))
}

// Refine runs the Lloyd loop from caller-supplied centroids instead of
// k-means++ seeding. K and the number of runs are taken from initial, which
// is not modified.
func Refine(ctx context.Context, data dataset.Collection, initial CentroidSet, opts ...Option) (*Result, error) {
	if len(initial) == 0 {
		return nil, fmt.Errorf("%w: no runs", ErrInvalidCentroids)
	}

	o := applyOptions(opts)
	o.runs = initial.Runs()
	o.k = initial.K()

	return fit(ctx, data, initial, o)
}

func fit(ctx context.Context, data dataset.Collection, initial CentroidSet, o options) (*Result, error) {
	start := time.Now()
	id := uuid.NewString()
	logger := o.logger.WithJob(id).WithK(o.k).WithRuns(o.runs)

	res, err := func() (*Result, error) {
		if err := o.validate(); err != nil {
			return nil, err
		}

		out, err := kmeans.Fit(ctx, data, kmeans.Config{
			K:             o.k,
			Runs:          o.runs,
			ConvergeDist:  o.convergeDist,
			MaxIterations: o.maxIterations,
			Seed:          o.seed,
			EmptyCluster:  o.emptyCluster,
			Parallelism:   o.parallelism,
			Resources:     o.resources,
			Observer:      &observer{ctx: ctx, logger: logger, metrics: o.metricsCollector},
			Initial:       initial,
		})
		if err != nil {
			return nil, err
		}

		return newResult(id, out, time.Since(start)), nil
	}()

	if res != nil {
		o.metricsCollector.RecordFit(res.Iterations, res.Status == StatusConverged, res.Duration, nil)
	} else {
		o.metricsCollector.RecordFit(0, false, time.Since(start), err)
	}
	logger.LogFit(ctx, res, err)

	return res, err
}

// observer forwards engine progress to the configured logger and metrics.
type observer struct {
	ctx     context.Context
	logger  *Logger
	metrics MetricsCollector
}

func (o *observer) OnSeeded(runs, k int, elapsed time.Duration) {
	o.logger.LogSeeding(o.ctx, runs, k, elapsed)
	o.metrics.RecordSeeding(runs, k, elapsed)
}

func (o *observer) OnIteration(stats IterationStats) {
	o.logger.LogIteration(o.ctx, stats)
	o.metrics.RecordIteration(stats.Iteration, stats.Shift, stats.Duration)
}

func (o *observer) OnEmptyCluster(ev EmptyClusterEvent) {
	o.logger.LogEmptyCluster(o.ctx, ev)
	o.metrics.RecordEmptyCluster(ev.Policy)
}
