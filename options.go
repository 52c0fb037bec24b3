package kmeanspp

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/hupe1980/kmeanspp/resource"
)

// Defaults applied by Fit and Refine.
const (
	DefaultK             = 2
	DefaultRuns          = 1
	DefaultConvergeDist  = 0.1
	DefaultSeed          = 1
	DefaultMaxIterations = 300
)

type options struct {
	k                int
	runs             int
	convergeDist     float64
	seed             int64
	maxIterations    int
	emptyCluster     EmptyClusterPolicy
	parallelism      int
	resources        *resource.Controller
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures Fit and Refine.
type Option func(*options)

// WithK sets the number of clusters per run.
// Ignored by Refine, which takes K from the initial centroids.
func WithK(k int) Option {
	return func(o *options) {
		o.k = k
	}
}

// WithRuns sets the number of independent restarts refined in lockstep.
// Ignored by Refine, which takes the run count from the initial centroids.
func WithRuns(runs int) Option {
	return func(o *options) {
		o.runs = runs
	}
}

// WithConvergeDist sets the convergence threshold. Refinement stops once,
// for every run, the summed Euclidean movement of its centroids in one
// iteration is at most d.
func WithConvergeDist(d float64) Option {
	return func(o *options) {
		o.convergeDist = d
	}
}

// WithSeed sets the master seed from which every run's random stream is
// derived. Identical seeds and configuration give identical results.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithMaxIterations caps the number of refinement iterations.
// Zero removes the cap. Reaching the cap is reported as StatusMaxIterations,
// not as an error.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

// WithEmptyClusterPolicy selects how a cluster that receives no points is
// handled. The default is ReseedRandom.
func WithEmptyClusterPolicy(p EmptyClusterPolicy) Option {
	return func(o *options) {
		o.emptyCluster = p
	}
}

// WithParallelism bounds concurrent per-run work. Values <= 0 select
// GOMAXPROCS. Partition-level parallelism is a property of the collection.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// WithResourceController accounts working memory and per-run workers
// against rc. Pass nil for no limits.
//
// Example:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 512 << 20,
//	    MaxWorkers:       4,
//	})
//	res, _ := kmeanspp.Fit(ctx, data, kmeanspp.WithResourceController(rc))
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &kmeanspp.BasicMetricsCollector{}
//	res, _ := kmeanspp.Fit(ctx, data, kmeanspp.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
//	fmt.Printf("Iterations: %d, Empty clusters: %d\n", stats.IterationCount, stats.EmptyClusterCount)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		k:                DefaultK,
		runs:             DefaultRuns,
		convergeDist:     DefaultConvergeDist,
		seed:             DefaultSeed,
		maxIterations:    DefaultMaxIterations,
		emptyCluster:     ReseedRandom,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}

func (o options) validate() error {
	if o.k <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidK, o.k)
	}
	if o.runs <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRuns, o.runs)
	}
	if o.convergeDist < 0 || math.IsNaN(o.convergeDist) || math.IsInf(o.convergeDist, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidConvergeDist, o.convergeDist)
	}
	if o.maxIterations < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxIterations, o.maxIterations)
	}
	if !o.emptyCluster.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidEmptyClusterPolicy, int(o.emptyCluster))
	}
	return nil
}
