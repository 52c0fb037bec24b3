package kmeanspp

import (
	"math"
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting clustering metrics.
// Implement this interface to integrate with monitoring systems like Prometheus;
// see the metrics/prometheus package.
type MetricsCollector interface {
	// RecordSeeding is called once k-means++ seeding has chosen all centroids.
	RecordSeeding(runs, k int, duration time.Duration)

	// RecordIteration is called after each refinement iteration with the
	// shift metric (maximum over runs of summed centroid movement).
	RecordIteration(iteration int, shift float64, duration time.Duration)

	// RecordEmptyCluster is called for every empty (run, cluster) pair.
	RecordEmptyCluster(policy EmptyClusterPolicy)

	// RecordFit is called when Fit or Refine returns.
	// converged is false on error or when the iteration cap was reached.
	RecordFit(iterations int, converged bool, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSeeding(int, int, time.Duration)       {}
func (NoopMetricsCollector) RecordIteration(int, float64, time.Duration) {}
func (NoopMetricsCollector) RecordEmptyCluster(EmptyClusterPolicy)       {}
func (NoopMetricsCollector) RecordFit(int, bool, time.Duration, error)   {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SeedingCount        atomic.Int64
	SeedingTotalNanos   atomic.Int64
	IterationCount      atomic.Int64
	IterationTotalNanos atomic.Int64
	lastShiftBits       atomic.Uint64
	EmptyClusterCount   atomic.Int64
	FitCount            atomic.Int64
	FitErrors           atomic.Int64
	FitUnconverged      atomic.Int64
	FitTotalNanos       atomic.Int64
}

// RecordSeeding implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSeeding(runs, k int, duration time.Duration) {
	b.SeedingCount.Add(1)
	b.SeedingTotalNanos.Add(duration.Nanoseconds())
}

// RecordIteration implements MetricsCollector.
func (b *BasicMetricsCollector) RecordIteration(iteration int, shift float64, duration time.Duration) {
	b.IterationCount.Add(1)
	b.IterationTotalNanos.Add(duration.Nanoseconds())
	b.lastShiftBits.Store(math.Float64bits(shift))
}

// RecordEmptyCluster implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEmptyCluster(EmptyClusterPolicy) {
	b.EmptyClusterCount.Add(1)
}

// RecordFit implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFit(iterations int, converged bool, duration time.Duration, err error) {
	b.FitCount.Add(1)
	b.FitTotalNanos.Add(duration.Nanoseconds())
	switch {
	case err != nil:
		b.FitErrors.Add(1)
	case !converged:
		b.FitUnconverged.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SeedingCount:      b.SeedingCount.Load(),
		SeedingAvgNanos:   avg(b.SeedingTotalNanos.Load(), b.SeedingCount.Load()),
		IterationCount:    b.IterationCount.Load(),
		IterationAvgNanos: avg(b.IterationTotalNanos.Load(), b.IterationCount.Load()),
		LastShift:         math.Float64frombits(b.lastShiftBits.Load()),
		EmptyClusterCount: b.EmptyClusterCount.Load(),
		FitCount:          b.FitCount.Load(),
		FitErrors:         b.FitErrors.Load(),
		FitUnconverged:    b.FitUnconverged.Load(),
		FitAvgNanos:       avg(b.FitTotalNanos.Load(), b.FitCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SeedingCount      int64
	SeedingAvgNanos   int64
	IterationCount    int64
	IterationAvgNanos int64
	LastShift         float64
	EmptyClusterCount int64
	FitCount          int64
	FitErrors         int64
	FitUnconverged    int64
	FitAvgNanos       int64
}
