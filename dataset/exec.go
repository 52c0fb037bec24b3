package dataset

import (
	"context"
	"fmt"
	"runtime"

	"github.com/hupe1980/kmeanspp/distance"
	"golang.org/x/sync/errgroup"
)

// Parallelism returns how many partitions of c may be processed concurrently.
// Collections can override the GOMAXPROCS default by implementing
// interface{ Parallelism() int }.
func Parallelism(c Collection) int {
	if p, ok := c.(interface{ Parallelism() int }); ok && p.Parallelism() > 0 {
		return p.Parallelism()
	}
	return defaultParallelism()
}

func defaultParallelism() int {
	return runtime.GOMAXPROCS(0)
}

// Scan visits every point sequentially in index order.
func Scan(ctx context.Context, c Collection, fn func(idx int, p Point) error) error {
	for part := range c.NumPartitions() {
		if err := c.ScanPartition(ctx, part, fn); err != nil {
			return err
		}
	}
	return nil
}

// ForEach visits every point, scanning partitions concurrently.
// fn must be safe to call from multiple goroutines; calls for a single
// partition are sequential.
func ForEach(ctx context.Context, c Collection, fn func(idx int, p Point) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(Parallelism(c))

	for part := range c.NumPartitions() {
		g.Go(func() error {
			return c.ScanPartition(gctx, part, fn)
		})
	}

	return g.Wait()
}

// Map applies fn to every point concurrently and returns the results
// indexed by point index.
func Map[T any](ctx context.Context, c Collection, fn func(idx int, p Point) (T, error)) ([]T, error) {
	out := make([]T, c.Len())

	err := ForEach(ctx, c, func(idx int, p Point) error {
		v, err := fn(idx, p)
		if err != nil {
			return err
		}
		out[idx] = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// Materialize returns every feature vector indexed by point index.
// The vectors alias the collection's storage and must be treated as read-only.
// It fails with an *distance.ErrDimensionMismatch if a vector's length
// differs from c.Dim().
func Materialize(ctx context.Context, c Collection) ([][]float64, error) {
	dim := c.Dim()
	return Map(ctx, c, func(idx int, p Point) ([]float64, error) {
		if len(p.Vector) != dim {
			return nil, fmt.Errorf("dataset: point %d (%q): %w", idx, p.ID,
				&distance.ErrDimensionMismatch{Expected: dim, Actual: len(p.Vector)})
		}
		return p.Vector, nil
	})
}

// Reducer describes a keyed fold.
//
// Merge must be associative and commutative; partitions are folded
// independently and their partial results merged in partition order.
type Reducer[K comparable, A any] struct {
	// New returns an empty accumulator for key.
	New func(key K) A

	// Fold adds one point to acc and returns the updated accumulator.
	Fold func(acc A, key K, idx int, p Point) A

	// Merge combines two partial accumulators for the same key.
	Merge func(a, b A) A
}

// ReduceByKey folds every point into the accumulators of the keys emitted for it.
//
// keys may emit any number of keys per point, including none.
func ReduceByKey[K comparable, A any](
	ctx context.Context,
	c Collection,
	keys func(idx int, p Point, emit func(K)) error,
	r Reducer[K, A],
) (map[K]A, error) {
	partials := make([]map[K]A, c.NumPartitions())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(Parallelism(c))

	for part := range c.NumPartitions() {
		g.Go(func() error {
			local := make(map[K]A)
			err := c.ScanPartition(gctx, part, func(idx int, p Point) error {
				return keys(idx, p, func(k K) {
					acc, ok := local[k]
					if !ok {
						acc = r.New(k)
					}
					local[k] = r.Fold(acc, k, idx, p)
				})
			})
			if err != nil {
				return err
			}
			partials[part] = local
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make(map[K]A)
	for _, local := range partials {
		for k, v := range local {
			if acc, ok := result[k]; ok {
				result[k] = r.Merge(acc, v)
			} else {
				result[k] = v
			}
		}
	}

	return result, nil
}
