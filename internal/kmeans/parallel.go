package kmeans

import (
	"context"
	"runtime"

	"github.com/hupe1980/kmeanspp/resource"
	"golang.org/x/sync/errgroup"
)

// forEachRun calls fn for every run concurrently. Each call holds a worker
// slot of rc for its duration.
func forEachRun(ctx context.Context, runs, parallelism int, rc *resource.Controller, fn func(ctx context.Context, run int) error) error {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for run := range runs {
		g.Go(func() error {
			if err := rc.AcquireWorker(gctx); err != nil {
				return err
			}
			defer rc.ReleaseWorker()

			return fn(gctx, run)
		})
	}

	return g.Wait()
}
