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

// SeedConfig configures k-means++ seeding.
type SeedConfig struct {
	K    int
	Runs int

	// Parallelism bounds concurrent per-run work (0 = GOMAXPROCS).
	Parallelism int

	// Resources accounts the distance cache and bounds per-run workers.
	// May be nil.
	Resources *resource.Controller
}

// Seed selects cfg.Runs independent sets of cfg.K initial centroids with the
// k-means++ heuristic. streams must hold one random stream per run.
func Seed(ctx context.Context, data dataset.Collection, cfg SeedConfig, streams []*rand.Rand) (CentroidSet, error) {
	if err := validate(data, cfg.K, cfg.Runs); err != nil {
		return nil, err
	}
	if len(streams) != cfg.Runs {
		return nil, fmt.Errorf("kmeans: %d random streams for %d runs", len(streams), cfg.Runs)
	}

	vectors, err := dataset.Materialize(ctx, data)
	if err != nil {
		return nil, err
	}

	n, runs, k := len(vectors), cfg.Runs, cfg.K
	cs := NewCentroidSet(runs, k, data.Dim())

	for run := range runs {
		copy(cs[run][0], vectors[streams[run].IntN(n)])
	}

	if k == 1 {
		return cs, nil
	}

	cacheBytes := int64(n) * int64(runs) * 8
	if err := cfg.Resources.AcquireMemory(cacheBytes); err != nil {
		return nil, fmt.Errorf("kmeans: distance cache (%d bytes): %w", cacheBytes, err)
	}
	defer cfg.Resources.ReleaseMemory(cacheBytes)

	// cache[run*n+p] is the squared distance from point p to the nearest
	// centroid chosen so far in run. Each run's column is contiguous so it
	// can be handed to the sampler as is.
	cache := make([]float64, n*runs)
	for i := range cache {
		cache[i] = math.Inf(1)
	}

	for cluster := 1; cluster < k; cluster++ {
		err := dataset.ForEach(ctx, data, func(idx int, p dataset.Point) error {
			for run := range runs {
				d := distance.MustSquaredL2(p.Vector, cs[run][cluster-1])
				if slot := run*n + idx; d < cache[slot] {
					cache[slot] = d
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}

		err = forEachRun(ctx, runs, cfg.Parallelism, cfg.Resources, func(_ context.Context, run int) error {
			weights := cache[run*n : (run+1)*n]

			var idx int
			if floats.Max(weights) == 0 {
				// Every point coincides with a chosen centroid.
				idx = streams[run].IntN(n)
			} else {
				var err error
				if idx, err = SampleIndex(streams[run], weights); err != nil {
					return fmt.Errorf("run %d cluster %d: %w", run, cluster, err)
				}
			}

			copy(cs[run][cluster], vectors[idx])
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return cs, nil
}

func validate(data dataset.Collection, k, runs int) error {
	if k <= 0 {
		return ErrInvalidK
	}
	if runs <= 0 {
		return ErrInvalidRuns
	}
	if n := data.Len(); n == 0 || n < k || n < runs {
		return fmt.Errorf("%w: %d points for k=%d, runs=%d", ErrEmptyDataset, n, k, runs)
	}
	return nil
}
