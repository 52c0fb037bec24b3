// Package resource implements the Controller that bounds the working set of a
// clustering job.
//
// The Controller manages three resource types:
//
//   - Memory: the k-means++ distance cache (N x RUNS float64) and the
//     per-iteration cluster accumulators are reserved here before allocation
//     (non-blocking, fail-fast)
//   - Workers: per-run goroutines (sampling, centroid updates) take a slot
//   - IO: dataset loading is throttled by a token bucket
//
// # Memory Management
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	if err := rc.AcquireMemory(bytes); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(bytes)
//
// # Worker Limits
//
//	if err := rc.AcquireWorker(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseWorker()
//
// # IO Rate Limiting
//
//	reader := resource.NewRateLimitedReader(ctx, blobReader, rc)
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
