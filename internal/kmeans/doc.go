// Package kmeans implements parallel multi-restart k-means++ clustering.
//
// The engine has two phases that share every scan of the data:
//
//   - Seed runs k-means++ for RUNS independent restarts at once. A distance
//     cache of N x RUNS squared distances is extended with each chosen
//     centroid, so one pass per cluster serves all runs.
//   - Refine runs Lloyd's algorithm on all restarts in lockstep: assign every
//     point to its nearest centroid per run, reduce per (run, cluster), move
//     the centroids, and stop once the largest per-run total movement drops
//     to the convergence threshold.
//
// Every run draws from its own random stream (see Streams), so results are
// reproducible for a fixed seed and configuration.
package kmeans
