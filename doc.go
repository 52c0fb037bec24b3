// Package kmeanspp provides parallel multi-restart k-means++ clustering.
//
// RUNS independent sets of K centroids are chosen with k-means++ seeding
// (each new centroid drawn with probability proportional to its squared
// distance from the nearest centroid chosen so far). All runs are then refined
// simultaneously with Lloyd's algorithm, sharing every scan of the data, until
// every run's centroid movement falls below a threshold.
//
// # Quick Start
//
//	points := []dataset.Point{
//	    {ID: "a", Vector: []float64{0, 0}},
//	    {ID: "b", Vector: []float64{0, 1}},
//	    {ID: "c", Vector: []float64{10, 0}},
//	    {ID: "d", Vector: []float64{10, 1}},
//	}
//	data, _ := dataset.NewInMemory(points)
//	res, _ := kmeanspp.Fit(ctx, data,
//	    kmeanspp.WithK(2),
//	    kmeanspp.WithRuns(8),
//	    kmeanspp.WithConvergeDist(0.01),
//	)
//	best := res.Best()
//	fmt.Println(res.Centroids[best], res.Inertia[best])
//
// # Loading data
//
// The ingest package reads JSONL or CSV datasets, optionally compressed, from
// any blobstore.BlobStore (local files, memory, MinIO or S3):
//
//	store := blobstore.NewLocalStore("./data")
//	data, _ := ingest.Load(ctx, store, "points.jsonl.zst")
//
// # Determinism
//
// Every run draws from its own random stream derived from the master seed
// (WithSeed). Identical data, seed and options give identical results
// regardless of scheduling.
//
// # Empty clusters
//
// A cluster that receives no points is handled by the EmptyClusterPolicy:
// ReseedRandom (default), KeepPrevious or FailOnEmpty. Every occurrence is
// recorded in Result.EmptyClusters.
package kmeanspp
