// Package dataset abstracts the bulk data the clustering engine scans.
//
// A Collection is a read-only set of points split into partitions. The
// generic helpers in this package (Scan, ForEach, Map, ReduceByKey,
// Materialize) run over any Collection, so the engine is written once
// against map / keyed-reduce operations and the backend decides how the
// work is spread. InMemory is the bundled backend; Sequential gives the
// single-threaded variant of it.
//
//	coll, err := dataset.NewInMemory(points, dataset.WithPartitions(8))
//	sums, err := dataset.ReduceByKey(ctx, coll, keys, reducer)
package dataset
