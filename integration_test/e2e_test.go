package integration_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kmeanspp"
	"github.com/hupe1980/kmeanspp/blobstore"
	"github.com/hupe1980/kmeanspp/dataset"
	"github.com/hupe1980/kmeanspp/ingest"
	"github.com/hupe1980/kmeanspp/testutil"
)

var centers = [][]float64{
	{0, 0, 0},
	{25, 0, 0},
	{0, 25, 0},
	{0, 0, 25},
}

func writeGzipCSV(t *testing.T, path string, points []dataset.Point) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := gzip.NewWriter(f)
	fmt.Fprintln(zw, "id,x,y,z")
	for _, p := range points {
		fields := make([]string, len(p.Vector))
		for i, v := range p.Vector {
			fields[i] = fmt.Sprintf("%g", v)
		}
		fmt.Fprintf(zw, "%s,%s\n", p.ID, strings.Join(fields, ","))
	}
	require.NoError(t, zw.Close())
}

func TestE2E_LocalGzipCSV(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	rng := testutil.NewRNG(2024)
	points, labels := rng.Blobs(centers, 250, 1.5)
	writeGzipCSV(t, filepath.Join(dir, "points.csv.gz"), points)

	store := blobstore.NewLocalStore(dir)
	data, err := ingest.Load(ctx, store, "points.csv.gz", ingest.WithPartitions(8))
	require.NoError(t, err)
	require.Equal(t, len(points), data.Len())
	require.Equal(t, 3, data.Dim())

	metrics := &kmeanspp.BasicMetricsCollector{}
	res, err := kmeanspp.Fit(ctx, data,
		kmeanspp.WithK(len(centers)),
		kmeanspp.WithRuns(6),
		kmeanspp.WithSeed(11),
		kmeanspp.WithConvergeDist(1e-6),
		kmeanspp.WithMetricsCollector(metrics),
	)
	require.NoError(t, err)
	assert.Equal(t, kmeanspp.StatusConverged, res.Status)

	best := res.Best()
	assert.True(t, testutil.SamePartition(labels, res.Assignments[best]))
	for _, size := range res.Sizes(best) {
		assert.Equal(t, 250, size)
	}

	total := uint64(0)
	for c := range len(centers) {
		total += res.Members(best, c).GetCardinality()
	}
	assert.Equal(t, uint64(len(points)), total)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.FitCount)
	assert.Equal(t, int64(res.Iterations), stats.IterationCount)
}

func TestE2E_PartitionIndependence(t *testing.T) {
	ctx := context.Background()

	rng := testutil.NewRNG(99)
	points, _ := rng.Blobs(centers, 100, 3)

	store := blobstore.NewMemoryStore()
	var sb strings.Builder
	for _, p := range points {
		fmt.Fprintf(&sb, `{"id":%q,"vector":[%g,%g],"features":[[%g]]}`+"\n",
			p.ID, p.Vector[0], p.Vector[1], p.Vector[2])
	}
	store.Put("points.jsonl", []byte(sb.String()))

	fit := func(parts int) *kmeanspp.Result {
		data, err := ingest.Load(ctx, store, "points.jsonl",
			ingest.WithPartitions(parts), ingest.WithParallelism(4))
		require.NoError(t, err)

		res, err := kmeanspp.Fit(ctx, data,
			kmeanspp.WithK(len(centers)),
			kmeanspp.WithRuns(3),
			kmeanspp.WithSeed(5),
		)
		require.NoError(t, err)
		return res
	}

	a, b := fit(1), fit(7)
	assert.Equal(t, a.Assignments, b.Assignments)
	assert.Equal(t, a.Iterations, b.Iterations)
	for run := range a.Centroids {
		for c := range a.Centroids[run] {
			assert.InDeltaSlice(t, a.Centroids[run][c], b.Centroids[run][c], 1e-9)
		}
	}
}
