package prometheus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kmeanspp"
	"github.com/hupe1980/kmeanspp/dataset"
)

func TestCollector_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	c.RecordSeeding(3, 2, time.Millisecond)
	c.RecordIteration(1, 2.5, time.Millisecond)
	c.RecordIteration(2, 0.05, time.Millisecond)
	c.RecordEmptyCluster(kmeanspp.ReseedRandom)
	c.RecordEmptyCluster(kmeanspp.KeepPrevious)
	c.RecordEmptyCluster(kmeanspp.KeepPrevious)
	c.RecordFit(2, true, time.Second, nil)
	c.RecordFit(300, false, time.Second, nil)
	c.RecordFit(0, false, time.Second, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.seedings))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.iterations))
	assert.Equal(t, 0.05, testutil.ToFloat64(c.shift))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.emptyClusters.WithLabelValues("reseed")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.emptyClusters.WithLabelValues("keep")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.fits.WithLabelValues(StatusConverged)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.fits.WithLabelValues(StatusMaxIterations)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.fits.WithLabelValues(StatusError)))
	assert.Equal(t, 3, testutil.CollectAndCount(c.fitDuration))

	count, err := testutil.GatherAndCount(reg, "kmeanspp_fits_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestCollector_Options(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg,
		WithNamespace("clustering"),
		WithConstLabels(prometheus.Labels{"job": "nightly"}),
		WithBuckets([]float64{0.1, 1}),
	)
	require.NoError(t, err)

	c.RecordSeeding(1, 2, time.Millisecond)

	count, err := testutil.GatherAndCount(reg, "clustering_seedings_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			require.NotEmpty(t, m.GetLabel(), mf.GetName())
			assert.Equal(t, "job", m.GetLabel()[0].GetName())
		}
	}
}

func TestCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	var are prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &are)

	assert.Panics(t, func() { MustNew(reg) })
}

func TestCollector_Fit(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := MustNew(reg)

	data, err := dataset.Sequential([]dataset.Point{
		{ID: "a", Vector: []float64{0, 0}},
		{ID: "b", Vector: []float64{0, 1}},
		{ID: "c", Vector: []float64{10, 0}},
		{ID: "d", Vector: []float64{10, 1}},
	})
	require.NoError(t, err)

	res, err := kmeanspp.Fit(context.Background(), data,
		kmeanspp.WithK(2),
		kmeanspp.WithRuns(3),
		kmeanspp.WithMetricsCollector(c),
	)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.seedings))
	assert.Equal(t, float64(res.Iterations), testutil.ToFloat64(c.iterations))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.fits.WithLabelValues(res.Status.String())))
}
