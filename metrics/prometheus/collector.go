// Package prometheus exports clustering metrics to Prometheus.
package prometheus

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/kmeanspp"
)

// Fit outcome label values.
const (
	StatusConverged     = "converged"
	StatusMaxIterations = "max_iterations"
	StatusError         = "error"
)

// Collector implements kmeanspp.MetricsCollector with Prometheus metrics.
type Collector struct {
	seedings        prometheus.Counter
	seedingDuration prometheus.Histogram
	iterations      prometheus.Counter
	iterationTime   prometheus.Histogram
	shift           prometheus.Gauge
	emptyClusters   *prometheus.CounterVec
	fits            *prometheus.CounterVec
	fitDuration     *prometheus.HistogramVec
	fitIterations   prometheus.Histogram
}

var _ kmeanspp.MetricsCollector = (*Collector)(nil)

type options struct {
	namespace   string
	constLabels prometheus.Labels
	buckets     []float64
}

// Option configures a Collector.
type Option func(*options)

// WithNamespace sets the metric namespace (default "kmeanspp").
func WithNamespace(ns string) Option {
	return func(o *options) {
		o.namespace = ns
	}
}

// WithConstLabels attaches constant labels to every metric.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(o *options) {
		o.constLabels = labels
	}
}

// WithBuckets sets the latency histogram buckets in seconds.
func WithBuckets(buckets []float64) Option {
	return func(o *options) {
		o.buckets = buckets
	}
}

// New creates a Collector and registers its metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer, opts ...Option) (*Collector, error) {
	o := &options{
		namespace: "kmeanspp",
		buckets:   prometheus.DefBuckets,
	}
	for _, fn := range opts {
		if fn != nil {
			fn(o)
		}
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		seedings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Name:        "seedings_total",
			Help:        "Total completed k-means++ seedings.",
			ConstLabels: o.constLabels,
		}),
		seedingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   o.namespace,
			Name:        "seeding_duration_seconds",
			Help:        "Duration of k-means++ seeding across all runs.",
			ConstLabels: o.constLabels,
			Buckets:     o.buckets,
		}),
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Name:        "iterations_total",
			Help:        "Total Lloyd refinement iterations.",
			ConstLabels: o.constLabels,
		}),
		iterationTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   o.namespace,
			Name:        "iteration_duration_seconds",
			Help:        "Duration of one Lloyd iteration across all runs.",
			ConstLabels: o.constLabels,
			Buckets:     o.buckets,
		}),
		shift: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   o.namespace,
			Name:        "last_shift",
			Help:        "Shift metric of the most recent iteration.",
			ConstLabels: o.constLabels,
		}),
		emptyClusters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Name:        "empty_clusters_total",
			Help:        "Clusters that received no points, by handling policy.",
			ConstLabels: o.constLabels,
		}, []string{"policy"}),
		fits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   o.namespace,
			Name:        "fits_total",
			Help:        "Completed Fit and Refine calls, by outcome.",
			ConstLabels: o.constLabels,
		}, []string{"status"}),
		fitDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   o.namespace,
			Name:        "fit_duration_seconds",
			Help:        "End-to-end duration of Fit and Refine calls, by outcome.",
			ConstLabels: o.constLabels,
			Buckets:     o.buckets,
		}, []string{"status"}),
		fitIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   o.namespace,
			Name:        "fit_iterations",
			Help:        "Lloyd iterations used per fit.",
			ConstLabels: o.constLabels,
			Buckets:     prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}

	for _, m := range []prometheus.Collector{
		c.seedings,
		c.seedingDuration,
		c.iterations,
		c.iterationTime,
		c.shift,
		c.emptyClusters,
		c.fits,
		c.fitDuration,
		c.fitIterations,
	} {
		if err := reg.Register(m); err != nil {
			return nil, fmt.Errorf("prometheus: register: %w", err)
		}
	}

	return c, nil
}

// MustNew is like New but panics on registration errors.
func MustNew(reg prometheus.Registerer, opts ...Option) *Collector {
	c, err := New(reg, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// RecordSeeding implements kmeanspp.MetricsCollector.
func (c *Collector) RecordSeeding(_, _ int, d time.Duration) {
	c.seedings.Inc()
	c.seedingDuration.Observe(d.Seconds())
}

// RecordIteration implements kmeanspp.MetricsCollector.
func (c *Collector) RecordIteration(_ int, shift float64, d time.Duration) {
	c.iterations.Inc()
	c.iterationTime.Observe(d.Seconds())
	c.shift.Set(shift)
}

// RecordEmptyCluster implements kmeanspp.MetricsCollector.
func (c *Collector) RecordEmptyCluster(policy kmeanspp.EmptyClusterPolicy) {
	c.emptyClusters.WithLabelValues(policy.String()).Inc()
}

// RecordFit implements kmeanspp.MetricsCollector.
func (c *Collector) RecordFit(iterations int, converged bool, d time.Duration, err error) {
	status := StatusConverged
	switch {
	case err != nil:
		status = StatusError
	case !converged:
		status = StatusMaxIterations
	}

	c.fits.WithLabelValues(status).Inc()
	c.fitDuration.WithLabelValues(status).Observe(d.Seconds())
	if err == nil {
		c.fitIterations.Observe(float64(iterations))
	}
}
