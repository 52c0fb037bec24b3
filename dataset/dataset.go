package dataset

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/kmeanspp/distance"
)

var (
	// ErrNonFinite is returned when a feature vector contains NaN or ±Inf.
	ErrNonFinite = errors.New("dataset: non-finite feature value")

	// ErrInvalidPartition is returned when a partition index is out of range.
	ErrInvalidPartition = errors.New("dataset: partition out of range")
)

// Point is one data point: an opaque identifier and its feature vector.
// The identifier is carried through but never used in distance computation.
type Point struct {
	ID     string
	Vector []float64
}

// Collection is a read-only, partitioned bulk collection of points.
//
// Implementations must be safe for concurrent ScanPartition calls on
// distinct partitions. Point indexes are global, dense and stable in
// [0, Len()).
type Collection interface {
	// Len returns the number of points.
	Len() int

	// Dim returns the shared vector dimension (0 for an empty collection).
	Dim() int

	// NumPartitions returns the number of independently scannable partitions.
	NumPartitions() int

	// ScanPartition calls fn for every point of the partition in index order.
	// Scanning stops at the first error returned by fn.
	ScanPartition(ctx context.Context, part int, fn func(idx int, p Point) error) error
}

// InMemory is a Collection backed by a materialized slice of points.
type InMemory struct {
	points      []Point
	dim         int
	partitions  int
	parallelism int
}

// Option configures an InMemory collection.
type Option func(*InMemory)

// WithPartitions sets the number of partitions the points are split into.
// Values <= 0 select one partition per available worker.
func WithPartitions(n int) Option {
	return func(m *InMemory) {
		m.partitions = n
	}
}

// WithParallelism caps the number of partitions processed concurrently.
// Values <= 0 select GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(m *InMemory) {
		m.parallelism = n
	}
}

// NewInMemory validates points and wraps them in a Collection.
//
// All vectors must share one dimension and contain only finite values.
// The slice is not copied; callers must not mutate it afterwards.
func NewInMemory(points []Point, opts ...Option) (*InMemory, error) {
	m := &InMemory{points: points}
	for _, fn := range opts {
		if fn != nil {
			fn(m)
		}
	}

	if m.parallelism <= 0 {
		m.parallelism = defaultParallelism()
	}
	if m.partitions <= 0 {
		m.partitions = m.parallelism
	}
	if m.partitions > len(points) {
		m.partitions = max(len(points), 1)
	}

	if len(points) > 0 {
		m.dim = len(points[0].Vector)
	}
	for i, p := range points {
		if len(p.Vector) != m.dim {
			return nil, fmt.Errorf("dataset: point %d (%q): %w", i, p.ID,
				&distance.ErrDimensionMismatch{Expected: m.dim, Actual: len(p.Vector)})
		}
		if !distance.IsFinite(p.Vector) {
			return nil, fmt.Errorf("dataset: point %d (%q): %w", i, p.ID, ErrNonFinite)
		}
	}

	return m, nil
}

// Sequential wraps points in a single-partition, single-worker Collection.
func Sequential(points []Point) (*InMemory, error) {
	return NewInMemory(points, WithPartitions(1), WithParallelism(1))
}

// Len implements Collection.
func (m *InMemory) Len() int { return len(m.points) }

// Dim implements Collection.
func (m *InMemory) Dim() int { return m.dim }

// NumPartitions implements Collection.
func (m *InMemory) NumPartitions() int { return m.partitions }

// Parallelism returns the configured worker limit.
func (m *InMemory) Parallelism() int { return m.parallelism }

// Point returns the point at idx.
func (m *InMemory) Point(idx int) Point { return m.points[idx] }

// ScanPartition implements Collection.
func (m *InMemory) ScanPartition(ctx context.Context, part int, fn func(idx int, p Point) error) error {
	if part < 0 || part >= m.partitions {
		return fmt.Errorf("%w: %d of %d", ErrInvalidPartition, part, m.partitions)
	}

	start, end := bounds(len(m.points), m.partitions, part)
	for i := start; i < end; i++ {
		if (i-start)%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := fn(i, m.points[i]); err != nil {
			return err
		}
	}
	return nil
}

// checkInterval is how many points are scanned between context checks.
const checkInterval = 4096

func bounds(n, parts, part int) (int, int) {
	return part * n / parts, (part + 1) * n / parts
}
