// Package distance provides Euclidean vector math used by the clustering engine.
//
// # Functions
//
//   - SquaredL2: squared Euclidean distance, the k-means++ seeding weight
//   - L2: Euclidean distance, used for assignment and centroid shift
//
// Both return *ErrDimensionMismatch when the vectors differ in length.
// The Must variants panic instead and are meant for hot loops over data
// whose dimensions were validated when the collection was built.
//
// # Usage
//
//	d, err := distance.SquaredL2(a, b)
//	shift := distance.MustL2(oldCentroid, newCentroid)
package distance
