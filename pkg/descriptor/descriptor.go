// Package descriptor defines the face descriptor type shared by the
// extraction, matching, and storage layers.
package descriptor

import "math"

// Descriptor is a fixed-length numeric vector representing one face in one
// frame. Its length is decided by the extraction backend; descriptors from
// backends with different dimensionality never match each other.
type Descriptor []float32

// Clone returns an independent copy of the descriptor.
func (d Descriptor) Clone() Descriptor {
	if d == nil {
		return nil
	}
	out := make(Descriptor, len(d))
	copy(out, d)
	return out
}

// Equal reports whether two descriptors are identical element for element.
func (d Descriptor) Equal(other Descriptor) bool {
	if len(d) != len(other) {
		return false
	}
	for i := range d {
		if d[i] != other[i] {
			return false
		}
	}
	return true
}

// EuclideanDistance computes the Euclidean distance between two descriptors.
// A length mismatch is a hard mismatch, not an error: it returns
// math.MaxFloat64 so the pair can never fall below any sane threshold.
func EuclideanDistance(a, b Descriptor) float64 {
	if len(a) != len(b) {
		return math.MaxFloat64
	}

	var sum float64
	for i := range a {
		diff := float64(a[i] - b[i])
		sum += diff * diff
	}
	return math.Sqrt(sum)
}
