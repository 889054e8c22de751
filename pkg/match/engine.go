// Package match implements the face matching engine: given a live descriptor
// and the set of enrolled candidates it selects the closest enrolled identity
// within a distance threshold, or reports that nothing matched.
package match

import (
	"math"

	"github.com/facewallet/facewallet/pkg/descriptor"
)

// DefaultThreshold separates "same person" from "different person" in
// normalized descriptor space.
const DefaultThreshold = 0.6

// Candidate pairs an identity reference with its enrolled descriptor.
type Candidate struct {
	Ref        string
	Descriptor descriptor.Descriptor
}

// Engine performs threshold-based nearest-neighbour matching. It holds no
// mutable state; Match is a pure function of its inputs.
type Engine struct {
	Threshold float64
}

// NewEngine creates an engine with the given distance threshold. A
// non-positive threshold falls back to DefaultThreshold.
func NewEngine(threshold float64) *Engine {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Engine{Threshold: threshold}
}

// Match returns the reference of the minimum-distance candidate below the
// threshold, together with that distance. ok is false when no candidate
// qualifies. Candidates without a usable descriptor are excluded before any
// distance computation; a dimensionality mismatch is a hard mismatch for that
// candidate, never an error.
func (e *Engine) Match(live descriptor.Descriptor, candidates []Candidate) (ref string, distance float64, ok bool) {
	if len(live) == 0 {
		return "", math.MaxFloat64, false
	}

	bestRef := ""
	bestDist := math.MaxFloat64

	for _, c := range candidates {
		if len(c.Descriptor) == 0 {
			continue
		}
		d := descriptor.EuclideanDistance(live, c.Descriptor)
		if d < bestDist {
			bestDist = d
			bestRef = c.Ref
		}
	}

	if bestDist >= e.Threshold {
		return "", bestDist, false
	}
	return bestRef, bestDist, true
}
