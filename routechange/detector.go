// Package routechange implements the sliding-window direction-change
// detector (spec §4.9): the world uses it, on a viewport move, to decide
// whether to switch from halo loading to forward prefetch along the new
// direction. The windowed-vector-mean-vs-current-sample shape is grounded
// on the coord package's angle helper (Coordinate.AngleTo),
// generalized here to compare a running mean against a bounded history
// instead of a single pair of points.
package routechange

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultHistory is the window length (H in spec.md) used when a Detector
// is built with NewDetector's zero value for history.
const DefaultHistory = 5

// Detector maintains a bounded deque of the last H unit direction vectors.
type Detector struct {
	history []mgl64.Vec2
	maxLen  int
}

// NewDetector returns a Detector with the given history length (<=0 means
// DefaultHistory).
func NewDetector(historyLen int) *Detector {
	if historyLen <= 0 {
		historyLen = DefaultHistory
	}
	return &Detector{maxLen: historyLen}
}

// HasChanged computes the unit vector of (to - from); if its magnitude is
// below epsilon it returns false without touching the history. Otherwise it
// pushes the vector into the history and, once at least two samples have
// been seen, reports whether the angle between the (non-normalised) vector
// mean of the history and the current sample exceeds thresholdDeg.
func (d *Detector) HasChanged(fromDX, fromDY, toDX, toDY, thresholdDeg float64) bool {
	v := mgl64.Vec2{toDX - fromDX, toDY - fromDY}
	const epsilon = 1e-9
	if v.Len() < epsilon {
		return false
	}
	unit := v.Normalize()

	d.history = append(d.history, unit)
	if len(d.history) > d.maxLen {
		d.history = d.history[len(d.history)-d.maxLen:]
	}
	if len(d.history) < 2 {
		return false
	}

	var mean mgl64.Vec2
	for _, h := range d.history {
		mean = mean.Add(h)
	}
	if mean.Len() < epsilon {
		return false
	}

	angle := angleBetween(mean, unit)
	return angle > thresholdDeg
}

// Reset clears the history.
func (d *Detector) Reset() {
	d.history = nil
}

func angleBetween(a, b mgl64.Vec2) float64 {
	cos := a.Dot(b) / (a.Len() * b.Len())
	cos = math.Max(-1, math.Min(1, cos))
	return mgl64.RadToDeg(math.Acos(cos))
}
