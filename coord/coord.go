// Package coord implements the grid substrate's coordinate and container
// primitives: the Coordinate value type, a coordinate-keyed hash map, an
// ordered coordinate list, a float-priority queue and a D*-Lite-key priority
// queue. Every other package in this module builds on these.
package coord

import (
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/go-gl/mathgl/mgl64"
)

// Coordinate is an ordered pair of 32-bit signed integers. It is a value
// type: copies compare and hash identically, and there is no identity beyond
// the (X, Z) pair itself.
type Coordinate struct {
	X, Z int32
}

// New returns the Coordinate (x, z).
func New(x, z int32) Coordinate {
	return Coordinate{X: x, Z: z}
}

// Add returns c+o component-wise.
func (c Coordinate) Add(o Coordinate) Coordinate {
	return Coordinate{c.X + o.X, c.Z + o.Z}
}

// Sub returns c-o component-wise.
func (c Coordinate) Sub(o Coordinate) Coordinate {
	return Coordinate{c.X - o.X, c.Z - o.Z}
}

// Less orders coordinates lexicographically by X then Z.
func (c Coordinate) Less(o Coordinate) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	return c.Z < o.Z
}

// Manhattan returns the Manhattan (L1) distance between c and o.
func (c Coordinate) Manhattan(o Coordinate) float64 {
	return math.Abs(float64(c.X-o.X)) + math.Abs(float64(c.Z-o.Z))
}

// Euclidean returns the straight-line distance between c and o.
func (c Coordinate) Euclidean(o Coordinate) float64 {
	dx, dz := float64(c.X-o.X), float64(c.Z-o.Z)
	return math.Sqrt(dx*dx + dz*dz)
}

// Chebyshev returns the Chebyshev (L-infinity) distance between c and o,
// the number of king-moves needed to go from one to the other.
func (c Coordinate) Chebyshev(o Coordinate) float64 {
	return math.Max(math.Abs(float64(c.X-o.X)), math.Abs(float64(c.Z-o.Z)))
}

// AngleTo returns the direction from c to o in degrees, measured
// counter-clockwise from the positive X axis using mgl64's atan2 convention.
func (c Coordinate) AngleTo(o Coordinate) float64 {
	v := mgl64.Vec2{float64(o.X - c.X), float64(o.Z - c.Z)}
	if v.Len() == 0 {
		return 0
	}
	deg := mgl64.RadToDeg(math.Atan2(v.Y(), v.X()))
	if deg < 0 {
		deg += 360
	}
	return deg
}

// pack folds a Coordinate into a single uint64, the high 32 bits holding X
// and the low 32 bits holding Z, matching the data model's "hash derived
// from (x, z) packed into 64 bits" contract.
func (c Coordinate) pack() uint64 {
	return uint64(uint32(c.X))<<32 | uint64(uint32(c.Z))
}

// Hash returns a stable 64-bit content hash of c. Equal coordinates,
// including independently constructed copies, always hash equal.
func (c Coordinate) Hash() uint64 {
	var b [8]byte
	u := c.pack()
	for i := range b {
		b[i] = byte(u >> (8 * i))
	}
	return xxhash.Sum64(b[:])
}
