// Package gridmap implements the rectangular-or-unbounded grid, its blocked
// set and its neighbour-enumeration rules (spec §4.2). Terrain legality is
// agent-specific without mutating the Map: one IsBlocked predicate is
// installed with SetIsBlocked, and each query passes its own user value to it.
package gridmap

import (
	"math"

	"github.com/jrjojr/byul-demo-env/coord"
)

// Mode selects 4- or 8-connected neighbour enumeration.
type Mode int

const (
	// Orthogonal enumerates the 4 cardinal neighbours.
	Orthogonal Mode = iota
	// Diagonal enumerates the 8 cardinal and ordinal neighbours.
	Diagonal
)

// IsBlockedFunc decides whether (x, z) is impassable. user is an opaque
// caller-supplied value (typically an *agent.Agent) threaded through so the
// predicate can consult caller-specific state without the Map knowing
// anything about agents.
type IsBlockedFunc func(m *Map, x, z int32, user any) bool

// Map is a rectangular (or, with a zero dimension, unbounded) grid. Width
// and Height of 0 mean that dimension is unbounded. Map only tracks which
// cells are blocked; terrain, occupancy and everything else the world cares
// about lives in the block package's Cell.
type Map struct {
	Width, Height int32
	Mode          Mode

	blocked   *coord.Hash[struct{}]
	isBlocked IsBlockedFunc
}

// New returns a Map with the given dimensions (0 = unbounded) and
// connectivity mode.
func New(width, height int32, mode Mode) *Map {
	return &Map{
		Width:   width,
		Height:  height,
		Mode:    mode,
		blocked: coord.NewHash[struct{}](),
	}
}

// SetIsBlocked installs a custom blocked predicate, overriding the default
// (blocked-set + bounds) check. Passing nil restores the default.
func (m *Map) SetIsBlocked(fn IsBlockedFunc) {
	m.isBlocked = fn
}

// Block marks (x, z) as blocked. Blocking a coordinate outside the bounds is
// a no-op that reports false.
func (m *Map) Block(x, z int32) bool {
	if !m.IsInside(x, z) {
		return false
	}
	m.blocked.Set(coord.New(x, z), struct{}{})
	return true
}

// Unblock clears any blocked marker at (x, z).
func (m *Map) Unblock(x, z int32) {
	m.blocked.Remove(coord.New(x, z))
}

// Clear removes every blocked marker.
func (m *Map) Clear() {
	m.blocked.Clear()
}

// IsInside reports whether (x, z) lies within the map's bounds. A dimension
// of 0 is treated as unbounded.
func (m *Map) IsInside(x, z int32) bool {
	if m.Width != 0 && (x < 0 || x >= m.Width) {
		return false
	}
	if m.Height != 0 && (z < 0 || z >= m.Height) {
		return false
	}
	return true
}

// IsBlocked reports whether (x, z) is impassable for user, consulting the
// installed predicate if any, otherwise the default (blocked-set + bounds).
func (m *Map) IsBlocked(x, z int32, user any) bool {
	if m.isBlocked != nil {
		return m.isBlocked(m, x, z, user)
	}
	return m.defaultIsBlocked(x, z)
}

func (m *Map) defaultIsBlocked(x, z int32) bool {
	if !m.IsInside(x, z) {
		return true
	}
	return m.blocked.Contains(coord.New(x, z))
}

var orthogonalOffsets = [4]coord.Coordinate{
	{X: 0, Z: -1}, {X: 1, Z: 0}, {X: 0, Z: 1}, {X: -1, Z: 0},
}

var diagonalOffsets = [8]coord.Coordinate{
	{X: 0, Z: -1}, {X: 1, Z: -1}, {X: 1, Z: 0}, {X: 1, Z: 1},
	{X: 0, Z: 1}, {X: -1, Z: 1}, {X: -1, Z: 0}, {X: -1, Z: -1},
}

// Neighbours returns the legal neighbours of (x, z): 4 orthogonal or 8 with
// diagonals depending on Mode, excluding cells outside the map or blocked
// for user.
func (m *Map) Neighbours(x, z int32, user any) []coord.Coordinate {
	base := coord.New(x, z)
	offsets := m.offsets()
	out := make([]coord.Coordinate, 0, len(offsets))
	for _, o := range offsets {
		n := base.Add(o)
		if !m.IsInside(n.X, n.Z) {
			continue
		}
		if m.IsBlocked(n.X, n.Z, user) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func (m *Map) offsets() []coord.Coordinate {
	if m.Mode == Diagonal {
		return diagonalOffsets[:]
	}
	return orthogonalOffsets[:]
}

// Offsets returns the current mode's neighbour offsets. Callers that need to
// walk the inverse relation (predecessors rather than successors) use this
// directly since the offset set is symmetric: if o is an offset, so is -o.
func (m *Map) Offsets() []coord.Coordinate {
	offsets := m.offsets()
	out := make([]coord.Coordinate, len(offsets))
	copy(out, offsets)
	return out
}

// NeighboursRange returns every cell inside the Chebyshev-distance-r box
// around (x, z), excluding the centre itself. Unlike Neighbours, this does
// not filter by IsInside or IsBlocked: it describes a coordinate
// neighbourhood, used by callers (NeighboursInSector, D* Lite vertex
// updates) that want the raw box regardless of legality.
func (m *Map) NeighboursRange(x, z, r int32) []coord.Coordinate {
	out := make([]coord.Coordinate, 0, (2*r+1)*(2*r+1)-1)
	for dz := -r; dz <= r; dz++ {
		for dx := -r; dx <= r; dx++ {
			if dx == 0 && dz == 0 {
				continue
			}
			out = append(out, coord.New(x+dx, z+dz))
		}
	}
	return out
}

// NeighbourAtAngle returns the single cardinal/ordinal neighbour (under the
// map's current Mode) whose direction from (x, z) best matches angleDeg.
func (m *Map) NeighbourAtAngle(x, z int32, angleDeg float64) coord.Coordinate {
	base := coord.New(x, z)
	best := base
	bestDiff := math.Inf(1)
	for _, o := range m.offsets() {
		n := base.Add(o)
		a := base.AngleTo(n)
		diff := angularDistance(a, angleDeg)
		if diff < bestDiff {
			bestDiff = diff
			best = n
		}
	}
	return best
}

// NeighboursInSector returns the subset of NeighboursRange(center, r) whose
// direction from center lies within [thetaStart, thetaEnd] degrees relative
// to the center→goal direction.
func (m *Map) NeighboursInSector(center, goal coord.Coordinate, thetaStart, thetaEnd float64, r int32) []coord.Coordinate {
	base := center.AngleTo(goal)
	all := m.NeighboursRange(center.X, center.Z, r)
	out := make([]coord.Coordinate, 0, len(all))
	for _, n := range all {
		rel := normalizeAngle(center.AngleTo(n) - base)
		if rel >= thetaStart && rel <= thetaEnd {
			out = append(out, n)
		}
	}
	return out
}

func normalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func angularDistance(a, b float64) float64 {
	d := math.Abs(normalizeAngle(a) - normalizeAngle(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}
