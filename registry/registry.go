// Package registry holds the process-wide, pluggable cost and heuristic
// function tables (spec §4.3). The registry is populated once at startup
// with the bundled functions and is read-only thereafter: lookups are
// lock-free.
package registry

import (
	"fmt"
	"math"

	"github.com/jrjojr/byul-demo-env/coord"
	"github.com/jrjojr/byul-demo-env/gridmap"
)

// CostFunc returns the traversal cost from one cell to a neighbouring one.
// It must return +Inf for an impassable destination.
type CostFunc func(m *gridmap.Map, from, to coord.Coordinate, user any) float64

// HeuristicFunc estimates the remaining cost from one cell to another.
// Admissibility is only required by the algorithms that need it (A*, IDA*,
// D* Lite).
type HeuristicFunc func(from, to coord.Coordinate) float64

// ErrUnknownFunction is returned when a name has no registered entry. Per
// spec §7 this is the one error kind that is fatal at task dispatch rather
// than recovered into a failed Route.
type ErrUnknownFunction struct {
	Namespace, Name string
}

func (e *ErrUnknownFunction) Error() string {
	return fmt.Sprintf("registry: unknown %s function %q", e.Namespace, e.Name)
}

// Registry is a named table of cost and heuristic functions. The two
// namespaces are kept separate: "zero" exists once under costs and once
// under heuristics ("default" only under costs), and looking one up never
// finds the other's entry.
type Registry struct {
	costs      map[string]CostFunc
	heuristics map[string]HeuristicFunc
}

// New returns a Registry pre-populated with the bundled cost and heuristic
// functions spec §4.3 requires to be present.
func New() *Registry {
	r := &Registry{
		costs:      make(map[string]CostFunc),
		heuristics: make(map[string]HeuristicFunc),
	}
	r.RegisterCost("default", DefaultCost)
	r.RegisterCost("zero", ZeroCost)
	r.RegisterCost("diagonal", DiagonalCost)

	r.RegisterHeuristic("euclidean", EuclideanHeuristic)
	r.RegisterHeuristic("manhattan", ManhattanHeuristic)
	r.RegisterHeuristic("chebyshev", ChebyshevHeuristic)
	r.RegisterHeuristic("octile", OctileHeuristic)
	r.RegisterHeuristic("zero", ZeroHeuristic)
	r.RegisterHeuristic("dstarlite", DStarLiteHeuristic)
	return r
}

// RegisterCost installs fn under name in the cost namespace, overwriting
// any existing entry.
func (r *Registry) RegisterCost(name string, fn CostFunc) {
	r.costs[name] = fn
}

// RegisterHeuristic installs fn under name in the heuristic namespace,
// overwriting any existing entry.
func (r *Registry) RegisterHeuristic(name string, fn HeuristicFunc) {
	r.heuristics[name] = fn
}

// Cost looks up a cost function by name.
func (r *Registry) Cost(name string) (CostFunc, error) {
	fn, ok := r.costs[name]
	if !ok {
		return nil, &ErrUnknownFunction{Namespace: "cost", Name: name}
	}
	return fn, nil
}

// Heuristic looks up a heuristic function by name.
func (r *Registry) Heuristic(name string) (HeuristicFunc, error) {
	fn, ok := r.heuristics[name]
	if !ok {
		return nil, &ErrUnknownFunction{Namespace: "heuristic", Name: name}
	}
	return fn, nil
}

// DefaultCost costs 1 for an orthogonal step, sqrt(2) for a diagonal step,
// and +Inf if the destination is blocked for user.
func DefaultCost(m *gridmap.Map, from, to coord.Coordinate, user any) float64 {
	if m.IsBlocked(to.X, to.Z, user) {
		return math.Inf(1)
	}
	if from.X != to.X && from.Z != to.Z {
		return math.Sqrt2
	}
	return 1
}

// ZeroCost always returns 0, for callers that want every step to cost nothing.
func ZeroCost(*gridmap.Map, coord.Coordinate, coord.Coordinate, any) float64 {
	return 0
}

// DiagonalCost is DefaultCost's step-cost rule without the blocked check,
// used by algorithms (Fast Marching) that pre-filter blocked cells via
// neighbour enumeration instead of the cost function.
func DiagonalCost(_ *gridmap.Map, from, to coord.Coordinate, _ any) float64 {
	if from.X != to.X && from.Z != to.Z {
		return math.Sqrt2
	}
	return 1
}

// EuclideanHeuristic is the straight-line distance between from and to.
func EuclideanHeuristic(from, to coord.Coordinate) float64 {
	return from.Euclidean(to)
}

// ManhattanHeuristic is the L1 distance between from and to.
func ManhattanHeuristic(from, to coord.Coordinate) float64 {
	return from.Manhattan(to)
}

// ChebyshevHeuristic is the L-infinity (king-move) distance between from
// and to.
func ChebyshevHeuristic(from, to coord.Coordinate) float64 {
	return from.Chebyshev(to)
}

// OctileHeuristic estimates cost on an 8-connected grid with unit orthogonal
// and sqrt(2) diagonal steps: the admissible heuristic Weighted A*/A* should
// use alongside DefaultCost in diagonal mode.
func OctileHeuristic(from, to coord.Coordinate) float64 {
	dx := math.Abs(float64(from.X - to.X))
	dz := math.Abs(float64(from.Z - to.Z))
	return (dx + dz) + (math.Sqrt2-2)*math.Min(dx, dz)
}

// ZeroHeuristic always returns 0, reducing A* to Dijkstra when used as its
// heuristic.
func ZeroHeuristic(coord.Coordinate, coord.Coordinate) float64 {
	return 0
}

// DStarLiteHeuristic mirrors OctileHeuristic: D* Lite requires an
// admissible, consistent heuristic over the same 8-connected metric its
// DefaultCost-equivalent edge costs use.
func DStarLiteHeuristic(from, to coord.Coordinate) float64 {
	return OctileHeuristic(from, to)
}
