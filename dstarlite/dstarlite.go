// Package dstarlite implements the incremental D* Lite planner (spec §4.5):
// g/rhs tables, a two-component-key priority frontier, vertex updates by
// range, and an interruptible find_loop that replans as the terrain changes
// underneath the agent. The key/frontier/updateVertex/computeShortestPath
// shape follows the classic D* Lite paper, in the style of
// other_examples/6b2a997f_azul3d-legacy-dstarlite's State/Data/Planner split
// — generalized from its Succ/Pred/Dist/Cost interface to work directly
// against a gridmap.Map and the registry's cost/heuristic functions.
package dstarlite

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/jrjojr/byul-demo-env/coord"
	"github.com/jrjojr/byul-demo-env/gridmap"
	"github.com/jrjojr/byul-demo-env/registry"
)

// MoveFunc is invoked once per step of find_loop with the cell the agent is
// stepping onto.
type MoveFunc func(to coord.Coordinate)

// ChangedCoordsFunc is polled once per step of find_loop; a non-empty result
// means the terrain changed and a local replan is needed around the
// returned coordinates.
type ChangedCoordsFunc func() []coord.Coordinate

// Tunables bounds the planner's retry loops and paces find_loop's stepping.
type Tunables struct {
	MaxRange            int32
	IntervalMsec        int
	RealLoopMaxRetry    int
	ComputeMaxRetry     int
	ReconstructMaxRetry int
	DebugMode           bool
}

// DefaultTunables returns conservative bounds suitable for a map the size of
// a single loaded block.
func DefaultTunables() Tunables {
	return Tunables{
		MaxRange:            3,
		IntervalMsec:        200,
		RealLoopMaxRetry:    10000,
		ComputeMaxRetry:     100000,
		ReconstructMaxRetry: 10000,
	}
}

// Planner is an incremental D* Lite planner bound to one map, start and
// goal. Construct with New; Reset keeps map/start/goal/km and drops
// everything else.
type Planner struct {
	Map       *gridmap.Map
	Start     coord.Coordinate
	Goal      coord.Coordinate
	Cost      registry.CostFunc
	Heuristic registry.HeuristicFunc
	User      any

	MoveFn          MoveFunc
	ChangedCoordsFn ChangedCoordsFunc

	Tunables Tunables

	km       float64
	g        *coord.Hash[float64]
	rhs      *coord.Hash[float64]
	frontier *coord.DStarQueue

	ProtoRoute  *coord.List
	RealRoute   *coord.List
	updateCount *coord.Hash[int]

	forceQuit atomic.Bool
}

// New constructs a Planner and runs Init (tables cleared, goal seeded);
// ComputeShortestPath is left to the caller. cost and heuristic
// must agree with each other (heuristic must be admissible and consistent
// with respect to cost, per spec.md §4.2's Well-formed-instance
// requirement) for compute_shortest_path to terminate correctly.
func New(m *gridmap.Map, start, goal coord.Coordinate, cost registry.CostFunc, heuristic registry.HeuristicFunc, tunables Tunables) *Planner {
	p := &Planner{
		Map: m, Start: start, Goal: goal,
		Cost: cost, Heuristic: heuristic,
		Tunables: tunables,
	}
	p.Init()
	return p
}

func (p *Planner) gOf(c coord.Coordinate) float64 {
	if v, ok := p.g.Get(c); ok {
		return v
	}
	return math.Inf(1)
}

func (p *Planner) rhsOf(c coord.Coordinate) float64 {
	if v, ok := p.rhs.Get(c); ok {
		return v
	}
	return math.Inf(1)
}

// key computes the two-component priority key(s) = (min(g,rhs) + h(start,s)
// + km, min(g,rhs)).
func (p *Planner) key(s coord.Coordinate) coord.DStarKey {
	m := math.Min(p.gOf(s), p.rhsOf(s))
	return coord.DStarKey{K1: m + p.Heuristic(p.Start, s) + p.km, K2: m}
}

// Init clears tables and the frontier, sets rhs(goal)=0, and seeds the
// frontier with goal.
func (p *Planner) Init() {
	p.g = coord.NewHash[float64]()
	p.rhs = coord.NewHash[float64]()
	p.frontier = coord.NewDStarQueue()
	p.updateCount = coord.NewHash[int]()
	p.ProtoRoute = coord.NewList()
	p.RealRoute = coord.NewListFrom([]coord.Coordinate{p.Start})
	p.forceQuit.Store(false)

	p.rhs.Set(p.Goal, 0)
	p.frontier.Push(p.key(p.Goal), p.Goal)
}

// Reset keeps map/start/goal/km and clears every table, the frontier and
// both routes.
func (p *Planner) Reset() {
	km := p.km
	p.Init()
	p.km = km
}

func (p *Planner) successors(u coord.Coordinate) []coord.Coordinate {
	return p.Map.Neighbours(u.X, u.Z, p.User)
}

// predecessors returns every cell p such that the edge p->u is legal. The
// grid's offset set is symmetric, so a candidate predecessor is u minus an
// offset; it qualifies as long as it lies inside the map and u itself isn't
// blocked (the only thing DefaultCost-style cost functions check).
func (p *Planner) predecessors(u coord.Coordinate) []coord.Coordinate {
	if p.Map.IsBlocked(u.X, u.Z, p.User) {
		return nil
	}
	offsets := p.Map.Offsets()
	out := make([]coord.Coordinate, 0, len(offsets))
	for _, o := range offsets {
		cand := u.Sub(o)
		if !p.Map.IsInside(cand.X, cand.Z) {
			continue
		}
		out = append(out, cand)
	}
	return out
}

func (p *Planner) bumpUpdateCount(c coord.Coordinate) {
	n, _ := p.updateCount.Get(c)
	p.updateCount.Set(c, n+1)
}

// UpdateVertex recomputes rhs(u) from its successors (unless u is goal),
// then re-inserts u into the frontier iff g(u) != rhs(u).
func (p *Planner) UpdateVertex(u coord.Coordinate) {
	p.bumpUpdateCount(u)
	if u != p.Goal {
		best := math.Inf(1)
		for _, s := range p.successors(u) {
			c := p.Cost(p.Map, u, s, p.User)
			if math.IsInf(c, 1) {
				continue
			}
			if v := c + p.gOf(s); v < best {
				best = v
			}
		}
		p.rhs.Set(u, best)
	}
	p.frontier.Remove(u)
	if p.gOf(u) != p.rhsOf(u) {
		p.frontier.Push(p.key(u), u)
	}
}

// UpdateVertexRange applies UpdateVertex to every cell within Chebyshev
// distance r of center, plus center itself.
func (p *Planner) UpdateVertexRange(center coord.Coordinate, r int32) {
	p.UpdateVertex(center)
	for _, c := range p.Map.NeighboursRange(center.X, center.Z, r) {
		p.UpdateVertex(c)
	}
}

// UpdateVertexAutoRange is UpdateVertexRange using the planner's configured
// MaxRange.
func (p *Planner) UpdateVertexAutoRange(center coord.Coordinate) {
	p.UpdateVertexRange(center, p.Tunables.MaxRange)
}

// ComputeShortestPath drains the frontier until the start vertex is locally
// consistent or the frontier empties, bounded by ComputeMaxRetry iterations.
// It reports whether it converged (false means the retry cap was hit;
// already-computed g/rhs values are kept either way).
func (p *Planner) ComputeShortestPath() bool {
	for i := 0; i < p.Tunables.ComputeMaxRetry; i++ {
		if p.frontier.IsEmpty() {
			return true
		}
		topKey := p.frontier.TopKey()
		startKey := p.key(p.Start)
		if !topKey.Less(startKey) && p.rhsOf(p.Start) == p.gOf(p.Start) {
			return true
		}

		u, _ := p.frontier.Peek()
		kOld := topKey
		kNew := p.key(u)

		if kOld.Less(kNew) {
			p.frontier.Push(kNew, u)
			continue
		}
		if p.gOf(u) > p.rhsOf(u) {
			p.g.Set(u, p.rhsOf(u))
			p.frontier.Remove(u)
			for _, pr := range p.predecessors(u) {
				p.UpdateVertex(pr)
			}
		} else {
			p.g.Set(u, math.Inf(1))
			preds := p.predecessors(u)
			preds = append(preds, u)
			for _, pr := range preds {
				p.UpdateVertex(pr)
			}
		}
	}
	return false
}

// ReconstructRoute walks from start to goal, at each step choosing the
// successor minimising cost(current, s') + g(s'), bounded by
// ReconstructMaxRetry steps.
func (p *Planner) ReconstructRoute() (*coord.List, bool) {
	route := coord.NewListFrom([]coord.Coordinate{p.Start})
	cur := p.Start
	for i := 0; i < p.Tunables.ReconstructMaxRetry; i++ {
		if cur == p.Goal {
			return route, true
		}
		best := math.Inf(1)
		var bestNext coord.Coordinate
		found := false
		for _, s := range p.successors(cur) {
			c := p.Cost(p.Map, cur, s, p.User)
			if math.IsInf(c, 1) {
				continue
			}
			if v := c + p.gOf(s); v < best {
				best = v
				bestNext = s
				found = true
			}
		}
		if !found || math.IsInf(best, 1) {
			return route, false
		}
		route.Push(bestNext)
		cur = bestNext
	}
	return route, false
}

// Find runs init -> compute_shortest_path -> reconstruct_route and returns
// whatever ProtoRoute results (possibly a partial/failed one).
func (p *Planner) Find() (*coord.List, bool) {
	p.Init()
	if !p.ComputeShortestPath() {
		p.ProtoRoute = coord.NewList()
		return p.ProtoRoute, false
	}
	route, ok := p.ReconstructRoute()
	p.ProtoRoute = route
	return route, ok
}

// ForceQuit sets the cancellation latch FindLoop checks at each iteration
// boundary.
func (p *Planner) ForceQuit() {
	p.forceQuit.Store(true)
}

// FindLoop drives the agent from Start to Goal one cell at a time via
// MoveFn, replanning locally whenever ChangedCoordsFn reports dynamic
// obstacle changes. It returns false on "no route" (rhs(start)=+Inf), on
// force_quit, or on exceeding RealLoopMaxRetry.
func (p *Planner) FindLoop() bool {
	last := p.Start
	retry := 0
	for p.Start != p.Goal {
		if p.forceQuit.Load() {
			return false
		}
		if retry >= p.Tunables.RealLoopMaxRetry {
			return false
		}
		retry++

		if math.IsInf(p.rhsOf(p.Start), 1) {
			return false
		}

		best := math.Inf(1)
		var next coord.Coordinate
		found := false
		for _, s := range p.successors(p.Start) {
			c := p.Cost(p.Map, p.Start, s, p.User)
			if math.IsInf(c, 1) {
				continue
			}
			if v := c + p.gOf(s); v < best {
				best = v
				next = s
				found = true
			}
		}
		if !found {
			return false
		}

		if p.MoveFn != nil {
			p.MoveFn(next)
		}
		p.Start = next

		if p.Tunables.IntervalMsec > 0 {
			time.Sleep(time.Duration(p.Tunables.IntervalMsec) * time.Millisecond)
		}

		if p.ChangedCoordsFn != nil {
			changed := p.ChangedCoordsFn()
			if len(changed) > 0 {
				p.km += p.Heuristic(last, p.Start)
				last = p.Start
				for _, c := range changed {
					p.UpdateVertexRange(c, p.Tunables.MaxRange)
				}
				p.ComputeShortestPath()
			}
		}

		p.RealRoute.Push(p.Start)
	}
	return true
}
