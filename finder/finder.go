// Package finder implements the static route finder dispatcher and its
// concrete algorithms (spec §4.4): A*, Dijkstra, BFS, DFS, Weighted A*,
// IDA*, RTA*, SMA*, Fringe search and Fast Marching. Every implementation
// shares one Config record and returns a Route.
package finder

import (
	"math"

	"github.com/jrjojr/byul-demo-env/coord"
	"github.com/jrjojr/byul-demo-env/gridmap"
	"github.com/jrjojr/byul-demo-env/registry"
)

// Algorithm names a static route finder, dispatched on by Find.
type Algorithm string

const (
	AStar      Algorithm = "astar"
	Dijkstra   Algorithm = "dijkstra"
	BFS        Algorithm = "bfs"
	DFS        Algorithm = "dfs"
	WeightedA  Algorithm = "weighted_astar"
	IDAStar    Algorithm = "ida_star"
	RTAStar    Algorithm = "rta_star"
	SMAStar    Algorithm = "sma_star"
	Fringe     Algorithm = "fringe"
	FastMarch  Algorithm = "fast_marching"
)

// Config bundles everything a static finder needs: the map to search, the
// algorithm to dispatch to, endpoints, the cost/heuristic functions to use,
// a node-expansion cap, whether to log visited order, and an opaque
// per-call userdata value consulted by some algorithms (Weighted A*'s
// weight, RTA*'s lookahead depth, Fringe's delta-epsilon, ...).
type Config struct {
	Map       *gridmap.Map
	Algorithm Algorithm
	Start     coord.Coordinate
	Goal      coord.Coordinate
	Cost      registry.CostFunc
	Heuristic registry.HeuristicFunc
	MaxRetry  int
	VisitLog  bool
	UserData  any
	// User is threaded through to Map.IsBlocked and Cost calls so
	// agent-specific terrain rules apply without mutating the map.
	User any
}

// Route is the result of a single static find. On failure Success is false,
// Coords is empty and Cost is +Inf.
type Route struct {
	Coords       *coord.List
	VisitedOrder *coord.List
	VisitedCount int
	Cost         float64
	Success      bool
	RetryCount   int
}

func failedRoute() Route {
	return Route{Coords: coord.NewList(), VisitedOrder: coord.NewList(), Cost: math.Inf(1)}
}

// Find dispatches cfg.Algorithm to its concrete implementation.
func Find(cfg Config) Route {
	switch cfg.Algorithm {
	case AStar:
		return findAStar(cfg, 1)
	case WeightedA:
		w := 1.0
		if v, ok := cfg.UserData.(float64); ok {
			w = v
		}
		return findAStar(cfg, w)
	case Dijkstra:
		return findDijkstra(cfg)
	case BFS:
		return findBFS(cfg)
	case DFS:
		return findDFS(cfg)
	case IDAStar:
		return findIDAStar(cfg)
	case RTAStar:
		return findRTAStar(cfg)
	case SMAStar:
		return findSMAStar(cfg)
	case Fringe:
		return findFringe(cfg)
	case FastMarch:
		return findFastMarching(cfg)
	default:
		return failedRoute()
	}
}

// reconstructFromCameFrom walks a cameFrom map from goal back to start and
// returns the forward route, or ok=false if start was never reached.
func reconstructFromCameFrom(cameFrom *coord.Hash[coord.Coordinate], start, goal coord.Coordinate) (*coord.List, bool) {
	route := coord.NewList()
	cur := goal
	route.Push(cur)
	for cur != start {
		prev, ok := cameFrom.Get(cur)
		if !ok {
			return nil, false
		}
		route.Push(prev)
		cur = prev
	}
	route.Reverse()
	return route, true
}
