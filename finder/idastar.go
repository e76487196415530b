package finder

import (
	"math"

	"github.com/jrjojr/byul-demo-env/coord"
)

// findIDAStar runs iterative-deepening A*: each iteration is a depth-first
// search pruned at nodes whose f = g + h exceeds the current threshold. The
// threshold starts at h(start, goal) and is raised, each iteration, to the
// smallest f that exceeded the previous threshold.
func findIDAStar(cfg Config) Route {
	threshold := cfg.Heuristic(cfg.Start, cfg.Goal)
	visited := coord.NewList()
	expansions := 0

	for {
		path := coord.NewListFrom([]coord.Coordinate{cfg.Start})
		onPath := coord.NewHash[struct{}]()
		onPath.Set(cfg.Start, struct{}{})

		nextThreshold, found := idaSearch(cfg, path, onPath, 0, threshold, &expansions, visited)
		if found {
			return Route{
				Coords: path, VisitedOrder: visited, VisitedCount: visited.Length(),
				Cost: costOfRoute(cfg, path), Success: true, RetryCount: expansions,
			}
		}
		if expansions >= cfg.MaxRetry {
			return exhausted(visited, expansions)
		}
		if math.IsInf(nextThreshold, 1) {
			return failedRoute()
		}
		threshold = nextThreshold
	}
}

// idaSearch performs one bounded depth-first probe, appending to path in
// place. It returns the smallest f that exceeded threshold (for the next
// iteration) and whether the goal was found.
func idaSearch(cfg Config, path *coord.List, onPath *coord.Hash[struct{}], g, threshold float64, expansions *int, visited *coord.List) (float64, bool) {
	cur := path.At(path.Length() - 1)
	f := g + cfg.Heuristic(cur, cfg.Goal)
	if f > threshold {
		return f, false
	}
	if cur == cfg.Goal {
		return f, true
	}
	if *expansions >= cfg.MaxRetry {
		return math.Inf(1), false
	}
	*expansions++
	if cfg.VisitLog {
		visited.Push(cur)
	}

	minExceeded := math.Inf(1)
	for _, next := range cfg.Map.Neighbours(cur.X, cur.Z, cfg.User) {
		if onPath.Contains(next) {
			continue
		}
		step := cfg.Cost(cfg.Map, cur, next, cfg.User)
		if math.IsInf(step, 1) {
			continue
		}
		path.Push(next)
		onPath.Set(next, struct{}{})

		t, found := idaSearch(cfg, path, onPath, g+step, threshold, expansions, visited)
		if found {
			return t, true
		}
		if t < minExceeded {
			minExceeded = t
		}

		path.Pop()
		onPath.Remove(next)
	}
	return minExceeded, false
}

func costOfRoute(cfg Config, route *coord.List) float64 {
	total := 0.0
	for i := 1; i < route.Length(); i++ {
		total += cfg.Cost(cfg.Map, route.At(i-1), route.At(i), cfg.User)
	}
	return total
}
