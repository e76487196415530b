package finder

import (
	"math"

	"github.com/jrjojr/byul-demo-env/coord"
)

// findRTAStar runs real-time A*: from the current position, it performs a
// bounded-depth lookahead (depth taken from cfg.UserData, default 3),
// commits one step toward the most promising neighbour, and repeats until
// the goal is reached or cfg.MaxRetry outer iterations are exhausted.
func findRTAStar(cfg Config) Route {
	depth := 3
	if v, ok := cfg.UserData.(int); ok && v > 0 {
		depth = v
	}

	route := coord.NewListFrom([]coord.Coordinate{cfg.Start})
	visited := coord.NewList()
	cur := cfg.Start
	iterations := 0

	for cur != cfg.Goal {
		if iterations >= cfg.MaxRetry {
			return exhausted(visited, iterations)
		}
		iterations++

		neighbours := cfg.Map.Neighbours(cur.X, cur.Z, cfg.User)
		if len(neighbours) == 0 {
			return exhausted(visited, iterations)
		}
		if cfg.VisitLog {
			visited.Push(cur)
		}

		best := neighbours[0]
		bestF := math.Inf(1)
		for _, n := range neighbours {
			step := cfg.Cost(cfg.Map, cur, n, cfg.User)
			if math.IsInf(step, 1) {
				continue
			}
			f := step + lookahead(cfg, n, depth-1, visited)
			if f < bestF {
				bestF = f
				best = n
			}
		}
		if math.IsInf(bestF, 1) {
			return exhausted(visited, iterations)
		}
		cur = best
		route.Push(cur)
	}

	return Route{
		Coords: route, VisitedOrder: visited, VisitedCount: visited.Length(),
		Cost: costOfRoute(cfg, route), Success: true, RetryCount: iterations,
	}
}

// lookahead estimates the cost-to-goal from c by exploring depth further
// steps greedily, falling back to the heuristic at the horizon.
func lookahead(cfg Config, c coord.Coordinate, depth int, visited *coord.List) float64 {
	if depth <= 0 || c == cfg.Goal {
		return cfg.Heuristic(c, cfg.Goal)
	}
	if cfg.VisitLog {
		visited.Push(c)
	}
	best := math.Inf(1)
	for _, n := range cfg.Map.Neighbours(c.X, c.Z, cfg.User) {
		step := cfg.Cost(cfg.Map, c, n, cfg.User)
		if math.IsInf(step, 1) {
			continue
		}
		f := step + lookahead(cfg, n, depth-1, visited)
		if f < best {
			best = f
		}
	}
	if math.IsInf(best, 1) {
		return cfg.Heuristic(c, cfg.Goal)
	}
	return best
}
