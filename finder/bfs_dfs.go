package finder

import "github.com/jrjojr/byul-demo-env/coord"

// findBFS ignores cost; it reports cost as the number of edges traversed.
func findBFS(cfg Config) Route {
	return findUnweighted(cfg, false)
}

// findDFS ignores cost; it reports cost as the number of edges traversed.
func findDFS(cfg Config) Route {
	return findUnweighted(cfg, true)
}

// findUnweighted implements BFS (FIFO frontier) or DFS (LIFO frontier),
// sharing the same traversal shell since they differ only in expansion
// order.
func findUnweighted(cfg Config, depthFirst bool) Route {
	frontier := coord.NewListFrom([]coord.Coordinate{cfg.Start})
	seen := coord.NewHash[struct{}]()
	seen.Set(cfg.Start, struct{}{})
	cameFrom := coord.NewHash[coord.Coordinate]()

	visited := coord.NewList()
	expansions := 0

	for !frontier.IsEmpty() {
		if expansions >= cfg.MaxRetry {
			return exhausted(visited, expansions)
		}
		var cur coord.Coordinate
		if depthFirst {
			cur, _ = frontier.Pop()
		} else {
			cur, _ = frontier.PopFront()
		}
		expansions++
		if cfg.VisitLog {
			visited.Push(cur)
		}

		if cur == cfg.Goal {
			route, ok := reconstructFromCameFrom(cameFrom, cfg.Start, cfg.Goal)
			if !ok {
				return failedRoute()
			}
			return Route{
				Coords: route, VisitedOrder: visited, VisitedCount: visited.Length(),
				Cost: float64(route.Length() - 1), Success: true, RetryCount: expansions,
			}
		}

		for _, next := range cfg.Map.Neighbours(cur.X, cur.Z, cfg.User) {
			if seen.Contains(next) {
				continue
			}
			seen.Set(next, struct{}{})
			cameFrom.Set(next, cur)
			frontier.Push(next)
		}
	}
	return failedRoute()
}
