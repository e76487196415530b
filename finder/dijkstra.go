package finder

import (
	"math"

	"github.com/jrjojr/byul-demo-env/coord"
)

// findDijkstra runs uniform-cost search, assuming non-negative edge costs.
// Decrease-key goes through CostQueue.Push, which updates an existing
// entry's cost in place and re-heapifies it.
func findDijkstra(cfg Config) Route {
	open := coord.NewCostQueue()
	closed := coord.NewHash[struct{}]()
	dist := coord.NewHash[float64]()
	cameFrom := coord.NewHash[coord.Coordinate]()

	dist.Set(cfg.Start, 0)
	open.Push(0, cfg.Start)

	visited := coord.NewList()
	expansions := 0

	for !open.IsEmpty() {
		if expansions >= cfg.MaxRetry {
			return exhausted(visited, expansions)
		}
		cur, curDist, _ := open.Pop()
		if closed.Contains(cur) {
			continue
		}
		closed.Set(cur, struct{}{})
		expansions++
		if cfg.VisitLog {
			visited.Push(cur)
		}
		if cur == cfg.Goal {
			route, ok := reconstructFromCameFrom(cameFrom, cfg.Start, cfg.Goal)
			if !ok {
				return failedRoute()
			}
			return Route{Coords: route, VisitedOrder: visited, VisitedCount: visited.Length(), Cost: curDist, Success: true, RetryCount: expansions}
		}
		for _, next := range cfg.Map.Neighbours(cur.X, cur.Z, cfg.User) {
			if closed.Contains(next) {
				continue
			}
			step := cfg.Cost(cfg.Map, cur, next, cfg.User)
			if math.IsInf(step, 1) || step < 0 {
				continue
			}
			nd := curDist + step
			existing, known := dist.Get(next)
			if known && nd >= existing {
				continue
			}
			dist.Set(next, nd)
			cameFrom.Set(next, cur)
			open.Push(nd, next)
		}
	}
	return failedRoute()
}
