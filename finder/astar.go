package finder

import (
	"math"

	"github.com/jrjojr/byul-demo-env/coord"
)

const tieBreakEpsilon = 1e-6

// findAStar runs best-first search on f = g + weight*h, ties broken toward
// the lower h. weight=1 is plain A*; any other weight is Weighted A*.
func findAStar(cfg Config, weight float64) Route {
	open := coord.NewCostQueue()
	closed := coord.NewHash[struct{}]()
	gScore := coord.NewHash[float64]()
	cameFrom := coord.NewHash[coord.Coordinate]()

	gScore.Set(cfg.Start, 0)
	h0 := cfg.Heuristic(cfg.Start, cfg.Goal)
	open.Push(weight*h0, cfg.Start)

	visited := coord.NewList()
	expansions := 0

	for !open.IsEmpty() {
		if expansions >= cfg.MaxRetry {
			return exhausted(visited, expansions)
		}
		cur, _, _ := open.Pop()
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
			g, _ := gScore.Get(cfg.Goal)
			return Route{Coords: route, VisitedOrder: visited, VisitedCount: visited.Length(), Cost: g, Success: true, RetryCount: expansions}
		}

		curG, _ := gScore.Get(cur)
		for _, next := range cfg.Map.Neighbours(cur.X, cur.Z, cfg.User) {
			if closed.Contains(next) {
				continue
			}
			step := cfg.Cost(cfg.Map, cur, next, cfg.User)
			if math.IsInf(step, 1) {
				continue
			}
			tentativeG := curG + step
			existingG, known := gScore.Get(next)
			if known && tentativeG >= existingG {
				continue
			}
			gScore.Set(next, tentativeG)
			cameFrom.Set(next, cur)
			h := cfg.Heuristic(next, cfg.Goal)
			f := tentativeG + weight*h
			// Break ties toward the lower h by nudging f with a vanishingly
			// small multiple of h: equal-f nodes with a smaller remaining
			// heuristic sort first without otherwise perturbing ordering.
			open.Push(f+h*tieBreakEpsilon, next)
		}
	}
	return failedRoute()
}

func exhausted(visited *coord.List, retries int) Route {
	r := failedRoute()
	r.VisitedOrder = visited
	r.VisitedCount = visited.Length()
	r.RetryCount = retries
	return r
}
