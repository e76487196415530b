package finder

import (
	"math"

	"github.com/jrjojr/byul-demo-env/coord"
)

const defaultDeltaEpsilon = 1e-3

// findFringe runs fringe search: nodes whose f = g + h falls at or below the
// current threshold are expanded; the threshold starts at h(start, goal) and
// is raised, each pass, to the minimum f that exceeded it. delta_epsilon
// (from cfg.UserData) widens the admission band so near-threshold nodes
// aren't repeatedly deferred one pass at a time.
func findFringe(cfg Config) Route {
	deltaEpsilon := defaultDeltaEpsilon
	if v, ok := cfg.UserData.(float64); ok && v >= 0 {
		deltaEpsilon = v
	}

	gScore := coord.NewHash[float64]()
	cameFrom := coord.NewHash[coord.Coordinate]()
	inFringe := coord.NewHash[struct{}]()
	visited := coord.NewList()

	fringe := coord.NewListFrom([]coord.Coordinate{cfg.Start})
	inFringe.Set(cfg.Start, struct{}{})
	gScore.Set(cfg.Start, 0)

	threshold := cfg.Heuristic(cfg.Start, cfg.Goal)
	expansions := 0

	for !fringe.IsEmpty() {
		nextThreshold := math.Inf(1)
		again := coord.NewList()

		for !fringe.IsEmpty() {
			if expansions >= cfg.MaxRetry {
				return exhausted(visited, expansions)
			}
			cur, _ := fringe.PopFront()
			inFringe.Remove(cur)
			curG, _ := gScore.Get(cur)
			f := curG + cfg.Heuristic(cur, cfg.Goal)

			if f > threshold+deltaEpsilon {
				if f < nextThreshold {
					nextThreshold = f
				}
				again.Push(cur)
				continue
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
				return Route{Coords: route, VisitedOrder: visited, VisitedCount: visited.Length(), Cost: curG, Success: true, RetryCount: expansions}
			}

			for _, next := range cfg.Map.Neighbours(cur.X, cur.Z, cfg.User) {
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
				if !inFringe.Contains(next) {
					inFringe.Set(next, struct{}{})
					again.Push(next)
				}
			}
		}

		fringe.Append(again, false)
		if math.IsInf(nextThreshold, 1) {
			break
		}
		threshold = nextThreshold
	}
	return failedRoute()
}
