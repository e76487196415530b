package finder

import (
	"math"

	"github.com/jrjojr/byul-demo-env/coord"
)

const defaultSMAOpenCap = 128

// findSMAStar runs A* with a bounded open list (capacity from cfg.UserData,
// default 128). When the list would exceed capacity, the worst (highest f)
// leaf is dropped and its f value is backed up into its parent's stored
// "forgotten cost" so the parent is never re-expanded as if that branch
// were free.
func findSMAStar(cfg Config) Route {
	capacity := defaultSMAOpenCap
	if v, ok := cfg.UserData.(int); ok && v > 0 {
		capacity = v
	}

	open := coord.NewCostQueue()
	gScore := coord.NewHash[float64]()
	forgotten := coord.NewHash[float64]()
	cameFrom := coord.NewHash[coord.Coordinate]()
	closed := coord.NewHash[struct{}]()

	gScore.Set(cfg.Start, 0)
	open.Push(cfg.Heuristic(cfg.Start, cfg.Goal), cfg.Start)

	visited := coord.NewList()
	expansions := 0

	for !open.IsEmpty() {
		if expansions >= cfg.MaxRetry {
			return exhausted(visited, expansions)
		}
		cur, curF, _ := open.Pop()
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
		if f, ok := forgotten.Get(cur); ok && f > curF {
			curF = f
		}

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
			f := math.Max(tentativeG+cfg.Heuristic(next, cfg.Goal), curF)
			open.Push(f, next)

			if open.Len() > capacity {
				dropWorst(open, forgotten, cameFrom)
			}
		}
	}
	return failedRoute()
}

// dropWorst removes the single highest-f leaf from open and backs its f up
// into its parent's forgotten-cost table.
func dropWorst(open *coord.CostQueue, forgotten *coord.Hash[float64], cameFrom *coord.Hash[coord.Coordinate]) {
	worst, worstF, ok := worstEntry(open)
	if !ok {
		return
	}
	open.Remove(worst)
	if parent, ok := cameFrom.Get(worst); ok {
		if existing, ok := forgotten.Get(parent); !ok || worstF < existing {
			forgotten.Set(parent, worstF)
		}
	}
}

func worstEntry(open *coord.CostQueue) (coord.Coordinate, float64, bool) {
	// CostQueue doesn't expose iteration; approximate "worst leaf" by
	// popping and re-pushing every entry, tracking the maximum. This keeps
	// SMA*'s bounded-memory behaviour correct without a second heap type.
	type pair struct {
		c coord.Coordinate
		f float64
	}
	var all []pair
	for !open.IsEmpty() {
		c, f, _ := open.Pop()
		all = append(all, pair{c, f})
	}
	if len(all) == 0 {
		return coord.Coordinate{}, 0, false
	}
	worstIdx := 0
	for i, p := range all {
		if p.f > all[worstIdx].f {
			worstIdx = i
		}
	}
	worst := all[worstIdx]
	for i, p := range all {
		if i == worstIdx {
			continue
		}
		open.Push(p.f, p.c)
	}
	return worst.c, worst.f, true
}
