package world

import (
	"github.com/jrjojr/byul-demo-env/agent"
	"github.com/jrjojr/byul-demo-env/coord"
	"github.com/jrjojr/byul-demo-env/dstarlite"
	"github.com/jrjojr/byul-demo-env/finder"
	"github.com/jrjojr/byul-demo-env/registry"
)

// submitPlans implements spec §4.7 step 1: every agent with a queued goal
// and no outstanding planning task gets a task submitted to the route
// engine. The task resolves cost/heuristic and runs on a worker goroutine;
// its result is handed back through w.planResults, never applied directly
// (only Tick's foreground drains/mutates agent and cell state).
func (w *World) submitPlans() {
	w.withAgents(func(a *agent.Agent) {
		if !a.NeedsPlan() {
			return
		}
		if !a.BeginPlanning() {
			return
		}
		goal, ok := a.NextGoal()
		if !ok {
			a.FinishPlanning()
			return
		}
		a.Goal = goal
		w.routeEngine.Submit(func() { w.runPlan(a, goal) })
	})
}

func (w *World) runPlan(a *agent.Agent, goal coord.Coordinate) {
	defer a.FinishPlanning()

	cost, heuristic, err := w.costHeuristic(w.cfg.DefaultCostName, w.cfg.DefaultHeuristicName)
	if err != nil {
		w.cfg.Log.Error("world: planning task rejected, unknown registry function", "agent", a.ID, "error", err)
		return
	}

	var route *coord.List
	var ok bool
	if a.Planner == agent.DStarLite {
		route, ok = w.runDStarLitePlan(a, goal, cost, heuristic)
	} else {
		cfg := finder.Config{
			Map:       w.gridMap,
			Algorithm: finder.Algorithm(a.Planner),
			Start:     a.Start,
			Goal:      goal,
			Cost:      cost,
			Heuristic: heuristic,
			MaxRetry:  a.PlannerConfig.MaxRetry,
			UserData:  a.PlannerConfig.UserData,
			User:      a,
		}
		r := finder.Find(cfg)
		route, ok = r.Coords, r.Success
	}

	select {
	case w.planResults <- planResult{agentID: a.ID, goal: goal, coords: route, success: ok}:
	default:
		w.cfg.Log.Warn("world: plan result dropped, results channel saturated", "agent", a.ID)
	}
}

// runDStarLitePlan lazily creates (or reuses, when the goal is unchanged)
// the agent's incremental planner and returns its current proto route.
// Obstacle commands call UpdateVertexAutoRange directly on this planner
// (see commands.go), so a replan here is the cheap ComputeShortestPath +
// ReconstructRoute path rather than a full Init whenever possible.
func (w *World) runDStarLitePlan(a *agent.Agent, goal coord.Coordinate, cost registry.CostFunc, heuristic registry.HeuristicFunc) (*coord.List, bool) {
	var route *coord.List
	var ok bool
	a.WithDStar(func(p *dstarlite.Planner) {
		if p == nil || p.Goal != goal {
			p = dstarlite.New(w.gridMap, a.Start, goal, cost, heuristic, w.cfg.Tunables)
			a.DStar = p
		} else {
			p.Start = a.Start
		}
		p.User = a
		if !p.ComputeShortestPath() {
			return
		}
		route, ok = p.ReconstructRoute()
		p.ProtoRoute = route
	})
	return route, ok
}
