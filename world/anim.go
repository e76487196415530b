package world

import (
	"sync"

	"github.com/jrjojr/byul-demo-env/agent"
	"github.com/jrjojr/byul-demo-env/block"
	"github.com/jrjojr/byul-demo-env/coord"
)

// drainPlanResults applies every route-finder result currently buffered,
// without blocking: this is the foreground's side of the cross-thread
// hand-off spec §4.8 requires from the route engine's on_route_found
// callback.
func (w *World) drainPlanResults() {
	for {
		select {
		case r := <-w.planResults:
			w.applyPlanResult(r)
		default:
			return
		}
	}
}

func (w *World) applyPlanResult(r planResult) {
	a, ok := w.lookupAgent(r.agentID)
	if !ok {
		return
	}
	if !r.success || r.coords == nil || r.coords.IsEmpty() {
		return
	}
	a.Proto = r.coords
	a.CurIndex = 0
	if cell, ok := w.blocks.GetCell(r.goal.X, r.goal.Z); ok {
		cell.SetFlag(block.FlagGoal)
	}
}

// startIdleAnimators implements spec §4.7 step 2: every agent with a
// pending route step and an idle animator gets its next step started.
func (w *World) startIdleAnimators() {
	w.withAgents(func(a *agent.Agent) {
		if a.Proto == nil || a.Animator.Running {
			return
		}
		if a.CurIndex >= a.Proto.Length()-1 {
			return
		}
		cur := a.Proto.At(a.CurIndex)
		next := a.Proto.At(a.CurIndex + 1)
		a.Animator.Start(float64(next.X-cur.X), float64(next.Z-cur.Z))
	})
}

// tickAnimators advances every running animator by dtSeconds, fanned out
// across the animator engine (spec §4.8's second worker pool). Completion
// only enqueues an arrival; actual cell/agent mutation happens afterward on
// the foreground in drainArrivals, so concurrent animator workers never
// race on cell state.
func (w *World) tickAnimators(dtSeconds float64) {
	var wg sync.WaitGroup
	w.withAgents(func(a *agent.Agent) {
		if !a.Animator.Running {
			return
		}
		wg.Add(1)
		a := a
		w.animatorEngine.Submit(func() {
			defer wg.Done()
			from := a.Start
			to := from.Add(coord.New(int32(a.Animator.DirDX), int32(a.Animator.DirDZ)))
			a.Animator.OnComplete = func() {
				select {
				case w.arrivals <- arrival{agentID: a.ID, from: from, to: to}:
				default:
					w.cfg.Log.Warn("world: arrival dropped, arrivals channel saturated", "agent", a.ID)
				}
			}
			a.Animator.Tick(dtSeconds, a.SpeedKmh, a.GridUnitM)
		})
	})
	wg.Wait()
}

// drainArrivals commits every completed step: advances cur_index, migrates
// cell membership and the START flag, and records the transition so a
// D*-Lite agent observing the map replans on its next planning step (spec
// §4.7 step 3).
func (w *World) drainArrivals() {
	for {
		select {
		case ar := <-w.arrivals:
			w.commitArrival(ar)
		default:
			return
		}
	}
}

func (w *World) commitArrival(ar arrival) {
	a, ok := w.lookupAgent(ar.agentID)
	if !ok {
		return
	}
	if oldCell, ok := w.blocks.GetCell(ar.from.X, ar.from.Z); ok {
		oldCell.RemoveAgent(a.ID)
		oldCell.ClearFlag(block.FlagStart)
	}
	if newCell, ok := w.blocks.GetCell(ar.to.X, ar.to.Z); ok {
		newCell.AddAgent(a.ID)
		newCell.SetFlag(block.FlagStart)
	}
	a.Start = ar.to
	a.CurIndex++
	a.RealRoute.Push(ar.to)
}
