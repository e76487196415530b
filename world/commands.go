package world

import (
	"github.com/jrjojr/byul-demo-env/agent"
	"github.com/jrjojr/byul-demo-env/block"
	"github.com/jrjojr/byul-demo-env/coord"
	"github.com/jrjojr/byul-demo-env/dstarlite"
)

// SpawnAgent creates and attaches an agent at (x, z), idempotent on id: a
// second call with an id already registered is a no-op. If the target
// block isn't resident, placement is deferred until it loads (the load is
// requested here; drainSpawnBatch places the agent once AfterLoad fires).
func (w *World) SpawnAgent(id string, x, z int32) *agent.Agent {
	w.mu.Lock()
	if existing, ok := w.agents[id]; ok {
		w.mu.Unlock()
		return existing
	}
	pos := coord.New(x, z)
	a := agent.New(id, pos, w.cfg.DefaultPlanner, w.cfg.DefaultSpeedKmh, w.cfg.GridUnitM)
	w.agents[a.ID] = a
	w.agentOrder = append(w.agentOrder, a.ID)
	w.mu.Unlock()

	if w.hooks.AgentCreated != nil {
		w.hooks.AgentCreated(a.ID)
	}

	origin := w.blocks.Origin(x, z)
	if w.blocks.Resident(origin) {
		if cell, ok := w.blocks.GetCell(x, z); ok {
			cell.AddAgent(a.ID)
			cell.SetFlag(block.FlagStart)
		}
		return a
	}
	w.blocks.RequestLoad(origin)
	return a
}

// DespawnAgent clears id's cell placement at once and queues id for batched
// removal (idempotent: queuing an id already pending is a no-op). The Agent
// record survives; when the batch drains, its animation stops and its route
// is dropped.
func (w *World) DespawnAgent(id string) {
	if _, ok := w.lookupAgent(id); !ok {
		return
	}
	if cell, ok := w.agentCell(id); ok {
		cell.RemoveAgent(id)
		cell.ClearFlag(block.FlagStart)
	}
	w.queueDespawn(id)
}

// DeleteAgent fully removes id: requests planner cancellation, detaches its
// cell placement and drops it from the registry. Not part of spec §6's
// command surface (which only asks for spawn/despawn), but needed to give
// the lifecycle's "delete" step (spec §3) a concrete entry point.
func (w *World) DeleteAgent(id string) {
	a, ok := w.lookupAgent(id)
	if !ok {
		return
	}
	if a.DStar != nil {
		a.WithDStar(func(p *dstarlite.Planner) { p.ForceQuit() })
	}
	if cell, ok := w.agentCell(id); ok {
		cell.RemoveAgent(id)
		cell.ClearFlag(block.FlagStart)
	}

	w.mu.Lock()
	delete(w.agents, id)
	for i, v := range w.agentOrder {
		if v == id {
			w.agentOrder = append(w.agentOrder[:i], w.agentOrder[i+1:]...)
			break
		}
	}
	if w.selected == id {
		w.selected = ""
	}
	w.mu.Unlock()

	w.cancelPendingDespawn(id)
	if w.hooks.AgentDeleted != nil {
		w.hooks.AgentDeleted(id)
	}
}

func (w *World) agentCell(id string) (*block.Cell, bool) {
	a, ok := w.lookupAgent(id)
	if !ok {
		return nil, false
	}
	return w.blocks.GetCell(a.Start.X, a.Start.Z)
}

// SetGoal clears id's goal queue and sets to as its single pending goal.
func (w *World) SetGoal(id string, x, z int32) {
	a, ok := w.lookupAgent(id)
	if !ok {
		return
	}
	a.SetGoal(coord.New(x, z))
}

// AppendGoal appends to to id's goal queue.
func (w *World) AppendGoal(id string, x, z int32) {
	a, ok := w.lookupAgent(id)
	if !ok {
		return
	}
	a.AppendGoal(coord.New(x, z))
}

// terrainFor picks a terrain tag that blocks agent (preferring MOUNTAIN,
// falling back to FORBIDDEN for an agent tolerating every terrain), per
// spec §4.10's set_obstacle rule.
func terrainFor(a *agent.Agent) block.Terrain {
	if !a.MovableTerrain.Contains(block.Mountain) {
		return block.Mountain
	}
	return block.Forbidden
}

// SetObstacle mutates (x, z)'s terrain to one outside agentID's movable
// set, then nudges any D*-Lite planner local to the change.
func (w *World) SetObstacle(x, z int32, agentID string) {
	a, ok := w.lookupAgent(agentID)
	if !ok {
		return
	}
	cell, ok := w.blocks.GetCell(x, z)
	if !ok {
		return
	}
	cell.Terrain = terrainFor(a)
	w.notifyObstacleChange(coord.New(x, z))
}

// RemoveObstacle reverts (x, z)'s terrain to agentID's native terrain.
func (w *World) RemoveObstacle(x, z int32, agentID string) {
	a, ok := w.lookupAgent(agentID)
	if !ok {
		return
	}
	cell, ok := w.blocks.GetCell(x, z)
	if !ok {
		return
	}
	cell.Terrain = a.NativeTerrain
	w.notifyObstacleChange(coord.New(x, z))
}

// ToggleObstacle blocks (x, z) for agentID if it's currently passable,
// otherwise reverts it.
func (w *World) ToggleObstacle(x, z int32, agentID string) {
	a, ok := w.lookupAgent(agentID)
	if !ok {
		return
	}
	cell, ok := w.blocks.GetCell(x, z)
	if !ok {
		return
	}
	if agent.IsBlockedForCell(cell, a) {
		cell.Terrain = a.NativeTerrain
	} else {
		cell.Terrain = terrainFor(a)
	}
	w.notifyObstacleChange(coord.New(x, z))
}

// notifyObstacleChange updates every D*-Lite agent's local frontier around
// the changed coordinate, per spec §4.5's update_vertex_auto_range. Static
// finders don't need this: their next planning task re-reads the map fresh.
func (w *World) notifyObstacleChange(changed coord.Coordinate) {
	w.withAgents(func(a *agent.Agent) {
		if a.Planner != agent.DStarLite || a.DStar == nil {
			return
		}
		a.WithDStar(func(p *dstarlite.Planner) {
			p.UpdateVertexAutoRange(changed)
		})
	})
}

// SetClickMode selects how a UI click on a cell is interpreted.
func (w *World) SetClickMode(mode ClickMode) {
	w.mu.Lock()
	w.clickMode = mode
	w.mu.Unlock()
}

// ClickMode returns the currently selected click mode.
func (w *World) ClickMode() ClickMode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.clickMode
}

// SelectAgent marks id as the selected agent, firing AgentSelected.
func (w *World) SelectAgent(id string) {
	w.mu.Lock()
	w.selected = id
	w.mu.Unlock()
	if w.hooks.AgentSelected != nil {
		w.hooks.AgentSelected(id)
	}
}
