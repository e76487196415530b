package world

import (
	"github.com/jrjojr/byul-demo-env/agent"
	"github.com/jrjojr/byul-demo-env/block"
	"github.com/jrjojr/byul-demo-env/coord"
)

// CellEntry pairs a coordinate with the resident cell at it, returned by
// CellsInRect.
type CellEntry struct {
	Pos  coord.Coordinate
	Cell *block.Cell
}

// CellsInRect returns every resident cell overlapping rect. Cells in
// non-resident blocks are simply absent, matching spec §4.6's get_cell
// contract.
func (w *World) CellsInRect(rect block.Rect) []CellEntry {
	var out []CellEntry
	for z := rect.Z0; z <= rect.Z1; z++ {
		for x := rect.X0; x <= rect.X1; x++ {
			if c, ok := w.blocks.GetCell(x, z); ok {
				out = append(out, CellEntry{Pos: coord.New(x, z), Cell: c})
			}
		}
	}
	return out
}

// AgentsInRect returns every registered agent whose current position falls
// inside rect.
func (w *World) AgentsInRect(rect block.Rect) []*agent.Agent {
	var out []*agent.Agent
	w.withAgents(func(a *agent.Agent) {
		if a.Start.X >= rect.X0 && a.Start.X <= rect.X1 && a.Start.Z >= rect.Z0 && a.Start.Z <= rect.Z1 {
			out = append(out, a)
		}
	})
	return out
}

// Agent returns the agent registered under id, if any.
func (w *World) Agent(id string) (*agent.Agent, bool) {
	return w.lookupAgent(id)
}

// SelectedAgent returns the currently selected agent, if any.
func (w *World) SelectedAgent() (*agent.Agent, bool) {
	w.mu.Lock()
	id := w.selected
	w.mu.Unlock()
	if id == "" {
		return nil, false
	}
	return w.lookupAgent(id)
}
