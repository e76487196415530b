// Package world implements the facade spec §4.10 describes: it orchestrates
// the block manager, the agent registry, the two worker-pool engines and
// the route-change detector behind the three interfaces external
// collaborators (the UI) actually consume — commands, queries and a
// per-frame tick. Config follows dm-vev-adamant's server/world.Config
// composition-root pattern: a single struct gathering every pluggable
// strategy, defaulted by New rather than by zero-value field access.
package world

import (
	"log/slog"

	"github.com/jrjojr/byul-demo-env/agent"
	"github.com/jrjojr/byul-demo-env/block"
	"github.com/jrjojr/byul-demo-env/coord"
	"github.com/jrjojr/byul-demo-env/dstarlite"
	"github.com/jrjojr/byul-demo-env/gridmap"
	"github.com/jrjojr/byul-demo-env/registry"
)

// Config bundles every tunable the World needs at construction. Zero values
// are filled in by New, matching server/world.Config.New()'s defaulting.
type Config struct {
	BlockSize   int32
	MaxBlocks   int
	MaxParallel int
	GridUnitM   float64

	MapWidth, MapHeight int32 // 0 = unbounded
	MapMode             gridmap.Mode

	// CellFactory builds a fresh Cell for a newly generated position;
	// nil uses block.NewCell (a flat NORMAL-terrain world).
	CellFactory block.CellFactory

	// BlockFactory builds an entire Block for a newly loaded origin; nil
	// derives one from CellFactory via block.NewBlock.
	BlockFactory block.Factory

	RouteWorkers    int
	AnimatorWorkers int
	BatchSize       int

	// ViewportHalfWidth/Height define the rectangle SetViewportCenter and
	// MoveViewport maintain around the viewport's centre, in cells.
	ViewportHalfWidth  int32
	ViewportHalfHeight int32
	PrefetchExpand     int32
	PrefetchOffset     int32
	PrefetchDistance   int32
	TurnThresholdDeg   float64

	DefaultCostName      string
	DefaultHeuristicName string

	DefaultPlanner  agent.PlannerTag
	DefaultSpeedKmh float64

	Tunables dstarlite.Tunables

	Log *slog.Logger
}

// defaults fills in zero-valued fields with conservative defaults.
func (c Config) defaults() Config {
	if c.BlockSize <= 0 {
		c.BlockSize = 16
	}
	if c.MaxBlocks <= 0 {
		c.MaxBlocks = 64
	}
	if c.MaxParallel <= 0 {
		c.MaxParallel = 4
	}
	if c.GridUnitM <= 0 {
		c.GridUnitM = 1
	}
	if c.RouteWorkers <= 0 {
		c.RouteWorkers = 4
	}
	if c.AnimatorWorkers <= 0 {
		c.AnimatorWorkers = 4
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 16
	}
	if c.ViewportHalfWidth <= 0 {
		c.ViewportHalfWidth = 32
	}
	if c.ViewportHalfHeight <= 0 {
		c.ViewportHalfHeight = 32
	}
	if c.PrefetchExpand <= 0 {
		c.PrefetchExpand = c.BlockSize
	}
	if c.PrefetchDistance <= 0 {
		c.PrefetchDistance = 2
	}
	if c.TurnThresholdDeg <= 0 {
		c.TurnThresholdDeg = 10
	}
	if c.DefaultCostName == "" {
		c.DefaultCostName = "default"
	}
	if c.DefaultHeuristicName == "" {
		c.DefaultHeuristicName = "octile"
	}
	if c.DefaultPlanner == "" {
		c.DefaultPlanner = agent.DStarLite
	}
	if c.DefaultSpeedKmh <= 0 {
		c.DefaultSpeedKmh = 5
	}
	if c.Tunables == (dstarlite.Tunables{}) {
		c.Tunables = dstarlite.DefaultTunables()
	}
	if c.Log == nil {
		c.Log = slog.Default()
	}
	return c
}

// ClickMode selects how a UI click on a cell is interpreted, per spec §6.
type ClickMode int

const (
	ClickSelectAgent ClickMode = iota
	ClickSpawnAgentAt
	ClickDespawnAgentAt
	ClickObstacle
)

// Hooks are the World's event callbacks (spec §6 Events). Any may be nil.
type Hooks struct {
	BlockLoaded    func(key coord.Coordinate)
	BlockEvicted   func(key coord.Coordinate)
	AgentCreated   func(id string)
	AgentDeleted   func(id string)
	AgentSelected  func(id string)
	ViewportChange func(x, z int32)
	TickElapsedMs  func(ms float64)
}

// costHeuristic resolves the registry lookup for a planning task, failing
// fast (spec §7's unknown-function is fatal at dispatch) rather than
// letting an unregistered name silently reach a worker.
func (w *World) costHeuristic(costName, heuristicName string) (registry.CostFunc, registry.HeuristicFunc, error) {
	cost, err := w.registry.Cost(costName)
	if err != nil {
		return nil, nil, err
	}
	heuristic, err := w.registry.Heuristic(heuristicName)
	if err != nil {
		return nil, nil, err
	}
	return cost, heuristic, nil
}
