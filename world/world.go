package world

import (
	"sync"
	"time"

	"github.com/jrjojr/byul-demo-env/agent"
	"github.com/jrjojr/byul-demo-env/block"
	"github.com/jrjojr/byul-demo-env/coord"
	"github.com/jrjojr/byul-demo-env/engine"
	"github.com/jrjojr/byul-demo-env/gridmap"
	"github.com/jrjojr/byul-demo-env/registry"
	"github.com/jrjojr/byul-demo-env/routechange"
)

// World ties the block-paged store, the agent registry, the two worker
// engines and the route-change detector together behind spec §6's
// commands/queries/events surface. All state mutation happens from Tick,
// the commands, or the batched pipelines it drains; the two engines only
// ever read a stable map/agent snapshot and hand results back through
// buffered channels, matching spec §5's foreground/worker discipline.
type World struct {
	cfg Config

	blocks   *block.Manager
	gridMap  *gridmap.Map
	registry *registry.Registry

	routeEngine    *engine.Pool
	animatorEngine *engine.Pool
	detector       *routechange.Detector

	hooks Hooks

	mu         sync.Mutex
	agents     map[string]*agent.Agent
	agentOrder []string
	selected   string
	clickMode  ClickMode

	lastViewport coord.Coordinate
	tickInterval time.Duration

	planResults chan planResult
	arrivals    chan arrival

	loadQueue      []coord.Coordinate
	evictQueue     []coord.Coordinate
	despawnPending []string
	despawnSet     map[string]struct{}
	pipeMu         sync.Mutex
}

type planResult struct {
	agentID string
	goal    coord.Coordinate
	coords  *coord.List
	success bool
}

type arrival struct {
	agentID string
	from    coord.Coordinate
	to      coord.Coordinate
}

// New builds a World from cfg and hooks (any hook may be nil). The block
// manager's factory defaults to a flat NORMAL-terrain generator using
// cfg.CellFactory (or block.NewCell).
func New(cfg Config, hooks Hooks) *World {
	cfg = cfg.defaults()

	w := &World{
		cfg:         cfg,
		registry:    registry.New(),
		agents:      make(map[string]*agent.Agent),
		hooks:       hooks,
		planResults: make(chan planResult, 256),
		arrivals:    make(chan arrival, 256),
		despawnSet:  make(map[string]struct{}),
	}

	w.gridMap = gridmap.New(cfg.MapWidth, cfg.MapHeight, cfg.MapMode)
	w.gridMap.SetIsBlocked(w.isBlocked)

	factory := cfg.BlockFactory
	if factory == nil {
		cellFactory := cfg.CellFactory
		if cellFactory == nil {
			cellFactory = block.NewCell
		}
		factory = func(origin coord.Coordinate) (*block.Block, error) {
			return block.NewBlock(origin, cfg.BlockSize, cellFactory), nil
		}
	}

	w.blocks = block.NewManager(cfg.BlockSize, cfg.MaxBlocks, cfg.MaxParallel, factory, block.Hooks{
		BeforeEvict:     w.onBeforeEvict,
		AfterLoad:       w.onAfterLoad,
		OnLoadSucceeded: w.onLoadSucceeded,
		OnLoadFailed:    w.onLoadFailed,
	}, cfg.Log)

	w.routeEngine = engine.NewPool("route-finder", cfg.RouteWorkers, cfg.Log)
	w.animatorEngine = engine.NewPool("animator", cfg.AnimatorWorkers, cfg.Log)
	w.detector = routechange.NewDetector(routechange.DefaultHistory)

	return w
}

// isBlocked is the single world-wide gridmap.IsBlockedFunc every agent's
// planning shares: legality is agent-specific (the `user` parameter, a
// *agent.Agent) but the predicate itself is installed once, per spec §4.2's
// "agents install their own predicate ... without mutating shared map
// state" — achieved here via the per-call `user` threading rather than by
// swapping the map's predicate per agent.
func (w *World) isBlocked(_ *gridmap.Map, x, z int32, user any) bool {
	c, ok := w.blocks.GetCell(x, z)
	if !ok {
		return true
	}
	a, ok := user.(*agent.Agent)
	if !ok {
		return c.Terrain == block.Forbidden
	}
	return agent.IsBlockedForCell(c, a)
}

// Shutdown stops both worker pools and resets the block manager, releasing
// every resident block.
func (w *World) Shutdown() {
	w.routeEngine.Shutdown(true)
	w.animatorEngine.Shutdown(true)
	w.blocks.Reset()
}

// Tick advances the simulation by dtSeconds, per spec §2's control flow:
// submit outstanding plans, start idle animators, advance running ones in
// parallel across the animator engine, commit arrivals on the foreground,
// then drain the batched spawn/despawn pipelines (spawn first).
func (w *World) Tick(dtSeconds float64) {
	started := time.Now()

	w.drainPlanResults()
	w.submitPlans()
	w.startIdleAnimators()
	w.tickAnimators(dtSeconds)
	w.drainArrivals()
	w.drainSpawnBatch()
	w.drainDespawnBatch()

	if w.hooks.TickElapsedMs != nil {
		w.hooks.TickElapsedMs(float64(time.Since(started)) / float64(time.Millisecond))
	}
}

func (w *World) withAgents(fn func(a *agent.Agent)) {
	w.mu.Lock()
	ids := make([]string, len(w.agentOrder))
	copy(ids, w.agentOrder)
	agents := make([]*agent.Agent, 0, len(ids))
	for _, id := range ids {
		if a, ok := w.agents[id]; ok {
			agents = append(agents, a)
		}
	}
	w.mu.Unlock()

	for _, a := range agents {
		fn(a)
	}
}

func (w *World) lookupAgent(id string) (*agent.Agent, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, ok := w.agents[id]
	return a, ok
}

// cellCount is an internal helper used by MemoryUsage's best-effort
// estimate; block.Manager doesn't expose per-cell accounting, so this
// assumes every resident block is fully dense (always true: NewBlock
// always allocates Size*Size cells).
func (w *World) cellCount() int64 {
	return int64(w.blocks.BlockCount()) * int64(w.cfg.BlockSize) * int64(w.cfg.BlockSize)
}

const (
	approxCellBytes  = 160 // Cell's fixed fields plus a small agent-id slice header
	approxAgentBytes = 256 // Agent plus its goal queue/route lists' typical size
)

// MemoryUsage is a best-effort estimate (spec §6), not a heap walk, mirroring
// the original implementation's resource.getrusage-based approximation
// (SPEC_FULL.md's supplemented memory_usage feature).
func (w *World) MemoryUsage() int64 {
	w.mu.Lock()
	agentCount := len(w.agents)
	w.mu.Unlock()
	return w.cellCount()*approxCellBytes + int64(agentCount)*approxAgentBytes
}

// BlockCount returns the number of resident blocks.
func (w *World) BlockCount() int { return w.blocks.BlockCount() }

// AgentCount returns the number of registered agents.
func (w *World) AgentCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.agents)
}
