// Package agent implements the NPC core (spec §4.7): per-agent planner
// state, goal queue, position and sub-cell interpolation, speed-derived
// tick interval, terrain capability checks and the animation state
// machine. Agents never hold pointers into the block-paged world; they
// refer to cells and other agents only by Coordinate/id, matching the
// teacher's id-based entity lookups in server/world/world.go (w.entities
// keyed by uuid.UUID rather than pointer cycles).
package agent

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/jrjojr/byul-demo-env/block"
	"github.com/jrjojr/byul-demo-env/coord"
	"github.com/jrjojr/byul-demo-env/dstarlite"
)

// PlannerTag selects which engine drives an Agent's route-finding: one of
// finder.Algorithm's static values (as a string), or DStarLite for the
// incremental planner.
type PlannerTag string

// DStarLite selects the incremental planner rather than a static finder.
const DStarLite PlannerTag = "dstarlite"

// PlannerConfig bounds an Agent's planning work, mirroring spec.md's
// "max_retry, route capacity" planner config.
type PlannerConfig struct {
	MaxRetry      int
	RouteCapacity int
	// UserData is threaded through to static finders needing an
	// algorithm-specific parameter (Weighted A*'s weight, RTA*'s
	// lookahead depth, Fringe's delta-epsilon).
	UserData any
}

// DefaultPlannerConfig returns conservative bounds suitable for searching a
// single loaded block.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{MaxRetry: 10000, RouteCapacity: 4096}
}

// Agent is one NPC: its identity, planner state, goal queue, interpolated
// position and terrain capability set.
type Agent struct {
	ID string

	Start coord.Coordinate
	Goal  coord.Coordinate

	GoalQueue *coord.List

	NativeTerrain  block.Terrain
	MovableTerrain TerrainSet

	Planner       PlannerTag
	PlannerConfig PlannerConfig

	SpeedKmh float64
	GridUnitM float64

	Proto     *coord.List
	RealRoute *coord.List
	CurIndex  int

	Animator *Animator

	DStar   *dstarlite.Planner
	dstarMu sync.Mutex

	planning atomic.Bool
}

// WithDStar runs fn with a's incremental planner locked, serializing the
// route engine's ComputeShortestPath/ReconstructRoute against obstacle
// notifications delivered synchronously from the foreground (spec §5: the
// planner's g/rhs tables are the one piece of per-agent state a worker and
// the foreground both touch, so they share this lock rather than the
// foreground-only rule that covers Cell/Agent fields).
func (a *Agent) WithDStar(fn func(*dstarlite.Planner)) {
	a.dstarMu.Lock()
	defer a.dstarMu.Unlock()
	fn(a.DStar)
}

// New returns an Agent at start, with no goal queued, AllTerrain movable
// terrain, the given planner tag and speed. id="" allocates a fresh
// uuid-backed id, mirroring the teacher's uuid.UUID entity keys.
func New(id string, start coord.Coordinate, planner PlannerTag, speedKmh, gridUnitM float64) *Agent {
	if id == "" {
		id = uuid.NewString()
	}
	return &Agent{
		ID:             id,
		Start:          start,
		Goal:           start,
		GoalQueue:      coord.NewList(),
		NativeTerrain:  block.Normal,
		MovableTerrain: AllTerrain(),
		Planner:        planner,
		PlannerConfig:  DefaultPlannerConfig(),
		SpeedKmh:       speedKmh,
		GridUnitM:      gridUnitM,
		Proto:          coord.NewList(),
		RealRoute:      coord.NewList(),
		Animator:       NewAnimator(),
	}
}

// SetGoal clears the goal queue and sets to as the single pending goal.
func (a *Agent) SetGoal(to coord.Coordinate) {
	a.GoalQueue = coord.NewListFrom([]coord.Coordinate{to})
}

// AppendGoal appends to to the goal queue.
func (a *Agent) AppendGoal(to coord.Coordinate) {
	a.GoalQueue.Push(to)
}

// NextGoal pops the next queued goal, if any, reporting ok=false when the
// queue is empty.
func (a *Agent) NextGoal() (coord.Coordinate, bool) {
	return a.GoalQueue.PopFront()
}

// NeedsPlan reports whether a has at least one queued goal and isn't already
// mid-planning, per spec.md §4.7 step 1. The queued goal is not compared
// with the current goal.
func (a *Agent) NeedsPlan() bool {
	return !a.planning.Load() && !a.GoalQueue.IsEmpty()
}

// BeginPlanning marks a planning task as outstanding; returns false if one
// is already in flight (the caller should not submit a duplicate task).
func (a *Agent) BeginPlanning() bool {
	return a.planning.CompareAndSwap(false, true)
}

// FinishPlanning clears the outstanding-planning latch.
func (a *Agent) FinishPlanning() {
	a.planning.Store(false)
}

// IntervalMsec derives the per-step tick interval from speed, per spec.md
// §4.7: ceil(grid_unit_m / (speed_kmh*1000/3600) * 1000); zero speed means
// +Inf (never advances on its own).
func (a *Agent) IntervalMsec() float64 {
	metresPerSec := a.SpeedKmh * 1000 / 3600
	if metresPerSec <= 0 {
		return math.Inf(1)
	}
	return math.Ceil(a.GridUnitM / metresPerSec * 1000)
}

// IsBlockedForCell implements the per-agent legality rule spec.md §4.7
// names: a cell is blocked for a iff it is terrain-FORBIDDEN, occupied by
// another agent, or its terrain is outside a's movable-terrain set. This is
// installed as the single world-wide gridmap.IsBlockedFunc (see the world
// package), consulted with the querying Agent as the `user` parameter, so
// no per-agent map mutation is needed.
func IsBlockedForCell(c *block.Cell, a *Agent) bool {
	if c == nil {
		return true
	}
	if c.Terrain == block.Forbidden {
		return true
	}
	if c.Status == block.Occupied && !containsOnly(c.AgentIDs, a.ID) {
		return true
	}
	return !a.MovableTerrain.Contains(c.Terrain)
}

// containsOnly reports whether ids has exactly one entry, equal to id (an
// agent's own cell is never blocked by its own occupancy).
func containsOnly(ids []string, id string) bool {
	if len(ids) != 1 {
		return false
	}
	return ids[0] == id
}
