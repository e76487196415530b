// Package block implements the block-paged world storage (spec §4.6): Cell,
// Block and the BlockManager cache with its async loader. Eviction is
// insertion-order FIFO (the least-recently-inserted resident block goes
// first), grounded on the general cache-eviction shape of
// other_examples/ebc32006_eef808a24ff-aistore__lru-lru.go.go generalized
// from access-time ordering to insertion ordering, since that's what the
// data model calls for here. The async loader's queue/dedup-set/worker-pool
// split follows dm-vev-adamant's server/world/world.go generatorQueue /
// generatorWorker / runGenerationTask / drainGenerationQueue pattern.
package block

import "github.com/jrjojr/byul-demo-env/coord"

// Terrain is drawn from a small closed set; FORBIDDEN is always impassable
// regardless of any agent's movable-terrain set.
type Terrain int

const (
	Normal Terrain = iota
	Water
	Mountain
	Forest
	Forbidden
)

// Status is a cell's occupancy tag.
type Status int

const (
	Empty Status = iota
	Occupied
)

// Flags is a bit-set of transient route/selection markers on a Cell.
type Flags uint8

const (
	FlagStart Flags = 1 << iota
	FlagGoal
	FlagRoute
	FlagVisited
)

// Cell is a single grid square, owned by the block-paged world rather than
// by any planner. Agent ids are tracked as a small slice rather than a set:
// spec.md's invariant is that this list and an Agent's own start coordinate
// must agree, and in practice a cell very rarely holds more than one agent.
type Cell struct {
	Pos     coord.Coordinate
	Terrain Terrain
	Status  Status
	Flags   Flags

	AgentIDs []string

	LightLevel float64 // [0,1]
	ZoneID     int

	Items []string

	OwnerID  string
	EffectID string
	EventID  string

	Custom map[string]any
}

// NewCell returns an empty NORMAL, unoccupied cell at pos.
func NewCell(pos coord.Coordinate) *Cell {
	return &Cell{Pos: pos, Terrain: Normal, Status: Empty}
}

// AddAgent records agentID as occupying c, setting Status to Occupied.
func (c *Cell) AddAgent(agentID string) {
	for _, id := range c.AgentIDs {
		if id == agentID {
			return
		}
	}
	c.AgentIDs = append(c.AgentIDs, agentID)
	c.Status = Occupied
}

// RemoveAgent drops agentID from c, reverting Status to Empty once no agent
// remains.
func (c *Cell) RemoveAgent(agentID string) {
	for i, id := range c.AgentIDs {
		if id == agentID {
			c.AgentIDs = append(c.AgentIDs[:i], c.AgentIDs[i+1:]...)
			break
		}
	}
	if len(c.AgentIDs) == 0 {
		c.Status = Empty
	}
}

// HasFlag reports whether f is set on c.
func (c *Cell) HasFlag(f Flags) bool {
	return c.Flags&f != 0
}

// SetFlag sets f on c.
func (c *Cell) SetFlag(f Flags) {
	c.Flags |= f
}

// ClearFlag clears f on c.
func (c *Cell) ClearFlag(f Flags) {
	c.Flags &^= f
}
