package world

import (
	"github.com/jrjojr/byul-demo-env/agent"
	"github.com/jrjojr/byul-demo-env/block"
	"github.com/jrjojr/byul-demo-env/coord"
)

// onAfterLoad and onBeforeEvict are block.Hooks callbacks; per spec §5 they
// may run on a loader worker goroutine (async RequestLoad completions) or
// on the calling goroutine (synchronous Put). Either way they must not
// touch agent/cell state directly — they only enqueue the origin under
// pipeMu, a lock scoped to queue membership alone, deferring the actual
// cascade to Tick's foreground drain (spec §4.10's two pipelines).
func (w *World) onAfterLoad(b *block.Block) {
	w.pipeMu.Lock()
	w.loadQueue = append(w.loadQueue, b.Origin)
	w.pipeMu.Unlock()
}

func (w *World) onBeforeEvict(b *block.Block) {
	w.pipeMu.Lock()
	w.evictQueue = append(w.evictQueue, b.Origin)
	w.pipeMu.Unlock()
}

func (w *World) onLoadSucceeded(coord.Coordinate) {}

func (w *World) onLoadFailed(origin coord.Coordinate, err error) {
	w.cfg.Log.Error("world: block load failed", "origin_x", origin.X, "origin_z", origin.Z, "error", err)
}

// originContains reports whether pos falls within the block anchored at
// origin, given the world's configured block size.
func (w *World) originContains(origin, pos coord.Coordinate) bool {
	sz := w.cfg.BlockSize
	return pos.X >= origin.X && pos.X < origin.X+sz && pos.Z >= origin.Z && pos.Z < origin.Z+sz
}

// drainSpawnBatch processes up to BatchSize pending block-load cascades:
// fire block_loaded, then place every registered agent whose last known
// position falls in that origin, cancelling any pending despawn for it.
// Spawn is drained before despawn every tick (spec §4.10, §5) so a block
// that's loaded and evicted in quick succession never loses an agent to
// thrashing.
func (w *World) drainSpawnBatch() {
	w.pipeMu.Lock()
	n := len(w.loadQueue)
	if n > w.cfg.BatchSize {
		n = w.cfg.BatchSize
	}
	batch := append([]coord.Coordinate(nil), w.loadQueue[:n]...)
	w.loadQueue = w.loadQueue[n:]
	w.pipeMu.Unlock()

	for _, origin := range batch {
		if w.hooks.BlockLoaded != nil {
			w.hooks.BlockLoaded(origin)
		}
		w.withAgents(func(a *agent.Agent) {
			if !w.originContains(origin, a.Start) {
				return
			}
			w.cancelPendingDespawn(a.ID)
			if cell, ok := w.blocks.GetCell(a.Start.X, a.Start.Z); ok {
				cell.AddAgent(a.ID)
				cell.SetFlag(block.FlagStart)
			}
		})
	}
}

// drainDespawnBatch expands any newly-queued evictions into pending
// per-agent despawns, then processes up to BatchSize of those. Despawn
// never deletes the Agent record (only the DespawnAgent/DeleteAgent commands
// and a block's own eviction remove its *placement*); the registry keeps the id
// so a later reload can respawn it, per spec's "preserves the agent"
// detach semantics and scenario E5's conserved id set.
func (w *World) drainDespawnBatch() {
	w.expandEvictQueue()

	w.pipeMu.Lock()
	n := len(w.despawnPending)
	if n > w.cfg.BatchSize {
		n = w.cfg.BatchSize
	}
	batch := append([]string(nil), w.despawnPending[:n]...)
	w.despawnPending = w.despawnPending[n:]
	for _, id := range batch {
		delete(w.despawnSet, id)
	}
	w.pipeMu.Unlock()

	for _, id := range batch {
		a, ok := w.lookupAgent(id)
		if !ok {
			continue
		}
		a.Animator.Running = false
		a.Proto = nil
	}
}

func (w *World) expandEvictQueue() {
	w.pipeMu.Lock()
	origins := w.evictQueue
	w.evictQueue = nil
	w.pipeMu.Unlock()

	for _, origin := range origins {
		if w.hooks.BlockEvicted != nil {
			w.hooks.BlockEvicted(origin)
		}
		w.withAgents(func(a *agent.Agent) {
			if w.originContains(origin, a.Start) {
				w.queueDespawn(a.ID)
			}
		})
	}
}

func (w *World) queueDespawn(id string) {
	w.pipeMu.Lock()
	defer w.pipeMu.Unlock()
	if _, queued := w.despawnSet[id]; queued {
		return
	}
	w.despawnSet[id] = struct{}{}
	w.despawnPending = append(w.despawnPending, id)
}

func (w *World) cancelPendingDespawn(id string) {
	w.pipeMu.Lock()
	defer w.pipeMu.Unlock()
	if _, queued := w.despawnSet[id]; !queued {
		return
	}
	delete(w.despawnSet, id)
	for i, v := range w.despawnPending {
		if v == id {
			w.despawnPending = append(w.despawnPending[:i], w.despawnPending[i+1:]...)
			break
		}
	}
}
