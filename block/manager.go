package block

import (
	"container/list"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jrjojr/byul-demo-env/coord"
	"golang.org/x/sync/errgroup"
)

// schedulingDelay is the small one-shot delay before a pending load batch is
// drained, giving RequestLoad callers a chance to coalesce a burst of
// requests (e.g. every cell of a freshly-expanded viewport) into one batch
// instead of firing a goroutine per call.
const schedulingDelay = 5 * time.Millisecond

// Factory builds the Block anchored at origin, typically by procedurally
// generating or loading its cells.
type Factory func(origin coord.Coordinate) (*Block, error)

// Hooks are the BlockManager's lifecycle callbacks. Any of them may be nil.
type Hooks struct {
	BeforeEvict     func(b *Block)
	AfterLoad       func(b *Block)
	OnLoadSucceeded func(origin coord.Coordinate)
	OnLoadFailed    func(origin coord.Coordinate, err error)
}

// Rect is an inclusive axis-aligned cell rectangle: [X0,X1] x [Z0,Z1].
type Rect struct {
	X0, Z0, X1, Z1 int32
}

// Manager is the block-paged world's cache: an insertion-order-capped table
// of resident Blocks plus an async loader. Cell content (terrain, status,
// flags) is mutated only from the foreground per spec.md's concurrency
// model; the Manager's own lock guards only cache membership (insert/evict),
// matching the "coarse lock around insert/evict only" requirement.
type Manager struct {
	blockSize   int32
	maxBlocks   int
	maxParallel int
	factory     Factory
	hooks       Hooks
	log         *slog.Logger

	mu     sync.RWMutex
	cache  map[coord.Coordinate]*Block
	order  *list.List
	elems  map[coord.Coordinate]*list.Element

	loadMu       sync.Mutex
	loadingQueue []coord.Coordinate
	loadingSet   map[coord.Coordinate]struct{}
	draining     bool

	stopped atomic.Bool
}

// NewManager returns an empty Manager. log may be nil, in which case load
// failures are silently dropped from structured logging (still reported via
// hooks.OnLoadFailed).
func NewManager(blockSize int32, maxBlocks, maxParallel int, factory Factory, hooks Hooks, log *slog.Logger) *Manager {
	return &Manager{
		blockSize:   blockSize,
		maxBlocks:   maxBlocks,
		maxParallel: maxParallel,
		factory:     factory,
		hooks:       hooks,
		log:         log,
		cache:       make(map[coord.Coordinate]*Block),
		order:       list.New(),
		elems:       make(map[coord.Coordinate]*list.Element),
		loadingSet:  make(map[coord.Coordinate]struct{}),
	}
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Origin returns the origin of the block containing (x, z), using
// floor-division so the invariant holds for negative coordinates.
func (m *Manager) Origin(x, z int32) coord.Coordinate {
	return coord.New(floorDiv(x, m.blockSize)*m.blockSize, floorDiv(z, m.blockSize)*m.blockSize)
}

// Resident reports whether the block at origin is currently cached.
func (m *Manager) Resident(origin coord.Coordinate) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.cache[origin]
	return ok
}

// GetCell returns the cell at (x, z) if its block is resident.
func (m *Manager) GetCell(x, z int32) (*Cell, bool) {
	origin := m.Origin(x, z)
	m.mu.RLock()
	b, ok := m.cache[origin]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	c := b.Cell(coord.New(x, z))
	return c, c != nil
}

// BlockCount returns the number of resident blocks.
func (m *Manager) BlockCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}

// Put synchronously inserts a pre-built block, evicting if necessary. Used
// by tests and by callers that build blocks without going through the
// async loader.
func (m *Manager) Put(b *Block) {
	m.mu.Lock()
	evicted := m.evictIfNeededLocked(b.Origin)
	m.insertLocked(b.Origin, b)
	m.mu.Unlock()
	m.raiseBeforeEvict(evicted)
}

// evictIfNeededLocked must be called with mu held. It returns the blocks
// evicted to make room for protectKey, without yet running hooks (hooks run
// outside the lock).
func (m *Manager) evictIfNeededLocked(protectKey coord.Coordinate) []*Block {
	if m.maxBlocks <= 0 {
		return nil
	}
	var evicted []*Block
	for len(m.cache) >= m.maxBlocks {
		front := m.order.Front()
		if front == nil {
			break
		}
		oldest := front.Value.(coord.Coordinate)
		if oldest == protectKey {
			break
		}
		if b, ok := m.cache[oldest]; ok {
			evicted = append(evicted, b)
			delete(m.cache, oldest)
		}
		delete(m.elems, oldest)
		m.order.Remove(front)
	}
	return evicted
}

func (m *Manager) insertLocked(origin coord.Coordinate, b *Block) {
	m.cache[origin] = b
	m.elems[origin] = m.order.PushBack(origin)
}

func (m *Manager) raiseBeforeEvict(evicted []*Block) {
	if m.hooks.BeforeEvict == nil {
		return
	}
	for _, b := range evicted {
		m.hooks.BeforeEvict(b)
	}
}

// RequestLoad queues origin for asynchronous loading unless it is already
// resident or already queued.
func (m *Manager) RequestLoad(origin coord.Coordinate) {
	if m.stopped.Load() {
		return
	}
	if m.Resident(origin) {
		return
	}
	m.loadMu.Lock()
	if _, queued := m.loadingSet[origin]; queued {
		m.loadMu.Unlock()
		return
	}
	m.loadingSet[origin] = struct{}{}
	m.loadingQueue = append(m.loadingQueue, origin)
	alreadyDraining := m.draining
	m.draining = true
	m.loadMu.Unlock()

	if !alreadyDraining {
		time.AfterFunc(schedulingDelay, m.drain)
	}
}

// drain pops the entire pending queue, loads it with up to maxParallel
// concurrent workers (via errgroup), and re-arms itself if more work arrived
// while draining — mirroring the teacher's generatorWorker/drainGenerationQueue
// split, with errgroup standing in for the persistent worker goroutines since
// this loader is scheduled in bursts rather than continuously fed.
func (m *Manager) drain() {
	for {
		m.loadMu.Lock()
		if len(m.loadingQueue) == 0 || m.stopped.Load() {
			m.draining = false
			m.loadMu.Unlock()
			return
		}
		batch := m.loadingQueue
		m.loadingQueue = nil
		m.loadMu.Unlock()

		var g errgroup.Group
		g.SetLimit(m.maxParallel)
		for _, origin := range batch {
			origin := origin
			g.Go(func() error {
				m.loadOne(origin)
				return nil
			})
		}
		g.Wait()
	}
}

func (m *Manager) loadOne(origin coord.Coordinate) {
	blk, err := m.factory(origin)

	m.loadMu.Lock()
	delete(m.loadingSet, origin)
	m.loadMu.Unlock()

	if err != nil {
		if m.log != nil {
			m.log.Error("block load failed", "origin_x", origin.X, "origin_z", origin.Z, "error", err)
		}
		if m.hooks.OnLoadFailed != nil {
			m.hooks.OnLoadFailed(origin, err)
		}
		return
	}

	m.mu.Lock()
	if _, dup := m.cache[origin]; dup {
		// Duplicate completion: the first completion already won, discard this one.
		m.mu.Unlock()
		return
	}
	evicted := m.evictIfNeededLocked(origin)
	m.insertLocked(origin, blk)
	m.mu.Unlock()

	m.raiseBeforeEvict(evicted)
	if m.hooks.AfterLoad != nil {
		m.hooks.AfterLoad(blk)
	}
	if m.hooks.OnLoadSucceeded != nil {
		m.hooks.OnLoadSucceeded(origin)
	}
}

// Reset raises before-evict for every resident block and clears the cache
// and both loader queues. RequestLoad calls are ignored while Reset runs;
// once it returns, the Manager accepts loads again.
func (m *Manager) Reset() {
	m.stopped.Store(true)

	m.mu.Lock()
	var evicted []*Block
	for _, b := range m.cache {
		evicted = append(evicted, b)
	}
	m.cache = make(map[coord.Coordinate]*Block)
	m.order = list.New()
	m.elems = make(map[coord.Coordinate]*list.Element)
	m.mu.Unlock()

	m.raiseBeforeEvict(evicted)

	m.loadMu.Lock()
	m.loadingQueue = nil
	m.loadingSet = make(map[coord.Coordinate]struct{})
	m.loadMu.Unlock()

	m.stopped.Store(false)
}

// BlocksForRect returns the origin keys of every block that overlaps rect.
func (m *Manager) BlocksForRect(rect Rect) []coord.Coordinate {
	var out []coord.Coordinate
	startOrigin := m.Origin(rect.X0, rect.Z0)
	for oz := startOrigin.Z; oz <= rect.Z1; oz += m.blockSize {
		for ox := startOrigin.X; ox <= rect.X1; ox += m.blockSize {
			out = append(out, coord.New(ox, oz))
		}
	}
	return out
}

// IsRectLoaded reports whether every block overlapping rect is resident.
func (m *Manager) IsRectLoaded(rect Rect) bool {
	for _, origin := range m.BlocksForRect(rect) {
		if !m.Resident(origin) {
			return false
		}
	}
	return true
}

// LoadBlocksAroundRect queues every non-resident block within rect expanded
// by expand cells on each side, then offset further in the same direction
// (a leading margin beyond the halo, used when the viewport is already
// known to be moving).
func (m *Manager) LoadBlocksAroundRect(rect Rect, expand, offset int32) {
	grown := Rect{
		X0: rect.X0 - expand - offset, Z0: rect.Z0 - expand - offset,
		X1: rect.X1 + expand + offset, Z1: rect.Z1 + expand + offset,
	}
	for _, origin := range m.BlocksForRect(grown) {
		m.RequestLoad(origin)
	}
}

// forwardBlockOffsets returns, in block units relative to the forward
// centre point (dx*i, dy*i), the cells to queue for one forward-prefetch
// step, per spec.md §4.6: an axis move queues the three-cell orthogonal
// sliver (centre plus one block to either side, perpendicular to travel);
// a diagonal move queues the four-cell corner pattern (the straight
// diagonal point, back-x, back-y, and back-xy).
func forwardBlockOffsets(dx, dy int32) []coord.Coordinate {
	if dx != 0 && dy != 0 {
		return []coord.Coordinate{
			{X: 0, Z: 0},     // straight
			{X: -dx, Z: 0},   // back-x
			{X: 0, Z: -dy},   // back-y
			{X: -dx, Z: -dy}, // back-xy
		}
	}
	if dx != 0 {
		return []coord.Coordinate{{X: 0, Z: -1}, {X: 0, Z: 0}, {X: 0, Z: 1}}
	}
	return []coord.Coordinate{{X: -1, Z: 0}, {X: 0, Z: 0}, {X: 1, Z: 0}}
}

// forwardOrigins computes, for each base origin in rect and each step
// 1..distance, the block origins forwardBlockOffsets names around the
// forward centre point (dx*i*blockSize, dy*i*blockSize).
func (m *Manager) forwardOrigins(rect Rect, dx, dy, distance int32) []coord.Coordinate {
	var out []coord.Coordinate
	bases := m.BlocksForRect(rect)
	offsets := forwardBlockOffsets(dx, dy)
	for i := int32(1); i <= distance; i++ {
		for _, b := range bases {
			centre := coord.New(b.X+dx*i*m.blockSize, b.Z+dy*i*m.blockSize)
			for _, off := range offsets {
				out = append(out, coord.New(centre.X+off.X*m.blockSize, centre.Z+off.Z*m.blockSize))
			}
		}
	}
	return out
}

// LoadBlocksForwardForRect queues the motion-predictive forward prefetch
// pattern for direction (dx, dy) out to distance steps. It never loads the
// full halo, only the cells along the predicted path of travel.
func (m *Manager) LoadBlocksForwardForRect(rect Rect, dx, dy, distance int32) {
	for _, origin := range m.forwardOrigins(rect, dx, dy, distance) {
		m.RequestLoad(origin)
	}
}

// IsBlocksLoadedForwardForRect mirrors LoadBlocksForwardForRect's pattern as
// a residency predicate, used to decide whether prefetch is still needed.
func (m *Manager) IsBlocksLoadedForwardForRect(rect Rect, dx, dy, distance int32) bool {
	for _, origin := range m.forwardOrigins(rect, dx, dy, distance) {
		if !m.Resident(origin) {
			return false
		}
	}
	return true
}
