package coord

import (
	"container/heap"
	"sort"
)

// costEntry is one (cost, coord) pair stored in a CostQueue.
type costEntry struct {
	cost  float64
	coord Coordinate
	index int
}

// costHeap is a container/heap.Interface over costEntry, min-ordered on cost.
type costHeap []*costEntry

func (h costHeap) Len() int            { return len(h) }
func (h costHeap) Less(i, j int) bool  { return h[i].cost < h[j].cost }
func (h costHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *costHeap) Push(x any) {
	e := x.(*costEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *costHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// CostQueue is a min-ordered priority queue on float cost, storing
// (cost, coord) pairs. It backs the classical static route finders (A*,
// Dijkstra, Weighted A*, SMA*, ...). contains and update-cost run in
// O(log n) via a coordinate-keyed side index into the heap.
type CostQueue struct {
	h     costHeap
	index map[Coordinate]*costEntry
}

// NewCostQueue returns an empty CostQueue.
func NewCostQueue() *CostQueue {
	return &CostQueue{index: make(map[Coordinate]*costEntry)}
}

// Len returns the number of entries in q.
func (q *CostQueue) Len() int {
	return len(q.h)
}

// IsEmpty reports whether q has no entries.
func (q *CostQueue) IsEmpty() bool {
	return len(q.h) == 0
}

// Push inserts (cost, c) into q. If c is already present its old entry is
// replaced (equivalent to UpdateCost).
func (q *CostQueue) Push(cost float64, c Coordinate) {
	if e, ok := q.index[c]; ok {
		e.cost = cost
		heap.Fix(&q.h, e.index)
		return
	}
	e := &costEntry{cost: cost, coord: c}
	heap.Push(&q.h, e)
	q.index[c] = e
}

// Peek returns the lowest-cost entry without removing it.
func (q *CostQueue) Peek() (Coordinate, float64, bool) {
	if len(q.h) == 0 {
		return Coordinate{}, 0, false
	}
	return q.h[0].coord, q.h[0].cost, true
}

// Pop removes and returns the lowest-cost entry.
func (q *CostQueue) Pop() (Coordinate, float64, bool) {
	if len(q.h) == 0 {
		return Coordinate{}, 0, false
	}
	e := heap.Pop(&q.h).(*costEntry)
	delete(q.index, e.coord)
	return e.coord, e.cost, true
}

// Contains reports whether c currently has an entry in q.
func (q *CostQueue) Contains(c Coordinate) bool {
	_, ok := q.index[c]
	return ok
}

// Cost returns the cost currently stored for c.
func (q *CostQueue) Cost(c Coordinate) (float64, bool) {
	e, ok := q.index[c]
	if !ok {
		return 0, false
	}
	return e.cost, true
}

// UpdateCost removes any existing entry for c and inserts it again with the
// new cost.
func (q *CostQueue) UpdateCost(c Coordinate, newCost float64) {
	q.Push(newCost, c)
}

// Remove deletes the entry for c, if present.
func (q *CostQueue) Remove(c Coordinate) bool {
	e, ok := q.index[c]
	if !ok {
		return false
	}
	heap.Remove(&q.h, e.index)
	delete(q.index, c)
	return true
}

// TrimWorst removes the n highest-cost elements, capping memory use under
// pathological expansion. If n >= q.Len(), every entry is removed.
func (q *CostQueue) TrimWorst(n int) {
	if n <= 0 {
		return
	}
	type pair struct {
		c    Coordinate
		cost float64
	}
	all := make([]pair, 0, len(q.h))
	for _, e := range q.h {
		all = append(all, pair{e.coord, e.cost})
	}
	if n >= len(all) {
		q.h = q.h[:0]
		clear(q.index)
		return
	}
	sort.Slice(all, func(i, j int) bool { return all[i].cost > all[j].cost })
	for _, p := range all[:n] {
		q.Remove(p.c)
	}
}
