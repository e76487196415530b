package block

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jrjojr/byul-demo-env/coord"
)

func syncFactory(size int32) Factory {
	return func(origin coord.Coordinate) (*Block, error) {
		return NewBlock(origin, size, nil), nil
	}
}

func TestOriginFloorDivisionNegativeCoordinates(t *testing.T) {
	m := NewManager(16, 100, 4, syncFactory(16), Hooks{}, nil)
	got := m.Origin(-1, -1)
	if got != coord.New(-16, -16) {
		t.Fatalf("expected (-16,-16), got %v", got)
	}
	got = m.Origin(-16, -16)
	if got != coord.New(-16, -16) {
		t.Fatalf("expected (-16,-16) for exact boundary, got %v", got)
	}
}

func TestPutAndGetCell(t *testing.T) {
	m := NewManager(4, 100, 4, syncFactory(4), Hooks{}, nil)
	b := NewBlock(coord.New(0, 0), 4, nil)
	m.Put(b)
	c, ok := m.GetCell(2, 2)
	if !ok || c.Pos != coord.New(2, 2) {
		t.Fatalf("expected resident cell at (2,2), got %+v ok=%v", c, ok)
	}
	_, ok = m.GetCell(10, 10)
	if ok {
		t.Fatalf("expected cell in non-resident block to be absent")
	}
}

func TestRequestLoadPopulatesCacheAndFiresHooks(t *testing.T) {
	var mu sync.Mutex
	var loaded []coord.Coordinate
	hooks := Hooks{
		OnLoadSucceeded: func(origin coord.Coordinate) {
			mu.Lock()
			loaded = append(loaded, origin)
			mu.Unlock()
		},
	}
	m := NewManager(4, 100, 2, syncFactory(4), hooks, nil)
	m.RequestLoad(coord.New(0, 0))
	m.RequestLoad(coord.New(4, 0))

	deadline := time.Now().Add(2 * time.Second)
	for {
		if m.Resident(coord.New(0, 0)) && m.Resident(coord.New(4, 0)) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("blocks never became resident")
		}
		time.Sleep(10 * time.Millisecond)
	}
	mu.Lock()
	n := len(loaded)
	mu.Unlock()
	if n != 2 {
		t.Fatalf("expected 2 load-succeeded signals, got %d", n)
	}
}

func TestRequestLoadDuplicateDoesNotDoubleQueue(t *testing.T) {
	var calls int32
	var mu sync.Mutex
	factory := func(origin coord.Coordinate) (*Block, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		time.Sleep(20 * time.Millisecond)
		return NewBlock(origin, 4, nil), nil
	}
	m := NewManager(4, 100, 4, factory, Hooks{}, nil)
	m.RequestLoad(coord.New(0, 0))
	m.RequestLoad(coord.New(0, 0))
	m.RequestLoad(coord.New(0, 0))

	deadline := time.Now().Add(2 * time.Second)
	for !m.Resident(coord.New(0, 0)) {
		if time.Now().After(deadline) {
			t.Fatalf("block never became resident")
		}
		time.Sleep(10 * time.Millisecond)
	}
	mu.Lock()
	n := calls
	mu.Unlock()
	if n != 1 {
		t.Fatalf("expected factory invoked once, got %d", n)
	}
}

func TestLoadFailureSignalsOnLoadFailed(t *testing.T) {
	failErr := errors.New("boom")
	var failedOrigin coord.Coordinate
	var got bool
	var mu sync.Mutex
	hooks := Hooks{
		OnLoadFailed: func(origin coord.Coordinate, err error) {
			mu.Lock()
			failedOrigin, got = origin, true
			mu.Unlock()
		},
	}
	factory := func(origin coord.Coordinate) (*Block, error) { return nil, failErr }
	m := NewManager(4, 100, 2, factory, hooks, nil)
	m.RequestLoad(coord.New(8, 8))

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		ok := got
		mu.Unlock()
		if ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("OnLoadFailed never fired")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if failedOrigin != coord.New(8, 8) {
		t.Fatalf("unexpected failed origin %v", failedOrigin)
	}
	if m.Resident(coord.New(8, 8)) {
		t.Fatalf("failed block should not become resident")
	}
}

func TestEvictionIsInsertionOrderAndProtectsInsertingKey(t *testing.T) {
	var evicted []coord.Coordinate
	var mu sync.Mutex
	hooks := Hooks{
		BeforeEvict: func(b *Block) {
			mu.Lock()
			evicted = append(evicted, b.Origin)
			mu.Unlock()
		},
	}
	m := NewManager(4, 2, 4, syncFactory(4), hooks, nil)
	m.Put(NewBlock(coord.New(0, 0), 4, nil))
	m.Put(NewBlock(coord.New(4, 0), 4, nil))
	// Cache is now at capacity (2). Inserting a third evicts the oldest (0,0).
	m.Put(NewBlock(coord.New(8, 0), 4, nil))

	mu.Lock()
	defer mu.Unlock()
	if len(evicted) != 1 || evicted[0] != coord.New(0, 0) {
		t.Fatalf("expected (0,0) evicted first, got %v", evicted)
	}
	if m.Resident(coord.New(0, 0)) {
		t.Fatalf("(0,0) should have been evicted")
	}
	if !m.Resident(coord.New(4, 0)) || !m.Resident(coord.New(8, 0)) {
		t.Fatalf("expected (4,0) and (8,0) resident")
	}
}

func TestResetClearsCacheAndRaisesBeforeEvict(t *testing.T) {
	var evictedCount int
	var mu sync.Mutex
	hooks := Hooks{BeforeEvict: func(b *Block) { mu.Lock(); evictedCount++; mu.Unlock() }}
	m := NewManager(4, 100, 4, syncFactory(4), hooks, nil)
	m.Put(NewBlock(coord.New(0, 0), 4, nil))
	m.Put(NewBlock(coord.New(4, 0), 4, nil))
	m.Reset()

	mu.Lock()
	n := evictedCount
	mu.Unlock()
	if n != 2 {
		t.Fatalf("expected before-evict raised for both blocks, got %d", n)
	}
	if m.BlockCount() != 0 {
		t.Fatalf("expected empty cache after reset")
	}
}

func TestBlocksForRectAndIsRectLoaded(t *testing.T) {
	m := NewManager(4, 100, 4, syncFactory(4), Hooks{}, nil)
	rect := Rect{X0: 0, Z0: 0, X1: 7, Z1: 3}
	origins := m.BlocksForRect(rect)
	if len(origins) != 2 {
		t.Fatalf("expected 2 blocks covering an 8x4 rect with block size 4, got %d", len(origins))
	}
	if m.IsRectLoaded(rect) {
		t.Fatalf("rect should not be loaded yet")
	}
	for _, o := range origins {
		m.Put(NewBlock(o, 4, nil))
	}
	if !m.IsRectLoaded(rect) {
		t.Fatalf("rect should be loaded after inserting all its blocks")
	}
}

func TestForwardPrefetchAxisQueuesOrthogonalSliver(t *testing.T) {
	m := NewManager(4, 100, 4, syncFactory(4), Hooks{}, nil)
	rect := Rect{X0: 0, Z0: 0, X1: 3, Z1: 3}
	m.LoadBlocksForwardForRect(rect, 1, 0, 1)

	deadline := time.Now().Add(2 * time.Second)
	want := []coord.Coordinate{{X: 4, Z: -4}, {X: 4, Z: 0}, {X: 4, Z: 4}}
	for {
		all := true
		for _, w := range want {
			if !m.Resident(w) {
				all = false
			}
		}
		if all {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected forward sliver %v to become resident", want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
