package coord

import "testing"

func TestCoordinateHashStableAcrossCopies(t *testing.T) {
	a := New(3, -7)
	b := a // copy
	if a.Hash() != b.Hash() {
		t.Fatalf("hash differs between copies: %d vs %d", a.Hash(), b.Hash())
	}
	if a != b {
		t.Fatalf("copies not equal: %v vs %v", a, b)
	}
}

func TestCoordinateOrdering(t *testing.T) {
	if !New(1, 5).Less(New(2, 0)) {
		t.Fatal("expected (1,5) < (2,0)")
	}
	if !New(1, 5).Less(New(1, 6)) {
		t.Fatal("expected (1,5) < (1,6)")
	}
	if New(1, 5).Less(New(1, 5)) {
		t.Fatal("expected (1,5) not less than itself")
	}
}

func TestCoordinateDistances(t *testing.T) {
	a, b := New(0, 0), New(3, 4)
	if got := a.Euclidean(b); got != 5 {
		t.Fatalf("euclidean: got %v want 5", got)
	}
	if got := a.Manhattan(b); got != 7 {
		t.Fatalf("manhattan: got %v want 7", got)
	}
	if got := a.Chebyshev(b); got != 4 {
		t.Fatalf("chebyshev: got %v want 4", got)
	}
}

func TestHashSetInsertReplace(t *testing.T) {
	h := NewHash[int]()
	k := New(1, 1)

	if !h.Insert(k, 1) {
		t.Fatal("insert into empty hash should succeed")
	}
	if h.Insert(k, 2) {
		t.Fatal("insert on present key should fail")
	}
	if !h.Replace(k, 2) {
		t.Fatal("replace on present key should succeed")
	}
	if v, _ := h.Get(k); v != 2 {
		t.Fatalf("expected 2 after replace, got %d", v)
	}
	if h.Replace(New(9, 9), 5) {
		t.Fatal("replace on absent key should fail")
	}
}

func TestHashSetOverwritesLengthUnchanged(t *testing.T) {
	h := NewHash[int]()
	k := New(4, 4)
	h.Set(k, 1)
	h.Set(k, 2)
	if h.Length() != 1 {
		t.Fatalf("expected length 1, got %d", h.Length())
	}
	if v, _ := h.Get(k); v != 2 {
		t.Fatalf("expected 2, got %d", v)
	}
}

func TestListAppendNoDup(t *testing.T) {
	l := NewListFrom([]Coordinate{New(0, 0), New(1, 0)})
	other := NewListFrom([]Coordinate{New(1, 0), New(2, 0)})
	l.Append(other, true)
	if l.Length() != 3 {
		t.Fatalf("expected 3 elements after nodup append, got %d", l.Length())
	}
}

func TestCostQueueOrdering(t *testing.T) {
	q := NewCostQueue()
	q.Push(5, New(0, 0))
	q.Push(1, New(1, 0))
	q.Push(3, New(2, 0))

	c, cost, ok := q.Pop()
	if !ok || c != New(1, 0) || cost != 1 {
		t.Fatalf("expected (1,0)/1 first, got %v/%v", c, cost)
	}
	if !q.Contains(New(2, 0)) {
		t.Fatal("expected (2,0) still present")
	}
}

func TestCostQueueUpdateCostReplaces(t *testing.T) {
	q := NewCostQueue()
	k := New(0, 0)
	q.Push(10, k)
	q.Push(1, New(5, 5))
	q.UpdateCost(k, 0)
	c, _, _ := q.Pop()
	if c != k {
		t.Fatalf("expected updated coord to sort first, got %v", c)
	}
}

func TestDStarQueueSingleEntryPerCoord(t *testing.T) {
	q := NewDStarQueue()
	c := New(2, 2)
	q.Push(DStarKey{1, 1}, c)
	q.Push(DStarKey{0, 0}, c)

	if q.Len() != 1 {
		t.Fatalf("expected exactly one entry per coord, got %d entries", q.Len())
	}
	popped, ok := q.Pop()
	if !ok || popped != c {
		t.Fatalf("expected to pop %v, got %v", c, popped)
	}
	if q.Contains(c) {
		t.Fatal("expected coord removed after pop")
	}
}

func TestDStarQueueOrdering(t *testing.T) {
	q := NewDStarQueue()
	q.Push(DStarKey{5, 0}, New(0, 0))
	q.Push(DStarKey{1, 0}, New(1, 0))
	q.Push(DStarKey{1, -1}, New(2, 0))

	first, _ := q.Pop()
	if first != New(2, 0) {
		t.Fatalf("expected (2,0) (lower K2) first, got %v", first)
	}
	second, _ := q.Pop()
	if second != New(1, 0) {
		t.Fatalf("expected (1,0) second, got %v", second)
	}
}
