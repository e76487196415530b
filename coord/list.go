package coord

// List is an ordered, mutable sequence of Coordinates. It backs route
// reconstruction, visited-order logs and goal queues.
type List struct {
	items []Coordinate
}

// NewList returns an empty List.
func NewList() *List {
	return &List{}
}

// NewListFrom returns a List containing a copy of items.
func NewListFrom(items []Coordinate) *List {
	l := &List{items: make([]Coordinate, len(items))}
	copy(l.items, items)
	return l
}

// Length returns the number of elements in l.
func (l *List) Length() int {
	return len(l.items)
}

// IsEmpty reports whether l has no elements.
func (l *List) IsEmpty() bool {
	return len(l.items) == 0
}

// At returns the element at index i.
func (l *List) At(i int) Coordinate {
	return l.items[i]
}

// Set overwrites the element at index i.
func (l *List) Set(i int, c Coordinate) {
	l.items[i] = c
}

// Push appends c to the back of l.
func (l *List) Push(c Coordinate) {
	l.items = append(l.items, c)
}

// PushFront prepends c to the front of l.
func (l *List) PushFront(c Coordinate) {
	l.items = append([]Coordinate{c}, l.items...)
}

// Pop removes and returns the last element of l.
func (l *List) Pop() (Coordinate, bool) {
	if len(l.items) == 0 {
		return Coordinate{}, false
	}
	last := l.items[len(l.items)-1]
	l.items = l.items[:len(l.items)-1]
	return last, true
}

// PopFront removes and returns the first element of l.
func (l *List) PopFront() (Coordinate, bool) {
	if len(l.items) == 0 {
		return Coordinate{}, false
	}
	first := l.items[0]
	l.items = l.items[1:]
	return first, true
}

// InsertAt inserts c at index i, shifting later elements back.
func (l *List) InsertAt(i int, c Coordinate) {
	l.items = append(l.items, Coordinate{})
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = c
}

// RemoveAt removes the element at index i.
func (l *List) RemoveAt(i int) Coordinate {
	removed := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	return removed
}

// IndexOf returns the index of the first occurrence of c, or -1.
func (l *List) IndexOf(c Coordinate) int {
	for i, v := range l.items {
		if v == c {
			return i
		}
	}
	return -1
}

// Contains reports whether c appears anywhere in l.
func (l *List) Contains(c Coordinate) bool {
	return l.IndexOf(c) >= 0
}

// Reverse reverses l in place.
func (l *List) Reverse() {
	for i, j := 0, len(l.items)-1; i < j; i, j = i+1, j-1 {
		l.items[i], l.items[j] = l.items[j], l.items[i]
	}
}

// Sublist returns a copy of the elements in [from, to).
func (l *List) Sublist(from, to int) *List {
	return NewListFrom(l.items[from:to])
}

// Copy returns an independent copy of l.
func (l *List) Copy() *List {
	return NewListFrom(l.items)
}

// Slice returns the underlying elements as a plain slice. The caller must
// not mutate the result.
func (l *List) Slice() []Coordinate {
	return l.items
}

// Equal reports whether l and o contain the same elements in the same order.
func (l *List) Equal(o *List) bool {
	if len(l.items) != len(o.items) {
		return false
	}
	for i := range l.items {
		if l.items[i] != o.items[i] {
			return false
		}
	}
	return true
}

// Append appends every element of other to l. When nodup is true, elements
// already present in l (per Contains) are skipped.
func (l *List) Append(other *List, nodup bool) {
	if !nodup {
		l.items = append(l.items, other.items...)
		return
	}
	for _, c := range other.items {
		if !l.Contains(c) {
			l.items = append(l.items, c)
		}
	}
}
