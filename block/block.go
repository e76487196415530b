package block

import "github.com/jrjojr/byul-demo-env/coord"

// CellFactory builds a fresh Cell for a position about to be stored in a new
// Block. The default factory returns NewCell; worlds with procedural
// terrain generation install their own.
type CellFactory func(pos coord.Coordinate) *Cell

// Block is a Size x Size dense table of cells, anchored at Origin.
type Block struct {
	Origin coord.Coordinate
	Size   int32
	cells  []*Cell
}

// NewBlock builds a Block of size x size cells anchored at origin, filling
// every cell via factory (NewCell if factory is nil).
func NewBlock(origin coord.Coordinate, size int32, factory CellFactory) *Block {
	if factory == nil {
		factory = NewCell
	}
	b := &Block{Origin: origin, Size: size, cells: make([]*Cell, size*size)}
	for dz := int32(0); dz < size; dz++ {
		for dx := int32(0); dx < size; dx++ {
			pos := coord.New(origin.X+dx, origin.Z+dz)
			b.cells[dz*size+dx] = factory(pos)
		}
	}
	return b
}

// Contains reports whether pos falls within b's footprint.
func (b *Block) Contains(pos coord.Coordinate) bool {
	return pos.X >= b.Origin.X && pos.X < b.Origin.X+b.Size &&
		pos.Z >= b.Origin.Z && pos.Z < b.Origin.Z+b.Size
}

// Cell returns the cell at pos, or nil if pos isn't within b.
func (b *Block) Cell(pos coord.Coordinate) *Cell {
	if !b.Contains(pos) {
		return nil
	}
	dx, dz := pos.X-b.Origin.X, pos.Z-b.Origin.Z
	return b.cells[dz*b.Size+dx]
}

// Cells returns every cell in b, in row-major order.
func (b *Block) Cells() []*Cell {
	return b.cells
}
