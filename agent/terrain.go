package agent

import "github.com/jrjojr/byul-demo-env/block"

// TerrainSet is the subset of terrain tags an agent can move across.
type TerrainSet map[block.Terrain]struct{}

// NewTerrainSet returns a TerrainSet containing exactly the given terrains.
func NewTerrainSet(terrains ...block.Terrain) TerrainSet {
	s := make(TerrainSet, len(terrains))
	for _, t := range terrains {
		s[t] = struct{}{}
	}
	return s
}

// Contains reports whether t is in the set.
func (s TerrainSet) Contains(t block.Terrain) bool {
	_, ok := s[t]
	return ok
}

// AllTerrain is a TerrainSet tolerating every non-FORBIDDEN terrain tag,
// used by agents with no specific terrain restriction.
func AllTerrain() TerrainSet {
	return NewTerrainSet(block.Normal, block.Water, block.Mountain, block.Forest)
}
