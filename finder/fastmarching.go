package finder

import "github.com/jrjojr/byul-demo-env/registry"

// findFastMarching propagates arrival times outward from start the way the
// fast marching method propagates a wavefront across a grid: a Dijkstra
// expansion forced onto the diagonal cost function so the octagonal
// neighbourhood advances at a uniform per-step rate regardless of the
// caller's chosen cost function.
func findFastMarching(cfg Config) Route {
	propagationCfg := cfg
	propagationCfg.Cost = registry.DiagonalCost
	return findDijkstra(propagationCfg)
}
