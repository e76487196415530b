package finder

import (
	"math"
	"testing"

	"github.com/jrjojr/byul-demo-env/coord"
	"github.com/jrjojr/byul-demo-env/gridmap"
	"github.com/jrjojr/byul-demo-env/registry"
)

func openMap(w, h int32) *gridmap.Map {
	return gridmap.New(w, h, gridmap.Diagonal)
}

func baseConfig(m *gridmap.Map, algo Algorithm) Config {
	reg := registry.New()
	cost, _ := reg.Cost("default")
	heuristic, _ := reg.Heuristic("octile")
	return Config{
		Map:       m,
		Algorithm: algo,
		Start:     coord.New(0, 0),
		Goal:      coord.New(4, 4),
		Cost:      cost,
		Heuristic: heuristic,
		MaxRetry:  10000,
		VisitLog:  true,
	}
}

var allAlgorithms = []Algorithm{AStar, Dijkstra, BFS, DFS, WeightedA, IDAStar, RTAStar, SMAStar, Fringe, FastMarch}

// validateRoute checks the universal route invariants: it starts at Start,
// ends at Goal, and every consecutive pair is an actual neighbour relation on
// the map.
func validateRoute(t *testing.T, m *gridmap.Map, cfg Config, route Route) {
	t.Helper()
	if !route.Success {
		t.Fatalf("expected success")
	}
	if route.Coords.IsEmpty() {
		t.Fatalf("route has no coords")
	}
	if route.Coords.At(0) != cfg.Start {
		t.Fatalf("route does not start at Start: got %v", route.Coords.At(0))
	}
	if route.Coords.At(route.Coords.Length()-1) != cfg.Goal {
		t.Fatalf("route does not end at Goal: got %v", route.Coords.At(route.Coords.Length()-1))
	}
	for i := 1; i < route.Coords.Length(); i++ {
		prev, cur := route.Coords.At(i-1), route.Coords.At(i)
		ns := m.Neighbours(prev.X, prev.Z, cfg.User)
		found := false
		for _, n := range ns {
			if n == cur {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("step %v -> %v is not a legal neighbour move", prev, cur)
		}
	}
}

func TestAllAlgorithmsFindRouteOnOpenMap(t *testing.T) {
	m := openMap(8, 8)
	for _, algo := range allAlgorithms {
		algo := algo
		t.Run(string(algo), func(t *testing.T) {
			cfg := baseConfig(m, algo)
			route := Find(cfg)
			validateRoute(t, m, cfg, route)
		})
	}
}

func TestAllAlgorithmsFailOnWalledOffGoal(t *testing.T) {
	m := openMap(8, 8)
	// Wall off (4,4) entirely.
	for dz := int32(-1); dz <= 1; dz++ {
		for dx := int32(-1); dx <= 1; dx++ {
			if dx == 0 && dz == 0 {
				continue
			}
			m.Block(4+dx, 4+dz)
		}
	}
	for _, algo := range allAlgorithms {
		algo := algo
		t.Run(string(algo), func(t *testing.T) {
			cfg := baseConfig(m, algo)
			route := Find(cfg)
			if route.Success {
				t.Fatalf("expected failure, goal is walled off")
			}
			if !math.IsInf(route.Cost, 1) {
				t.Fatalf("expected +Inf cost on failure, got %v", route.Cost)
			}
		})
	}
}

func TestAStarRespectsMaxRetry(t *testing.T) {
	m := openMap(50, 50)
	cfg := baseConfig(m, AStar)
	cfg.Goal = coord.New(49, 49)
	cfg.MaxRetry = 1
	route := Find(cfg)
	if route.Success {
		t.Fatalf("expected exhaustion with MaxRetry=1 over a large map")
	}
	if route.RetryCount > cfg.MaxRetry {
		t.Fatalf("retry count %d exceeds MaxRetry %d", route.RetryCount, cfg.MaxRetry)
	}
}

func TestWeightedAStarUsesUserDataWeight(t *testing.T) {
	m := openMap(8, 8)
	cfg := baseConfig(m, WeightedA)
	cfg.UserData = 2.5
	route := Find(cfg)
	validateRoute(t, m, cfg, route)
}

func TestRTAStarUsesUserDataDepth(t *testing.T) {
	m := openMap(8, 8)
	cfg := baseConfig(m, RTAStar)
	cfg.UserData = 5
	route := Find(cfg)
	validateRoute(t, m, cfg, route)
}

func TestSMAStarBoundedOpenListStillFindsRoute(t *testing.T) {
	m := openMap(8, 8)
	cfg := baseConfig(m, SMAStar)
	cfg.UserData = 4 // force frequent drop/backup cycles
	route := Find(cfg)
	validateRoute(t, m, cfg, route)
}

func TestFringeUsesUserDataDeltaEpsilon(t *testing.T) {
	m := openMap(8, 8)
	cfg := baseConfig(m, Fringe)
	cfg.UserData = 0.5
	route := Find(cfg)
	validateRoute(t, m, cfg, route)
}

func TestFastMarchingFindsRouteAroundObstacle(t *testing.T) {
	m := openMap(8, 8)
	for z := int32(0); z < 6; z++ {
		m.Block(4, z)
	}
	cfg := baseConfig(m, FastMarch)
	route := Find(cfg)
	validateRoute(t, m, cfg, route)
}

func TestBFSReportsEdgeCountAsCost(t *testing.T) {
	m := openMap(8, 8)
	cfg := baseConfig(m, BFS)
	route := Find(cfg)
	validateRoute(t, m, cfg, route)
	if route.Cost != float64(route.Coords.Length()-1) {
		t.Fatalf("BFS cost should equal edge count: cost=%v length=%d", route.Cost, route.Coords.Length())
	}
}

func TestUnknownAlgorithmFails(t *testing.T) {
	m := openMap(4, 4)
	cfg := baseConfig(m, Algorithm("not-a-real-algorithm"))
	route := Find(cfg)
	if route.Success {
		t.Fatalf("expected unknown algorithm to fail")
	}
}
