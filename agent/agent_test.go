package agent

import (
	"math"
	"testing"

	"github.com/jrjojr/byul-demo-env/block"
	"github.com/jrjojr/byul-demo-env/coord"
)

func TestGoalQueueFIFO(t *testing.T) {
	a := New("a1", coord.New(0, 0), DStarLite, 5, 1)
	a.AppendGoal(coord.New(1, 1))
	a.AppendGoal(coord.New(2, 2))

	g, ok := a.NextGoal()
	if !ok || g != coord.New(1, 1) {
		t.Fatalf("expected (1,1) first, got %v ok=%v", g, ok)
	}
	g, ok = a.NextGoal()
	if !ok || g != coord.New(2, 2) {
		t.Fatalf("expected (2,2) second, got %v ok=%v", g, ok)
	}
	if _, ok = a.NextGoal(); ok {
		t.Fatalf("expected empty queue")
	}
}

func TestSetGoalClearsQueue(t *testing.T) {
	a := New("a1", coord.New(0, 0), DStarLite, 5, 1)
	a.AppendGoal(coord.New(1, 1))
	a.SetGoal(coord.New(9, 9))
	if a.GoalQueue.Length() != 1 {
		t.Fatalf("expected single queued goal, got %d", a.GoalQueue.Length())
	}
	g, _ := a.NextGoal()
	if g != coord.New(9, 9) {
		t.Fatalf("expected (9,9), got %v", g)
	}
}

func TestBeginPlanningIsExclusive(t *testing.T) {
	a := New("a1", coord.New(0, 0), DStarLite, 5, 1)
	if !a.BeginPlanning() {
		t.Fatalf("expected first BeginPlanning to succeed")
	}
	if a.BeginPlanning() {
		t.Fatalf("expected second BeginPlanning to fail while still in flight")
	}
	a.FinishPlanning()
	if !a.BeginPlanning() {
		t.Fatalf("expected BeginPlanning to succeed again after FinishPlanning")
	}
}

func TestIntervalMsecZeroSpeedIsInfinite(t *testing.T) {
	a := New("a1", coord.New(0, 0), DStarLite, 0, 1)
	if !math.IsInf(a.IntervalMsec(), 1) {
		t.Fatalf("expected +Inf interval at zero speed, got %v", a.IntervalMsec())
	}
}

func TestIsBlockedForCellForbiddenAlwaysBlocked(t *testing.T) {
	a := New("a1", coord.New(0, 0), DStarLite, 5, 1)
	a.MovableTerrain = AllTerrain()
	c := block.NewCell(coord.New(1, 1))
	c.Terrain = block.Forbidden
	if !IsBlockedForCell(c, a) {
		t.Fatalf("expected FORBIDDEN cell to be blocked regardless of movable terrain")
	}
}

func TestIsBlockedForCellOwnOccupancyIsNotBlocking(t *testing.T) {
	a := New("a1", coord.New(1, 1), DStarLite, 5, 1)
	c := block.NewCell(coord.New(1, 1))
	c.AddAgent(a.ID)
	if IsBlockedForCell(c, a) {
		t.Fatalf("an agent's own cell must not be blocked by its own occupancy")
	}
}

func TestIsBlockedForCellOtherAgentOccupancyBlocks(t *testing.T) {
	a := New("a1", coord.New(1, 1), DStarLite, 5, 1)
	c := block.NewCell(coord.New(1, 1))
	c.AddAgent("someone-else")
	if !IsBlockedForCell(c, a) {
		t.Fatalf("expected cell occupied by another agent to be blocked")
	}
}

func TestIsBlockedForCellMovableTerrainRestriction(t *testing.T) {
	a := New("a1", coord.New(0, 0), DStarLite, 5, 1)
	a.MovableTerrain = NewTerrainSet(block.Normal)
	c := block.NewCell(coord.New(1, 1))
	c.Terrain = block.Water
	if !IsBlockedForCell(c, a) {
		t.Fatalf("expected WATER to be blocked for an agent restricted to NORMAL")
	}
}
