package registry

import (
	"errors"
	"testing"

	"github.com/jrjojr/byul-demo-env/coord"
)

func TestBundledFunctionsPresent(t *testing.T) {
	r := New()
	for _, name := range []string{"default", "zero", "diagonal"} {
		if _, err := r.Cost(name); err != nil {
			t.Fatalf("expected cost %q registered: %v", name, err)
		}
	}
	for _, name := range []string{"euclidean", "manhattan", "chebyshev", "octile", "zero", "dstarlite"} {
		if _, err := r.Heuristic(name); err != nil {
			t.Fatalf("expected heuristic %q registered: %v", name, err)
		}
	}
}

func TestUnknownFunctionErrors(t *testing.T) {
	r := New()
	_, err := r.Cost("nonexistent")
	var target *ErrUnknownFunction
	if !errors.As(err, &target) {
		t.Fatalf("expected ErrUnknownFunction, got %v", err)
	}
}

func TestNamespacesAreSeparate(t *testing.T) {
	r := New()
	r.RegisterCost("custom-only-cost", ZeroCost)
	if _, err := r.Heuristic("custom-only-cost"); err == nil {
		t.Fatal("expected cost-only name absent from heuristic namespace")
	}
}

func TestOctileHeuristicDiagonal(t *testing.T) {
	got := OctileHeuristic(coord.New(0, 0), coord.New(3, 3))
	want := 3 * 1.4142135623730951
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("got %v want %v", got, want)
	}
}
