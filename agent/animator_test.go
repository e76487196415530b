package agent

import "testing"

func TestAnimatorCompletesStepAndResets(t *testing.T) {
	an := NewAnimator()
	completed := false
	an.OnComplete = func() { completed = true }

	an.Start(1, 0)
	// speed 1.8 km/h over a 1m grid cell => 0.5 cell/sec; two 1s ticks cover it.
	an.Tick(1, 1.8, 1)
	if !an.Running {
		t.Fatalf("expected animator still running after a partial tick")
	}
	an.Tick(1, 1.8, 1)
	if an.Running {
		t.Fatalf("expected animator to finish the step")
	}
	if !completed {
		t.Fatalf("expected OnComplete to fire")
	}
	if an.DispDX != 0 || an.DispDZ != 0 {
		t.Fatalf("expected displacement reset to zero, got (%v,%v)", an.DispDX, an.DispDZ)
	}
}

func TestAnimatorIdleTickIsNoop(t *testing.T) {
	an := NewAnimator()
	an.Tick(1, 10, 1)
	if an.Running {
		t.Fatalf("expected idle animator to remain idle")
	}
}
