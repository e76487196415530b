package agent

import (
	"github.com/go-gl/mathgl/mgl64"
)

// animatorEpsilon is the displacement tolerance below which Animator
// considers a step complete, rather than requiring an exact float match.
const animatorEpsilon = 1e-6

// startDelaySec is the per-agent motion lag spec.md §4.7 describes ("for
// smoother visuals"): the animator accumulates elapsed time before it
// begins advancing displacement.
const startDelaySec = 0.0

// Animator interpolates an Agent's sub-cell displacement from one cell to
// the next, tick by tick, raising OnComplete when the step finishes.
type Animator struct {
	DirDX, DirDZ   float64
	DispDX, DispDZ float64
	Running        bool
	totalElapsed   float64

	// OnComplete, if set, is invoked when a step finishes, before state is
	// reset for the next step.
	OnComplete func()
}

// NewAnimator returns an idle Animator at zero displacement.
func NewAnimator() *Animator {
	return &Animator{}
}

// Start begins a step toward the unit direction (dx, dz) in cell space.
func (an *Animator) Start(dx, dz float64) {
	an.DirDX, an.DirDZ = dx, dz
	an.DispDX, an.DispDZ = 0, 0
	an.Running = true
	an.totalElapsed = 0
}

// Tick advances the animator by dtSeconds at speedKmh (agent speed) over a
// cell of side gridUnitM metres. Once both displacement components reach
// their target (within animatorEpsilon) the step completes: OnComplete
// fires, displacement resets to zero and Running becomes false.
func (an *Animator) Tick(dtSeconds, speedKmh, gridUnitM float64) {
	if !an.Running {
		return
	}
	an.totalElapsed += dtSeconds
	if an.totalElapsed < startDelaySec {
		return
	}

	cellsPerSec := 0.0
	if gridUnitM > 0 {
		cellsPerSec = (speedKmh * 1000 / 3600) / gridUnitM
	}
	step := cellsPerSec * dtSeconds

	an.DispDX = advanceToward(an.DispDX, an.DirDX, step)
	an.DispDZ = advanceToward(an.DispDZ, an.DirDZ, step)

	if (mgl64.Vec2{an.DirDX - an.DispDX, an.DirDZ - an.DispDZ}).Len() < animatorEpsilon {
		an.complete()
	}
}

func (an *Animator) complete() {
	if an.OnComplete != nil {
		an.OnComplete()
	}
	an.DispDX, an.DispDZ = 0, 0
	an.Running = false
}

// advanceToward moves cur toward target by at most step, clamping at
// target (and never overshooting past it).
func advanceToward(cur, target, step float64) float64 {
	if cur < target {
		cur += step
		if cur > target {
			cur = target
		}
		return cur
	}
	if cur > target {
		cur -= step
		if cur < target {
			cur = target
		}
		return cur
	}
	return cur
}
