package world

import (
	"time"

	"github.com/jrjojr/byul-demo-env/block"
	"github.com/jrjojr/byul-demo-env/coord"
)

func (w *World) rectAround(x, z int32) block.Rect {
	return block.Rect{
		X0: x - w.cfg.ViewportHalfWidth, Z0: z - w.cfg.ViewportHalfHeight,
		X1: x + w.cfg.ViewportHalfWidth, Z1: z + w.cfg.ViewportHalfHeight,
	}
}

// SetViewportCenter jumps the viewport to (x, z) and requests halo loading
// around it (spec §6: "absolute jump; halo prefetch").
func (w *World) SetViewportCenter(x, z int32) {
	w.mu.Lock()
	w.lastViewport = coord.New(x, z)
	w.mu.Unlock()

	w.blocks.LoadBlocksAroundRect(w.rectAround(x, z), w.cfg.PrefetchExpand, 0)
	w.detector.Reset()

	if w.hooks.ViewportChange != nil {
		w.hooks.ViewportChange(x, z)
	}
}

// MoveViewport shifts the viewport centre by (dx, dz)*distance. A
// direction the route-change detector judges stable (HasChanged == false)
// switches to motion-predictive forward prefetch along (dx, dz); a fresh
// turn falls back to halo loading for this tick, since forward prediction
// along the old direction would be wrong (spec §4.9).
func (w *World) MoveViewport(dx, dz, distance int32) {
	w.mu.Lock()
	from := w.lastViewport
	to := coord.New(from.X+dx*distance, from.Z+dz*distance)
	w.lastViewport = to
	w.mu.Unlock()

	turned := w.detector.HasChanged(float64(from.X), float64(from.Z), float64(to.X), float64(to.Z), w.cfg.TurnThresholdDeg)
	rect := w.rectAround(to.X, to.Z)
	if turned {
		w.blocks.LoadBlocksAroundRect(rect, w.cfg.PrefetchExpand, w.cfg.PrefetchOffset)
	} else {
		w.blocks.LoadBlocksForwardForRect(rect, dx, dz, w.cfg.PrefetchDistance)
	}

	if w.hooks.ViewportChange != nil {
		w.hooks.ViewportChange(to.X, to.Z)
	}
}

// SetTickIntervalMsec records the host's requested tick cadence; the host
// (not World) owns the actual timer, since spec §5 requires the foreground
// to never block on its own I/O.
func (w *World) SetTickIntervalMsec(n int) {
	w.mu.Lock()
	w.tickInterval = time.Duration(n) * time.Millisecond
	w.mu.Unlock()
}

// TickIntervalMsec returns the configured cadence in milliseconds.
func (w *World) TickIntervalMsec() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.tickInterval.Milliseconds()
}
