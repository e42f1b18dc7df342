package scene

import "github.com/ivlev/dolly2video/internal/effects"

// Frame is one render pass: the snapshot it was computed from and the
// resulting per-layer states, in layer order.
type Frame struct {
	Snapshot
	BreakpointIndex int
	PageHeight      int
	Layers          []effects.LayerState
}

// Projector writes a computed frame to its target. Apply is called with the
// controller lock held and must not call back into the controller.
type Projector interface {
	Apply(f Frame)
}

// ProjectorFunc adapts a function to Projector.
type ProjectorFunc func(f Frame)

func (fn ProjectorFunc) Apply(f Frame) { fn(f) }
