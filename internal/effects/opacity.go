package effects

import (
	"math"

	"github.com/ivlev/dolly2video/internal/layer"
)

// Phase is where a scroll position falls relative to a layer's window.
type Phase int

const (
	// PhaseHidden: outside the window, not drawn.
	PhaseHidden Phase = iota
	// PhaseBackdrop: first layer before its inpoint, shown fully opaque.
	PhaseBackdrop
	// PhaseHeld: last layer past its outpoint, kept visible.
	PhaseHeld
	// PhaseActive: inside the window, or always when transitions are off.
	PhaseActive
)

func (p Phase) String() string {
	switch p {
	case PhaseBackdrop:
		return "backdrop"
	case PhaseHeld:
		return "held"
	case PhaseActive:
		return "active"
	}
	return "hidden"
}

// Active reports whether scrollPos lies inside [inpoint, outpoint]. Without
// transitions a layer is always active.
func Active(scrollPos float64, p layer.Params) bool {
	if !p.Transitions {
		return true
	}
	return scrollPos >= p.Inpoint && scrollPos <= p.Outpoint
}

// Opacity returns the layer opacity at scrollPos together with the phase that produced it.
func Opacity(scrollPos float64, p layer.Params, isFirst, isLast bool) (float64, Phase) {
	switch {
	case isFirst && scrollPos < p.Inpoint:
		return 1, PhaseBackdrop
	case isLast && scrollPos > p.Outpoint:
		return 1, PhaseHeld
	case Active(scrollPos, p):
		if !p.Transitions {
			return 1, PhaseActive
		}
		in := 1.0
		if !isFirst {
			in = ramp(scrollPos-p.Inpoint, p.TransitionStart)
		}
		out := 1.0
		if !isLast {
			out = ramp(p.Outpoint-scrollPos, p.TransitionEnd)
		}
		return math.Min(in, out), PhaseActive
	}
	return 0, PhaseHidden
}

// ramp maps a distance into [0, 1] over a window. A window of zero length or
// less counts as already transitioned.
func ramp(distance, window float64) float64 {
	if window <= 0 {
		return 1
	}
	return math.Max(0, math.Min(distance, window)) / window
}
