package layer

import "fmt"

// Ref holds the raw per-breakpoint arrays as configured. A nil slice means
// the value is derived from the scene defaults on every reset.
type Ref struct {
	Inpoints         []float64
	Outpoints        []float64
	Speeds           []float64
	TransitionStarts []float64
	TransitionEnds   []float64
}

// Params are the values resolved for the current breakpoint.
type Params struct {
	Inpoint         float64
	Outpoint        float64
	Depth           float64
	Speed           float64
	Transitions     bool
	TransitionStart float64
	TransitionEnd   float64
}

// Layer is one animated element of a scene.
type Layer struct {
	Index         int
	ZIndex        int
	Ref           Ref
	OriginalScale float64
	Transitions   bool
	Params        Params
}

// Defaults carries the scene-level values a reset derives missing parameters from.
type Defaults struct {
	BreakpointIndex  int
	Inpoints         []float64 // derived inpoint list for this ordinal
	LayerDepth       float64
	TransitionLength float64
	Speed            float64
	Strict           bool
}

// Reset recomputes Params for the breakpoint in d. Ref is left untouched.
func (l *Layer) Reset(d Defaults) {
	idx := d.BreakpointIndex

	defaultIn := resolveOr(d.Inpoints, idx, d.Strict, 0)
	in := resolveOr(l.Ref.Inpoints, idx, d.Strict, defaultIn)
	out := resolveOr(l.Ref.Outpoints, idx, d.Strict, in+d.LayerDepth)

	l.Params = Params{
		Inpoint:         in,
		Outpoint:        out,
		Depth:           out - in,
		Speed:           resolveOr(l.Ref.Speeds, idx, d.Strict, d.Speed),
		Transitions:     l.Transitions,
		TransitionStart: resolveOr(l.Ref.TransitionStarts, idx, d.Strict, d.TransitionLength),
		TransitionEnd:   resolveOr(l.Ref.TransitionEnds, idx, d.Strict, d.TransitionLength),
	}
}

func (l *Layer) String() string {
	return fmt.Sprintf("layer %d [%.0f..%.0f] speed=%.0f z=%d", l.Index, l.Params.Inpoint, l.Params.Outpoint, l.Params.Speed, l.ZIndex)
}
