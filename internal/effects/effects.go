package effects

import "github.com/ivlev/dolly2video/internal/layer"

// LayerState is the computed visual state of one layer for one scroll position.
type LayerState struct {
	Index        int
	ZIndex       int
	Phase        Phase
	Opacity      float64
	Scale        float64
	ScaleApplied bool // false: keep whatever scale was last applied
}

// Evaluate runs the opacity state machine for layer l of a stack of count
// layers and applies the scale post-condition: the scale is written whenever
// the layer is active or its transitions are disabled.
func Evaluate(scrollPos float64, l *layer.Layer, count int) LayerState {
	isFirst := l.Index == 0
	isLast := l.Index == count-1

	opacity, phase := Opacity(scrollPos, l.Params, isFirst, isLast)
	st := LayerState{
		Index:   l.Index,
		ZIndex:  l.ZIndex,
		Phase:   phase,
		Opacity: opacity,
	}
	if phase == PhaseActive || !l.Params.Transitions {
		st.Scale = Scale(scrollPos, l.Params, l.OriginalScale)
		st.ScaleApplied = true
	}
	return st
}

// EvaluateAll evaluates every layer in order.
func EvaluateAll(scrollPos float64, layers []*layer.Layer) []LayerState {
	states := make([]LayerState, len(layers))
	for i, l := range layers {
		states[i] = Evaluate(scrollPos, l, len(layers))
	}
	return states
}
