package effects

import (
	"math"
	"testing"

	"github.com/ivlev/dolly2video/internal/layer"
)

func params(in, out float64) layer.Params {
	return layer.Params{
		Inpoint:         in,
		Outpoint:        out,
		Depth:           out - in,
		Speed:           8,
		Transitions:     true,
		TransitionStart: 200,
		TransitionEnd:   200,
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScale(t *testing.T) {
	tests := []struct {
		name string
		pos  float64
		p    layer.Params
		orig float64
		want float64
	}{
		{"at inpoint", 500, params(500, 1500), 1, 1},
		{"speed 50", 200, layer.Params{Inpoint: 0, Speed: 50}, 1, 2},
		{"speed clamped to 100", 100, layer.Params{Inpoint: 0, Speed: 400}, 1, 2},
		{"before inpoint shrinks", 990, layer.Params{Inpoint: 1000, Speed: 100}, 1, 0.9},
		{"never negative", 0, layer.Params{Inpoint: 100000, Speed: 100}, 1, 0},
		{"negative speed shrinks", 10, layer.Params{Inpoint: 0, Speed: -50}, 1, 0.95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Scale(tt.pos, tt.p, tt.orig); !approx(got, tt.want) {
				t.Errorf("Scale = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScaleMonotonic(t *testing.T) {
	p := layer.Params{Inpoint: 0, Speed: 8}
	prev := Scale(0, p, 1)
	for pos := 10.0; pos < 5000; pos += 10 {
		s := Scale(pos, p, 1)
		if s < prev {
			t.Fatalf("scale decreased at %v: %v < %v", pos, s, prev)
		}
		prev = s
	}
}

func TestOpacityMiddleLayer(t *testing.T) {
	p := params(1000, 2000)

	tests := []struct {
		pos   float64
		want  float64
		phase Phase
	}{
		{999, 0, PhaseHidden},
		{1000, 0, PhaseActive},
		{1100, 0.5, PhaseActive},
		{1200, 1, PhaseActive},
		{1500, 1, PhaseActive},
		{1900, 0.5, PhaseActive},
		{2000, 0, PhaseActive},
		{2001, 0, PhaseHidden},
	}

	for _, tt := range tests {
		got, phase := Opacity(tt.pos, p, false, false)
		if !approx(got, tt.want) || phase != tt.phase {
			t.Errorf("pos %v: got %v (%s), want %v (%s)", tt.pos, got, phase, tt.want, tt.phase)
		}
	}
}

func TestOpacityFirstLayer(t *testing.T) {
	p := params(1000, 2000)

	if got, phase := Opacity(999, p, true, false); got != 1 || phase != PhaseBackdrop {
		t.Errorf("before inpoint: got %v (%s), want 1 (backdrop)", got, phase)
	}
	// No fade-in for the first layer.
	if got, _ := Opacity(1000, p, true, false); got != 1 {
		t.Errorf("at inpoint: got %v, want 1", got)
	}
	if got, _ := Opacity(1950, p, true, false); !approx(got, 0.25) {
		t.Errorf("fade-out: got %v, want 0.25", got)
	}
	if got, _ := Opacity(2001, p, true, false); got != 0 {
		t.Errorf("past outpoint: got %v, want 0", got)
	}
}

func TestOpacityLastLayer(t *testing.T) {
	p := params(1000, 2000)

	if got, phase := Opacity(2001, p, false, true); got != 1 || phase != PhaseHeld {
		t.Errorf("after outpoint: got %v (%s), want 1 (held)", got, phase)
	}
	// No fade-out for the last layer.
	if got, _ := Opacity(2000, p, false, true); got != 1 {
		t.Errorf("at outpoint: got %v, want 1", got)
	}
	if got, _ := Opacity(1050, p, false, true); !approx(got, 0.25) {
		t.Errorf("fade-in: got %v, want 0.25", got)
	}
	if got, _ := Opacity(500, p, false, true); got != 0 {
		t.Errorf("before inpoint: got %v, want 0", got)
	}
}

func TestOpacityNonFirstBeforeInpointIsZero(t *testing.T) {
	p := params(1000, 2000)
	for pos := 0.0; pos < 1000; pos += 50 {
		if got, _ := Opacity(pos, p, false, false); got != 0 {
			t.Fatalf("pos %v: expected 0, got %v", pos, got)
		}
		if got, _ := Opacity(pos, p, false, true); got != 0 {
			t.Fatalf("last layer pos %v: expected 0, got %v", pos, got)
		}
	}
}

func TestOpacityTransitionsDisabled(t *testing.T) {
	p := params(1000, 2000)
	p.Transitions = false
	for _, pos := range []float64{0, 999, 1000, 1500, 2000, 5000} {
		got, phase := Opacity(pos, p, false, false)
		if got != 1 || phase != PhaseActive {
			t.Errorf("pos %v: got %v (%s), want 1 (active)", pos, got, phase)
		}
	}
}

func TestOpacityZeroTransitionWindow(t *testing.T) {
	p := params(1000, 2000)
	p.TransitionStart = 0
	p.TransitionEnd = 0

	for _, pos := range []float64{1000, 1500, 2000} {
		got, _ := Opacity(pos, p, false, false)
		if math.IsNaN(got) || math.IsInf(got, 0) || got != 1 {
			t.Errorf("pos %v: zero-length windows should read as fully transitioned, got %v", pos, got)
		}
	}
}

func TestEvaluateScalePostCondition(t *testing.T) {
	mk := func(index int, transitions bool) *layer.Layer {
		l := &layer.Layer{Index: index, OriginalScale: 1, Transitions: transitions}
		l.Params = params(1000, 2000)
		l.Params.Transitions = transitions
		l.Params.Speed = 1
		return l
	}

	// Active layers scale.
	st := Evaluate(1500, mk(1, true), 3)
	if !st.ScaleApplied || !approx(st.Scale, 1.05) {
		t.Errorf("active layer: applied=%v scale=%v", st.ScaleApplied, st.Scale)
	}

	// Hidden layers keep their previous scale.
	st = Evaluate(500, mk(1, true), 3)
	if st.ScaleApplied {
		t.Error("hidden layer should not apply a scale")
	}

	// The last layer with transitions on is held without scaling.
	st = Evaluate(3000, mk(2, true), 3)
	if st.Phase != PhaseHeld || st.ScaleApplied {
		t.Errorf("held last layer: phase=%s applied=%v", st.Phase, st.ScaleApplied)
	}

	// The last layer with transitions off keeps animating past its outpoint.
	st = Evaluate(3000, mk(2, false), 3)
	if st.Phase != PhaseHeld || !st.ScaleApplied || !approx(st.Scale, 1.2) {
		t.Errorf("last layer without transitions: phase=%s applied=%v scale=%v", st.Phase, st.ScaleApplied, st.Scale)
	}
	if st.Opacity != 1 {
		t.Errorf("expected opacity 1, got %v", st.Opacity)
	}
}

func TestEvaluateAll(t *testing.T) {
	layers := make([]*layer.Layer, 3)
	for i := range layers {
		layers[i] = &layer.Layer{Index: i, ZIndex: 3 - i, OriginalScale: 1, Transitions: true}
		layers[i].Params = params(float64(i*800), float64(i*800+1000))
	}

	states := EvaluateAll(0, layers)
	if len(states) != 3 {
		t.Fatalf("expected 3 states, got %d", len(states))
	}
	if states[0].Opacity != 1 || states[0].ZIndex != 3 {
		t.Errorf("first layer: %+v", states[0])
	}
	if states[1].Opacity != 0 || states[2].Opacity != 0 {
		t.Errorf("later layers should be hidden at 0: %+v %+v", states[1], states[2])
	}
}
