package scene

import (
	"github.com/ivlev/dolly2video/internal/breakpoint"
	"github.com/ivlev/dolly2video/internal/config"
	"github.com/ivlev/dolly2video/internal/effects"
	"github.com/ivlev/dolly2video/internal/layer"
)

// Snapshot is the immutable input of one evaluation pass.
type Snapshot struct {
	ScrollPos      int
	ViewportWidth  int
	ViewportHeight int
}

// Scene is the ordered layer stack and the scroll range it spans.
type Scene struct {
	Layers           []*layer.Layer
	LayerDepth       int
	SpeedDelta       int
	TransitionLength int
	Breakpoints      []int
	Inpoints         []float64 // first layer inpoints set on the scene
	Top              int
	Strict           bool

	BreakpointIndex int
	ContainerHeight int
	MinHeight       int
}

// NewScene reads the scene and layer attributes of c. Layer z-indexes are
// assigned so earlier layers stack above later ones. Params stay unresolved
// until Reset.
func NewScene(c *Container, opts config.SceneOptions) *Scene {
	opts = opts.WithDefaults()

	s := &Scene{
		LayerDepth:       opts.LayerDepth,
		SpeedDelta:       opts.SpeedDelta,
		TransitionLength: opts.TransitionLength,
		Breakpoints:      breakpoint.Normalize(opts.Breakpoints),
		Inpoints:         opts.Inpoints,
		Top:              opts.Top,
		Strict:           opts.StrictBreakpoints,
		ContainerHeight:  c.Height,
	}
	if v, ok := c.sceneAttr(layer.AttrBreakpoints); ok {
		s.Breakpoints = breakpoint.Parse(v)
	}
	if v, ok := c.sceneAttr(layer.AttrInpoints); ok {
		if in := layer.ParseList(v); in != nil {
			s.Inpoints = in
		}
	}

	count := len(c.Layers)
	s.Layers = make([]*layer.Layer, count)
	for i, el := range c.Layers {
		l := layer.New(i, el.Attributes, opts.Layer(i))
		l.ZIndex = count - i
		s.Layers[i] = l
	}
	return s
}

// Reset selects the breakpoint for width and re-resolves every layer in
// order, since default inpoints chain on the previous layer's outpoint.
func (s *Scene) Reset(width int) {
	s.BreakpointIndex = breakpoint.Resolve(s.Breakpoints, width)

	d := layer.Defaults{
		BreakpointIndex:  s.BreakpointIndex,
		LayerDepth:       float64(s.LayerDepth),
		TransitionLength: float64(s.TransitionLength),
		Speed:            config.DefaultSpeed,
		Strict:           s.Strict,
	}
	for i, l := range s.Layers {
		if i == 0 {
			d.Inpoints = s.Inpoints
			if len(d.Inpoints) == 0 {
				d.Inpoints = []float64{float64(s.Top)}
			}
		} else {
			d.Inpoints = []float64{s.Layers[i-1].Params.Outpoint - float64(s.SpeedDelta)}
		}
		l.Reset(d)
	}

	s.MinHeight = s.minHeight()
}

func (s *Scene) minHeight() int {
	count := len(s.Layers)
	h := 0
	if count > 0 {
		h = count*(s.LayerDepth+s.TransitionLength) - (count-1)*s.SpeedDelta
	}
	if h < s.ContainerHeight {
		h = s.ContainerHeight
	}
	return h
}

// PageHeight is the scrollable height of the container.
func (s *Scene) PageHeight() int {
	if s.MinHeight > s.ContainerHeight {
		return s.MinHeight
	}
	return s.ContainerHeight
}

// MaxScroll is the largest scroll position reachable for a viewport height.
func (s *Scene) MaxScroll(viewportHeight int) int {
	m := s.PageHeight() - viewportHeight
	if m < 0 {
		return 0
	}
	return m
}

// Evaluate computes the state of every layer for snap. It does not mutate the scene.
func (s *Scene) Evaluate(snap Snapshot) []effects.LayerState {
	return effects.EvaluateAll(float64(snap.ScrollPos), s.Layers)
}

// Params returns a copy of the resolved params of every layer.
func (s *Scene) Params() []layer.Params {
	out := make([]layer.Params, len(s.Layers))
	for i, l := range s.Layers {
		out[i] = l.Params
	}
	return out
}
