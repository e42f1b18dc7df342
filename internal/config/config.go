package config

import "time"

const (
	DefaultSpeed            = 8
	DefaultLayerDepth       = 1000
	DefaultSpeedDelta       = 200
	DefaultTransitionLength = 200
	DefaultResizeDebounce   = 300 * time.Millisecond
	DefaultFrameRate        = 60
)

// Config is the run configuration of the dolly2video CLI.
type Config struct {
	ScenePath     string
	InputPath     string
	OutputVideo   string
	TotalDuration float64
	Width         int
	Height        int
	FPS           int
	Workers       int
	DPI           int
	Anchor        string
	Quality       int
	VideoEncoder  string
	Debug         bool
	Strict        bool
	ShowStats     bool
	BuildVersion  string
}

// SceneOptions mirrors the scene and layer attributes as typed fields.
// Attribute values found on the container win over these.
type SceneOptions struct {
	LayerDepth        int
	SpeedDelta        int
	TransitionLength  int
	Breakpoints       []int
	Inpoints          []float64 // first layer only
	Top               int
	ViewportWidth     int
	ViewportHeight    int
	ResizeDebounce    time.Duration
	StrictBreakpoints bool
	Layers            []LayerOptions
}

// LayerOptions are the programmatic per-layer settings, indexed by layer ordinal.
type LayerOptions struct {
	Inpoints        []float64
	Outpoints       []float64
	Speed           []float64
	Transitions     *bool
	TransitionStart []float64
	TransitionEnd   []float64
	Scale           float64
}

// WithDefaults fills zero-valued fields with the package defaults.
func (o SceneOptions) WithDefaults() SceneOptions {
	if o.LayerDepth <= 0 {
		o.LayerDepth = DefaultLayerDepth
	}
	if o.SpeedDelta == 0 {
		o.SpeedDelta = DefaultSpeedDelta
	}
	if o.TransitionLength <= 0 {
		o.TransitionLength = DefaultTransitionLength
	}
	if o.ResizeDebounce <= 0 {
		o.ResizeDebounce = DefaultResizeDebounce
	}
	return o
}

// Layer returns the options of layer i, or the zero value if none were given.
func (o SceneOptions) Layer(i int) LayerOptions {
	if i < 0 || i >= len(o.Layers) {
		return LayerOptions{}
	}
	return o.Layers[i]
}

type FrameParams struct {
	Width, Height int
	FPS           int
	Duration      float64
	Quality       int
	Encoder       string
	FrameCount    int
}
