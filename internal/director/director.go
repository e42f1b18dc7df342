package director

import (
	"fmt"

	"github.com/ivlev/dolly2video/internal/config"
	"github.com/ivlev/dolly2video/internal/scene"
)

// Director builds default scene files: one layer per input image and a
// scroll path that sweeps the whole page.
type Director struct {
	ViewportWidth  int
	ViewportHeight int
	Intro          float64 // seconds held at the top
	Outro          float64 // seconds held at the bottom
	Options        config.SceneOptions
}

// NewDirector creates a new Director with default settings.
func NewDirector(viewportWidth, viewportHeight int) *Director {
	return &Director{
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
		Intro:          1.0,
		Outro:          1.0,
	}
}

// GenerateScene creates a scene with a layer per input and a scroll path
// from the top of the page to its bottom over totalDuration seconds. Inputs
// are image paths; an empty input leaves the layer image to the caller.
func (d *Director) GenerateScene(inputs []string, totalDuration float64) (*SceneFile, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no layer inputs")
	}
	if totalDuration <= 0 {
		return nil, fmt.Errorf("invalid duration %.2f", totalDuration)
	}

	f := &SceneFile{
		Version:    "1.0",
		Viewport:   Viewport{Width: d.ViewportWidth, Height: d.ViewportHeight},
		Attributes: map[string]string{},
	}
	for _, in := range inputs {
		f.Layers = append(f.Layers, LayerSpec{
			Image:      in,
			Attributes: map[string]string{},
		})
	}

	maxScroll := d.maxScroll(f)
	f.Scroll = d.scrollPath(maxScroll, totalDuration)
	return f, nil
}

func (d *Director) maxScroll(f *SceneFile) int {
	opts := d.Options
	opts.ViewportWidth = d.ViewportWidth
	opts.ViewportHeight = d.ViewportHeight

	s := scene.NewScene(f.Container(), opts)
	s.Reset(d.ViewportWidth)
	return s.MaxScroll(d.ViewportHeight)
}

func (d *Director) scrollPath(maxScroll int, total float64) []ScrollKeyframe {
	intro, outro := d.Intro, d.Outro
	// Short sessions have no room for holds.
	if intro+outro >= total {
		intro, outro = 0, 0
	}

	path := []ScrollKeyframe{{Time: 0, Scroll: 0}}
	if intro > 0 {
		path = append(path, ScrollKeyframe{Time: intro, Scroll: 0})
	}
	path = append(path, ScrollKeyframe{Time: total - outro, Scroll: maxScroll, Easing: "ease-in-out"})
	if outro > 0 {
		path = append(path, ScrollKeyframe{Time: total, Scroll: maxScroll})
	}
	return path
}
