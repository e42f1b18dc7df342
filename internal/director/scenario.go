package director

import "github.com/ivlev/dolly2video/internal/scene"

// SceneFile describes a scene, its viewport and a scripted scroll session.
type SceneFile struct {
	Version    string            `yaml:"version"`
	Viewport   Viewport          `yaml:"viewport"`
	Height     int               `yaml:"height,omitempty"` // container height in pixels
	Attributes map[string]string `yaml:"scene,omitempty"`  // scene wrapper attributes
	Layers     []LayerSpec       `yaml:"layers"`
	Scroll     []ScrollKeyframe  `yaml:"scroll,omitempty"`
	Resizes    []ResizeEvent     `yaml:"resizes,omitempty"`
}

// Viewport is the initial viewport size in pixels.
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// LayerSpec is one layer element and the image drawn for it.
type LayerSpec struct {
	Image      string            `yaml:"image,omitempty"`
	Attributes map[string]string `yaml:"attributes,omitempty"`
}

// ScrollKeyframe pins the scroll position at a point in time.
type ScrollKeyframe struct {
	Time   float64 `yaml:"time"`   // seconds
	Scroll int     `yaml:"scroll"` // pixels
	Easing string  `yaml:"easing,omitempty"`
}

// ResizeEvent changes the viewport at a point in time.
type ResizeEvent struct {
	Time   float64 `yaml:"time"`
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
}

// Container builds the container model of the scene file.
func (f *SceneFile) Container() *scene.Container {
	c := &scene.Container{
		Scene:  &scene.Element{Attributes: copyAttrs(f.Attributes)},
		Height: f.Height,
	}
	for _, l := range f.Layers {
		c.Layers = append(c.Layers, scene.Element{Attributes: copyAttrs(l.Attributes)})
	}
	return c
}

// Duration is the time of the last scroll keyframe or resize.
func (f *SceneFile) Duration() float64 {
	d := 0.0
	for _, kf := range f.Scroll {
		if kf.Time > d {
			d = kf.Time
		}
	}
	for _, r := range f.Resizes {
		if r.Time > d {
			d = r.Time
		}
	}
	return d
}

func copyAttrs(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
