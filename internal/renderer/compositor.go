package renderer

import (
	"image"
	"image/color"
	"sort"

	"golang.org/x/image/draw"

	"github.com/ivlev/dolly2video/internal/effects"
	"github.com/ivlev/dolly2video/internal/scene"
)

// Compositor draws the layer stack of a frame into an RGBA buffer. Layer
// images are fitted to the viewport once, then scaled around their anchor
// and blended by opacity on every frame.
type Compositor struct {
	Width, Height int
	Background    color.Color
	Scaler        draw.Interpolator
	Overlay       *Overlay

	layers  []*image.RGBA
	anchors []image.Point
}

// NewCompositor fits every layer image to width x height (cover) and anchors
// the zoom at the viewport center.
func NewCompositor(width, height int, layers []image.Image) *Compositor {
	c := &Compositor{
		Width:      width,
		Height:     height,
		Background: color.Black,
		Scaler:     draw.ApproxBiLinear,
		layers:     make([]*image.RGBA, len(layers)),
		anchors:    make([]image.Point, len(layers)),
	}
	for i, img := range layers {
		c.layers[i] = fitCover(img, width, height)
		c.anchors[i] = image.Pt(width/2, height/2)
	}
	return c
}

// SetAnchor moves the zoom origin of layer i, given in viewport pixels.
func (c *Compositor) SetAnchor(i int, p image.Point) {
	if i < 0 || i >= len(c.anchors) {
		return
	}
	c.anchors[i] = p
}

// Anchor returns the zoom origin of layer i.
func (c *Compositor) Anchor(i int) image.Point {
	return c.anchors[i]
}

// Bounds is the frame rectangle.
func (c *Compositor) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.Width, c.Height)
}

// Compose renders f into dst. Layers are painted from the lowest z-index up,
// so earlier layers end on top.
func (c *Compositor) Compose(dst *image.RGBA, f scene.Frame) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c.Background), image.Point{}, draw.Src)

	order := make([]effects.LayerState, len(f.Layers))
	copy(order, f.Layers)
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].ZIndex < order[j].ZIndex
	})

	for _, st := range order {
		if st.Index < 0 || st.Index >= len(c.layers) {
			continue
		}
		if st.Opacity <= 0 || st.Scale <= 0 {
			continue
		}
		c.drawLayer(dst, st)
	}

	if c.Overlay != nil {
		c.Overlay.Draw(dst, f)
	}
}

func (c *Compositor) drawLayer(dst *image.RGBA, st effects.LayerState) {
	src := c.layers[st.Index]
	dr := scaledRect(src.Bounds(), c.anchors[st.Index], st.Scale)
	if dr.Empty() || !dr.Overlaps(dst.Bounds()) {
		return
	}

	var opts *draw.Options
	if st.Opacity < 1 {
		a := uint16(st.Opacity * 0xffff)
		opts = &draw.Options{DstMask: image.NewUniform(color.Alpha16{A: a})}
	}
	c.Scaler.Scale(dst, dr, src, src.Bounds(), draw.Over, opts)
}

// scaledRect scales r by s around anchor.
func scaledRect(r image.Rectangle, anchor image.Point, s float64) image.Rectangle {
	ax, ay := float64(anchor.X), float64(anchor.Y)
	x0 := ax + (float64(r.Min.X)-ax)*s
	y0 := ay + (float64(r.Min.Y)-ay)*s
	x1 := ax + (float64(r.Max.X)-ax)*s
	y1 := ay + (float64(r.Max.Y)-ay)*s
	return image.Rect(int(x0), int(y0), int(x1+0.5), int(y1+0.5))
}

// fitCover scales img to cover width x height and crops the overflow evenly.
func fitCover(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	b := img.Bounds()
	if b.Empty() {
		return dst
	}

	sx := float64(width) / float64(b.Dx())
	sy := float64(height) / float64(b.Dy())
	s := sx
	if sy > s {
		s = sy
	}
	w := int(float64(b.Dx())*s + 0.5)
	h := int(float64(b.Dy())*s + 0.5)
	dr := image.Rect((width-w)/2, (height-h)/2, (width-w)/2+w, (height-h)/2+h)

	draw.CatmullRom.Scale(dst, dr, img, b, draw.Src, nil)
	return dst
}
