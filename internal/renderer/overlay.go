package renderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/dolly2video/internal/scene"
)

// Overlay stamps debug information on a frame: a text line with the scroll
// state and a QR tag encoding the same data for frame-accurate inspection.
type Overlay struct {
	ShowQR bool
	QRSize int
}

func NewOverlay() *Overlay {
	return &Overlay{ShowQR: true, QRSize: 96}
}

// Label is the text drawn for f.
func Label(f scene.Frame) string {
	return fmt.Sprintf("scroll %d / %d | bp %d | %dx%d",
		f.ScrollPos, f.PageHeight, f.BreakpointIndex, f.ViewportWidth, f.ViewportHeight)
}

// Tag is the machine-readable payload of the QR code.
func Tag(f scene.Frame) string {
	s := fmt.Sprintf("scroll=%d;bp=%d", f.ScrollPos, f.BreakpointIndex)
	for _, l := range f.Layers {
		s += fmt.Sprintf(";%d:%.3f@%.3f", l.Index, l.Opacity, l.Scale)
	}
	return s
}

func (o *Overlay) Draw(dst *image.RGBA, f scene.Frame) {
	label := Label(f)
	face := basicfont.Face7x13

	box := image.Rect(4, 4, 12+len(label)*7, 24)
	draw.Draw(dst, box, image.NewUniform(color.RGBA{0, 0, 0, 160}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.RGBA{255, 220, 0, 255}),
		Face: face,
		Dot:  fixed.P(8, 18),
	}
	d.DrawString(label)

	if !o.ShowQR || o.QRSize <= 0 {
		return
	}
	qr, err := qrcode.New(Tag(f), qrcode.Low)
	if err != nil {
		return
	}
	img := qr.Image(o.QRSize)
	b := dst.Bounds()
	at := image.Pt(b.Max.X-o.QRSize-8, b.Max.Y-o.QRSize-8)
	draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(img.Bounds().Size())}, img, img.Bounds().Min, draw.Src)
}
