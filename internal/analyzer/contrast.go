package analyzer

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// ContrastDetector anchors the zoom at the centroid of edge energy, which
// tends to land on the subject of a cut-out layer rather than on flat fill.
type ContrastDetector struct {
	EdgeThreshold float64 // Gradient magnitude threshold
	Step          int     // Sampling stride in pixels
}

// NewContrastDetector creates a new contrast-based detector with default settings
func NewContrastDetector() *ContrastDetector {
	return &ContrastDetector{
		EdgeThreshold: 30.0,
		Step:          2,
	}
}

// Focus returns the gradient-weighted centroid of img. Images without any
// edge above the threshold fall back to their center.
func (d *ContrastDetector) Focus(img image.Image) (image.Point, error) {
	b := img.Bounds()
	if b.Dx() < 3 || b.Dy() < 3 {
		return image.Point{}, fmt.Errorf("image too small for edge detection: %v", b)
	}

	gray := toGrayscale(img)
	step := d.Step
	if step < 1 {
		step = 1
	}

	var sum, sx, sy float64
	for y := b.Min.Y + 1; y < b.Max.Y-1; y += step {
		for x := b.Min.X + 1; x < b.Max.X-1; x += step {
			m := sobel(gray, x, y)
			if m <= d.EdgeThreshold {
				continue
			}
			sum += m
			sx += m * float64(x)
			sy += m * float64(y)
		}
	}

	if sum == 0 {
		return CenterDetector{}.Focus(img)
	}
	return image.Pt(int(math.Round(sx/sum)), int(math.Round(sy/sum))), nil
}

// toGrayscale converts an image to grayscale
func toGrayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}

// sobel returns the gradient magnitude at (x, y).
func sobel(g *image.Gray, x, y int) float64 {
	p := func(dx, dy int) float64 {
		return float64(g.GrayAt(x+dx, y+dy).Y)
	}
	gx := -p(-1, -1) + p(1, -1) - 2*p(-1, 0) + 2*p(1, 0) - p(-1, 1) + p(1, 1)
	gy := -p(-1, -1) - 2*p(0, -1) - p(1, -1) + p(-1, 1) + 2*p(0, 1) + p(1, 1)
	return math.Hypot(gx, gy)
}
