package analyzer

import "image"

// Detector picks the point a layer zooms around.
type Detector interface {
	Focus(img image.Image) (image.Point, error)
}

// CenterDetector always returns the image center.
type CenterDetector struct{}

func (CenterDetector) Focus(img image.Image) (image.Point, error) {
	b := img.Bounds()
	return image.Pt(b.Min.X+b.Dx()/2, b.Min.Y+b.Dy()/2), nil
}
