package effects

import (
	"math"

	"github.com/ivlev/dolly2video/internal/layer"
)

// MaxSpeed caps the speed used by Scale.
const MaxSpeed = 100

// Scale returns the layer scale at scrollPos. The scale grows linearly with
// the distance past the inpoint and never drops below zero.
func Scale(scrollPos float64, p layer.Params, originalScale float64) float64 {
	distance := scrollPos - p.Inpoint
	speedFactor := math.Min(p.Speed, MaxSpeed) / 100
	delta := distance * speedFactor / 100
	return math.Max(originalScale+delta, 0)
}
