package renderer

import (
	"math"

	"github.com/ivlev/dolly2video/internal/director"
)

// ScrollAt calculates the scroll position at currentTime by interpolating
// between the surrounding keyframes. The easing of a segment is taken from
// the keyframe it ends on.
func ScrollAt(path []director.ScrollKeyframe, currentTime float64) int {
	if len(path) == 0 {
		return 0
	}

	// Before the first keyframe / after the last one the position is held
	if currentTime <= path[0].Time {
		return path[0].Scroll
	}
	last := path[len(path)-1]
	if currentTime >= last.Time {
		return last.Scroll
	}

	var prev, next director.ScrollKeyframe
	for i := 0; i < len(path)-1; i++ {
		if currentTime >= path[i].Time && currentTime < path[i+1].Time {
			prev, next = path[i], path[i+1]
			break
		}
	}

	span := next.Time - prev.Time
	if span <= 0 {
		return next.Scroll
	}
	t := Ease(next.Easing, (currentTime-prev.Time)/span)

	return int(math.Round(lerp(float64(prev.Scroll), float64(next.Scroll), t)))
}

// Ease maps t in [0, 1] through the named easing curve. Unknown names are linear.
func Ease(name string, t float64) float64 {
	switch name {
	case "ease-in":
		return t * t * t
	case "ease-out":
		return 1 - pow(1-t, 3)
	case "ease-in-out":
		return easeInOutCubic(t)
	}
	return t
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - pow(-2*t+2, 3)/2
}

// pow calculates x^n
func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}
