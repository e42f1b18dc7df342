package layer

import "math"

// Resolve picks values[idx] for the active breakpoint. Entries that are zero,
// NaN or missing fall back to values[0], so a configured 0 reads as "unset".
func Resolve(values []float64, idx int) float64 {
	if len(values) == 0 {
		return 0
	}
	if idx >= 0 && idx < len(values) && truthy(values[idx]) {
		return values[idx]
	}
	return values[0]
}

// ResolveStrict is Resolve without the falsy fallback: any entry present at
// idx is returned as is, including 0.
func ResolveStrict(values []float64, idx int) float64 {
	if len(values) == 0 {
		return 0
	}
	if idx >= 0 && idx < len(values) && !math.IsNaN(values[idx]) {
		return values[idx]
	}
	return values[0]
}

func truthy(v float64) bool {
	return v != 0 && !math.IsNaN(v)
}

// resolveOr resolves values and returns fallback when nothing usable was configured.
func resolveOr(values []float64, idx int, strict bool, fallback float64) float64 {
	if len(values) == 0 {
		return fallback
	}
	var v float64
	if strict {
		v = ResolveStrict(values, idx)
	} else {
		v = Resolve(values, idx)
	}
	if math.IsNaN(v) {
		return fallback
	}
	return v
}
