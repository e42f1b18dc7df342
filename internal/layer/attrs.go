package layer

import (
	"math"
	"strconv"
	"strings"

	"github.com/ivlev/dolly2video/internal/config"
)

// Element attribute names.
const (
	AttrInpoints        = "inpoints"
	AttrOutpoints       = "outpoints"
	AttrSpeed           = "speed"
	AttrTransitions     = "transitions"
	AttrTransitionStart = "transition-start"
	AttrTransitionEnd   = "transition-end"
	AttrScale           = "scale"
	AttrBreakpoints     = "breakpoints"
)

// ParseList splits a comma-separated attribute into numbers. Entries that do
// not parse become NaN so the positions of the remaining entries still line
// up with the breakpoints. An empty attribute yields nil.
func ParseList(s string) []float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			v = math.NaN()
		}
		values[i] = v
	}
	return values
}

// ParseBool reports false only for "false" and "0"; anything else enables.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "false", "0":
		return false
	}
	return true
}

// New builds a layer at ordinal index from its element attributes. Attributes
// take precedence over opts when both are present.
func New(index int, attrs map[string]string, opts config.LayerOptions) *Layer {
	l := &Layer{
		Index:         index,
		OriginalScale: 1,
		Transitions:   true,
	}

	l.Ref.Inpoints = pick(attrs, AttrInpoints, opts.Inpoints)
	l.Ref.Outpoints = pick(attrs, AttrOutpoints, opts.Outpoints)
	l.Ref.Speeds = pick(attrs, AttrSpeed, opts.Speed)
	l.Ref.TransitionStarts = pick(attrs, AttrTransitionStart, opts.TransitionStart)
	l.Ref.TransitionEnds = pick(attrs, AttrTransitionEnd, opts.TransitionEnd)

	if v, ok := attrs[AttrTransitions]; ok {
		l.Transitions = ParseBool(v)
	} else if opts.Transitions != nil {
		l.Transitions = *opts.Transitions
	}

	if opts.Scale != 0 {
		l.OriginalScale = opts.Scale
	}
	if v, ok := attrs[AttrScale]; ok {
		if s, ok := ParseScale(v); ok {
			l.OriginalScale = s
		}
	}

	return l
}

// ParseScale extracts the scale factor from a plain number, a "scale(x)"
// transform or a "matrix(a, b, c, d, tx, ty)" transform. "none" is 1.
func ParseScale(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	switch {
	case s == "none":
		return 1, true
	case strings.HasPrefix(s, "matrix(") && strings.HasSuffix(s, ")"):
		args := strings.Split(s[len("matrix("):len(s)-1], ",")
		if len(args) != 6 {
			return 0, false
		}
		a, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
		if err != nil {
			return 0, false
		}
		b, err := strconv.ParseFloat(strings.TrimSpace(args[1]), 64)
		if err != nil {
			return 0, false
		}
		return math.Hypot(a, b), true
	case strings.HasPrefix(s, "scale(") && strings.HasSuffix(s, ")"):
		args := strings.Split(s[len("scale("):len(s)-1], ",")
		v, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
		return v, err == nil
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func pick(attrs map[string]string, key string, fallback []float64) []float64 {
	if v := ParseList(attrs[key]); v != nil {
		return v
	}
	if len(fallback) == 0 {
		return nil
	}
	return append([]float64(nil), fallback...)
}
