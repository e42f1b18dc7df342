package breakpoint

import (
	"sort"
	"strconv"
	"strings"
)

// Resolve returns the highest index i with bps[i] <= width.
// Equal widths resolve to the last match; 0 is returned when nothing matches.
func Resolve(bps []int, width int) int {
	idx := 0
	for i, bp := range bps {
		if bp <= width {
			idx = i
		}
	}
	return idx
}

// Parse reads a comma-separated list of widths. Invalid entries are skipped,
// the result is sorted and always starts with 0.
func Parse(s string) []int {
	bps := []int{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 {
			continue
		}
		bps = append(bps, v)
	}
	return Normalize(bps)
}

// Normalize sorts a copy of bps and prepends 0 if it is missing.
func Normalize(bps []int) []int {
	out := make([]int, 0, len(bps)+1)
	out = append(out, bps...)
	sort.Ints(out)
	if len(out) == 0 || out[0] != 0 {
		out = append([]int{0}, out...)
	}
	return out
}
