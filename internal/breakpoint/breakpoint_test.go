package breakpoint

import (
	"reflect"
	"testing"
)

func TestResolve(t *testing.T) {
	bps := []int{0, 768, 1440, 1920}

	tests := []struct {
		width int
		want  int
	}{
		{0, 0},
		{320, 0},
		{767, 0},
		{768, 1},
		{1000, 1},
		{1440, 2},
		{1919, 2},
		{1920, 3},
		{4000, 3},
		{-10, 0},
	}

	for _, tt := range tests {
		if got := Resolve(bps, tt.width); got != tt.want {
			t.Errorf("Resolve(%v, %d) = %d, want %d", bps, tt.width, got, tt.want)
		}
	}
}

func TestResolveDuplicatesPickLast(t *testing.T) {
	bps := []int{0, 500, 500, 900}
	if got := Resolve(bps, 500); got != 2 {
		t.Errorf("expected last matching index 2, got %d", got)
	}
	if got := Resolve(bps, 700); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
}

func TestResolveIsLargestQualifyingIndex(t *testing.T) {
	bps := []int{0, 100, 200, 300, 400}
	for w := 0; w < 500; w += 7 {
		got := Resolve(bps, w)
		if bps[got] > w {
			t.Fatalf("width %d: bps[%d]=%d exceeds width", w, got, bps[got])
		}
		if got+1 < len(bps) && bps[got+1] <= w {
			t.Fatalf("width %d: index %d is not the largest qualifying one", w, got)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want []int
	}{
		{"", []int{0}},
		{"768,1440,1920", []int{0, 768, 1440, 1920}},
		{"0, 768 ,1440", []int{0, 768, 1440}},
		{"1440,768,abc,-5", []int{0, 768, 1440}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Parse(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
