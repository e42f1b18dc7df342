package scene

import (
	"testing"

	"github.com/ivlev/dolly2video/internal/config"
)

func plainContainer(n int) *Container {
	c := &Container{}
	for i := 0; i < n; i++ {
		c.Layers = append(c.Layers, Element{Attributes: map[string]string{}})
	}
	return c
}

func TestNewSceneZIndex(t *testing.T) {
	s := NewScene(plainContainer(10), config.SceneOptions{})
	if len(s.Layers) != 10 {
		t.Fatalf("expected 10 layers, got %d", len(s.Layers))
	}
	if s.Layers[0].ZIndex != 10 {
		t.Errorf("layer 0: expected z-index 10, got %d", s.Layers[0].ZIndex)
	}
	if s.Layers[1].ZIndex != 9 {
		t.Errorf("layer 1: expected z-index 9, got %d", s.Layers[1].ZIndex)
	}
	if s.Layers[9].ZIndex != 1 {
		t.Errorf("layer 9: expected z-index 1, got %d", s.Layers[9].ZIndex)
	}
}

func TestResetBreakpointAttributes(t *testing.T) {
	c := &Container{
		Scene: &Element{Attributes: map[string]string{"breakpoints": "768,1440,1920"}},
		Layers: []Element{
			{Attributes: map[string]string{"inpoints": "100,150,200,250"}},
		},
	}
	s := NewScene(c, config.SceneOptions{})
	s.Reset(1000)

	if s.BreakpointIndex != 1 {
		t.Errorf("expected breakpoint index 1, got %d", s.BreakpointIndex)
	}
	if got := s.Layers[0].Params.Inpoint; got != 150 {
		t.Errorf("expected inpoint 150, got %v", got)
	}
}

func TestResetChainsDefaults(t *testing.T) {
	s := NewScene(plainContainer(3), config.SceneOptions{})
	s.Reset(1280)

	want := [][2]float64{
		{0, 1000},
		{800, 1800},
		{1600, 2600},
	}
	for i, w := range want {
		p := s.Layers[i].Params
		if p.Inpoint != w[0] || p.Outpoint != w[1] {
			t.Errorf("layer %d: got [%v, %v], want [%v, %v]", i, p.Inpoint, p.Outpoint, w[0], w[1])
		}
		if p.Speed != config.DefaultSpeed {
			t.Errorf("layer %d: expected default speed, got %v", i, p.Speed)
		}
	}
}

func TestResetChainFollowsExplicitOutpoint(t *testing.T) {
	c := plainContainer(2)
	c.Layers[0].Attributes["outpoints"] = "600,900"
	c.Scene = &Element{Attributes: map[string]string{"breakpoints": "1000"}}

	s := NewScene(c, config.SceneOptions{SpeedDelta: 100})
	s.Reset(500)
	if got := s.Layers[1].Params.Inpoint; got != 500 {
		t.Errorf("narrow: expected chained inpoint 500, got %v", got)
	}
	s.Reset(1200)
	if got := s.Layers[1].Params.Inpoint; got != 800 {
		t.Errorf("wide: expected chained inpoint 800, got %v", got)
	}
}

func TestSceneInpointsAndTop(t *testing.T) {
	s := NewScene(plainContainer(2), config.SceneOptions{Top: 120})
	s.Reset(0)
	if got := s.Layers[0].Params.Inpoint; got != 120 {
		t.Errorf("expected first inpoint at scene top 120, got %v", got)
	}

	c := plainContainer(2)
	c.Attributes = map[string]string{"inpoints": "50"}
	s = NewScene(c, config.SceneOptions{Top: 120})
	s.Reset(0)
	if got := s.Layers[0].Params.Inpoint; got != 50 {
		t.Errorf("scene inpoints should win over top, got %v", got)
	}
}

func TestMinHeight(t *testing.T) {
	s := NewScene(plainContainer(3), config.SceneOptions{})
	s.Reset(0)
	// 3*(1000+200) - 2*200
	if s.MinHeight != 3200 {
		t.Errorf("expected min height 3200, got %d", s.MinHeight)
	}
	if s.MaxScroll(800) != 2400 {
		t.Errorf("expected max scroll 2400, got %d", s.MaxScroll(800))
	}

	c := plainContainer(3)
	c.Height = 5000
	s = NewScene(c, config.SceneOptions{})
	s.Reset(0)
	if s.MinHeight != 5000 {
		t.Errorf("taller container must not shrink, got %d", s.MinHeight)
	}
}

func TestEvaluateDoesNotMutate(t *testing.T) {
	s := NewScene(plainContainer(3), config.SceneOptions{})
	s.Reset(0)
	before := s.Params()

	states := s.Evaluate(Snapshot{ScrollPos: 1500})
	if len(states) != 3 {
		t.Fatalf("expected 3 states, got %d", len(states))
	}
	after := s.Params()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("layer %d params changed during evaluation", i)
		}
	}
}
