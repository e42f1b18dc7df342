package scene

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/ivlev/dolly2video/internal/config"
	"github.com/ivlev/dolly2video/internal/effects"
)

type recorder struct {
	mu     sync.Mutex
	frames []Frame
}

func (r *recorder) Apply(f Frame) {
	r.mu.Lock()
	r.frames = append(r.frames, f)
	r.mu.Unlock()
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func (r *recorder) last() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames[len(r.frames)-1]
}

func startController(t *testing.T, n int, opts config.SceneOptions) (*Controller, *recorder, *ManualScheduler) {
	t.Helper()
	rec := &recorder{}
	sched := NewManualScheduler()
	c := New(plainContainer(n), opts, rec, sched)
	if !c.Start() {
		t.Fatal("Start returned false")
	}
	t.Cleanup(c.Destroy)
	return c, rec, sched
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestStartMissingContainer(t *testing.T) {
	rec := &recorder{}
	c := New(nil, config.SceneOptions{}, rec, NewManualScheduler())
	if c.Start() {
		t.Fatal("Start should report an inactive scene")
	}
	c.OnScroll(100)
	c.OnTouchMove(10)
	c.OnResize(100, 100)
	c.Render()
	c.Destroy()
	if rec.count() != 0 {
		t.Errorf("inactive scene rendered %d frames", rec.count())
	}
}

func TestStartRendersInitialFrame(t *testing.T) {
	_, rec, _ := startController(t, 3, config.SceneOptions{ViewportWidth: 1280, ViewportHeight: 720})
	if rec.count() != 1 {
		t.Fatalf("expected 1 initial frame, got %d", rec.count())
	}
	f := rec.last()
	if len(f.Layers) != 3 {
		t.Fatalf("expected 3 layer states, got %d", len(f.Layers))
	}
	if f.Layers[0].Opacity != 1 || f.Layers[1].Opacity != 0 {
		t.Errorf("unexpected opacities at scroll 0: %v, %v", f.Layers[0].Opacity, f.Layers[1].Opacity)
	}
	if f.PageHeight != 3200 {
		t.Errorf("expected page height 3200, got %d", f.PageHeight)
	}
}

func TestOnScrollCoalescesToOneFrame(t *testing.T) {
	c, rec, sched := startController(t, 3, config.SceneOptions{})

	for _, pos := range []int{10, 50, 120, 400, 900} {
		c.OnScroll(pos)
	}
	if sched.Pending() != 1 {
		t.Fatalf("expected 1 queued frame, got %d", sched.Pending())
	}
	if ran := sched.Flush(); ran != 1 {
		t.Fatalf("expected 1 frame callback, got %d", ran)
	}
	if rec.count() != 2 {
		t.Fatalf("expected initial + 1 coalesced render, got %d", rec.count())
	}
	if got := rec.last().ScrollPos; got != 900 {
		t.Errorf("frame should use the latest position, got %d", got)
	}

	c.OnScroll(1000)
	if sched.Pending() != 1 {
		t.Error("a new frame should be requested after the previous one ran")
	}
}

func TestOnScrollNegativeClampsToZero(t *testing.T) {
	c, _, _ := startController(t, 2, config.SceneOptions{})
	c.OnScroll(-50)
	if got := c.Snapshot().ScrollPos; got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestOnTouchMoveClamps(t *testing.T) {
	c, rec, sched := startController(t, 3, config.SceneOptions{ViewportHeight: 800})

	c.OnTouchMove(300)
	c.OnTouchMove(200)
	if got := c.Snapshot().ScrollPos; got != 500 {
		t.Errorf("expected accumulated 500, got %d", got)
	}

	c.OnTouchMove(10000)
	if got := c.Snapshot().ScrollPos; got != 2400 {
		t.Errorf("expected clamp to 2400, got %d", got)
	}

	c.OnTouchMove(-99999)
	if got := c.Snapshot().ScrollPos; got != 0 {
		t.Errorf("expected clamp to 0, got %d", got)
	}

	sched.Flush()
	if rec.count() != 2 {
		t.Errorf("touch moves should coalesce into one frame, got %d renders", rec.count())
	}
}

func TestOnResizeDebounced(t *testing.T) {
	c, rec, _ := startController(t, 2, config.SceneOptions{
		Breakpoints:    []int{768, 1440},
		ViewportWidth:  320,
		ResizeDebounce: 30 * time.Millisecond,
	})

	c.OnResize(800, 600)
	c.OnResize(1000, 600)
	c.OnResize(1600, 900)

	waitFor(t, func() bool { return rec.count() >= 2 })
	time.Sleep(60 * time.Millisecond)

	if rec.count() != 2 {
		t.Fatalf("expected exactly one debounced render, got %d", rec.count()-1)
	}
	f := rec.last()
	if f.ViewportWidth != 1600 || f.ViewportHeight != 900 {
		t.Errorf("last resize should win, got %dx%d", f.ViewportWidth, f.ViewportHeight)
	}
	if f.BreakpointIndex != 2 {
		t.Errorf("expected breakpoint index 2, got %d", f.BreakpointIndex)
	}
}

func TestResizeIdempotent(t *testing.T) {
	c := &Container{
		Scene: &Element{Attributes: map[string]string{"breakpoints": "768,1440,1920"}},
		Layers: []Element{
			{Attributes: map[string]string{"inpoints": "100,150,200,250", "speed": "8,20"}},
			{Attributes: map[string]string{}},
		},
	}
	ctrl := New(c, config.SceneOptions{}, nil, NewManualScheduler())
	if !ctrl.Start() {
		t.Fatal("Start failed")
	}
	defer ctrl.Destroy()

	ctrl.Resize(1000, 800)
	once := ctrl.Params()
	ctrl.Resize(1000, 800)
	twice := ctrl.Params()

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("params differ after repeated resize:\n%+v\n%+v", once, twice)
	}
	if once[0].Inpoint != 150 || once[0].Speed != 20 {
		t.Errorf("unexpected resolved params %+v", once[0])
	}
}

func TestRetainedScale(t *testing.T) {
	c, rec, sched := startController(t, 3, config.SceneOptions{})

	// Layer 1 spans [800, 1800]; scroll inside then past it.
	c.OnScroll(1500)
	sched.Flush()
	inside := rec.last().Layers[1]
	if !inside.ScaleApplied || inside.Phase != effects.PhaseActive {
		t.Fatalf("layer 1 should be active at 1500: %+v", inside)
	}

	c.OnScroll(2500)
	sched.Flush()
	past := rec.last().Layers[1]
	if past.ScaleApplied {
		t.Fatal("layer 1 should not apply a scale once hidden")
	}
	if past.Scale != inside.Scale {
		t.Errorf("hidden layer should keep scale %v, got %v", inside.Scale, past.Scale)
	}
}

func TestDestroy(t *testing.T) {
	c, rec, sched := startController(t, 2, config.SceneOptions{ResizeDebounce: 10 * time.Millisecond})

	c.OnScroll(100)
	c.OnResize(2000, 1000)
	c.Destroy()
	c.Destroy()

	sched.Flush()
	time.Sleep(40 * time.Millisecond)
	if rec.count() != 1 {
		t.Errorf("destroyed controller rendered %d extra frames", rec.count()-1)
	}

	c.OnScroll(300)
	if sched.Pending() != 0 {
		t.Error("destroyed controller should not request frames")
	}
}

func TestTickerSchedulerDrivesFrames(t *testing.T) {
	rec := &recorder{}
	sched := NewTickerScheduler(200)
	defer sched.Stop()

	c := New(plainContainer(2), config.SceneOptions{}, rec, sched)
	if !c.Start() {
		t.Fatal("Start failed")
	}
	defer c.Destroy()

	c.OnScroll(250)
	waitFor(t, func() bool { return rec.count() >= 2 })
	if got := rec.last().ScrollPos; got != 250 {
		t.Errorf("expected scroll 250, got %d", got)
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	if c := StartDefault(reg, nil, config.SceneOptions{}, nil); c != nil {
		t.Fatal("missing container should not start")
	}
	if reg.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", reg.Len())
	}

	a := StartDefault(reg, plainContainer(2), config.SceneOptions{}, nil)
	b := StartDefault(reg, plainContainer(3), config.SceneOptions{}, nil)
	if a == nil || b == nil {
		t.Fatal("StartDefault failed")
	}
	if reg.Len() != 2 {
		t.Fatalf("expected 2 scenes, got %d", reg.Len())
	}

	a.Destroy()
	if reg.Len() != 1 {
		t.Errorf("destroy should unregister, got %d", reg.Len())
	}

	reg.DestroyAll()
	if reg.Len() != 0 {
		t.Errorf("expected empty registry, got %d", reg.Len())
	}
}
