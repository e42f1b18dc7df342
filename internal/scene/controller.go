package scene

import (
	"log"
	"sync"
	"time"

	"github.com/ivlev/dolly2video/internal/config"
	"github.com/ivlev/dolly2video/internal/layer"
)

// Controller owns a Scene and drives its recomputation from scroll, resize
// and touch events. Scroll renders are coalesced to one per frame and resizes
// are debounced on the trailing edge.
type Controller struct {
	mu sync.Mutex

	container *Container
	opts      config.SceneOptions
	proj      Projector
	sched     FrameScheduler
	ownsSched bool
	registry  *Registry

	scene     *Scene
	scrollPos int
	width     int
	height    int
	scales    []float64

	pendingFrame  bool
	resizeTimer   *time.Timer
	resizeGen     int
	pendingWidth  int
	pendingHeight int

	started   bool
	destroyed bool
	renders   int
}

// New constructs a controller. Nothing is computed until Start.
func New(c *Container, opts config.SceneOptions, proj Projector, sched FrameScheduler) *Controller {
	opts = opts.WithDefaults()
	if proj == nil {
		proj = ProjectorFunc(func(Frame) {})
	}
	ctrl := &Controller{
		container: c,
		opts:      opts,
		proj:      proj,
		sched:     sched,
		width:     opts.ViewportWidth,
		height:    opts.ViewportHeight,
	}
	if ctrl.sched == nil {
		ctrl.sched = NewTickerScheduler(config.DefaultFrameRate)
		ctrl.ownsSched = true
	}
	return ctrl
}

// Start initializes the scene and renders the first frame. A missing
// container only logs a warning; the effect then stays inactive.
func (c *Controller) Start() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started || c.destroyed {
		return c.started
	}
	if c.container == nil {
		log.Printf("[!] scene container not found, dolly zoom disabled")
		return false
	}

	c.scene = NewScene(c.container, c.opts)
	c.scene.Reset(c.width)

	c.scales = make([]float64, len(c.scene.Layers))
	for i, l := range c.scene.Layers {
		c.scales[i] = l.OriginalScale
	}

	c.started = true
	c.renderLocked()
	return true
}

// OnScroll records the new scroll position and requests a render on the next frame.
func (c *Controller) OnScroll(pos int) {
	c.mu.Lock()
	if !c.active() {
		c.mu.Unlock()
		return
	}
	if pos < 0 {
		pos = 0
	}
	c.scrollPos = pos
	schedule := c.markPendingLocked()
	c.mu.Unlock()

	if schedule {
		c.sched.RequestFrame(c.frame)
	}
}

// OnTouchMove treats a drag delta as a scroll delta, clamped to the page.
func (c *Controller) OnTouchMove(deltaY int) {
	c.mu.Lock()
	if !c.active() {
		c.mu.Unlock()
		return
	}
	pos := c.scrollPos + deltaY
	if limit := c.scene.MaxScroll(c.height); pos > limit {
		pos = limit
	}
	if pos < 0 {
		pos = 0
	}
	c.scrollPos = pos
	schedule := c.markPendingLocked()
	c.mu.Unlock()

	if schedule {
		c.sched.RequestFrame(c.frame)
	}
}

// OnResize debounces viewport changes. Only the last size within the
// debounce window is applied.
func (c *Controller) OnResize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active() {
		return
	}

	c.pendingWidth, c.pendingHeight = width, height
	if c.resizeTimer != nil {
		c.resizeTimer.Stop()
	}
	c.resizeGen++
	gen := c.resizeGen
	c.resizeTimer = time.AfterFunc(c.opts.ResizeDebounce, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		// A timer that fired while a newer resize was being queued is stale.
		if !c.active() || gen != c.resizeGen {
			return
		}
		c.resizeTimer = nil
		c.resizeLocked(c.pendingWidth, c.pendingHeight)
	})
}

// Resize applies a viewport change immediately: breakpoint, params, page
// height and a full render, in that order.
func (c *Controller) Resize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active() {
		return
	}
	c.resizeLocked(width, height)
}

func (c *Controller) resizeLocked(width, height int) {
	c.width, c.height = width, height
	c.scene.ContainerHeight = c.container.Height
	c.scene.Reset(width)
	c.renderLocked()
}

// Render recomputes and projects every layer now.
func (c *Controller) Render() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active() {
		return
	}
	c.renderLocked()
}

func (c *Controller) frame() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingFrame = false
	if !c.active() {
		return
	}
	c.renderLocked()
}

func (c *Controller) markPendingLocked() bool {
	if c.pendingFrame {
		return false
	}
	c.pendingFrame = true
	return true
}

func (c *Controller) renderLocked() {
	snap := c.snapshotLocked()
	states := c.scene.Evaluate(snap)

	// Layers that skip the scale write keep the last one they received.
	for i := range states {
		if states[i].ScaleApplied {
			c.scales[i] = states[i].Scale
		} else {
			states[i].Scale = c.scales[i]
		}
	}

	c.renders++
	c.proj.Apply(Frame{
		Snapshot:        snap,
		BreakpointIndex: c.scene.BreakpointIndex,
		PageHeight:      c.scene.PageHeight(),
		Layers:          states,
	})
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		ScrollPos:      c.scrollPos,
		ViewportWidth:  c.width,
		ViewportHeight: c.height,
	}
}

func (c *Controller) active() bool {
	return c.started && !c.destroyed
}

// Destroy detaches the controller: pending resizes and frames are dropped
// and it leaves its registry. Calling it again is a no-op.
func (c *Controller) Destroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	if c.resizeTimer != nil {
		c.resizeTimer.Stop()
		c.resizeTimer = nil
	}
	reg := c.registry
	c.registry = nil
	c.mu.Unlock()

	if c.ownsSched {
		c.sched.Stop()
	}
	if reg != nil {
		reg.Remove(c)
	}
}

// Snapshot returns the current scroll position and viewport.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Params returns the resolved params of every layer.
func (c *Controller) Params() []layer.Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scene == nil {
		return nil
	}
	return c.scene.Params()
}

// Layers returns the number of layers in the scene.
func (c *Controller) Layers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scene == nil {
		return 0
	}
	return len(c.scene.Layers)
}

// ZIndexes returns the z-index of every layer.
func (c *Controller) ZIndexes() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scene == nil {
		return nil
	}
	out := make([]int, len(c.scene.Layers))
	for i, l := range c.scene.Layers {
		out[i] = l.ZIndex
	}
	return out
}

// PageHeight returns the scrollable height, or 0 before Start.
func (c *Controller) PageHeight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scene == nil {
		return 0
	}
	return c.scene.PageHeight()
}

// MaxScroll returns the largest reachable scroll position for the current viewport.
func (c *Controller) MaxScroll() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scene == nil {
		return 0
	}
	return c.scene.MaxScroll(c.height)
}

// Renders returns how many render passes have run.
func (c *Controller) Renders() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renders
}
