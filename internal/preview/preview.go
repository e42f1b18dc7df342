package preview

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/ivlev/dolly2video/internal/config"
	"github.com/ivlev/dolly2video/internal/effects"
	"github.com/ivlev/dolly2video/internal/scene"
)

// A terminal cell stands in for this many CSS pixels of viewport.
const (
	CellWidth  = 8
	CellHeight = 16
	WheelStep  = 48
)

// Preview drives a scene controller from terminal input and shows the
// computed layer states.
type Preview struct {
	screen tcell.Screen
	ctrl   *scene.Controller
	Step   int

	mu       sync.Mutex
	frame    scene.Frame
	rendered bool
	dragging bool
	dragY    int
}

// New attaches a controller for container to an initialized screen. The
// viewport is derived from the screen size.
func New(screen tcell.Screen, container *scene.Container, opts config.SceneOptions) *Preview {
	p := &Preview{screen: screen, Step: WheelStep}
	opts.ViewportWidth, opts.ViewportHeight = viewport(screen.Size())
	p.ctrl = scene.New(container, opts, p, nil)
	return p
}

func viewport(cols, rows int) (int, int) {
	return cols * CellWidth, rows * CellHeight
}

// Start initializes the scene. It reports false for a missing container.
func (p *Preview) Start() bool {
	return p.ctrl.Start()
}

func (p *Preview) Close() {
	p.ctrl.Destroy()
}

func (p *Preview) Controller() *scene.Controller {
	return p.ctrl
}

// Apply stores the frame and wakes the event loop to draw it.
func (p *Preview) Apply(f scene.Frame) {
	p.mu.Lock()
	p.frame = f
	p.rendered = true
	p.mu.Unlock()
	p.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Frame returns the last projected frame.
func (p *Preview) Frame() (scene.Frame, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame, p.rendered
}

// Run owns the screen until the user quits or ctx is cancelled.
func Run(ctx context.Context, screen tcell.Screen, container *scene.Container, opts config.SceneOptions) error {
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer screen.Fini()
	screen.Clear()
	screen.EnableMouse()
	defer screen.DisableMouse()

	p := New(screen, container, opts)
	if !p.Start() {
		return fmt.Errorf("scene container not found")
	}
	defer p.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			screen.PostEvent(tcell.NewEventInterrupt(ctx.Err()))
		case <-done:
		}
	}()

	p.Draw()
	for {
		ev := screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return nil
		}
		if !p.HandleEvent(ev) {
			return nil
		}
	}
}

// HandleEvent maps one terminal event onto the controller. It returns false
// when the user asked to quit.
func (p *Preview) HandleEvent(ev tcell.Event) bool {
	switch tev := ev.(type) {
	case *tcell.EventInterrupt:
		p.Draw()
	case *tcell.EventResize:
		p.ctrl.OnResize(viewport(tev.Size()))
		p.screen.Sync()
		p.Draw()
	case *tcell.EventKey:
		return p.handleKey(tev)
	case *tcell.EventMouse:
		p.handleMouse(tev)
	}
	return true
}

func (p *Preview) handleKey(ev *tcell.EventKey) bool {
	snap := p.ctrl.Snapshot()
	switch ev.Key() {
	case tcell.KeyEsc, tcell.KeyCtrlC:
		return false
	case tcell.KeyDown:
		p.scrollTo(snap.ScrollPos + p.Step)
	case tcell.KeyUp:
		p.scrollTo(snap.ScrollPos - p.Step)
	case tcell.KeyPgDn:
		p.scrollTo(snap.ScrollPos + snap.ViewportHeight)
	case tcell.KeyPgUp:
		p.scrollTo(snap.ScrollPos - snap.ViewportHeight)
	case tcell.KeyHome:
		p.scrollTo(0)
	case tcell.KeyEnd:
		p.scrollTo(p.ctrl.MaxScroll())
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case 'j':
			p.scrollTo(snap.ScrollPos + p.Step)
		case 'k':
			p.scrollTo(snap.ScrollPos - p.Step)
		case 'r':
			p.ctrl.Render()
		}
	}
	return true
}

// handleMouse scrolls on the wheel and turns a left-button drag into touch
// moves: dragging upwards scrolls the page down.
func (p *Preview) handleMouse(ev *tcell.EventMouse) {
	_, y := ev.Position()
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelDown != 0:
		p.scrollTo(p.ctrl.Snapshot().ScrollPos + p.Step)
	case buttons&tcell.WheelUp != 0:
		p.scrollTo(p.ctrl.Snapshot().ScrollPos - p.Step)
	case buttons&tcell.Button1 != 0:
		p.mu.Lock()
		dragging, last := p.dragging, p.dragY
		p.dragging, p.dragY = true, y
		p.mu.Unlock()
		if dragging && y != last {
			p.ctrl.OnTouchMove((last - y) * CellHeight)
		}
	default:
		p.mu.Lock()
		p.dragging = false
		p.mu.Unlock()
	}
}

func (p *Preview) scrollTo(pos int) {
	if limit := p.ctrl.MaxScroll(); pos > limit {
		pos = limit
	}
	if pos < 0 {
		pos = 0
	}
	p.ctrl.OnScroll(pos)
}

// Draw paints the status line, one row per layer and a scroll gauge.
func (p *Preview) Draw() {
	f, ok := p.Frame()
	p.screen.Clear()
	w, h := p.screen.Size()

	header := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	for x := 0; x < w; x++ {
		p.screen.SetContent(x, 0, ' ', nil, header)
	}
	if !ok {
		p.drawText(0, 0, " dolly2video: waiting for first frame", header)
		p.screen.Show()
		return
	}
	p.drawText(0, 0, statusLine(f), header)

	barWidth := max(w-48, 0)
	for i, st := range f.Layers {
		y := 2 + i
		if y >= h-1 {
			break
		}
		style := tcell.StyleDefault.Foreground(phaseColor(st.Phase))
		p.drawText(1, y, layerLine(st), style)
		if barWidth > 0 {
			p.drawText(46, y, bar(st.Opacity, barWidth), style)
		}
	}

	if h > 1 {
		help := tcell.StyleDefault.Foreground(tcell.ColorGray)
		p.drawText(0, h-1, " wheel/j/k/arrows: scroll  drag: touch  Home/End  r: render  q: quit", help)
	}
	p.drawGauge(w-1, 1, h-2, f)
	p.screen.Show()
}

func (p *Preview) drawText(x, y int, s string, style tcell.Style) {
	w, _ := p.screen.Size()
	for _, r := range s {
		if x >= w {
			return
		}
		p.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// drawGauge shows the scroll position relative to the scrollable page height.
func (p *Preview) drawGauge(x, top, height int, f scene.Frame) {
	if height <= 0 || x < 0 {
		return
	}
	maxScroll := f.PageHeight - f.ViewportHeight
	pos := 0
	if maxScroll > 0 {
		pos = min(f.ScrollPos*(height-1)/maxScroll, height-1)
	}
	track := tcell.StyleDefault.Foreground(tcell.ColorGray)
	thumb := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i := 0; i < height; i++ {
		if i == pos {
			p.screen.SetContent(x, top+i, '█', nil, thumb)
		} else {
			p.screen.SetContent(x, top+i, '│', nil, track)
		}
	}
}

func statusLine(f scene.Frame) string {
	return fmt.Sprintf(" dolly2video  scroll %d/%d  bp %d  viewport %dx%d",
		f.ScrollPos, max(f.PageHeight-f.ViewportHeight, 0), f.BreakpointIndex, f.ViewportWidth, f.ViewportHeight)
}

func layerLine(st effects.LayerState) string {
	return fmt.Sprintf("L%-2d z=%-3d %-8s op %.2f scale %6.3f", st.Index, st.ZIndex, st.Phase, st.Opacity, st.Scale)
}

func bar(v float64, width int) string {
	v = min(max(v, 0), 1)
	n := int(v*float64(width) + 0.5)
	return strings.Repeat("█", n) + strings.Repeat("·", width-n)
}

func phaseColor(ph effects.Phase) tcell.Color {
	switch ph {
	case effects.PhaseActive:
		return tcell.ColorGreen
	case effects.PhaseHeld:
		return tcell.ColorYellow
	case effects.PhaseBackdrop:
		return tcell.ColorSilver
	default:
		return tcell.ColorGray
	}
}
