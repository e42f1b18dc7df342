package engine

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/dolly2video/internal/analyzer"
	"github.com/ivlev/dolly2video/internal/config"
	"github.com/ivlev/dolly2video/internal/director"
	"github.com/ivlev/dolly2video/internal/renderer"
	"github.com/ivlev/dolly2video/internal/scene"
	"github.com/ivlev/dolly2video/internal/source"
	"github.com/ivlev/dolly2video/internal/system"
	"github.com/ivlev/dolly2video/internal/video"
)

// ScrollProject renders a scripted scroll session over a scene into a video.
type ScrollProject struct {
	Config   *config.Config
	Scene    *director.SceneFile
	Source   source.Source
	Encoder  video.VideoEncoder
	Detector analyzer.Detector
	Options  config.SceneOptions
}

func NewScrollProject(cfg *config.Config, sf *director.SceneFile, src source.Source, enc video.VideoEncoder) *ScrollProject {
	return &ScrollProject{
		Config:   cfg,
		Scene:    sf,
		Source:   src,
		Encoder:  enc,
		Detector: analyzer.CenterDetector{},
	}
}

func (p *ScrollProject) Run(ctx context.Context) error {
	startTime := time.Now()

	layerCount := len(p.Scene.Layers)
	if layerCount == 0 {
		return fmt.Errorf("сцена не содержит слоев")
	}
	if p.Source.LayerCount() < layerCount {
		return fmt.Errorf("источник содержит %d изображений, сцене нужно %d", p.Source.LayerCount(), layerCount)
	}

	duration := p.Config.TotalDuration
	if duration <= 0 {
		duration = p.Scene.Duration()
	}
	if duration <= 0 {
		return fmt.Errorf("не задана длительность: укажите -duration или ключевые кадры прокрутки")
	}

	fmt.Println("--- [PROJECT: DOLLY ZOOM] ---")
	fmt.Printf("[*] Слоев: %d | Длительность: %.2fs\n", layerCount, duration)
	fmt.Printf("[*] Разрешение: %dx%d @ %d FPS\n", p.Config.Width, p.Config.Height, p.Config.FPS)
	fmt.Println("-----------------------------")

	loadStart := time.Now()
	images, err := p.loadLayers(ctx, layerCount)
	if err != nil {
		return err
	}
	loadTime := time.Since(loadStart)

	frames, err := p.Timeline(duration)
	if err != nil {
		return err
	}

	comp := renderer.NewCompositor(p.Config.Width, p.Config.Height, images)
	if p.Config.Debug {
		comp.Overlay = renderer.NewOverlay()
	}
	p.placeAnchors(comp, images)

	renderStart := time.Now()
	if err := p.encode(ctx, comp, frames); err != nil {
		return fmt.Errorf("ошибка кодирования: %w", err)
	}
	renderTime := time.Since(renderStart)

	if p.Config.ShowStats {
		p.report(len(frames), time.Since(startTime), loadTime, renderTime)
	}
	return nil
}

// Timeline replays the scroll path and resize events through a scene
// controller and returns the frame computed for every output frame.
func (p *ScrollProject) Timeline(duration float64) ([]scene.Frame, error) {
	path := p.Scene.Scroll
	if len(path) == 0 {
		return nil, fmt.Errorf("сцена не содержит ключевых кадров прокрутки")
	}

	opts := p.Options
	opts.ViewportWidth, opts.ViewportHeight = p.viewport()
	opts.StrictBreakpoints = opts.StrictBreakpoints || p.Config.Strict

	var current scene.Frame
	sched := scene.NewManualScheduler()
	ctrl := scene.New(p.Scene.Container(), opts, scene.ProjectorFunc(func(f scene.Frame) {
		current = f
	}), sched)
	if !ctrl.Start() {
		return nil, fmt.Errorf("не удалось инициализировать сцену")
	}
	defer ctrl.Destroy()

	resizes := append([]director.ResizeEvent(nil), p.Scene.Resizes...)
	sort.SliceStable(resizes, func(i, j int) bool { return resizes[i].Time < resizes[j].Time })

	fps := float64(p.Config.FPS)
	n := int(math.Round(duration * fps))
	if n < 1 {
		n = 1
	}

	frames := make([]scene.Frame, n)
	next := 0
	for i := 0; i < n; i++ {
		t := float64(i) / fps
		for next < len(resizes) && resizes[next].Time <= t {
			ctrl.Resize(resizes[next].Width, resizes[next].Height)
			next++
		}
		ctrl.OnScroll(renderer.ScrollAt(path, t))
		sched.Flush()
		frames[i] = current
	}
	return frames, nil
}

func (p *ScrollProject) viewport() (int, int) {
	w, h := p.Scene.Viewport.Width, p.Scene.Viewport.Height
	if w <= 0 || h <= 0 {
		w, h = p.Config.Width, p.Config.Height
	}
	return w, h
}

func (p *ScrollProject) workers() int {
	if p.Config.Workers > 0 {
		return p.Config.Workers
	}
	return 1
}

// loadLayers renders every layer image in parallel.
func (p *ScrollProject) loadLayers(ctx context.Context, count int) ([]image.Image, error) {
	images := make([]image.Image, count)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())
	for i := 0; i < count; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dpi, err := p.layerDPI(i)
			if err != nil {
				return fmt.Errorf("ошибка размеров слоя %d: %w", i, err)
			}
			img, err := p.Source.RenderLayer(i, dpi)
			if err != nil {
				return fmt.Errorf("ошибка рендеринга слоя %d: %w", i, err)
			}
			images[i] = img
			fmt.Printf("[>] Слой готов: %d/%d\n", i+1, count)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

// layerDPI returns the configured DPI, or the lowest DPI at which layer i
// covers the output frame. Layer dimensions are in points (1/72 inch).
func (p *ScrollProject) layerDPI(i int) (int, error) {
	if p.Config.DPI > 0 {
		return p.Config.DPI, nil
	}
	w, h, err := p.Source.GetLayerDimensions(i)
	if err != nil {
		return 0, err
	}
	if w <= 0 || h <= 0 {
		return 72, nil
	}
	s := math.Max(float64(p.Config.Width)/w, float64(p.Config.Height)/h)
	return max(int(math.Ceil(72*s)), 72), nil
}

// placeAnchors moves each layer's zoom origin to the detected focus point,
// mapped from image to viewport coordinates.
func (p *ScrollProject) placeAnchors(comp *renderer.Compositor, images []image.Image) {
	if p.Detector == nil {
		return
	}
	if _, ok := p.Detector.(analyzer.CenterDetector); ok {
		return
	}
	for i, img := range images {
		focus, err := p.Detector.Focus(img)
		if err != nil {
			fmt.Printf("[!] Слой %d: точка фокуса не найдена: %v\n", i, err)
			continue
		}
		comp.SetAnchor(i, coverPoint(img.Bounds(), focus, comp.Width, comp.Height))
	}
}

// coverPoint maps pt inside src to the viewport after a cover fit.
func coverPoint(src image.Rectangle, pt image.Point, width, height int) image.Point {
	s := math.Max(float64(width)/float64(src.Dx()), float64(height)/float64(src.Dy()))
	offX := (float64(width) - float64(src.Dx())*s) / 2
	offY := (float64(height) - float64(src.Dy())*s) / 2
	return image.Pt(
		int(offX+float64(pt.X-src.Min.X)*s),
		int(offY+float64(pt.Y-src.Min.Y)*s),
	)
}

// encode composites frames in parallel batches and feeds them to the
// encoder in order.
func (p *ScrollProject) encode(ctx context.Context, comp *renderer.Compositor, frames []scene.Frame) error {
	params := config.FrameParams{
		Width:      p.Config.Width,
		Height:     p.Config.Height,
		FPS:        p.Config.FPS,
		Duration:   float64(len(frames)) / float64(p.Config.FPS),
		Quality:    p.Config.Quality,
		Encoder:    p.Config.VideoEncoder,
		FrameCount: len(frames),
	}

	g, ctx := errgroup.WithContext(ctx)
	out := make(chan *image.RGBA, p.workers())

	g.Go(func() error {
		return p.Encoder.Encode(ctx, out, p.Config.OutputVideo, params)
	})
	g.Go(func() error {
		defer close(out)
		return p.composeAll(ctx, comp, frames, out)
	})

	return g.Wait()
}

func (p *ScrollProject) composeAll(ctx context.Context, comp *renderer.Compositor, frames []scene.Frame, out chan<- *image.RGBA) error {
	batch := p.workers() * 2
	bounds := comp.Bounds()

	for start := 0; start < len(frames); start += batch {
		end := min(start+batch, len(frames))
		buf := make([]*image.RGBA, end-start)

		cg, cctx := errgroup.WithContext(ctx)
		cg.SetLimit(p.workers())
		for i := start; i < end; i++ {
			i := i
			cg.Go(func() error {
				if err := cctx.Err(); err != nil {
					return err
				}
				img := system.GetImage(bounds)
				comp.Compose(img, frames[i])
				buf[i-start] = img
				return nil
			})
		}
		if err := cg.Wait(); err != nil {
			return err
		}

		for _, img := range buf {
			select {
			case out <- img:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if end%(p.Config.FPS*5) < batch || end == len(frames) {
			fmt.Printf("[>] Кадров: %d/%d\n", end, len(frames))
		}
	}
	return nil
}

func (p *ScrollProject) report(frameCount int, total, load, render time.Duration) {
	fps := float64(frameCount) / total.Seconds()
	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Host: %s\n"+
			"Total Time: %.2fs\n"+
			"Layer Loading: %.2fs\n"+
			"Compositing + Encoding: %.2fs\n"+
			"Frames: %d\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		p.Config.BuildVersion, system.CollectHostStats(), total.Seconds(), load.Seconds(), render.Seconds(), frameCount, fps,
	)
	fmt.Print(report)

	logEntry := fmt.Sprintf("[%s] Build: %s | Scene: %s | Frames: %d | Total: %.2fs | Render: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		filepath.Base(p.Config.ScenePath),
		frameCount,
		total.Seconds(),
		render.Seconds(),
		fps,
	)

	f, err := os.OpenFile("benchmark.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Printf("[!] Не удалось записать benchmark.log: %v\n", err)
		return
	}
	f.WriteString(logEntry)
	f.Close()
}
