package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ivlev/dolly2video/internal/analyzer"
	"github.com/ivlev/dolly2video/internal/config"
	"github.com/ivlev/dolly2video/internal/director"
	"github.com/ivlev/dolly2video/internal/engine"
	"github.com/ivlev/dolly2video/internal/preview"
	"github.com/ivlev/dolly2video/internal/source"
	"github.com/ivlev/dolly2video/internal/system"
	"github.com/ivlev/dolly2video/internal/video"
)

var buildVersion = "dev"

func main() {
	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	// Создаем нужные директории, если их нет
	dirs := []string{"input/pdf", "scenes", "output"}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	scenePtr := flag.String("scene", "", "Путь к YAML сцене (по умолчанию: самая свежая в scenes/, иначе генерируется)")
	inputPtr := flag.String("input", "", "Путь к PDF или папке с изображениями, один слой на страницу/изображение")
	outputPtr := flag.String("output", "", "Путь к видео (если пусто, генерируется автоматически в output/)")
	durationPtr := flag.Float64("duration", 0, "Длительность видео (если 0, берется из ключевых кадров сцены)")
	layerDurationPtr := flag.Float64("layer-duration", 2.0, "Длительность прокрутки одного слоя при генерации сцены (сек)")
	widthPtr := flag.Int("width", 1280, "Ширина")
	heightPtr := flag.Int("height", 720, "Высота")
	fpsPtr := flag.Int("fps", 30, "FPS")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Потоки")
	dpiPtr := flag.Int("dpi", 0, "DPI рендеринга PDF (0 - авто, по размеру кадра)")
	qualityPtr := flag.Int("quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	presetPtr := flag.String("preset", "", "Пресет формата: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	anchorPtr := flag.String("anchor", "center", "Точка зума слоя: center, contrast")
	debugPtr := flag.Bool("debug", false, "Отладочный оверлей: позиция прокрутки, брейкпоинт, QR с состоянием кадра")
	statsPtr := flag.Bool("stats", false, "Показать отчет о производительности")
	strictPtr := flag.Bool("strict", false, "Строгие брейкпоинты: значение 0 не заменяется значением первого брейкпоинта")
	previewPtr := flag.Bool("preview", false, "Интерактивный просмотр в терминале вместо рендеринга видео")
	writeScenePtr := flag.Bool("write-scene", false, "Только сгенерировать сцену в scenes/ и выйти")

	flag.Parse()

	width, height := *widthPtr, *heightPtr
	switch *presetPtr {
	case "16:9":
		width, height = 1280, 720
	case "9:16":
		width, height = 720, 1280
	case "4:5":
		width, height = 1080, 1350
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scenePath := *scenePtr
	if scenePath == "" && !*writeScenePtr {
		if latest, err := director.FindLatestScene("scenes"); err == nil {
			scenePath = latest
			fmt.Printf("[*] Выбрана сцена: %s\n", scenePath)
		}
	}

	var sf *director.SceneFile
	var src source.Source
	var err error

	if scenePath != "" {
		sf, err = director.ReadScene(scenePath)
		if err != nil {
			log.Fatalf("[-] Ошибка чтения сцены: %v", err)
		}
	}

	opts := config.SceneOptions{StrictBreakpoints: *strictPtr}

	// Предпросмотр не требует изображений слоев
	if *previewPtr && sf != nil && *inputPtr == "" {
		runPreview(ctx, sf, opts)
		return
	}

	src, err = openSource(*inputPtr, scenePath, sf)
	if err != nil {
		log.Fatalf("[-] Ошибка инициализации источника: %v", err)
	}
	defer src.Close()

	if src.LayerCount() == 0 {
		log.Fatalf("[-] Ошибка: в источнике нет страниц или изображений")
	}

	if sf == nil {
		total := *durationPtr
		if total <= 0 {
			total = float64(src.LayerCount()) * (*layerDurationPtr)
		}
		sf, err = generateScene(src, width, height, total, opts)
		if err != nil {
			log.Fatalf("[-] Ошибка генерации сцены: %v", err)
		}
		scenePath = director.GenerateScenePath("scenes")
		rebaseImages(sf, "scenes")
		if err := director.WriteScene(sf, scenePath); err != nil {
			log.Fatalf("[-] Ошибка записи сцены: %v", err)
		}
		fmt.Printf("[*] Сцена сохранена: %s\n", scenePath)
		if *writeScenePtr {
			return
		}
	}

	if *previewPtr {
		runPreview(ctx, sf, opts)
		return
	}

	finalOutput := *outputPtr
	if finalOutput == "" {
		baseName := filepath.Base(scenePath)
		nameOnly := strings.TrimSuffix(baseName, filepath.Ext(baseName))
		cleanName := strings.ReplaceAll(nameOnly, " ", "_")
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		finalOutput = filepath.Join("output", fmt.Sprintf("%s_%s.mp4", cleanName, timestamp))
	}

	encoderName := system.GetBestH264Encoder()
	if encoderName != "libx264" {
		fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", encoderName)
	}

	quality := *qualityPtr
	if quality == 0 {
		quality = system.DefaultQuality(encoderName)
	}

	detector, err := analyzer.NewDetector(*anchorPtr)
	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}

	cfg := &config.Config{
		ScenePath:     scenePath,
		InputPath:     *inputPtr,
		OutputVideo:   finalOutput,
		TotalDuration: *durationPtr,
		Width:         width,
		Height:        height,
		FPS:           *fpsPtr,
		Workers:       *workersPtr,
		DPI:           *dpiPtr,
		Anchor:        *anchorPtr,
		Quality:       quality,
		VideoEncoder:  encoderName,
		Debug:         *debugPtr,
		Strict:        *strictPtr,
		ShowStats:     *statsPtr,
		BuildVersion:  buildVersion,
	}

	project := engine.NewScrollProject(cfg, sf, src, &video.FFmpegEncoder{})
	project.Detector = detector
	project.Options = opts
	if err := project.Run(ctx); err != nil {
		log.Fatalf("[-] Ошибка проекта: %v", err)
	}

	fmt.Printf("[+++] Успех! Результат: %s\n", cfg.OutputVideo)
}

// openSource picks the layer images: -input first, then the images named in
// the scene, then the newest PDF in input/pdf.
func openSource(input, scenePath string, sf *director.SceneFile) (source.Source, error) {
	if input != "" {
		return source.Open(input)
	}

	if sf != nil && len(sf.Layers) > 0 {
		files := make([]string, len(sf.Layers))
		complete := true
		for i, l := range sf.Layers {
			files[i] = l.Image
			complete = complete && l.Image != ""
		}
		if complete {
			return source.NewImageFiles(filepath.Dir(scenePath), files)
		}
	}

	latest, err := system.FindLatestPDF("input/pdf")
	if err != nil {
		return nil, fmt.Errorf("%w. Положите PDF в input/pdf/ или укажите -input", err)
	}
	fmt.Printf("[*] Выбран файл: %s\n", latest)
	return source.Open(latest)
}

func generateScene(src source.Source, width, height int, total float64, opts config.SceneOptions) (*director.SceneFile, error) {
	var inputs []string
	if imgs, ok := src.(*source.ImageSource); ok {
		inputs = imgs.Paths()
	} else {
		for i := 0; i < src.LayerCount(); i++ {
			inputs = append(inputs, "")
		}
	}

	d := director.NewDirector(width, height)
	d.Options = opts
	return d.GenerateScene(inputs, total)
}

// rebaseImages makes layer image paths relative to the scene directory.
func rebaseImages(sf *director.SceneFile, dir string) {
	for i, l := range sf.Layers {
		if l.Image == "" {
			continue
		}
		abs, err := filepath.Abs(l.Image)
		if err != nil {
			continue
		}
		absDir, err := filepath.Abs(dir)
		if err != nil {
			continue
		}
		if rel, err := filepath.Rel(absDir, abs); err == nil {
			sf.Layers[i].Image = rel
		}
	}
}

func runPreview(ctx context.Context, sf *director.SceneFile, opts config.SceneOptions) {
	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("[-] Ошибка терминала: %v", err)
	}
	if err := preview.Run(ctx, screen, sf.Container(), opts); err != nil {
		log.Fatalf("[-] Ошибка предпросмотра: %v", err)
	}
}
