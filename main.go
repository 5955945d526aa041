package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ByLCY/pagina/dom"
	"github.com/ByLCY/pagina/layout"
	canvasrenderer "github.com/ByLCY/pagina/renderer/canvas"
	"github.com/ByLCY/pagina/viewport"
)

func main() {
	input := flag.String("in", "examples/demo.html", "HTML 文件路径")
	output := flag.String("out", "output", "PNG 快照输出目录")
	width := flag.Float64("width", 420, "视口宽度（px）")
	height := flag.Float64("height", 680, "视口高度（px）")
	mode := flag.String("mode", "vertical", "翻阅方向：vertical 或 horizontal")
	fontRegular := flag.String("font", "", "正文字体文件路径（必填）")
	fontBold := flag.String("font-bold", "", "粗体字体文件路径（可选）")
	fontItalic := flag.String("font-italic", "", "斜体字体文件路径（可选）")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Parse()

	logger := newLogger(*verbose)
	defer logger.Sync()

	if err := run(*input, *output, *debug, *mode, *width, *height,
		*fontRegular, *fontBold, *fontItalic, logger); err != nil {
		logger.Fatal("render failed", zap.Error(err))
	}
	fmt.Printf("已输出快照目录：%s\n", *output)
}

func newLogger(verbose bool) *zap.Logger {
	if verbose {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}

// run 串联解析、排版、视口与快照输出。
func run(inputPath, outputDir, debugPath, modeName string, width, height float64,
	fontRegular, fontBold, fontItalic string, logger *zap.Logger) error {
	if fontRegular == "" {
		return fmt.Errorf("缺少 -font 字体路径")
	}
	var mode layout.Mode
	switch modeName {
	case "vertical":
		mode = layout.Vertical
	case "horizontal":
		mode = layout.Horizontal
	default:
		return fmt.Errorf("未知翻阅方向 %q", modeName)
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开 HTML 文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	theme := layout.DefaultTheme()
	root, err := dom.Parse(file, dom.ParseOptions{
		BaseFontSize:   theme.FontSize,
		ContainerWidth: width,
		TextColor:      theme.Text,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("解析 HTML 失败: %w", err)
	}

	fonts := map[string][]canvasrenderer.Resource{
		theme.FontFamily: fontResources(fontRegular, fontBold, fontItalic),
	}
	backend, err := canvasrenderer.New(canvasrenderer.Options{
		Fonts:         fonts,
		DefaultFamily: theme.FontFamily,
		Loader:        canvasrenderer.FileLoader{BaseDir: filepath.Dir(inputPath)},
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("初始化绘制后端失败: %w", err)
	}
	backend.SetTheme(*theme)

	result, err := layout.Build(root, theme, layout.BuildOptions{
		Measurer:       backend,
		Logger:         logger,
		ViewportWidth:  width,
		ViewportHeight: height,
		Mode:           mode,
	})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if debugPath != "" {
		if err := writeDebug(result, debugPath); err != nil {
			return err
		}
	}

	vp, err := viewport.New(result, viewport.Options{
		Mode:    mode,
		Width:   width,
		Height:  height,
		Painter: backend,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	backend.OnResolve = func(src string) {
		vp.MarkImageDirty(src)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	return snapshotAll(vp, backend, result, mode, outputDir)
}

// snapshotAll 逐块走完整篇内容，把每个表面经过的画面存为 PNG。
// 同步的图片加载器在 Redraw 期间就已回调完成，因此再重绘一次
// 即可把就绪的图片落到快照里。
func snapshotAll(vp *viewport.Viewport, backend *canvasrenderer.Renderer,
	result *layout.Result, mode layout.Mode, outputDir string) error {
	for i := 0; i < result.TotalChunks; i++ {
		if mode == layout.Horizontal {
			vp.GoToPage(i)
		} else {
			vp.SetScrollState(float64(i) * result.Chunks.ChunkHeight)
		}
		if err := vp.Redraw(); err != nil {
			return err
		}
		if err := vp.Redraw(); err != nil {
			return err
		}
		s := vp.Pool().SurfaceAt(float64(i) * result.Chunks.ChunkHeight)
		if s == nil {
			continue
		}
		data, err := backend.Snapshot(s.ID)
		if err != nil {
			return err
		}
		path := filepath.Join(outputDir, fmt.Sprintf("chunk-%03d.png", i))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("写入快照 %s 失败: %w", path, err)
		}
	}
	return nil
}

func fontResources(regular, bold, italic string) []canvasrenderer.Resource {
	resources := []canvasrenderer.Resource{{Path: regular, Style: "regular"}}
	if bold != "" {
		resources = append(resources, canvasrenderer.Resource{Path: bold, Style: "bold"})
	}
	if italic != "" {
		resources = append(resources, canvasrenderer.Resource{Path: italic, Style: "italic"})
	}
	return resources
}

func writeDebug(result *layout.Result, debugPath string) error {
	if dir := filepath.Dir(debugPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建调试目录失败: %w", err)
		}
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
