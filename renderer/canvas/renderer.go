package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"os"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"go.uber.org/zap"

	"github.com/ByLCY/pagina/dom"
	"github.com/ByLCY/pagina/layout"
	"github.com/ByLCY/pagina/renderer"
	"github.com/ByLCY/pagina/viewport"
)

// 坐标约定：布局产物的 px 被直接当作画布单位使用，创建字体面时
// 做一次 px→pt 换算，像素导出时按 1:1 采样。
const pxToPt = 1 / 0.352777

const (
	placeholderBorder = 1.0
	placeholderPad    = 6.0
)

// Resource 描述一份字体数据，Bytes 与 Path 二选一。
// Style 为字体变体描述，如 "regular"、"bold"、"italic"。
type Resource struct {
	Bytes []byte
	Path  string
	Style string
}

// Options 配置画布后端。
type Options struct {
	// Fonts 按族名注入字体，同族可含多个变体。
	Fonts map[string][]Resource
	// DefaultFamily 为样式未指定族名时的后备族，留空取 "Body"。
	DefaultFamily string
	// Loader 为图片加载后端，留空时所有图片保持占位状态。
	Loader renderer.ImageLoader
	// Highlights 在正文字形之前绘制，入参为该表面覆盖的内容纵区间。
	Highlights func(ctx *canvas.Context, y0, y1 float64)
	Logger     *zap.Logger
}

// Renderer 基于 github.com/tdewolff/canvas 实现文本测量与表面绘制。
type Renderer struct {
	opts  Options
	theme layout.Theme
	log   *zap.Logger

	fontMu   sync.Mutex
	families map[string]*canvas.FontFamily
	faces    map[string]*canvas.FontFace

	imageMu sync.Mutex
	images  map[string]*imageEntry

	// OnResolve 在一张图片异步就绪或失败后被回调，入参为图片来源。
	OnResolve func(src string)

	surfMu  sync.Mutex
	backing map[int]*canvas.Canvas
}

var (
	_ layout.Measurer  = (*Renderer)(nil)
	_ viewport.Painter = (*Renderer)(nil)
)

// New 创建画布后端并装载注入的字体。字体装载失败立即报错，
// 缺字体的测量结果没有意义。
func New(opts Options) (*Renderer, error) {
	if opts.DefaultFamily == "" {
		opts.DefaultFamily = "Body"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	r := &Renderer{
		opts:     opts,
		theme:    *layout.DefaultTheme(),
		log:      opts.Logger,
		families: map[string]*canvas.FontFamily{},
		faces:    map[string]*canvas.FontFace{},
		images:   map[string]*imageEntry{},
		backing:  map[int]*canvas.Canvas{},
	}
	for name, resources := range opts.Fonts {
		family := canvas.NewFontFamily(name)
		for _, res := range resources {
			data := res.Bytes
			if len(data) == 0 && res.Path != "" {
				var err error
				data, err = os.ReadFile(res.Path)
				if err != nil {
					return nil, fmt.Errorf("读取字体 %s 失败: %w", res.Path, err)
				}
			}
			if len(data) == 0 {
				return nil, fmt.Errorf("字体族 %s 的资源既无数据也无路径", name)
			}
			if err := family.LoadFont(data, 0, parseFontStyle(res.Style)); err != nil {
				return nil, fmt.Errorf("装载字体族 %s 失败: %w", name, err)
			}
		}
		r.families[name] = family
	}
	if _, ok := r.families[opts.DefaultFamily]; !ok && len(r.families) > 0 {
		return nil, fmt.Errorf("默认字体族 %s 未注入", opts.DefaultFamily)
	}
	return r, nil
}

// SetTheme 设置绘制主题，应在排版前与布局侧保持一致。
func (r *Renderer) SetTheme(theme layout.Theme) { r.theme = theme }

// TextWidth 实现 layout.Measurer。
func (r *Renderer) TextWidth(text string, style *dom.Style) float64 {
	face := r.face(style)
	if face == nil {
		return 0
	}
	return face.TextWidth(text)
}

// FontHeight 返回样式对应字体面的行高参考值，供调试输出使用。
func (r *Renderer) FontHeight(style *dom.Style) float64 {
	face := r.face(style)
	if face == nil {
		return 0
	}
	return face.Metrics().LineHeight
}

// face 返回样式对应的字体面，带记忆化。键覆盖影响字形的全部维度。
func (r *Renderer) face(style *dom.Style) *canvas.FontFace {
	famName := r.theme.FontFamily
	size := r.theme.FontSize
	weight := "normal"
	variant := "normal"
	var col color.Color = colorOf(r.theme.Text)
	if style != nil {
		if style.FontFamily != "" {
			famName = style.FontFamily
		}
		if style.FontSize > 0 {
			size = style.FontSize
		}
		if style.FontWeight != "" {
			weight = style.FontWeight
		}
		if style.FontStyle != "" {
			variant = style.FontStyle
		}
		col = colorOf(style.Color)
	}

	key := fmt.Sprintf("%s %s %.2fpx %s", variant, weight, size, famName)

	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if face, ok := r.faces[key]; ok {
		return face
	}

	family, ok := r.families[famName]
	if !ok {
		family, ok = r.families[r.opts.DefaultFamily]
		if !ok {
			r.log.Warn("no font family loaded", zap.String("family", famName))
			return nil
		}
	}
	fs := canvas.FontRegular
	if weight == "bold" {
		fs = canvas.FontBold
	}
	if variant == "italic" {
		fs |= canvas.FontItalic
	}
	face := family.Face(size*pxToPt, col, fs, canvas.FontNormal)
	r.faces[key] = face
	return face
}

// Paint 实现 viewport.Painter：把表面覆盖的内容块画到该表面的
// 后备画布上。每次重绘都重建画布，表面之间互不复用内容。
func (r *Renderer) Paint(s *viewport.Surface, chunks []*layout.Chunk, width, height float64) error {
	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	startY := s.ContentStartY
	endY := startY + height

	ctx.SetFillColor(colorOf(r.theme.Background))
	ctx.DrawPath(0, 0, canvas.Rectangle(width, height))

	if r.opts.Highlights != nil {
		r.opts.Highlights(ctx, startY, endY)
	}

	for _, chunk := range chunks {
		for _, img := range chunk.Images {
			if img.Y+img.Height <= startY || img.Y >= endY {
				continue
			}
			r.drawImage(ctx, img, startY)
		}
		for _, g := range chunk.Glyphs {
			if g.Kind == layout.AtomSpace {
				continue
			}
			if g.Bottom() <= startY || g.Top() >= endY {
				continue
			}
			face := r.face(g.Style)
			if face == nil {
				continue
			}
			ctx.DrawText(g.X, g.Y-startY, canvas.NewTextLine(face, g.Text, canvas.Left))
		}
	}

	r.surfMu.Lock()
	r.backing[s.ID] = c
	r.surfMu.Unlock()
	return nil
}

// drawImage 绘制一张图片或其占位框。startY 为表面覆盖区间的内容起点。
func (r *Renderer) drawImage(ctx *canvas.Context, box *layout.ImageBox, startY float64) {
	entry := r.requestImage(box)
	y := box.Y - startY

	if entry != nil && entry.state == imageReady {
		dpmm := float64(entry.img.Bounds().Dx()) / box.Width
		if dpmm <= 0 {
			dpmm = 1
		}
		ctx.DrawImage(box.X, y, entry.img, canvas.DPMM(dpmm))
		return
	}

	// 占位：边框加替代文本。失败与加载中的呈现一致，重绘由回调驱动。
	ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	ctx.SetStrokeColor(colorOf(r.theme.Text))
	ctx.SetStrokeWidth(placeholderBorder)
	ctx.DrawPath(box.X, y, canvas.Rectangle(box.Width, box.Height))

	label := box.Alt
	if label == "" {
		label = box.Src
	}
	hint := fmt.Sprintf("%.0fx%.0f", box.NaturalWidth, box.NaturalHeight)
	if box.Scaled {
		hint = fmt.Sprintf("%.0fx%.0f→%.0fx%.0f", box.NaturalWidth, box.NaturalHeight, box.Width, box.Height)
	}
	face := r.face(nil)
	if face == nil {
		return
	}
	ctx.DrawText(box.X+placeholderPad, y+placeholderPad+r.theme.FontSize,
		canvas.NewTextLine(face, label, canvas.Left))
	ctx.DrawText(box.X+placeholderPad, y+box.Height-placeholderPad,
		canvas.NewTextLine(face, hint, canvas.Left))
}

// Snapshot 把表面的后备画布编码为 PNG，按 1px:1 单位采样。
// 表面尚未绘制过时报错。
func (r *Renderer) Snapshot(surfaceID int) ([]byte, error) {
	r.surfMu.Lock()
	c, ok := r.backing[surfaceID]
	r.surfMu.Unlock()
	if !ok {
		return nil, fmt.Errorf("表面 %d 尚未绘制", surfaceID)
	}
	img := rasterizer.Draw(c, canvas.DPMM(1), canvas.DefaultColorSpace)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

func colorOf(c dom.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
