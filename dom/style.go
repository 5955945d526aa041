package dom

import (
	"strconv"
	"strings"
)

// 样式在固定词汇表上求值：display、font-*、line-height、letter/word-spacing、
// color、text-align、text-indent、margin-*、padding-*、width、height、
// background-color。每个元素的有效样式 = 标签默认表 → 父级可继承子集 → 节点内联声明。

// Display 取值。
const (
	DisplayBlock  = "block"
	DisplayInline = "inline"
)

// pt→px 换算系数。
const PtToPx = 1.33

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Style 是一个元素的有效样式快照。长度字段均已换算为 px。
type Style struct {
	Display       string  `json:"display"`
	FontFamily    string  `json:"fontFamily,omitempty"`
	FontSize      float64 `json:"fontSize"`
	FontWeight    string  `json:"fontWeight,omitempty"`
	FontStyle     string  `json:"fontStyle,omitempty"`
	LineHeight    float64 `json:"lineHeight,omitempty"` // 倍数，0 表示跟随主题
	LetterSpacing float64 `json:"letterSpacing,omitempty"`
	WordSpacing   float64 `json:"wordSpacing,omitempty"`
	Color         Color   `json:"color"`
	TextAlign     string  `json:"textAlign,omitempty"`
	TextIndent    float64 `json:"textIndent,omitempty"`

	MarginTop     float64 `json:"marginTop,omitempty"`
	MarginRight   float64 `json:"marginRight,omitempty"`
	MarginBottom  float64 `json:"marginBottom,omitempty"`
	MarginLeft    float64 `json:"marginLeft,omitempty"`
	PaddingTop    float64 `json:"paddingTop,omitempty"`
	PaddingRight  float64 `json:"paddingRight,omitempty"`
	PaddingBottom float64 `json:"paddingBottom,omitempty"`
	PaddingLeft   float64 `json:"paddingLeft,omitempty"`

	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	Background *Color  `json:"background,omitempty"`
}

// Bold 报告字重是否为粗体。
func (s *Style) Bold() bool { return s != nil && s.FontWeight == "bold" }

// Italic 报告是否为斜体。
func (s *Style) Italic() bool { return s != nil && s.FontStyle == "italic" }

// inherited 返回仅保留可继承属性的副本，盒模型相关字段归零。
func (s *Style) inherited() *Style {
	return &Style{
		Display:       DisplayInline,
		FontFamily:    s.FontFamily,
		FontSize:      s.FontSize,
		FontWeight:    s.FontWeight,
		FontStyle:     s.FontStyle,
		LineHeight:    s.LineHeight,
		LetterSpacing: s.LetterSpacing,
		WordSpacing:   s.WordSpacing,
		Color:         s.Color,
		TextAlign:     s.TextAlign,
		TextIndent:    s.TextIndent,
	}
}

// tagDefaults 是标签默认样式表。值为声明文本，与内联 style 走同一条解析路径。
var tagDefaults = map[string]string{
	"body":       "display: block",
	"div":        "display: block",
	"p":          "display: block; margin-top: 1em; margin-bottom: 1em",
	"blockquote": "display: block; margin-top: 1em; margin-bottom: 1em; margin-left: 2.5em; margin-right: 2.5em",
	"h1":         "display: block; font-size: 2em; font-weight: bold; margin-top: 0.67em; margin-bottom: 0.67em",
	"h2":         "display: block; font-size: 1.5em; font-weight: bold; margin-top: 0.83em; margin-bottom: 0.83em",
	"h3":         "display: block; font-size: 1.17em; font-weight: bold; margin-top: 1em; margin-bottom: 1em",
	"h4":         "display: block; font-weight: bold; margin-top: 1.33em; margin-bottom: 1.33em",
	"h5":         "display: block; font-size: 0.83em; font-weight: bold; margin-top: 1.67em; margin-bottom: 1.67em",
	"h6":         "display: block; font-size: 0.67em; font-weight: bold; margin-top: 2.33em; margin-bottom: 2.33em",
	"ul":         "display: block; margin-top: 1em; margin-bottom: 1em; padding-left: 2.5em",
	"ol":         "display: block; margin-top: 1em; margin-bottom: 1em; padding-left: 2.5em",
	"li":         "display: block",
	"br":         "display: block",
	"b":          "font-weight: bold",
	"strong":     "font-weight: bold",
	"i":          "font-style: italic",
	"em":         "font-style: italic",
	"u":          "",
	"span":       "",
	"a":          "color: #3366cc",
	"img":        "display: block",
}

// DefaultTagStyle 返回标签默认声明文本，未登记的标签视为普通行内元素。
func DefaultTagStyle(tag string) string {
	return tagDefaults[strings.ToLower(tag)]
}

// ResolveStyle 计算一个元素的有效样式。
// parent 为父元素的有效样式（根元素传 nil），decls 为合并后的声明映射，
// base 为主题字号（em/rem 基准），ref 为容器宽度（% 基准）。
func ResolveStyle(parent *Style, decls map[string]string, base, ref float64) *Style {
	var s *Style
	if parent != nil {
		s = parent.inherited()
	} else {
		s = &Style{Display: DisplayInline, FontSize: base}
	}
	if s.FontSize <= 0 {
		s.FontSize = base
	}
	for key, val := range decls {
		applyDecl(s, key, val, base, ref)
	}
	return s
}

func applyDecl(s *Style, key, val string, base, ref float64) {
	val = strings.TrimSpace(val)
	if val == "" {
		return
	}
	switch strings.ToLower(key) {
	case "display":
		if v := strings.ToLower(val); v == DisplayBlock || v == DisplayInline {
			s.Display = v
		}
	case "font-family":
		s.FontFamily = strings.Trim(val, `"'`)
	case "font-size":
		if v := ParseSize(val, base, ref); v > 0 {
			s.FontSize = v
		}
	case "font-weight":
		switch strings.ToLower(val) {
		case "bold", "bolder", "600", "700", "800", "900":
			s.FontWeight = "bold"
		case "normal", "400":
			s.FontWeight = "normal"
		}
	case "font-style":
		switch strings.ToLower(val) {
		case "italic", "oblique":
			s.FontStyle = "italic"
		case "normal":
			s.FontStyle = "normal"
		}
	case "line-height":
		// 纯数字按倍数，带单位按绝对值换算为相对当前字号的倍数。
		if f, err := strconv.ParseFloat(val, 64); err == nil && f > 0 {
			s.LineHeight = f
		} else if px := ParseSize(val, base, ref); px > 0 && s.FontSize > 0 {
			s.LineHeight = px / s.FontSize
		}
	case "letter-spacing":
		s.LetterSpacing = ParseSize(val, base, ref)
	case "word-spacing":
		s.WordSpacing = ParseSize(val, base, ref)
	case "color":
		if c, ok := ParseColor(val); ok {
			s.Color = c
		}
	case "background-color", "background":
		if c, ok := ParseColor(val); ok {
			s.Background = &c
		}
	case "text-align":
		switch v := strings.ToLower(val); v {
		case "left", "center", "right", "justify":
			s.TextAlign = v
		case "start":
			s.TextAlign = "left"
		case "end":
			s.TextAlign = "right"
		}
	case "text-indent":
		s.TextIndent = ParseSize(val, base, ref)
	case "margin-top":
		s.MarginTop = ParseSize(val, base, ref)
	case "margin-right":
		s.MarginRight = ParseSize(val, base, ref)
	case "margin-bottom":
		s.MarginBottom = ParseSize(val, base, ref)
	case "margin-left":
		s.MarginLeft = ParseSize(val, base, ref)
	case "margin":
		applyBox(val, base, ref, &s.MarginTop, &s.MarginRight, &s.MarginBottom, &s.MarginLeft)
	case "padding-top":
		s.PaddingTop = ParseSize(val, base, ref)
	case "padding-right":
		s.PaddingRight = ParseSize(val, base, ref)
	case "padding-bottom":
		s.PaddingBottom = ParseSize(val, base, ref)
	case "padding-left":
		s.PaddingLeft = ParseSize(val, base, ref)
	case "padding":
		applyBox(val, base, ref, &s.PaddingTop, &s.PaddingRight, &s.PaddingBottom, &s.PaddingLeft)
	case "width":
		s.Width = ParseSize(val, base, ref)
	case "height":
		s.Height = ParseSize(val, base, ref)
	default:
		// 词汇表之外的属性忽略。
	}
}

// applyBox 按 CSS 简写语义展开 1-4 个值。
func applyBox(val string, base, ref float64, top, right, bottom, left *float64) {
	fields := strings.Fields(val)
	vals := make([]float64, 0, 4)
	for _, f := range fields {
		vals = append(vals, ParseSize(f, base, ref))
		if len(vals) == 4 {
			break
		}
	}
	switch len(vals) {
	case 1:
		*top, *right, *bottom, *left = vals[0], vals[0], vals[0], vals[0]
	case 2:
		*top, *bottom = vals[0], vals[0]
		*right, *left = vals[1], vals[1]
	case 3:
		*top, *right, *bottom = vals[0], vals[1], vals[2]
		*left = vals[1]
	case 4:
		*top, *right, *bottom, *left = vals[0], vals[1], vals[2], vals[3]
	}
}

// ParseSize 解析长度字符串并换算为 px。
// 支持 px、pt（×1.33）、em/rem（×base）、%（×ref）与裸数字；未知单位返回 0。
func ParseSize(value string, base, ref float64) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	type unit struct {
		suffix string
		factor func(v float64) float64
	}
	units := []unit{
		{"px", func(v float64) float64 { return v }},
		{"pt", func(v float64) float64 { return v * PtToPx }},
		{"rem", func(v float64) float64 { return v * base }},
		{"em", func(v float64) float64 { return v * base }},
		{"%", func(v float64) float64 { return v * ref / 100 }},
	}
	for _, u := range units {
		if strings.HasSuffix(value, u.suffix) {
			num := strings.TrimSpace(strings.TrimSuffix(value, u.suffix))
			v, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return 0
			}
			return u.factor(v)
		}
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		// 带未知单位的值按 0 处理。
		return 0
	}
	return v
}

// namedColors 覆盖书籍内容里常见的颜色关键字。
var namedColors = map[string]Color{
	"black":  {0, 0, 0},
	"white":  {255, 255, 255},
	"gray":   {128, 128, 128},
	"grey":   {128, 128, 128},
	"red":    {255, 0, 0},
	"green":  {0, 128, 0},
	"blue":   {0, 0, 255},
	"yellow": {255, 255, 0},
	"orange": {255, 165, 0},
	"purple": {128, 0, 128},
}

// ParseColor 解析 #rgb/#rrggbb/#rrggbbaa 或颜色关键字。
func ParseColor(value string) (Color, bool) {
	value = strings.TrimSpace(strings.ToLower(value))
	if c, ok := namedColors[value]; ok {
		return c, true
	}
	if !strings.HasPrefix(value, "#") {
		return Color{}, false
	}
	hex := strings.TrimPrefix(value, "#")
	switch len(hex) {
	case 3:
		r := strings.Repeat(string(hex[0]), 2)
		g := strings.Repeat(string(hex[1]), 2)
		b := strings.Repeat(string(hex[2]), 2)
		return Color{R: mustHex(r), G: mustHex(g), B: mustHex(b)}, true
	case 6, 8:
		return Color{R: mustHex(hex[0:2]), G: mustHex(hex[2:4]), B: mustHex(hex[4:6])}, true
	default:
		return Color{}, false
	}
}

func mustHex(s string) int {
	v, _ := strconv.ParseInt(s, 16, 64)
	return int(v)
}
