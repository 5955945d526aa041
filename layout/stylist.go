package layout

import (
	"fmt"
	"math"
)

// 上色器：给行盒套上字体度量，算基线、做对齐，产出定位完成的词。
// 同时执行块边界护栏：任何一行都不允许骑跨分块边界。

// StyleContext 携带上色阶段的几何与对齐参数。
type StyleContext struct {
	TextAlign      string
	StartY         float64
	StartLine      int
	Continuation   bool
	AvailableWidth float64
	StartX         float64
	TextIndent     float64
	// ChunkHeight 为分块高度，<=0 时关闭边界护栏。
	ChunkHeight float64
	Theme       *Theme
}

// StyledLines 是上色结果。EndY 为末行下沿，EndLine 为下一可用行号。
type StyledLines struct {
	Glyphs  []*GlyphGroup
	EndY    float64
	EndLine int
}

// StyleLines 逐行计算基线与对齐并产出词列表。
func StyleLines(lines []LineBox, ctx StyleContext) StyledLines {
	out := StyledLines{EndY: ctx.StartY, EndLine: ctx.StartLine}
	if len(lines) == 0 {
		return out
	}
	theme := ctx.Theme
	if theme == nil {
		theme = DefaultTheme()
	}

	baseline := 0.0
	for li, line := range lines {
		// 行度量：混排时取行内最大字号与最大行高。
		maxSize := 0.0
		lineH := 0.0
		for _, pa := range line.Atoms {
			if s := theme.fontSizeOf(pa.Seg.Style); s > maxSize {
				maxSize = s
			}
			if h := theme.lineHeightOf(pa.Seg.Style); h > lineH {
				lineH = h
			}
		}
		if lineH <= 0 {
			lineH = theme.FontSize * theme.LineHeight
		}

		if li == 0 {
			baseline = ctx.StartY + AscentRatio*lineH
		} else {
			baseline += lineH
		}

		// 块边界护栏：行顶与行底落在不同块时整体下移到下一块起点，
		// 位移沿基线链传递给后续所有行。
		if ctx.ChunkHeight > 0 {
			top := baseline - AscentRatio*lineH
			next := (math.Floor(top/ctx.ChunkHeight) + 1) * ctx.ChunkHeight
			if top+lineH > next+1e-6 && top > 0 {
				baseline += next - top
			}
		}

		offset, extra := alignLine(line, li == len(lines)-1, ctx)

		justifyShift := 0.0
		for _, pa := range line.Atoms {
			g := &GlyphGroup{
				WordID:     fmt.Sprintf("%s_%d", pa.Seg.NodeID, pa.Seg.Index),
				NodeID:     pa.Seg.NodeID,
				Index:      pa.Seg.Index,
				X:          pa.X + offset + justifyShift,
				Y:          baseline,
				Width:      pa.W,
				Height:     theme.fontSizeOf(pa.Seg.Style),
				LineHeight: lineH,
				Line:       ctx.StartLine + li,
				Text:       pa.Seg.Text,
				Kind:       pa.Seg.Kind,
				Style:      pa.Seg.Style,
				Start:      pa.Seg.Start,
				End:        pa.Seg.End,
			}
			if pa.Seg.Kind == AtomSpace && extra > 0 {
				g.Width += extra
				justifyShift += extra
			}
			out.Glyphs = append(out.Glyphs, g)
		}

		out.EndY = baseline + (1-AscentRatio)*lineH
		out.EndLine = ctx.StartLine + li + 1
	}
	return out
}

// alignLine 计算整行的横向偏移与两端对齐时每个空格的扩展量。
// 末行不参与两端对齐。
func alignLine(line LineBox, isLast bool, ctx StyleContext) (offset, extra float64) {
	contentWidth := ctx.AvailableWidth
	if line.IsFirstLine {
		contentWidth -= ctx.TextIndent
	}
	switch ctx.TextAlign {
	case "center":
		return (contentWidth - line.Width) / 2, 0
	case "right":
		return contentWidth - line.Width, 0
	case "justify":
		if isLast {
			return 0, 0
		}
		spaces := 0
		for _, pa := range line.Atoms {
			if pa.Seg.Kind == AtomSpace {
				spaces++
			}
		}
		if spaces == 0 {
			return 0, 0
		}
		slack := contentWidth - line.Width
		if slack <= 0 {
			return 0, 0
		}
		return 0, slack / float64(spaces)
	default:
		return 0, 0
	}
}
