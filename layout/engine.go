package layout

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/ByLCY/pagina/dom"
)

// 布局引擎：自上而下遍历内容树，块级元素走「收集→断行→上色」，
// 图片缩放居中，全程维护 (x, y, line) 游标并记录每个节点的布局矩形。
// 一次内容装载只构建一次，产物在重绘期间只读。

// Mode 表示翻阅方向。
type Mode int

const (
	// Vertical 纵向滚动。
	Vertical Mode = iota
	// Horizontal 横向翻页。内容仍沿 Y 轴排布，一页即一块。
	Horizontal
)

// BuildOptions 配置布局所需的依赖与视口几何。
type BuildOptions struct {
	Measurer Measurer
	Logger   *zap.Logger
	// ViewportWidth/ViewportHeight 为视口尺寸（px），分块尺寸与之相同。
	ViewportWidth  float64
	ViewportHeight float64
	Mode           Mode
}

// Build 对内容树执行完整布局，产出定位后的词、图片、布局树与分块索引。
func Build(root *dom.Node, theme *Theme, opts BuildOptions) (*Result, error) {
	if root == nil {
		return nil, fmt.Errorf("内容树为空")
	}
	if opts.Measurer == nil {
		return nil, fmt.Errorf("layout: 缺少测量后端 Measurer")
	}
	if opts.ViewportWidth <= 0 || opts.ViewportHeight <= 0 {
		return nil, fmt.Errorf("视口尺寸非法: %gx%g", opts.ViewportWidth, opts.ViewportHeight)
	}
	if theme == nil {
		theme = DefaultTheme()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &engine{
		theme:  theme,
		meas:   opts.Measurer,
		log:    logger,
		chunkH: opts.ViewportHeight,
		x:      theme.PaddingX,
	}

	contentWidth := opts.ViewportWidth - 2*theme.PaddingX
	if contentWidth <= 0 {
		return nil, fmt.Errorf("视口过窄：可用宽度 %g", contentWidth)
	}

	rootLN := e.layoutBlock(root, theme.PaddingX, contentWidth)

	contentHeight := e.y
	total := int(math.Ceil(contentHeight / e.chunkH))
	if total < 1 {
		total = 1
	}

	return &Result{
		Root:          rootLN,
		Chunks:        NewChunkIndex(e.glyphs, e.images, e.chunkH),
		ContentWidth:  opts.ViewportWidth,
		ContentHeight: contentHeight,
		TotalChunks:   total,
		Theme:         theme,
	}, nil
}

type engine struct {
	theme  *Theme
	meas   Measurer
	log    *zap.Logger
	chunkH float64

	x    float64
	y    float64
	line int

	glyphs []*GlyphGroup
	images []*ImageBox
}

// layoutBlock 布局一个块级元素：外边距/内边距 → 行内流 → 非行内子节点。
func (e *engine) layoutBlock(n *dom.Node, leftX, avail float64) *LayoutNode {
	st := n.Style
	if st == nil {
		st = &dom.Style{Display: dom.DisplayBlock}
	}

	// 上一个兄弟留下的行内游标悬空时先换行。
	if e.x > leftX {
		e.x = leftX
	}

	e.y += st.MarginTop
	boxLeft := leftX + st.MarginLeft
	ln := &LayoutNode{
		Node:      n,
		NodeID:    n.ID,
		Kind:      n.Kind,
		StartX:    boxLeft,
		StartY:    e.y,
		StartLine: e.line,
	}
	e.y += st.PaddingTop

	innerLeft := boxLeft + st.PaddingLeft
	innerAvail := avail - st.MarginLeft - st.MarginRight - st.PaddingLeft - st.PaddingRight
	if st.Width > 0 && st.Width < innerAvail {
		innerAvail = st.Width
	}
	if innerAvail <= 0 {
		e.log.Warn("block has no usable width", zap.String("id", n.ID), zap.Float64("avail", avail))
		innerAvail = avail
		innerLeft = leftX
	}

	flow := CollectInline(n)

	if len(flow.Segments) > 0 {
		indent := st.TextIndent
		lines := BreakLines(flow.Segments, BreakContext{
			AvailableWidth: innerAvail,
			StartX:         innerLeft,
			TextIndent:     indent,
		}, e.meas)
		styled := StyleLines(lines, StyleContext{
			TextAlign:      st.TextAlign,
			StartY:         e.y,
			StartLine:      e.line,
			AvailableWidth: innerAvail,
			StartX:         innerLeft,
			TextIndent:     indent,
			ChunkHeight:    e.chunkH,
			Theme:          e.theme,
		})
		e.glyphs = append(e.glyphs, styled.Glyphs...)
		e.y = styled.EndY
		e.line = styled.EndLine
		e.x = innerLeft

		// 按节点归组，回填行内后代的布局叶子。
		byNode := map[string][]*GlyphGroup{}
		for _, g := range styled.Glyphs {
			byNode[g.NodeID] = append(byNode[g.NodeID], g)
		}
		for _, c := range n.Children {
			if c.IsInline() {
				if child := buildInlineLayoutNode(c, byNode); child != nil {
					ln.Children = append(ln.Children, child)
				}
			}
		}
	}

	// 行内流之后按文档序布局非行内子节点。
	for _, c := range flow.Blocks {
		var child *LayoutNode
		switch c.Kind {
		case dom.NodeImage:
			child = e.layoutImage(c, innerLeft, innerAvail)
		default:
			child = e.layoutBlock(c, innerLeft, innerAvail)
		}
		if child != nil {
			ln.Children = append(ln.Children, child)
		}
	}

	e.y += st.PaddingBottom
	ln.EndX = innerLeft + innerAvail
	ln.EndY = e.y
	ln.EndLine = e.line
	e.y += st.MarginBottom
	e.x = leftX
	return ln
}

// layoutImage 将图片缩放到可用宽度内并水平居中；
// 跨过分块边界时整体下移到下一块起点。
func (e *engine) layoutImage(n *dom.Node, leftX, avail float64) *LayoutNode {
	if n.Src == "" {
		e.log.Warn("image without src, placeholder only", zap.String("id", n.ID))
	}

	nw, nh := n.Width, n.Height
	if nw <= 0 {
		nw = avail
	}
	if nh <= 0 {
		nh = nw * 0.6
	}

	w, h := nw, nh
	scaled := false
	if nw > avail {
		w = avail
		h = nh * avail / nw
		scaled = true
	}

	x := leftX + (avail-w)/2
	y := e.y
	if e.chunkH > 0 {
		next := (math.Floor(y/e.chunkH) + 1) * e.chunkH
		if y+h > next+1e-6 && y > 0 && h <= e.chunkH {
			y = next
		}
	}

	img := &ImageBox{
		NodeID:        n.ID,
		X:             x,
		Y:             y,
		Width:         w,
		Height:        h,
		NaturalWidth:  n.Width,
		NaturalHeight: n.Height,
		Src:           n.Src,
		Alt:           n.Alt,
		Scaled:        scaled,
	}
	e.images = append(e.images, img)
	e.y = y + h + ImageGap
	e.x = leftX

	return &LayoutNode{
		Node:   n,
		NodeID: n.ID,
		Kind:   n.Kind,
		StartX: x,
		StartY: y,
		EndX:   x + w,
		EndY:   y + h,
		Image:  img,
	}
}

// buildInlineLayoutNode 根据归组后的词构建行内后代的布局节点。
// 叶子的矩形取词集的包络；没有词的叶子不产出。
func buildInlineLayoutNode(n *dom.Node, byNode map[string][]*GlyphGroup) *LayoutNode {
	switch n.Kind {
	case dom.NodeText, dom.NodeLink:
		glyphs := byNode[n.ID]
		if len(glyphs) == 0 {
			return nil
		}
		first, last := glyphs[0], glyphs[len(glyphs)-1]
		return &LayoutNode{
			Node:      n,
			NodeID:    n.ID,
			Kind:      n.Kind,
			StartX:    first.X,
			StartY:    first.Top(),
			StartLine: first.Line,
			EndX:      last.X + last.Width,
			EndY:      last.Bottom(),
			EndLine:   last.Line,
			Glyphs:    glyphs,
		}
	case dom.NodeElement:
		ln := &LayoutNode{Node: n, NodeID: n.ID, Kind: n.Kind}
		for _, c := range n.Children {
			if child := buildInlineLayoutNode(c, byNode); child != nil {
				ln.Children = append(ln.Children, child)
			}
		}
		if len(ln.Children) == 0 {
			return nil
		}
		first, last := ln.Children[0], ln.Children[len(ln.Children)-1]
		ln.StartX, ln.StartY, ln.StartLine = first.StartX, first.StartY, first.StartLine
		ln.EndX, ln.EndY, ln.EndLine = last.EndX, last.EndY, last.EndLine
		return ln
	default:
		return nil
	}
}
