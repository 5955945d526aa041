package layout

import (
	"github.com/ByLCY/pagina/dom"
)

// 该文件定义布局结果与分块模型，供布局计算、视口与绘制共用。

// 排版常量。
const (
	// AscentRatio 是基线相对行顶的比例：基线 = 行顶 + 0.8 × 行高。
	AscentRatio = 0.8
	// JustifySlack 是判断"行内已有内容"的宽度容差比例，吸收浮点漂移。
	JustifySlack = 0.05
	// ImageGap 是图片之后的固定纵向间距（px）。
	ImageGap = 8.0
)

// AtomKind 区分分词器产出的原子类型。
type AtomKind int

const (
	AtomWord AtomKind = iota
	AtomCJK
	AtomSpace
	AtomPunct
	AtomOther
)

// String 返回类型的可读名称。
func (k AtomKind) String() string {
	switch k {
	case AtomWord:
		return "word"
	case AtomCJK:
		return "cjk"
	case AtomSpace:
		return "space"
	case AtomPunct:
		return "punct"
	case AtomOther:
		return "other"
	default:
		return "unknown"
	}
}

// Atom 是分词器的最小输出单元。Start/End 为规整后文本中的字节偏移。
type Atom struct {
	Kind  AtomKind `json:"kind"`
	Text  string   `json:"text"`
	Start int      `json:"start"`
	End   int      `json:"end"`
}

// Segment 是行内流收集阶段的原子：附带所属文本节点与节点内序号，
// 样式直接携带指针，后续测量与上色不再查表。
type Segment struct {
	Atom
	NodeID string
	Index  int
	Style  *dom.Style
}

// PlacedAtom 是断行后带有行内横坐标的原子。X 为对齐前的横坐标，W 为测量宽度。
type PlacedAtom struct {
	Seg Segment
	X   float64
	W   float64
}

// LineBox 是断行器输出的一行。
type LineBox struct {
	Atoms       []PlacedAtom
	Width       float64 // 各原子宽度之和
	IsFirstLine bool
	TextIndent  float64
	StartX      float64
}

// GlyphGroup 是定位完成、可直接绘制的原子，也是分块索引的单元。
type GlyphGroup struct {
	// WordID 在所属文本节点内唯一，形如 "<nodeID>_<index>"。
	WordID string  `json:"wordId"`
	NodeID string  `json:"nodeId"`
	Index  int     `json:"index"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"` // 基线纵坐标
	Width  float64 `json:"width"`
	Height float64 `json:"height"` // ≈ 字号
	// LineHeight 为该词所在行的行高，用于推算块归属。
	LineHeight float64    `json:"lineHeight"`
	Line       int        `json:"line"`
	Text       string     `json:"text"`
	Kind       AtomKind   `json:"kind"`
	Style      *dom.Style `json:"-"`
	Start      int        `json:"start"`
	End        int        `json:"end"`
}

// Top 返回词的上沿（行顶）。
func (g *GlyphGroup) Top() float64 { return g.Y - AscentRatio*g.LineHeight }

// Bottom 返回词的下沿。
func (g *GlyphGroup) Bottom() float64 { return g.Top() + g.LineHeight }

// ImageBox 描述一张已定位的图片。
type ImageBox struct {
	NodeID        string  `json:"nodeId"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"` // 左上角
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	NaturalWidth  float64 `json:"naturalWidth"`
	NaturalHeight float64 `json:"naturalHeight"`
	Src           string  `json:"src"`
	Alt           string  `json:"alt,omitempty"`
	Scaled        bool    `json:"scaled"`
}

// LayoutNode 镜像内容树，记录每个节点布局后的矩形；
// 文本/链接叶子携带词列表，图片叶子携带 ImageBox。
type LayoutNode struct {
	Node      *dom.Node     `json:"-"`
	NodeID    string        `json:"nodeId"`
	Kind      dom.NodeKind  `json:"kind"`
	StartX    float64       `json:"startX"`
	StartY    float64       `json:"startY"`
	StartLine int           `json:"startLine"`
	EndX      float64       `json:"endX"`
	EndY      float64       `json:"endY"`
	EndLine   int           `json:"endLine"`
	Glyphs    []*GlyphGroup `json:"layout,omitempty"`
	Image     *ImageBox     `json:"image,omitempty"`
	Children  []*LayoutNode `json:"children,omitempty"`
}

// Chunk 是滚动轴上一段视口大小的内容切片，也是重绘的最小单位。
type Chunk struct {
	Index  int           `json:"index"`
	StartY float64       `json:"startY"`
	EndY   float64       `json:"endY"`
	Glyphs []*GlyphGroup `json:"glyphs"`
	Images []*ImageBox   `json:"images"`
}

// Theme 描述阅读主题。
type Theme struct {
	Background dom.Color `json:"background"`
	Text       dom.Color `json:"text"`
	FontSize   float64   `json:"fontSize"`   // 基准字号（px）
	FontFamily string    `json:"fontFamily"` // 默认字族
	PaddingX   float64   `json:"paddingX"`   // 两侧留白（px）
	LineHeight float64   `json:"lineHeight"` // 行高倍数
}

// DefaultTheme 返回默认主题。
func DefaultTheme() *Theme {
	return &Theme{
		Background: dom.Color{R: 255, G: 255, B: 255},
		Text:       dom.Color{R: 30, G: 30, B: 30},
		FontSize:   16,
		FontFamily: "Body",
		PaddingX:   16,
		LineHeight: 1.5,
	}
}

// lineHeightOf 返回某样式在主题下的行高（px）。
func (t *Theme) lineHeightOf(s *dom.Style) float64 {
	size := t.FontSize
	factor := t.LineHeight
	if s != nil {
		if s.FontSize > 0 {
			size = s.FontSize
		}
		if s.LineHeight > 0 {
			factor = s.LineHeight
		}
	}
	if factor <= 0 {
		factor = 1.5
	}
	return size * factor
}

// fontSizeOf 返回某样式在主题下的字号（px）。
func (t *Theme) fontSizeOf(s *dom.Style) float64 {
	if s != nil && s.FontSize > 0 {
		return s.FontSize
	}
	return t.FontSize
}

// Result 保存一次内容装载的完整布局产物。
type Result struct {
	Root          *LayoutNode `json:"root"`
	Chunks        *ChunkIndex `json:"chunks"`
	ContentWidth  float64     `json:"contentWidth"`
	ContentHeight float64     `json:"contentHeight"`
	TotalChunks   int         `json:"totalChunks"`
	Theme         *Theme      `json:"theme"`
}
