package dom

// 该文件定义解析树的节点模型。布局引擎只消费这里的结构，
// 不回头访问原始 HTML DOM。

// NodeKind 区分节点的四种形态。
type NodeKind int

const (
	// NodeElement 容器元素（块级或行内由样式的 display 决定）。
	NodeElement NodeKind = iota
	// NodeText 纯文本叶子。
	NodeText
	// NodeLink 链接叶子，文本已拍平。
	NodeLink
	// NodeImage 图片叶子。
	NodeImage
)

// String 返回类型的可读名称。
func (k NodeKind) String() string {
	switch k {
	case NodeElement:
		return "element"
	case NodeText:
		return "text"
	case NodeLink:
		return "link"
	case NodeImage:
		return "image"
	default:
		return "unknown"
	}
}

// Node 是解析后的内容节点。样式在解析阶段已完成继承合并，
// 下游读取 Style 即为最终有效值，不需要再向祖先回溯。
type Node struct {
	Kind NodeKind `json:"kind"`
	// ID 为深度优先分配的稳定编号（如 "n12"），用于回填布局结果与命中测试。
	ID  string `json:"id"`
	Tag string `json:"tag,omitempty"`
	// Text 仅对 text/link 叶子有效。
	Text string `json:"text,omitempty"`
	Href string `json:"href,omitempty"`
	// 图片属性。Width/Height 为自然尺寸（px），0 表示未知。
	Src    string  `json:"src,omitempty"`
	Alt    string  `json:"alt,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	Style    *Style  `json:"style,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// IsInline 报告节点是否参与行内流。图片与块级元素不参与。
func (n *Node) IsInline() bool {
	switch n.Kind {
	case NodeText, NodeLink:
		return true
	case NodeImage:
		return false
	default:
		return n.Style == nil || n.Style.Display != DisplayBlock
	}
}

// Walk 深度优先遍历节点，fn 返回 false 时跳过该子树。
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
