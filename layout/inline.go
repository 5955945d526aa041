package layout

import (
	"github.com/ByLCY/pagina/dom"
)

// 行内流收集：把一个块的行内后代按文档序拍平成一条原子流，
// 非行内子节点（图片、嵌套块）单独返回，排在行内流之后布局。

// InlineFlow 是一次收集的结果。
type InlineFlow struct {
	Segments []Segment
	// Blocks 保持文档序的非行内子节点。
	Blocks []*dom.Node
}

// CollectInline 收集 block 的行内后代。行内容器被递归展开，
// 文本按节点分词并携带样式指针与节点内序号。
func CollectInline(block *dom.Node) InlineFlow {
	var flow InlineFlow
	for _, c := range block.Children {
		collectNode(c, &flow)
	}
	return flow
}

func collectNode(n *dom.Node, flow *InlineFlow) {
	switch n.Kind {
	case dom.NodeText, dom.NodeLink:
		atoms := SegmentRun(n.Text)
		for i, a := range atoms {
			// 相邻节点各带一个边界空格时只保留前一个。
			if a.Kind == AtomSpace && i == 0 && len(flow.Segments) > 0 &&
				flow.Segments[len(flow.Segments)-1].Kind == AtomSpace {
				continue
			}
			flow.Segments = append(flow.Segments, Segment{
				Atom:   a,
				NodeID: n.ID,
				Index:  i,
				Style:  n.Style,
			})
		}
	case dom.NodeImage:
		flow.Blocks = append(flow.Blocks, n)
	case dom.NodeElement:
		if n.IsInline() {
			for _, c := range n.Children {
				collectNode(c, flow)
			}
			return
		}
		flow.Blocks = append(flow.Blocks, n)
	}
}
