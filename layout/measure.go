package layout

import (
	"unicode/utf8"

	"github.com/ByLCY/pagina/dom"
)

// Measurer 按样式测量文本宽度（px）。由渲染后端实现，
// 布局阶段通过它获得与最终绘制一致的字体度量。
type Measurer interface {
	TextWidth(text string, style *dom.Style) float64
}

// atomWidth 返回一个原子的占位宽度：字体测量值加上字距，空格再加词距。
func atomWidth(seg Segment, m Measurer) float64 {
	w := m.TextWidth(seg.Text, seg.Style)
	if seg.Style != nil {
		if n := utf8.RuneCountInString(seg.Text); n > 0 && seg.Style.LetterSpacing != 0 {
			w += seg.Style.LetterSpacing * float64(n)
		}
		if seg.Kind == AtomSpace {
			w += seg.Style.WordSpacing
		}
	}
	return w
}
