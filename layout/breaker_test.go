package layout

import (
	"strings"
	"testing"
	"unicode"

	"github.com/ByLCY/pagina/dom"
)

// stubMeasurer 是测试用的测量后端：按字符类别给出确定性宽度
// （字母/数字 0.5 字号，空格与标点 0.25 字号，CJK 一个字号），
// 让断行结果可以手算验证。
type stubMeasurer struct{}

func (stubMeasurer) TextWidth(text string, style *dom.Style) float64 {
	size := 16.0
	if style != nil && style.FontSize > 0 {
		size = style.FontSize
	}
	w := 0.0
	for _, r := range text {
		switch {
		case r == ' ':
			w += 0.25 * size
		case isCJK(r):
			w += size
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			w += 0.25 * size
		default:
			w += 0.5 * size
		}
	}
	return w
}

// segsOf 把文本切成携带同一样式的原子序列。
func segsOf(text string, style *dom.Style) []Segment {
	atoms := SegmentText(text)
	segs := make([]Segment, len(atoms))
	for i, a := range atoms {
		segs[i] = Segment{Atom: a, NodeID: "n1", Index: i, Style: style}
	}
	return segs
}

func lineText(line LineBox) string {
	var b strings.Builder
	for _, pa := range line.Atoms {
		b.WriteString(pa.Seg.Text)
	}
	return b.String()
}

func TestBreakCJKFiveper(t *testing.T) {
	text := strings.Repeat("字", 50)
	lines := BreakLines(segsOf(text, nil), BreakContext{AvailableWidth: 80, StartX: 0}, stubMeasurer{})
	if len(lines) != 10 {
		t.Fatalf("50 个 CJK 字符在 5 字宽度下应产出 10 行，实际 %d", len(lines))
	}
	for i, line := range lines {
		if len(line.Atoms) != 5 {
			t.Fatalf("第 %d 行应有 5 个原子，实际 %d", i, len(line.Atoms))
		}
	}
}

func TestBreakEndPunctBacktrack(t *testing.T) {
	// "cc" 之后的逗号放不下，回退把 "cc" 一起带到下一行。
	lines := BreakLines(segsOf("aa bb cc, dd", nil), BreakContext{AvailableWidth: 58, StartX: 0}, stubMeasurer{})
	if len(lines) < 2 {
		t.Fatalf("应发生断行: %d 行", len(lines))
	}
	if got := lineText(lines[0]); got != "aa bb " {
		t.Fatalf("首行内容错误: %q", got)
	}
	if got := lineText(lines[1]); !strings.HasPrefix(got, "cc,") {
		t.Fatalf("次行应以取回的原子加标点开头: %q", got)
	}
	for _, line := range lines {
		if IsEndPunct(line.Atoms[0].Seg.Text) {
			t.Fatalf("收尾标点不应落在行首: %q", lineText(line))
		}
	}
}

func TestBreakBacktrackAbandoned(t *testing.T) {
	// 取回唯一的原子会掏空上一行：放弃补救，标点附着行尾溢出。
	lines := BreakLines(segsOf("Hello, world.", nil), BreakContext{AvailableWidth: 42, StartX: 0}, stubMeasurer{})
	if len(lines) != 2 {
		t.Fatalf("应产出 2 行，实际 %d: %v", len(lines), lines)
	}
	if got := lineText(lines[0]); got != "Hello," {
		t.Fatalf("首行应为 %q，实际 %q", "Hello,", got)
	}
	if got := lineText(lines[1]); got != "world." {
		t.Fatalf("次行应为 %q，实际 %q", "world.", got)
	}
}

func TestBreakOversizeAtomForced(t *testing.T) {
	lines := BreakLines(segsOf("Pneumonoultramicroscopic", nil), BreakContext{AvailableWidth: 40, StartX: 0}, stubMeasurer{})
	if len(lines) != 1 || len(lines[0].Atoms) != 1 {
		t.Fatalf("超宽原子应独占一行强排: %v", lines)
	}
	if lines[0].Width <= 40 {
		t.Fatalf("强排行允许溢出，宽度 %g", lines[0].Width)
	}
}

func TestBreakNoLeadingSpace(t *testing.T) {
	lines := BreakLines(segsOf("aa bb cc dd ee ff gg hh", nil), BreakContext{AvailableWidth: 38, StartX: 0}, stubMeasurer{})
	if len(lines) < 2 {
		t.Fatalf("应发生断行")
	}
	for i, line := range lines {
		if line.Atoms[0].Seg.Kind == AtomSpace {
			t.Fatalf("第 %d 行以空格开头", i)
		}
	}
}

func TestBreakTextIndentShrinksFirstLine(t *testing.T) {
	ctx := BreakContext{AvailableWidth: 40, StartX: 0, TextIndent: 16}
	lines := BreakLines(segsOf("aa bb cc dd", nil), ctx, stubMeasurer{})
	if len(lines) < 2 {
		t.Fatalf("缩进应挤掉首行部分内容")
	}
	if !lines[0].IsFirstLine || lines[1].IsFirstLine {
		t.Fatalf("IsFirstLine 标记错误")
	}
	if lines[0].Atoms[0].X != 16 {
		t.Fatalf("首行原子应从缩进后起排: %g", lines[0].Atoms[0].X)
	}
	if lines[1].Atoms[0].X != 0 {
		t.Fatalf("次行应回到行首: %g", lines[1].Atoms[0].X)
	}

	cont := ctx
	cont.Continuation = true
	lines = BreakLines(segsOf("aa bb cc dd", nil), cont, stubMeasurer{})
	if lines[0].IsFirstLine || lines[0].Atoms[0].X != 0 {
		t.Fatalf("续接流的首行不应缩进: %+v", lines[0])
	}
}

func TestBreakEmptyInput(t *testing.T) {
	if lines := BreakLines(nil, BreakContext{AvailableWidth: 100}, stubMeasurer{}); lines != nil {
		t.Fatalf("空输入应无行盒: %v", lines)
	}
}
