package dom

import (
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestParseSizeUnits(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"14px", 14},
		{"12pt", 12 * PtToPx},
		{"2em", 32},
		{"1.5rem", 24},
		{"50%", 200},
		{"18", 18},
		{"0", 0},
		{"3vw", 0}, // 词汇表之外的单位
		{"abc", 0},
		{"", 0},
	}
	for _, c := range cases {
		if got := ParseSize(c.in, 16, 400); !approx(got, c.want) {
			t.Fatalf("ParseSize(%q) = %g, want %g", c.in, got, c.want)
		}
	}
}

func TestParseColor(t *testing.T) {
	if c, ok := ParseColor("#3366cc"); !ok || c != (Color{0x33, 0x66, 0xcc}) {
		t.Fatalf("#3366cc 解析错误: %v %v", c, ok)
	}
	if c, ok := ParseColor("#abc"); !ok || c != (Color{0xaa, 0xbb, 0xcc}) {
		t.Fatalf("#abc 解析错误: %v %v", c, ok)
	}
	if c, ok := ParseColor("#11223344"); !ok || c != (Color{0x11, 0x22, 0x33}) {
		t.Fatalf("#rrggbbaa 应忽略透明通道: %v %v", c, ok)
	}
	if c, ok := ParseColor("  Red "); !ok || c != (Color{255, 0, 0}) {
		t.Fatalf("关键字解析错误: %v %v", c, ok)
	}
	if _, ok := ParseColor("#12"); ok {
		t.Fatalf("非法十六进制不应通过")
	}
	if _, ok := ParseColor("chartreuse"); ok {
		t.Fatalf("词汇表之外的关键字不应通过")
	}
}

func TestResolveStyleInheritance(t *testing.T) {
	parent := ResolveStyle(nil, map[string]string{
		"color":      "#333333",
		"font-size":  "20px",
		"margin-top": "10px",
	}, 16, 400)
	if parent.FontSize != 20 || parent.MarginTop != 10 {
		t.Fatalf("父样式求值错误: %+v", parent)
	}

	child := ResolveStyle(parent, map[string]string{"font-weight": "bold"}, 16, 400)
	if child.Color != (Color{0x33, 0x33, 0x33}) {
		t.Fatalf("颜色应被继承: %+v", child.Color)
	}
	if child.FontSize != 20 {
		t.Fatalf("字号应被继承: %g", child.FontSize)
	}
	if child.MarginTop != 0 {
		t.Fatalf("盒模型字段不应被继承: %g", child.MarginTop)
	}
	if !child.Bold() {
		t.Fatalf("子节点声明应生效")
	}
}

func TestResolveStyleLineHeight(t *testing.T) {
	s := ResolveStyle(nil, map[string]string{"font-size": "20px", "line-height": "1.4"}, 16, 400)
	if !approx(s.LineHeight, 1.4) {
		t.Fatalf("纯数字行高应按倍数: %g", s.LineHeight)
	}
	s = ResolveStyle(nil, map[string]string{"line-height": "24px"}, 16, 400)
	if !approx(s.LineHeight, 24.0/16.0) {
		t.Fatalf("绝对行高应折算为相对当前字号的倍数: %g", s.LineHeight)
	}
}

func TestApplyBoxShorthand(t *testing.T) {
	s := ResolveStyle(nil, map[string]string{"margin": "1px 2px 3px 4px"}, 16, 400)
	if s.MarginTop != 1 || s.MarginRight != 2 || s.MarginBottom != 3 || s.MarginLeft != 4 {
		t.Fatalf("四值简写展开错误: %+v", s)
	}
	s = ResolveStyle(nil, map[string]string{"padding": "5px 10px"}, 16, 400)
	if s.PaddingTop != 5 || s.PaddingBottom != 5 || s.PaddingLeft != 10 || s.PaddingRight != 10 {
		t.Fatalf("双值简写展开错误: %+v", s)
	}
}

func TestDefaultTagStyle(t *testing.T) {
	decls, err := ParseDeclarations(DefaultTagStyle("h1"))
	if err != nil {
		t.Fatalf("h1 默认声明非法: %v", err)
	}
	s := ResolveStyle(nil, decls, 16, 400)
	if s.Display != DisplayBlock || !s.Bold() || !approx(s.FontSize, 32) {
		t.Fatalf("h1 默认样式错误: %+v", s)
	}

	decls, _ = ParseDeclarations(DefaultTagStyle("a"))
	s = ResolveStyle(nil, decls, 16, 400)
	if s.Color != (Color{0x33, 0x66, 0xcc}) {
		t.Fatalf("链接默认颜色错误: %+v", s.Color)
	}

	if DefaultTagStyle("rt") != "" {
		t.Fatalf("未登记标签应无默认声明")
	}
}

func TestUnknownDeclarationsIgnored(t *testing.T) {
	s := ResolveStyle(nil, map[string]string{
		"float":     "left",
		"font-size": "18px",
	}, 16, 400)
	if s.FontSize != 18 {
		t.Fatalf("已知属性不应被未知属性影响: %+v", s)
	}
}
