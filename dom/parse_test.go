package dom

import (
	"strings"
	"testing"
)

func parseHTML(t *testing.T, input string) *Node {
	t.Helper()
	root, err := ParseString(input, ParseOptions{
		BaseFontSize:   16,
		ContainerWidth: 400,
		TextColor:      Color{30, 30, 30},
	})
	if err != nil {
		t.Fatalf("解析 HTML 失败: %v", err)
	}
	return root
}

func TestParseBasicTree(t *testing.T) {
	root := parseHTML(t, `<html><head><title>x</title></head><body>
		<h1>标题</h1>
		<p>First paragraph.</p>
	</body></html>`)

	if root.Tag != "body" || root.Kind != NodeElement {
		t.Fatalf("根节点错误: %+v", root)
	}
	if len(root.Children) != 2 {
		t.Fatalf("body 应有 2 个子节点，实际 %d", len(root.Children))
	}
	h1 := root.Children[0]
	if h1.Tag != "h1" || h1.Style.FontSize != 32 || !h1.Style.Bold() {
		t.Fatalf("h1 样式错误: %+v", h1.Style)
	}
	if len(h1.Children) != 1 || h1.Children[0].Kind != NodeText || h1.Children[0].Text != "标题" {
		t.Fatalf("h1 文本子节点错误: %+v", h1.Children)
	}
}

func TestParseAssignsStableIDs(t *testing.T) {
	root := parseHTML(t, `<body><p>a</p><p>b</p></body>`)
	seen := map[string]bool{}
	root.Walk(func(n *Node) bool {
		if n.ID == "" || !strings.HasPrefix(n.ID, "n") {
			t.Fatalf("节点缺少标识: %+v", n)
		}
		if seen[n.ID] {
			t.Fatalf("节点标识重复: %s", n.ID)
		}
		seen[n.ID] = true
		return true
	})
	if root.ID != "n1" {
		t.Fatalf("根节点应为 n1，实际 %s", root.ID)
	}
}

func TestParseDropsNonContent(t *testing.T) {
	root := parseHTML(t, `<body><script>var x = 1;</script><style>p{}</style><p>kept</p></body>`)
	if len(root.Children) != 1 || root.Children[0].Tag != "p" {
		t.Fatalf("脚本与样式标签应被丢弃: %+v", root.Children)
	}
}

func TestParseLinkFlattened(t *testing.T) {
	root := parseHTML(t, `<body><p><a href="ch2.html">next <b>chapter</b></a></p></body>`)
	p := root.Children[0]
	if len(p.Children) != 1 {
		t.Fatalf("p 应只有链接子节点: %+v", p.Children)
	}
	link := p.Children[0]
	if link.Kind != NodeLink || link.Href != "ch2.html" {
		t.Fatalf("链接节点错误: %+v", link)
	}
	if link.Text != "next chapter" {
		t.Fatalf("链接内部标签应拍平为文本，实际 %q", link.Text)
	}
	if link.Style.Color != (Color{0x33, 0x66, 0xcc}) {
		t.Fatalf("链接默认颜色错误: %+v", link.Style.Color)
	}
}

func TestParseImageAttrs(t *testing.T) {
	root := parseHTML(t, `<body><img src="cover.png" alt="封面" width="120" height="80"></body>`)
	img := root.Children[0]
	if img.Kind != NodeImage || img.Src != "cover.png" || img.Alt != "封面" {
		t.Fatalf("图片节点错误: %+v", img)
	}
	if img.Width != 120 || img.Height != 80 {
		t.Fatalf("图片尺寸属性错误: %gx%g", img.Width, img.Height)
	}
	if img.IsInline() {
		t.Fatalf("图片不参与行内流")
	}
}

func TestParseInlineStyleApplied(t *testing.T) {
	root := parseHTML(t, `<body><p style="text-align: center; text-indent: 2em">x</p></body>`)
	p := root.Children[0]
	if p.Style.TextAlign != "center" {
		t.Fatalf("text-align 未生效: %+v", p.Style)
	}
	if p.Style.TextIndent != 32 {
		t.Fatalf("text-indent 未换算: %g", p.Style.TextIndent)
	}
}

func TestParseMalformedStyleIgnored(t *testing.T) {
	root := parseHTML(t, `<body><p style="color: red; @bad">x</p></body>`)
	p := root.Children[0]
	// 整条 style 属性非法时放弃内联声明，标签默认样式仍然生效。
	if p.Style.Display != DisplayBlock {
		t.Fatalf("默认样式应保留: %+v", p.Style)
	}
}

func TestParseBoundarySpacePreserved(t *testing.T) {
	root := parseHTML(t, `<body><p>Hello <b>World</b></p></body>`)
	p := root.Children[0]
	if len(p.Children) != 2 {
		t.Fatalf("p 应有文本与 b 两个子节点: %+v", p.Children)
	}
	if got := p.Children[0].Text; got != "Hello " {
		t.Fatalf("行内边界空格应保留，实际 %q", got)
	}
}

func TestParseWhitespaceOnlyTextDropped(t *testing.T) {
	root := parseHTML(t, "<body><p>a</p>\n\t <p>b</p></body>")
	for _, c := range root.Children {
		if c.Kind == NodeText {
			t.Fatalf("块间空白不应产出文本节点: %q", c.Text)
		}
	}
}

func TestParseNestedInlineStyleInheritance(t *testing.T) {
	root := parseHTML(t, `<body><p style="color: #112233"><em>x</em></p></body>`)
	em := root.Children[0].Children[0]
	if !em.Style.Italic() {
		t.Fatalf("em 应为斜体: %+v", em.Style)
	}
	if em.Style.Color != (Color{0x11, 0x22, 0x33}) {
		t.Fatalf("颜色应沿树继承: %+v", em.Style.Color)
	}
}
