package dom

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// ParseOptions 配置 HTML 解析与样式求值。
type ParseOptions struct {
	// BaseFontSize 为 em/rem 的换算基准（px）。
	BaseFontSize float64
	// ContainerWidth 为 % 的换算基准（px）。
	ContainerWidth float64
	// TextColor 为根元素的默认文字颜色。
	TextColor Color
	// Logger 记录被跳过的非法输入；为 nil 时静默。
	Logger *zap.Logger
}

// Parse 将一段 HTML 解析为内容树。返回的根节点是一个块级容器，
// 对应 <body>（无完整文档时对应整个片段）。
func Parse(r io.Reader, opts ParseOptions) (*Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("解析 HTML 失败: %w", err)
	}
	if opts.BaseFontSize <= 0 {
		opts.BaseFontSize = 16
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	body := findBody(doc)
	if body == nil {
		return nil, fmt.Errorf("HTML 中缺少可解析的内容")
	}

	p := &parser{opts: opts}
	rootStyle := &Style{
		Display:  DisplayBlock,
		FontSize: opts.BaseFontSize,
		Color:    opts.TextColor,
	}
	root := &Node{Kind: NodeElement, ID: p.nextID(), Tag: "body", Style: rootStyle}
	p.children(body, root)
	return root, nil
}

// ParseString 从字符串解析内容树。
func ParseString(input string, opts ParseOptions) (*Node, error) {
	return Parse(strings.NewReader(input), opts)
}

type parser struct {
	opts ParseOptions
	seq  int
	// 同一轮解析里每种告警只记一次，避免长章节刷屏。
	warned map[string]bool
}

func (p *parser) nextID() string {
	p.seq++
	return "n" + strconv.Itoa(p.seq)
}

func (p *parser) warnOnce(key, msg string, fields ...zap.Field) {
	if p.warned == nil {
		p.warned = map[string]bool{}
	}
	if p.warned[key] {
		return
	}
	p.warned[key] = true
	p.opts.Logger.Warn(msg, fields...)
}

// children 解析 src 的子节点并挂到 parent 上。
func (p *parser) children(src *html.Node, parent *Node) {
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			text := collapseSpace(c.Data)
			if text == "" {
				continue
			}
			parent.Children = append(parent.Children, &Node{
				Kind:  NodeText,
				ID:    p.nextID(),
				Text:  text,
				Style: parent.Style,
			})
		case html.ElementNode:
			if n := p.element(c, parent); n != nil {
				parent.Children = append(parent.Children, n)
			}
		}
	}
}

// element 解析单个元素。脚本/样式等非内容标签直接丢弃。
func (p *parser) element(src *html.Node, parent *Node) *Node {
	tag := strings.ToLower(src.Data)
	switch tag {
	case "script", "style", "head", "title", "meta", "link":
		return nil
	}

	style := p.resolve(parent.Style, tag, attr(src, "style"))

	switch tag {
	case "img":
		n := &Node{
			Kind:  NodeImage,
			ID:    p.nextID(),
			Tag:   tag,
			Src:   attr(src, "src"),
			Alt:   attr(src, "alt"),
			Style: style,
		}
		if w, err := strconv.ParseFloat(attr(src, "width"), 64); err == nil && w > 0 {
			n.Width = w
		}
		if h, err := strconv.ParseFloat(attr(src, "height"), 64); err == nil && h > 0 {
			n.Height = h
		}
		if n.Src == "" {
			p.warnOnce("img-src", "image without src", zap.String("id", n.ID))
		}
		return n
	case "a":
		// 链接拍平为叶子，内部标签只保留文本。
		text := collapseSpace(flattenText(src))
		if text == "" {
			return nil
		}
		return &Node{
			Kind:  NodeLink,
			ID:    p.nextID(),
			Tag:   tag,
			Text:  text,
			Href:  attr(src, "href"),
			Style: style,
		}
	default:
		n := &Node{Kind: NodeElement, ID: p.nextID(), Tag: tag, Style: style}
		p.children(src, n)
		return n
	}
}

// resolve 合并标签默认表、父级继承与内联声明。
func (p *parser) resolve(parent *Style, tag, inline string) *Style {
	decls := map[string]string{}
	if def := DefaultTagStyle(tag); def != "" {
		m, err := ParseDeclarations(def)
		if err == nil {
			decls = m
		}
	}
	if inline != "" {
		m, err := ParseDeclarations(inline)
		if err != nil {
			p.warnOnce("style-"+tag, "invalid inline style", zap.String("tag", tag), zap.Error(err))
		} else {
			for k, v := range m {
				decls[k] = v
			}
		}
	}
	return ResolveStyle(parent, decls, p.opts.BaseFontSize, p.opts.ContainerWidth)
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

func findBody(doc *html.Node) *html.Node {
	var body *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if body != nil {
			return
		}
		if n.Type == html.ElementNode && strings.EqualFold(n.Data, "body") {
			body = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return body
}

func flattenText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// collapseSpace 将空白串压成单个空格。首尾若原本有空白则各保留一个，
// 行内相邻节点之间的分隔由它承载；纯空白文本压成空串。
func collapseSpace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return ""
	}
	out := b.String()
	if r := []rune(s); len(r) > 0 {
		if isSpace(r[0]) {
			out = " " + out
		}
		if isSpace(r[len(r)-1]) {
			out += " "
		}
	}
	return out
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
}
