package dom

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// 内联 style 属性是一个 CSS 声明列表（`key: value; key: value`）。
// 这里用 participle 建一个小语法来解析它，value 按原始词素收集，
// 由 applyDecl 做最终解释。

var (
	cssLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
		{Name: "Comment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "Color", Pattern: `#[0-9A-Fa-f]{3,8}`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+|\.\d+)(?:px|pt|em|rem|%)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"|'(?:\\.|[^'])*'`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[:;,()/.!]`},
	})

	cssTokenNames  = invertSymbols(cssLexer.Symbols())
	cssSymbolType  = mustTokenType("Symbol")
	cssStringType  = mustTokenType("String")
	declListParser = participle.MustBuild[declarationList](
		participle.Lexer(cssLexer),
		participle.Elide("Whitespace", "Comment"),
	)
)

// declarationList 是声明列表的根节点，容忍多余的分号。
type declarationList struct {
	Decls []*declaration `parser:"( ';'* @@ )* ';'*"`
}

// declaration 是一条 `property: value` 声明。
type declaration struct {
	Property string        `parser:"@Ident ':'"`
	Value    []*valueToken `parser:"@@+"`
}

// valueToken 收集声明值里的单个词素，直到遇到分号为止。
type valueToken struct {
	Type  string
	Value string
	Raw   string
}

// Parse 实现 participle.Parseable，使 valueToken 成为语法原子。
func (v *valueToken) Parse(lex *lexer.PeekingLexer) error {
	tok := lex.Peek()
	if tok.EOF() {
		return participle.NextMatch
	}
	if tok.Type == cssSymbolType && tok.Value == ";" {
		return participle.NextMatch
	}
	tok = lex.Next()

	name, ok := cssTokenNames[tok.Type]
	if !ok {
		name = fmt.Sprintf("#%d", tok.Type)
	}
	val := tok.Value
	if tok.Type == cssStringType {
		if unquoted, err := unquoteCSS(tok.Value); err == nil {
			val = unquoted
		}
	}
	*v = valueToken{Type: name, Value: val, Raw: tok.Value}
	return nil
}

// ParseDeclarations 将内联 style 文本解析为属性映射，键统一小写，后写的覆盖先写的。
func ParseDeclarations(input string) (map[string]string, error) {
	out := map[string]string{}
	input = strings.TrimSpace(input)
	if input == "" {
		return out, nil
	}
	list, err := declListParser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("解析 style 声明失败: %w", err)
	}
	for _, d := range list.Decls {
		if d == nil || d.Property == "" {
			continue
		}
		out[strings.ToLower(d.Property)] = joinValue(d.Value)
	}
	return out, nil
}

// joinValue 还原值文本：词素之间补空格，逗号紧贴前一词素。
func joinValue(tokens []*valueToken) string {
	var b strings.Builder
	for i, tok := range tokens {
		if tok == nil {
			continue
		}
		if i > 0 && tok.Value != "," {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Value)
	}
	return b.String()
}

// unquoteCSS 去掉 CSS 字符串字面量的引号（单双引号都支持）。
func unquoteCSS(s string) (string, error) {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		s = `"` + strings.ReplaceAll(s[1:len(s)-1], `"`, `\"`) + `"`
	}
	return strconv.Unquote(s)
}

func invertSymbols(symbols map[string]lexer.TokenType) map[lexer.TokenType]string {
	out := make(map[lexer.TokenType]string, len(symbols))
	for name, tt := range symbols {
		out[tt] = name
	}
	return out
}

func mustTokenType(name string) lexer.TokenType {
	symbols := cssLexer.Symbols()
	tt, ok := symbols[name]
	if !ok {
		panic(fmt.Sprintf("token %s not defined", name))
	}
	return tt
}
