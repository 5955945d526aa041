package layout

import (
	"strings"
	"unicode"
)

// 分词器：将一段文本拆成 {word, cjk, space, punct, other} 原子序列。
// 产出的原子互不重叠、保持原序，拼接后恰好等于规整化的输入。

// NormalizeSpace 将空白串压成单个空格并去掉首尾空白。
func NormalizeSpace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// collapseRun 仅压缩空白串，保留首尾的单个空格。
// 行内流里相邻节点之间的边界空格要靠它活下来。
func collapseRun(s string) string {
	core := NormalizeSpace(s)
	if core == "" {
		return ""
	}
	if r := []rune(s); len(r) > 0 {
		if isSpaceRune(r[0]) {
			core = " " + core
		}
		if isSpaceRune(r[len(r)-1]) {
			core += " "
		}
	}
	return core
}

func isSpaceRune(r rune) bool { return unicode.IsSpace(r) }

// SegmentText 对文本做空白规整（含首尾修剪）后扫描分类。
// 偏移为规整后文本的字节偏移。
func SegmentText(text string) []Atom {
	return scanAtoms(NormalizeSpace(text))
}

// SegmentRun 与 SegmentText 相同，但保留首尾边界空格，供行内流收集使用。
func SegmentRun(text string) []Atom {
	return scanAtoms(collapseRun(text))
}

func scanAtoms(text string) []Atom {
	if text == "" {
		return nil
	}

	var atoms []Atom
	runes := []rune(text)
	pos := 0 // 当前字节偏移
	for i := 0; i < len(runes); {
		r := runes[i]
		start := pos
		switch {
		case r == ' ':
			atoms = append(atoms, Atom{Kind: AtomSpace, Text: " ", Start: start, End: start + 1})
			pos++
			i++
		case isCJK(r):
			// CJK 逐字成原子，断行时每个字都是合法折点。
			w := len(string(r))
			atoms = append(atoms, Atom{Kind: AtomCJK, Text: string(r), Start: start, End: start + w})
			pos += w
			i++
		case isWordRune(r):
			j := i
			for j < len(runes) {
				rr := runes[j]
				if isWordRune(rr) {
					j++
					continue
				}
				// 连字符/撇号夹在词中间时并入单词。
				if (rr == '-' || rr == '\'' || rr == '’') && j > i && j+1 < len(runes) && isWordRune(runes[j+1]) {
					j++
					continue
				}
				break
			}
			word := string(runes[i:j])
			atoms = append(atoms, Atom{Kind: AtomWord, Text: word, Start: start, End: start + len(word)})
			pos += len(word)
			i = j
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			w := len(string(r))
			atoms = append(atoms, Atom{Kind: AtomPunct, Text: string(r), Start: start, End: start + w})
			pos += w
			i++
		default:
			w := len(string(r))
			atoms = append(atoms, Atom{Kind: AtomOther, Text: string(r), Start: start, End: start + w})
			pos += w
			i++
		}
	}
	return atoms
}

// isWordRune 报告字符是否属于拉丁词（含数字）。CJK 单独归类。
func isWordRune(r rune) bool {
	if isCJK(r) {
		return false
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// cjkRanges 覆盖统一表意文字、扩展 A–F、兼容表意文字与部首区。
var cjkRanges = [][2]rune{
	{0x2E80, 0x2EFF},   // CJK 部首补充
	{0x2F00, 0x2FDF},   // 康熙部首
	{0x3400, 0x4DBF},   // 扩展 A
	{0x4E00, 0x9FFF},   // 统一表意文字
	{0xF900, 0xFAFF},   // 兼容表意文字
	{0x20000, 0x2A6DF}, // 扩展 B
	{0x2A700, 0x2EBEF}, // 扩展 C–F
	{0x2F800, 0x2FA1F}, // 兼容表意文字补充
}

func isCJK(r rune) bool {
	for _, rg := range cjkRanges {
		if r >= rg[0] && r <= rg[1] {
			return true
		}
	}
	return false
}
