package layout

// 断行器：把原子序列装进给定宽度的行盒。
// 规则要点：原子不可拆分；行首禁排收尾标点（回退补救）；
// 单个原子宽于可用宽度时独占一行强排，绝不丢弃。

// endPunct 是不允许出现在行首的收尾标点（含全角形式）。
const endPunct = `,.;:?!)]}»"'…` + "，。；：？！）】』」、…—”’"

// startPunct 是允许领行的起始标点（含全角形式）。
const startPunct = `([{«"'` + "（【『「“‘"

// IsEndPunct 报告单字符标点是否属于收尾标点集。
func IsEndPunct(text string) bool { return punctIn(text, endPunct) }

// IsStartPunct 报告单字符标点是否属于起始标点集。
func IsStartPunct(text string) bool { return punctIn(text, startPunct) }

func punctIn(text, set string) bool {
	runes := []rune(text)
	if len(runes) != 1 {
		return false
	}
	for _, r := range set {
		if r == runes[0] {
			return true
		}
	}
	return false
}

// BreakContext 携带断行所需的几何参数。
type BreakContext struct {
	AvailableWidth float64
	StartX         float64
	TextIndent     float64
	// Continuation 为真表示续接上一段行内流，首行不再缩进。
	Continuation bool
}

// maxBacktrack 是回退补救时从上一行最多取回的原子数。
const maxBacktrack = 3

type lineBuilder struct {
	ctx   BreakContext
	m     Measurer
	lines []LineBox
	cur   []PlacedAtom
	curX  float64
}

func (b *lineBuilder) lineStartX() float64 {
	if len(b.lines) == 0 && !b.ctx.Continuation {
		return b.ctx.StartX + b.ctx.TextIndent
	}
	return b.ctx.StartX
}

func (b *lineBuilder) place(seg Segment, w float64) {
	b.cur = append(b.cur, PlacedAtom{Seg: seg, X: b.curX, W: w})
	b.curX += w
}

// flush 结束当前行。空行不产出。
func (b *lineBuilder) flush() {
	if len(b.cur) == 0 {
		return
	}
	start := b.lineStartX()
	b.lines = append(b.lines, LineBox{
		Atoms:       b.cur,
		Width:       b.curX - start,
		IsFirstLine: len(b.lines) == 0 && !b.ctx.Continuation,
		TextIndent:  b.ctx.TextIndent,
		StartX:      b.ctx.StartX,
	})
	b.cur = nil
	b.curX = b.lineStartX()
}

// BreakLines 对原子序列执行贪心断行。
func BreakLines(segs []Segment, ctx BreakContext, m Measurer) []LineBox {
	b := &lineBuilder{ctx: ctx, m: m}
	b.curX = b.lineStartX()

	for _, seg := range segs {
		w := atomWidth(seg, m)
		exceeds := b.curX+w > ctx.StartX+ctx.AvailableWidth
		hasContent := b.curX-b.lineStartX() > ctx.AvailableWidth*JustifySlack

		switch seg.Kind {
		case AtomSpace:
			if exceeds {
				// 断点处的空格直接丢弃。
				b.flush()
				continue
			}
			if len(b.cur) == 0 {
				// 行首空格同样丢弃。
				continue
			}
			b.place(seg, w)
		case AtomPunct:
			if exceeds && hasContent && IsEndPunct(seg.Text) {
				b.breakWithBacktrack(seg, w)
				continue
			}
			if exceeds && hasContent {
				// 起始标点与普通标点按常规断行，允许领行。
				b.flush()
			}
			b.place(seg, w)
		default: // word / cjk / other
			if exceeds && hasContent {
				b.flush()
			}
			// 行首原子即便超宽也强排。
			b.place(seg, w)
		}
	}

	b.flush()
	return b.lines
}

// breakWithBacktrack 处理会落到行首的收尾标点：结束当前行，
// 从刚完成的行尾取回至多 maxBacktrack 个原子垫在标点前面。
// 取回会掏空上一行时放弃补救，把标点强排在当前行尾（允许少量溢出）。
func (b *lineBuilder) breakWithBacktrack(seg Segment, w float64) {
	// 找出可取回的原子：跳过行尾空格，直到取到第一个非空格为止。
	n := 0
	taken := 0
	for n < len(b.cur) && taken < maxBacktrack {
		idx := len(b.cur) - 1 - n
		if idx == 0 {
			// 取走最后一个原子会掏空本行。
			break
		}
		kind := b.cur[idx].Seg.Kind
		n++
		taken++
		if kind != AtomSpace {
			break
		}
	}
	if n == 0 || b.cur[len(b.cur)-n].Seg.Kind == AtomSpace {
		// 无可取回的非空格原子：放弃补救，标点附着在本行尾部。
		b.place(seg, w)
		b.flush()
		return
	}

	popped := make([]PlacedAtom, n)
	copy(popped, b.cur[len(b.cur)-n:])
	b.cur = b.cur[:len(b.cur)-n]
	b.curX = b.lineStartX()
	if len(b.cur) > 0 {
		last := b.cur[len(b.cur)-1]
		b.curX = last.X + last.W
	}
	b.flush()

	// 取回的原子与标点一起开启新行（丢掉行首空格）。
	for _, pa := range popped {
		if len(b.cur) == 0 && pa.Seg.Kind == AtomSpace {
			continue
		}
		b.place(pa.Seg, pa.W)
	}
	b.place(seg, w)
}
