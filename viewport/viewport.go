package viewport

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/ByLCY/pagina/layout"
)

// Painter 把若干内容块绘制到一个表面上。具体实现由绘制后端提供，
// 视口只负责决定何时画、画哪些块。
type Painter interface {
	Paint(s *Surface, chunks []*layout.Chunk, width, height float64) error
}

// Options 为视口的构造参数。
type Options struct {
	Mode     layout.Mode
	Width    float64
	Height   float64
	PoolSize int
	Painter  Painter
	Logger   *zap.Logger
}

// Viewport 持有排版结果与表面池，把滚动、翻页、命中测试与重绘
// 统一到一个入口。所有方法都假定在同一个 goroutine 上调用。
type Viewport struct {
	opts   Options
	result *layout.Result
	pool   *Pool
	log    *zap.Logger

	scroll float64
	page   int
}

// New 创建视口。result 为已完成的排版结果。
func New(result *layout.Result, opts Options) (*Viewport, error) {
	if result == nil {
		return nil, fmt.Errorf("viewport: 排版结果为空")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("viewport: 视口尺寸非法 %.1fx%.1f", opts.Width, opts.Height)
	}
	if opts.Painter == nil {
		return nil, fmt.Errorf("viewport: 缺少绘制后端 Painter")
	}
	if opts.PoolSize <= 0 {
		opts.PoolSize = DefaultPoolSize
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	v := &Viewport{
		opts:   opts,
		result: result,
		log:    opts.Logger,
		pool:   NewPool(opts.PoolSize, result.Chunks.ChunkHeight, result.ContentHeight),
	}
	return v, nil
}

// Result 返回当前排版结果。
func (v *Viewport) Result() *layout.Result { return v.result }

// Pool 返回表面池，主要供调试与测试使用。
func (v *Viewport) Pool() *Pool { return v.pool }

// Scroll 返回当前滚动偏移（纵向模式）。
func (v *Viewport) Scroll() float64 { return v.scroll }

// Page 返回当前页号（横向模式）。
func (v *Viewport) Page() int { return v.page }

// SetScrollState 设置纵向滚动偏移并轮转表面池。偏移被夹到
// [0, 内容高 - 视口高]。
func (v *Viewport) SetScrollState(offset float64) {
	max := v.result.ContentHeight - v.opts.Height
	if max < 0 {
		max = 0
	}
	if offset < 0 {
		offset = 0
	}
	if offset > max {
		offset = max
	}
	v.scroll = offset
	v.pool.SetScroll(offset)
}

// SetProgress 按阅读进度 [0,1] 定位，等价于一次绝对滚动。
func (v *Viewport) SetProgress(f float64) {
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	v.SetScrollState(f * (v.result.ContentHeight - v.opts.Height))
}

// GoToPage 跳到指定页（横向模式）。页号被夹到 [0, 总块数)。
func (v *Viewport) GoToPage(page int) {
	if page < 0 {
		page = 0
	}
	if n := v.result.TotalChunks; page >= n {
		page = n - 1
	}
	prev := v.page
	v.page = page
	v.pool.SetPage(page, prev)
}

// Redraw 重绘所有待绘表面。每个表面取与它覆盖区间相交的内容块
// 交给绘制后端，成功后清除脏标记。
func (v *Viewport) Redraw() error {
	for _, s := range v.pool.Surfaces() {
		if !s.Dirty {
			continue
		}
		chunks := v.result.Chunks.Overlapping(s.ContentStartY, v.pool.ContentEndY(s))
		if err := v.opts.Painter.Paint(s, chunks, v.opts.Width, v.opts.Height); err != nil {
			return fmt.Errorf("重绘表面 %d 失败: %w", s.ID, err)
		}
		s.Dirty = false
	}
	return nil
}

// MarkImageDirty 在图片异步就绪后把包含它的块所在表面标脏。
// 图片未落在任何当前表面上时无事发生。
func (v *Viewport) MarkImageDirty(src string) {
	indexes := v.result.Chunks.ChunksWithImage(src)
	if len(indexes) == 0 {
		return
	}
	chunk := v.result.Chunks.ChunkHeight
	for _, idx := range indexes {
		start := float64(idx) * chunk
		for _, s := range v.pool.Surfaces() {
			if start < v.pool.ContentEndY(s) && start+chunk > s.ContentStartY {
				s.Dirty = true
			}
		}
	}
	v.log.Debug("image ready, surfaces marked dirty", zap.String("src", src), zap.Ints("chunks", indexes))
}

// Reload 替换排版结果（如视口尺寸或章节变化后重排），表面池
// 回到起始状态并整体标脏，阅读位置归零。
func (v *Viewport) Reload(result *layout.Result) error {
	if result == nil {
		return fmt.Errorf("viewport: 排版结果为空")
	}
	v.result = result
	v.scroll = 0
	v.page = 0
	v.pool = NewPool(v.opts.PoolSize, result.Chunks.ChunkHeight, result.ContentHeight)
	return nil
}

// GlyphAt 对视口坐标做命中测试并返回命中的字形组。先找矩形精确
// 包含的字形，找不到再在相邻块范围内取中心距离最近的一个；完全
// 没有字形时返回 nil。
func (v *Viewport) GlyphAt(vx, vy float64) *layout.GlyphGroup {
	var cy float64
	if v.opts.Mode == layout.Horizontal {
		cy = float64(v.page)*v.result.Chunks.ChunkHeight + vy
	} else {
		cy = v.scroll + vy
	}
	cx := vx

	chunk := v.result.Chunks.ChunkHeight
	idx := 0
	if chunk > 0 {
		idx = int(math.Floor(cy / chunk))
	}

	var nearest *layout.GlyphGroup
	best := math.MaxFloat64
	for _, i := range []int{idx - 1, idx, idx + 1} {
		c := v.result.Chunks.Chunk(i)
		if c == nil {
			continue
		}
		for _, g := range c.Glyphs {
			if g.Kind == layout.AtomSpace {
				continue
			}
			if cx >= g.X && cx <= g.X+g.Width && cy >= g.Top() && cy <= g.Bottom() {
				return g
			}
			dx := cx - (g.X + g.Width/2)
			dy := cy - (g.Y - g.Height/2)
			if d := dx*dx + dy*dy; d < best {
				best = d
				nearest = g
			}
		}
	}
	return nearest
}
