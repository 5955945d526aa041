package viewport

// 表面池：K 个长期存活的绘制表面组成逻辑环，随滚动或翻页在内容上
// 平移。任何时刻的重绘量都以池大小为上界，与文档长度无关。

const (
	// DefaultPoolSize 为表面池的默认大小。
	DefaultPoolSize = 4
	// RotateFraction 为轮转阈值系数：向下滚动越过 头表面起点 + 块高 +
	// RotateFraction × 块高 时头部轮转，向上对称。
	RotateFraction = 0.5
)

// Surface 是一个可复用的绘制表面。ContentStartY 为它当前覆盖的内容起点，
// 随池轮转而变化；Dirty 表示需要重绘。
type Surface struct {
	ID            int
	ContentStartY float64
	Dirty         bool
}

// Pool 把 K 个表面组织成环。head 指向覆盖内容最靠前的表面，
// tail 指向最靠后的表面。
type Pool struct {
	surfaces []*Surface
	head     int
	tail     int
	chunk    float64
	contentH float64
}

// NewPool 创建表面池。表面初始覆盖内容开头的 K 个连续块且全部待绘。
func NewPool(size int, chunk, contentH float64) *Pool {
	if size < 2 {
		size = DefaultPoolSize
	}
	p := &Pool{chunk: chunk, contentH: contentH}
	p.surfaces = make([]*Surface, size)
	for i := range p.surfaces {
		p.surfaces[i] = &Surface{
			ID:            i,
			ContentStartY: float64(i) * chunk,
			Dirty:         true,
		}
	}
	p.head = 0
	p.tail = size - 1
	return p
}

// Reset 在内容重载后把池拉回起始状态并全部标脏。
func (p *Pool) Reset(contentH float64) {
	p.contentH = contentH
	for i, s := range p.surfaces {
		s.ContentStartY = float64(i) * p.chunk
		s.Dirty = true
	}
	p.head = 0
	p.tail = len(p.surfaces) - 1
}

// Surfaces 返回池内全部表面（环序即数组序，头尾由游标区分）。
func (p *Pool) Surfaces() []*Surface { return p.surfaces }

// Head 返回覆盖内容最靠前的表面。
func (p *Pool) Head() *Surface { return p.surfaces[p.head] }

// Tail 返回覆盖内容最靠后的表面。
func (p *Pool) Tail() *Surface { return p.surfaces[p.tail] }

// ContentEndY 返回表面覆盖的内容终点。
func (p *Pool) ContentEndY(s *Surface) float64 { return s.ContentStartY + p.chunk }

// SurfaceAt 返回覆盖指定内容起点的表面，不存在时返回 nil。
func (p *Pool) SurfaceAt(startY float64) *Surface {
	for _, s := range p.surfaces {
		if s.ContentStartY == startY {
			return s
		}
	}
	return nil
}

// SetScroll 根据新的滚动位置轮转池。一次大幅跳转会连续套用同一条
// 轮转规则直到到达稳态，因此初始定位与逐帧滚动共用此入口。
func (p *Pool) SetScroll(offset float64) {
	if p.chunk <= 0 {
		return
	}
	for {
		head := p.surfaces[p.head]
		// 向下：视口越过头表面一个半块时，头表面跳到尾后一块。
		if offset >= head.ContentStartY+p.chunk+RotateFraction*p.chunk {
			target := p.surfaces[p.tail].ContentStartY + p.chunk
			if target >= p.contentH {
				return
			}
			head.ContentStartY = target
			head.Dirty = true
			p.tail = p.head
			p.head = (p.head + 1) % len(p.surfaces)
			continue
		}
		// 向上：视口退回头表面半块以内时，尾表面跳到头前一块。
		if offset < head.ContentStartY+RotateFraction*p.chunk {
			target := head.ContentStartY - p.chunk
			if target < 0 {
				return
			}
			tail := p.surfaces[p.tail]
			tail.ContentStartY = target
			tail.Dirty = true
			p.head = p.tail
			p.tail = (p.tail - 1 + len(p.surfaces)) % len(p.surfaces)
			continue
		}
		return
	}
}

// SetPage 处理横向翻页 prev → page。每走一页就把最旧的表面重指到
// 环的另一端（目标页存在且尚未被覆盖时），与滚动轮转保持同一套头尾语义。
func (p *Pool) SetPage(page, prev int) {
	if p.chunk <= 0 || page == prev {
		return
	}
	k := len(p.surfaces)
	step := 1
	if page < prev {
		step = -1
	}
	for cur := prev; cur != page; cur += step {
		if step > 0 {
			target := float64(cur+k-1) * p.chunk
			if target >= p.contentH || target <= p.surfaces[p.tail].ContentStartY {
				continue
			}
			head := p.surfaces[p.head]
			head.ContentStartY = target
			head.Dirty = true
			p.tail = p.head
			p.head = (p.head + 1) % k
		} else {
			target := float64(cur-k+1) * p.chunk
			if target < 0 || target >= p.surfaces[p.head].ContentStartY {
				continue
			}
			tail := p.surfaces[p.tail]
			tail.ContentStartY = target
			tail.Dirty = true
			p.head = p.tail
			p.tail = (p.tail - 1 + k) % k
		}
	}
}

// MarkAllDirty 将全部表面标脏。
func (p *Pool) MarkAllDirty() {
	for _, s := range p.surfaces {
		s.Dirty = true
	}
}
