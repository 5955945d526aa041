package layout

import (
	"math"
	"sort"
)

// 分块索引：按 ⌊顶边 / 块高⌋ 把词与图片装桶。
// 边界护栏保证没有条目骑跨块边界，因此每个条目恰好属于一个块。
// 尾部留白允许出现空缺的块号。

// ChunkIndex 是一次布局产出的分块集合。
type ChunkIndex struct {
	ChunkHeight float64 `json:"chunkHeight"`

	chunks map[int]*Chunk
	// indexes 为升序排列的非空块号。
	indexes []int
}

// NewChunkIndex 把词与图片装入各自的块。
func NewChunkIndex(glyphs []*GlyphGroup, images []*ImageBox, chunkH float64) *ChunkIndex {
	ci := &ChunkIndex{ChunkHeight: chunkH, chunks: map[int]*Chunk{}}
	if chunkH <= 0 {
		return ci
	}
	for _, g := range glyphs {
		c := ci.chunkFor(g.Top())
		c.Glyphs = append(c.Glyphs, g)
	}
	for _, img := range images {
		c := ci.chunkFor(img.Y)
		c.Images = append(c.Images, img)
	}
	ci.indexes = make([]int, 0, len(ci.chunks))
	for idx := range ci.chunks {
		ci.indexes = append(ci.indexes, idx)
	}
	sort.Ints(ci.indexes)
	return ci
}

func (ci *ChunkIndex) chunkFor(top float64) *Chunk {
	idx := int(math.Floor(top / ci.ChunkHeight))
	if idx < 0 {
		idx = 0
	}
	c, ok := ci.chunks[idx]
	if !ok {
		c = &Chunk{
			Index:  idx,
			StartY: float64(idx) * ci.ChunkHeight,
			EndY:   float64(idx+1) * ci.ChunkHeight,
		}
		ci.chunks[idx] = c
	}
	return c
}

// Chunk 返回指定块，不存在时返回 nil。
func (ci *ChunkIndex) Chunk(idx int) *Chunk {
	return ci.chunks[idx]
}

// Indexes 返回升序的非空块号。
func (ci *ChunkIndex) Indexes() []int { return ci.indexes }

// Len 返回非空块数。
func (ci *ChunkIndex) Len() int { return len(ci.chunks) }

// Overlapping 返回与内容区间 [startY, endY) 相交的块，按块号升序。
func (ci *ChunkIndex) Overlapping(startY, endY float64) []*Chunk {
	if ci.ChunkHeight <= 0 || endY <= startY {
		return nil
	}
	lo := int(math.Floor(startY / ci.ChunkHeight))
	hi := int(math.Ceil(endY / ci.ChunkHeight))
	var out []*Chunk
	for idx := lo; idx < hi; idx++ {
		if c, ok := ci.chunks[idx]; ok {
			out = append(out, c)
		}
	}
	return out
}

// ChunksWithImage 返回含有指定图片来源的块号。
// 图片资源迟到的回执用它定位需要重绘的表面；新一轮布局替换索引后，
// 迟到回执会在这里查无所获而被安全忽略。
func (ci *ChunkIndex) ChunksWithImage(src string) []int {
	if src == "" {
		return nil
	}
	var out []int
	for _, idx := range ci.indexes {
		for _, img := range ci.chunks[idx].Images {
			if img.Src == src {
				out = append(out, idx)
				break
			}
		}
	}
	return out
}
