package layout

import "testing"

func testIndex() *ChunkIndex {
	glyphs := []*GlyphGroup{
		{WordID: "n2_0", Y: 19.2, LineHeight: 24},   // top 0，块 0
		{WordID: "n2_1", Y: 619.2, LineHeight: 24},  // top 600，块 1
		{WordID: "n2_2", Y: 1819.2, LineHeight: 24}, // top 1800，块 3（块 2 空缺）
	}
	images := []*ImageBox{
		{NodeID: "n3", Src: "fig.png", Y: 600, Height: 200},
	}
	return NewChunkIndex(glyphs, images, 600)
}

func TestChunkBucketing(t *testing.T) {
	ci := testIndex()
	if got := ci.Indexes(); len(got) != 3 || got[0] != 0 || got[1] != 1 || got[2] != 3 {
		t.Fatalf("非空块号错误: %v", got)
	}
	if c := ci.Chunk(1); len(c.Glyphs) != 1 || len(c.Images) != 1 {
		t.Fatalf("块 1 装桶错误: %+v", c)
	}
	if ci.Chunk(2) != nil {
		t.Fatalf("空缺块应返回 nil")
	}
	if c := ci.Chunk(3); c.StartY != 1800 || c.EndY != 2400 {
		t.Fatalf("块几何错误: %+v", c)
	}
}

func TestChunkOverlapping(t *testing.T) {
	ci := testIndex()
	got := ci.Overlapping(0, 1200)
	if len(got) != 2 || got[0].Index != 0 || got[1].Index != 1 {
		t.Fatalf("区间查询错误: %+v", got)
	}
	if got = ci.Overlapping(600, 600); got != nil {
		t.Fatalf("空区间应无结果")
	}
	if got = ci.Overlapping(1200, 1800); got != nil {
		t.Fatalf("空缺块区间应无结果: %+v", got)
	}
	// 半开区间：endY 恰好落在块起点时不含该块。
	if got = ci.Overlapping(0, 600); len(got) != 1 || got[0].Index != 0 {
		t.Fatalf("半开区间语义错误: %+v", got)
	}
}

func TestChunksWithImage(t *testing.T) {
	ci := testIndex()
	if got := ci.ChunksWithImage("fig.png"); len(got) != 1 || got[0] != 1 {
		t.Fatalf("图片定位错误: %v", got)
	}
	if got := ci.ChunksWithImage("gone.png"); got != nil {
		t.Fatalf("未知来源应查无所获: %v", got)
	}
	if got := ci.ChunksWithImage(""); got != nil {
		t.Fatalf("空来源应查无所获: %v", got)
	}
}
