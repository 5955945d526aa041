package layout

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将布局结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(res *Result, path string) error {
	if res == nil {
		return nil
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// MarshalJSON 把稀疏的分块表输出为升序数组。
func (ci *ChunkIndex) MarshalJSON() ([]byte, error) {
	type chunkIndexJSON struct {
		ChunkHeight float64  `json:"chunkHeight"`
		Chunks      []*Chunk `json:"chunks"`
	}
	out := chunkIndexJSON{ChunkHeight: ci.ChunkHeight}
	for _, idx := range ci.indexes {
		out.Chunks = append(out.Chunks, ci.chunks[idx])
	}
	return json.Marshal(out)
}
