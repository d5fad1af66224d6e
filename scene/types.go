package scene

import (
	"encoding/json"
	"io"

	"github.com/ByLCY/parallax/parallax"
)

// 该文件定义场景回放结果，供 CLI 输出与调试 JSON 共用。

// Result 保存场景描述与逐帧布局结果。
type Result struct {
	Meta    Meta         `json:"meta"`
	Sources []SourceInfo `json:"sources"`
	Layers  []LayerInfo  `json:"layers"`
	Frames  []Frame      `json:"frames"`
}

// Meta 记录场景头与 meta 段落。
type Meta struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Title   string   `json:"title,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// SourceInfo 描述一个滚动源及其初始状态。
type SourceInfo struct {
	Name    string                 `json:"name"`
	ID      string                 `json:"id"`
	Cross   float64                `json:"cross"`
	Metrics parallax.ScrollMetrics `json:"metrics"`
}

// LayerInfo 描述一个视差层的配置；Layouts 为回放期间实际重算的次数。
type LayerInfo struct {
	Name    string          `json:"name"`
	Source  string          `json:"source"`
	Config  parallax.Config `json:"config"`
	Child   float64         `json:"child,omitempty"` // 仅在长度不依赖容器时给出（px）
	At      float64         `json:"at,omitempty"`
	Layouts int             `json:"layouts"`
	Debug   *LayerDebug     `json:"debug,omitempty"`
}

// LayerDebug holds optional debug info, only filled when enabled by BuildOptions.
type LayerDebug struct {
	RawUnits *RawUnits `json:"rawUnits,omitempty"`
}

// RawUnits describes original author-specified units for layer lengths.
type RawUnits struct {
	Child  *RawLengthJSON `json:"child,omitempty"`
	Extent *RawLengthJSON `json:"extent,omitempty"`
}

// RawLengthJSON is a JSON-friendly representation of Length.
type RawLengthJSON struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Frame 是一次滚动后的布局快照。
type Frame struct {
	Index  int          `json:"index"`
	Source string       `json:"source"`
	Offset float64      `json:"offset"`
	Layers []LayerFrame `json:"layers"`
}

// LayerFrame 记录某层在该帧的布局；Recomputed 为 false 表示复用了缓存。
type LayerFrame struct {
	Name       string                `json:"name"`
	Recomputed bool                  `json:"recomputed"`
	Layout     parallax.LayoutResult `json:"layout"`
}

// WriteJSON 以缩进 JSON 写出回放结果；无界约束与范围写为 null。
func (r *Result) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
