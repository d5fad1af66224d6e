package scene

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ByLCY/parallax/dsl"
	"github.com/ByLCY/parallax/parallax"
)

const demoScene = `
scene T v1 {
  meta {
    title: "${page.title}"
    tags: ["hero", "list"]
  }
  sources {
    source feed vertical down {
      max: 1000
      viewport: 300
      cross: 400
    }
    source ticker horizontal {
      max: 500
      viewport: 200
      cross: 100
    }
  }
  layer background anchored feed {
    child: 8x
  }
  layer card contained feed {
    extent: 150
    child: "${card.height}"
    at: 600
  }
  layer strip anchored ticker {
    child: 300
  }
  frames feed {
    offsets: [0, 250, 250, 525]
  }
  frames ticker {
    step: 250
  }
}
`

// buildScene 是测试辅助：解析 DSL 并构建场景。
func buildScene(t *testing.T, text string, data any, opts BuildOptions) *Scene {
	t.Helper()
	doc, err := dsl.Parse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("解析 DSL 失败: %v", err)
	}
	s, err := Build(doc, data, opts)
	if err != nil {
		t.Fatalf("构建场景失败: %v", err)
	}
	return s
}

func runScene(t *testing.T, text string, data any, opts BuildOptions) *Result {
	t.Helper()
	res, err := buildScene(t, text, data, opts).Run()
	if err != nil {
		t.Fatalf("回放失败: %v", err)
	}
	return res
}

func demoData() any {
	return map[string]any{
		"page": map[string]any{"title": "Demo"},
		"card": map[string]any{"height": 250.0},
	}
}

func layerFrame(t *testing.T, f Frame, name string) LayerFrame {
	t.Helper()
	for _, lf := range f.Layers {
		if lf.Name == name {
			return lf
		}
	}
	t.Fatalf("第 %d 帧缺少 layer %s", f.Index, name)
	return LayerFrame{}
}

func near(a, b float64) bool { return math.Abs(a-b) <= 1e-9 }

func TestRunReplaysFrames(t *testing.T) {
	res := runScene(t, demoScene, demoData(), BuildOptions{})
	if res.Meta.Title != "Demo" || len(res.Meta.Tags) != 2 {
		t.Fatalf("meta 绑定错误: %+v", res.Meta)
	}
	if len(res.Frames) != 7 {
		t.Fatalf("期望 7 帧，实际 %d", len(res.Frames))
	}

	// 背景层：M=300, C=2400, offset 250 → 位移 525
	bg := layerFrame(t, res.Frames[1], "background")
	if !bg.Recomputed || !near(bg.Layout.Ratio.Raw, 0.25) || !near(bg.Layout.ChildOffset.Y, -525) {
		t.Fatalf("背景层第 1 帧错误: %+v", bg)
	}
	if bg.Layout.ChildSize.Height != 2400 || bg.Layout.ContainerSize != (parallax.Size{Width: 400, Height: 300}) {
		t.Fatalf("背景层尺寸错误: %+v", bg.Layout)
	}

	// 同一位置重复一帧：无通知，复用缓存
	again := layerFrame(t, res.Frames[2], "background")
	if again.Recomputed || again.Layout != bg.Layout {
		t.Fatalf("相同 offset 应复用缓存: %+v", again)
	}

	// 列表项：远端边缘 600+150-525=225 → ratio 0.5 → 位移 50
	card := layerFrame(t, res.Frames[3], "card")
	if !near(card.Layout.Ratio.Raw, 0.5) || !near(card.Layout.ChildOffset.Y, -50) {
		t.Fatalf("列表项第 3 帧错误: %+v", card)
	}
	if card.Layout.ContainerSize.Height != 150 {
		t.Fatalf("contained 容器高度应为 150，实际 %g", card.Layout.ContainerSize.Height)
	}

	// ticker 帧不影响 feed 上的层
	if layerFrame(t, res.Frames[5], "background").Recomputed {
		t.Fatalf("其他 source 的滚动不应触发重算")
	}
	strip := layerFrame(t, res.Frames[5], "strip")
	if !strip.Recomputed || !near(strip.Layout.ChildOffset.X, -50) || strip.Layout.ChildOffset.Y != 0 {
		t.Fatalf("水平层第 5 帧错误: %+v", strip)
	}
	if s := layerFrame(t, res.Frames[4], "strip"); s.Recomputed {
		t.Fatalf("ticker 位于初始位置时不应重算")
	}

	layouts := map[string]int{}
	for _, info := range res.Layers {
		layouts[info.Name] = info.Layouts
	}
	if layouts["background"] != 3 || layouts["card"] != 3 || layouts["strip"] != 3 {
		t.Fatalf("重算次数错误: %v", layouts)
	}
}

func TestRunWithoutFramesLaysOutOnce(t *testing.T) {
	text := `scene T v1 {
  sources {
    source feed vertical {
      min: -inf
      max: inf
      offset: 120
    }
  }
  layer bg anchored feed { child: 2x }
}`
	res := runScene(t, text, nil, BuildOptions{Width: 320, Height: 480})
	if len(res.Frames) != 1 || res.Frames[0].Offset != 120 {
		t.Fatalf("期望在初始位置排一帧: %+v", res.Frames)
	}
	lf := res.Frames[0].Layers[0]
	if !lf.Layout.Ratio.Unbounded || lf.Layout.Ratio.Raw != 0 {
		t.Fatalf("无界滚动源应回退为 0: %+v", lf.Layout.Ratio)
	}
	if lf.Layout.ContainerSize != (parallax.Size{Width: 320, Height: 480}) {
		t.Fatalf("viewport/cross 应取 BuildOptions 默认值: %+v", lf.Layout.ContainerSize)
	}
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
		want error
	}{
		{
			name: "contained without extent",
			text: `scene T v1 { sources { source feed vertical { max: 10 } } layer a contained feed { child: 20 } }`,
			want: parallax.ErrConfiguration,
		},
		{
			name: "unknown source",
			text: `scene T v1 { sources { source feed vertical { max: 10 } } layer a anchored nope { child: 20 } }`,
			want: ErrUnknownSource,
		},
		{
			name: "unknown frames source",
			text: `scene T v1 { sources { source feed vertical { max: 10 } } layer a anchored feed { child: 20 } frames nope { offsets: [1] } }`,
			want: ErrUnknownSource,
		},
	}
	for _, c := range cases {
		doc, err := dsl.ParseString(c.text)
		if err != nil {
			t.Fatalf("%s: 解析失败: %v", c.name, err)
		}
		if _, err := Build(doc, nil, BuildOptions{}); !errors.Is(err, c.want) {
			t.Fatalf("%s: 期望 %v，实际 %v", c.name, c.want, err)
		}
	}

	invalid := []string{
		`scene T v1 { layer a anchored feed { child: 1 } }`,
		`scene T v1 { sources { source feed vertical left { max: 10 } } layer a anchored feed { child: 1 } }`,
		`scene T v1 { sources { source feed vertical { min: 10 max: 1 } } layer a anchored feed { child: 1 } }`,
		`scene T v1 { sources { source feed vertical { max: 10 } } }`,
		`scene T v1 { sources { source feed vertical { max: inf } } layer a anchored feed { child: 1 } frames feed { step: 10 } }`,
		`scene T v1 { sources { source feed vertical { max: 1000 } } layer a anchored feed { child: 1 } frames feed { step: 0.001 } }`,
		`scene T v1 { sources { source a vertical { id: "same" } source b vertical { id: "same" } } layer l anchored a { child: 1 } }`,
		`scene T v1 { sources { source feed vertical { max: 10 } } layer a anchored feed { child 20 } }`,
		`scene T v1 { sources { source feed vertical { max 10 } } layer a anchored feed { child: 1 } }`,
		`scene T v1 { sources { feed vertical } layer a anchored feed { child: 1 } }`,
	}
	for _, text := range invalid {
		doc, err := dsl.ParseString(text)
		if err != nil {
			t.Fatalf("解析失败: %v\n%s", err, text)
		}
		if _, err := Build(doc, nil, BuildOptions{}); err == nil {
			t.Fatalf("期望构建失败:\n%s", text)
		}
	}
}

func TestObjectValueIsRejected(t *testing.T) {
	text := `scene T v1 { meta { title: { a: 1 } } sources { source feed vertical { max: 10 } } layer a anchored feed { child: 1 } }`
	doc, err := dsl.ParseString(text)
	if err != nil {
		return
	}
	if _, err := Build(doc, nil, BuildOptions{}); err == nil {
		t.Fatalf("对象值不应被当作空标题接受")
	}
}

func TestStepFramesAtLargeOffsets(t *testing.T) {
	doc, err := dsl.ParseString(`scene T v1 {
  sources {
    source s vertical {
      min: 100000000000000000
      max: 100000000000000064
    }
  }
  layer a anchored s { child: 1 }
  frames s { step: 16 }
}`)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	s, err := Build(doc, nil, BuildOptions{})
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	offsets := s.frames[0].offsets
	if len(offsets) != 5 {
		t.Fatalf("期望 5 帧，实际 %d", len(offsets))
	}
	if offsets[4] != 100000000000000064 {
		t.Fatalf("末帧偏移错误: %v", offsets[4])
	}
}

func TestRawUnitsAndDebugJSON(t *testing.T) {
	res := runScene(t, demoScene, demoData(), BuildOptions{Debug: DebugOptions{RawUnits: true}})
	var card LayerInfo
	for _, info := range res.Layers {
		if info.Name == "card" {
			card = info
		}
	}
	if card.Debug == nil || card.Debug.RawUnits.Extent == nil || card.Debug.RawUnits.Child.Value != 250 {
		t.Fatalf("缺少 rawUnits 调试信息: %+v", card.Debug)
	}
	if card.Config.MainAxisExtent != 150 || card.At != 600 {
		t.Fatalf("layer 配置错误: %+v", card)
	}

	var buf bytes.Buffer
	if err := res.WriteJSON(&buf); err != nil {
		t.Fatalf("写入 JSON 失败: %v", err)
	}
	raw := buf.Bytes()
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("JSON 无法解析: %v", err)
	}
	// 无界的约束写为 null
	if !strings.Contains(string(raw), `"maxHeight": null`) || !strings.Contains(string(raw), `"mode": "contained"`) {
		t.Fatalf("JSON 内容不符合预期")
	}
}
