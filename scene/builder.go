package scene

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ByLCY/parallax/binding"
	"github.com/ByLCY/parallax/dsl"
	"github.com/ByLCY/parallax/parallax"
	"github.com/ByLCY/parallax/scroll"
)

// ErrUnknownSource 表示 layer 或 frames 引用了未声明的 source。
var ErrUnknownSource = errors.New("scene: unknown source")

// maxFrames 限制 step 生成的帧数。
const maxFrames = 100000

// Scene 是构建完成、可回放的场景。
type Scene struct {
	meta    Meta
	sources []*source
	byName  map[string]*source
	layers  []*layer
	frames  []framePlan
	debug   DebugOptions
}

type source struct {
	name  string
	pos   *scroll.Position
	cross float64
	start parallax.ScrollMetrics
}

type layer struct {
	name    string
	source  *source
	config  parallax.Config
	extent  *Length
	child   Length
	at      float64
	crossAt float64
}

type framePlan struct {
	source  *source
	offsets []float64
}

// Build 根据 DSL AST 与绑定数据生成场景：滚动源、视差层与帧序列。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*Scene, error) {
	if doc == nil {
		return nil, fmt.Errorf("文档为空")
	}
	meta, err := collectMeta(doc, data)
	if err != nil {
		return nil, err
	}
	s := &Scene{
		meta:   meta,
		byName: map[string]*source{},
		debug:  opts.Debug,
	}

	for _, section := range doc.Sections {
		if section.Sources == nil || section.Sources.Block == nil {
			continue
		}
		for _, stmt := range section.Sources.Block.Statements {
			if stmt.Command == nil || stmt.Command.Name != "source" {
				return nil, fmt.Errorf("sources 段落只接受 source 声明: %w", unexpected(stmt))
			}
			src, err := parseSource(stmt.Command, data, opts)
			if err != nil {
				return nil, err
			}
			if _, dup := s.byName[src.name]; dup {
				return nil, fmt.Errorf("source %s 重复声明", src.name)
			}
			for _, other := range s.sources {
				if other.pos.ID() == src.pos.ID() {
					return nil, fmt.Errorf("source %s 与 %s 的 id %q 重复", src.name, other.name, src.pos.ID())
				}
			}
			s.byName[src.name] = src
			s.sources = append(s.sources, src)
		}
	}
	if len(s.sources) == 0 {
		return nil, fmt.Errorf("场景中缺少 source 声明")
	}

	for _, section := range doc.Sections {
		switch {
		case section.Layer != nil:
			l, err := s.parseLayer(section.Layer, data)
			if err != nil {
				return nil, err
			}
			s.layers = append(s.layers, l)
		case section.Frames != nil:
			plan, err := s.parseFrames(section.Frames, data)
			if err != nil {
				return nil, err
			}
			s.frames = append(s.frames, plan)
		}
	}
	if len(s.layers) == 0 {
		return nil, fmt.Errorf("场景中缺少 layer 段落")
	}
	if len(s.frames) == 0 {
		// 未声明 frames 时只在初始位置排一帧。
		first := s.sources[0]
		s.frames = []framePlan{{source: first, offsets: []float64{first.start.Offset}}}
	}
	return s, nil
}

func collectMeta(doc *dsl.Document, data any) (Meta, error) {
	meta := Meta{Name: doc.Name, Version: doc.Version}
	for _, section := range doc.Sections {
		if section.Meta == nil {
			continue
		}
		list, err := assignments(section.Meta.Block)
		if err != nil {
			return Meta{}, fmt.Errorf("meta: %w", err)
		}
		for _, a := range list {
			switch strings.ToLower(a.Key) {
			case "title":
				meta.Title = valueToString(a.Value, data)
			case "tags", "keywords":
				meta.Tags = valueToStringSlice(a.Value, data)
			}
		}
	}
	return meta, nil
}

// assignments 返回块中的 key: value 语句；出现命令语句时报告其行号。
func assignments(block *dsl.Block) ([]*dsl.Assignment, error) {
	if block == nil {
		return nil, nil
	}
	out := make([]*dsl.Assignment, 0, len(block.Statements))
	for _, stmt := range block.Statements {
		if stmt.Assignment == nil {
			return nil, unexpected(stmt)
		}
		out = append(out, stmt.Assignment)
	}
	return out, nil
}

func unexpected(stmt *dsl.Statement) error {
	if stmt.Command != nil {
		return fmt.Errorf("第 %d 行: 无法识别的语句 %s", stmt.Command.Pos.Line, stmt.Command.Name)
	}
	return fmt.Errorf("无法识别的语句")
}

// parseSource 解析 `source <name> <axis> [direction] { ... }`。
func parseSource(cmd *dsl.Command, data any, opts BuildOptions) (*source, error) {
	if len(cmd.Args) < 2 {
		return nil, fmt.Errorf("第 %d 行: source 需要名称与滚动轴", cmd.Pos.Line)
	}
	name := cmd.Args[0].Value
	axis, err := parallax.ParseAxis(cmd.Args[1].Value)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", name, err)
	}
	dir := parallax.DirectionInherit
	if len(cmd.Args) > 2 {
		if dir, err = parallax.ParseAxisDirection(cmd.Args[2].Value); err != nil {
			return nil, fmt.Errorf("source %s: %w", name, err)
		}
		if dir != parallax.DirectionInherit && dir.Axis() != axis {
			return nil, fmt.Errorf("source %s: 方向 %s 不属于 %s 轴", name, dir, axis)
		}
	}

	viewport, cross := opts.Height, opts.Width
	if axis == parallax.AxisHorizontal {
		viewport, cross = opts.Width, opts.Height
	}
	minExt, maxExt, offset := 0.0, math.Inf(1), math.NaN()
	id := ""

	if cmd.Block != nil {
		for _, stmt := range cmd.Block.Statements {
			a := stmt.Assignment
			if a == nil {
				return nil, fmt.Errorf("source %s: %w", name, unexpected(stmt))
			}
			if a.Key == "id" {
				id = valueToString(a.Value, data)
				continue
			}
			v, err := numberValue(a.Value, data)
			if err != nil {
				return nil, fmt.Errorf("source %s 的 %s: %w", name, a.Key, err)
			}
			switch a.Key {
			case "min":
				minExt = v
			case "max":
				maxExt = v
			case "offset":
				offset = v
			case "viewport":
				viewport = v
			case "cross":
				cross = v
			}
		}
	}
	if minExt > maxExt {
		return nil, fmt.Errorf("source %s: min %g 大于 max %g", name, minExt, maxExt)
	}
	if viewport < 0 || math.IsInf(viewport, 0) || cross < 0 || math.IsInf(cross, 0) {
		return nil, fmt.Errorf("source %s: viewport/cross 必须为非负有限值", name)
	}
	if math.IsNaN(offset) {
		offset = 0
		if !math.IsInf(minExt, 0) {
			offset = minExt
		}
	}

	pos := scroll.NewPosition(axis,
		scroll.WithID(id),
		scroll.WithExtents(minExt, maxExt),
		scroll.WithViewportExtent(viewport),
		scroll.WithOffset(offset),
		scroll.WithDirection(dir),
	)
	return &source{name: name, pos: pos, cross: cross, start: pos.Metrics()}, nil
}

// parseLayer 解析 `layer <name> <anchored|contained> <source> { ... }`。
func (s *Scene) parseLayer(sec *dsl.LayerSection, data any) (*layer, error) {
	if len(sec.Params) < 2 {
		return nil, fmt.Errorf("第 %d 行: layer %s 需要模式与 source", sec.Pos.Line, sec.Name)
	}
	l := &layer{name: sec.Name, child: Length{Value: 1, Unit: UnitFactor}}
	switch strings.ToLower(sec.Params[0].Value) {
	case "anchored":
		l.config.Mode = parallax.ModeAnchored
	case "contained":
		l.config.Mode = parallax.ModeContained
	default:
		return nil, fmt.Errorf("layer %s: 未知模式 %s", sec.Name, sec.Params[0].Value)
	}
	src, ok := s.byName[sec.Params[1].Value]
	if !ok {
		return nil, fmt.Errorf("layer %s 引用 %s: %w", sec.Name, sec.Params[1].Value, ErrUnknownSource)
	}
	l.source = src

	if sec.Block != nil {
		for _, stmt := range sec.Block.Statements {
			a := stmt.Assignment
			if a == nil {
				return nil, fmt.Errorf("layer %s: %w", sec.Name, unexpected(stmt))
			}
			if err := l.assign(a, data); err != nil {
				return nil, fmt.Errorf("layer %s 的 %s: %w", sec.Name, a.Key, err)
			}
		}
	}

	if l.config.Mode == parallax.ModeContained {
		if l.extent == nil {
			return nil, fmt.Errorf("layer %s: contained 模式缺少 extent: %w", sec.Name, parallax.ErrConfiguration)
		}
		l.config.MainAxisExtent = l.extent.Resolve(0, src.start.ViewportExtent)
	}
	if err := l.config.Validate(); err != nil {
		return nil, fmt.Errorf("layer %s: %w", sec.Name, err)
	}
	return l, nil
}

func (l *layer) assign(a *dsl.Assignment, data any) error {
	raw := valueToString(a.Value, data)
	switch a.Key {
	case "extent":
		ext, err := ParseLength(raw)
		if err != nil {
			return err
		}
		if ext.Unit == UnitFactor {
			return fmt.Errorf("extent 不支持倍数单位: %w", parallax.ErrConfiguration)
		}
		l.extent = &ext
	case "child":
		child, err := ParseLength(raw)
		if err != nil {
			return err
		}
		l.child = child
	case "at":
		v, err := numberValue(a.Value, data)
		if err != nil {
			return err
		}
		l.at = v
	case "cross":
		v, err := numberValue(a.Value, data)
		if err != nil {
			return err
		}
		l.crossAt = v
	case "direction":
		d, err := parallax.ParseAxisDirection(raw)
		if err != nil {
			return err
		}
		l.config.Direction = d
	case "flip":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		l.config.FlipDirection = b
	}
	return nil
}

// parseFrames 解析 frames 段落：offsets 列表，以及 step（可选 from/to，默认取 min/max）生成的序列。
func (s *Scene) parseFrames(sec *dsl.FramesSection, data any) (framePlan, error) {
	src, ok := s.byName[sec.Source]
	if !ok {
		return framePlan{}, fmt.Errorf("第 %d 行: frames 引用 %s: %w", sec.Pos.Line, sec.Source, ErrUnknownSource)
	}
	plan := framePlan{source: src}
	from, to := src.start.MinExtent, src.start.MaxExtent
	step := 0.0
	if sec.Block != nil {
		for _, stmt := range sec.Block.Statements {
			a := stmt.Assignment
			if a == nil {
				return framePlan{}, fmt.Errorf("frames %s: %w", sec.Source, unexpected(stmt))
			}
			if a.Key == "offsets" {
				for _, item := range arrayValues(a.Value) {
					v, err := numberValue(item, data)
					if err != nil {
						return framePlan{}, fmt.Errorf("frames %s 的 offsets: %w", sec.Source, err)
					}
					if math.IsNaN(v) || math.IsInf(v, 0) {
						return framePlan{}, fmt.Errorf("frames %s: offset 必须为有限值", sec.Source)
					}
					plan.offsets = append(plan.offsets, v)
				}
				continue
			}
			v, err := numberValue(a.Value, data)
			if err != nil {
				return framePlan{}, fmt.Errorf("frames %s 的 %s: %w", sec.Source, a.Key, err)
			}
			switch a.Key {
			case "step":
				step = v
			case "from":
				from = v
			case "to":
				to = v
			}
		}
	}
	if step != 0 {
		if step < 0 || math.IsNaN(step) || !isFinite(from) || !isFinite(to) {
			return framePlan{}, fmt.Errorf("frames %s: step 需要正数步长与有限的 from/to", sec.Source)
		}
		n := math.Floor((to-from)/step+1e-9) + 1
		if math.IsNaN(n) || math.IsInf(n, 0) || n > maxFrames {
			return framePlan{}, fmt.Errorf("frames %s: step %g 在 [%g, %g] 上超过 %d 帧上限", sec.Source, step, from, to, maxFrames)
		}
		for i := 0; i < int(n); i++ {
			plan.offsets = append(plan.offsets, from+float64(i)*step)
		}
	}
	if len(plan.offsets) == 0 {
		return framePlan{}, fmt.Errorf("frames %s 未生成任何帧", sec.Source)
	}
	return plan, nil
}

func numberValue(val *dsl.Value, data any) (float64, error) {
	text := strings.TrimSuffix(strings.TrimSpace(valueToString(val, data)), "px")
	if text == "" {
		return 0, fmt.Errorf("缺少数值")
	}
	return binding.Number(text, data)
}

func valueToString(val *dsl.Value, data any) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return binding.Interpolate(string(*val.String), data)
	case val.Number != nil:
		return *val.Number
	case val.Expr != nil:
		var builder strings.Builder
		for _, part := range val.Expr.Parts {
			builder.WriteString(part.Value)
		}
		return builder.String()
	default:
		return ""
	}
}

func valueToStringSlice(val *dsl.Value, data any) []string {
	var out []string
	for _, item := range arrayValues(val) {
		if s := valueToString(item, data); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func arrayValues(val *dsl.Value) []*dsl.Value {
	if val == nil {
		return nil
	}
	if val.Array != nil {
		return val.Array.Values
	}
	return []*dsl.Value{val}
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
