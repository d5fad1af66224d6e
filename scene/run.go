package scene

import (
	"fmt"
	"math"

	"github.com/ByLCY/parallax/parallax"
	"github.com/ByLCY/parallax/scroll"
)

// Run 依次回放每个 frames 段落：先移动滚动源（触发通知），
// 再对所有层执行一次布局；未被通知的层复用缓存结果。
func (s *Scene) Run() (*Result, error) {
	nodes := make([]*parallax.Node, len(s.layers))
	for i, l := range s.layers {
		var opts []parallax.Option
		if l.config.Mode == parallax.ModeContained {
			opts = append(opts, parallax.WithViewport(scroll.ListViewport{Source: l.source.pos, At: l.at, Cross: l.crossAt}))
		}
		p, err := parallax.New(l.config, l.source.pos, opts...)
		if err != nil {
			return nil, fmt.Errorf("layer %s: %w", l.name, err)
		}
		n := parallax.NewNode(p, nil)
		n.Attach()
		defer n.Detach()
		nodes[i] = n
	}

	res := &Result{Meta: s.meta}
	for _, src := range s.sources {
		res.Sources = append(res.Sources, SourceInfo{Name: src.name, ID: src.pos.ID(), Cross: src.cross, Metrics: src.start})
	}

	index := 0
	for _, plan := range s.frames {
		for _, offset := range plan.offsets {
			plan.source.pos.JumpTo(offset)
			frame := Frame{Index: index, Source: plan.source.name, Offset: offset}
			for i, l := range s.layers {
				lf, err := l.layout(nodes[i])
				if err != nil {
					return nil, fmt.Errorf("第 %d 帧 layer %s 布局失败: %w", index, l.name, err)
				}
				frame.Layers = append(frame.Layers, lf)
			}
			res.Frames = append(res.Frames, frame)
			index++
		}
	}

	for i, l := range s.layers {
		res.Layers = append(res.Layers, s.layerInfo(l, nodes[i].Layouts()))
	}
	return res, nil
}

// constraints 为层提供来自父级的约束：anchored 层占满视口，
// contained 层位于列表内，滚动轴方向不受限。
func (l *layer) constraints() parallax.BoxConstraints {
	m := l.source.pos.Metrics()
	main := m.ViewportExtent
	if l.config.Mode == parallax.ModeContained {
		main = math.Inf(1)
	}
	size := parallax.SizeOf(m.Axis, main, l.source.cross)
	return parallax.BoxConstraints{MaxWidth: size.Width, MaxHeight: size.Height}
}

func (l *layer) layout(n *parallax.Node) (LayerFrame, error) {
	p := n.Parallax()
	c := l.constraints()
	before := n.Layouts()
	container, _, err := p.Layout(c)
	if err != nil {
		return LayerFrame{}, err
	}
	axis := p.MainAxis()
	childMain := l.child.Resolve(container.Main(axis), l.source.pos.Metrics().ViewportExtent)
	out, err := n.Layout(c, func(cc parallax.BoxConstraints) parallax.Size {
		minCross, maxCross := cc.CrossRange(axis)
		cross := maxCross
		if math.IsInf(cross, 1) {
			cross = minCross
		}
		return cc.Constrain(parallax.SizeOf(axis, childMain, cross))
	})
	if err != nil {
		return LayerFrame{}, err
	}
	return LayerFrame{Name: l.name, Recomputed: n.Layouts() > before, Layout: out}, nil
}

func (s *Scene) layerInfo(l *layer, layouts int) LayerInfo {
	info := LayerInfo{
		Name:    l.name,
		Source:  l.source.name,
		Config:  l.config,
		At:      l.at,
		Layouts: layouts,
	}
	if !l.child.IsRelative() {
		info.Child = l.child.Resolve(0, 0)
	}
	if s.debug.RawUnits {
		raw := &RawUnits{Child: rawLength(l.child)}
		if l.extent != nil {
			raw.Extent = rawLength(*l.extent)
		}
		info.Debug = &LayerDebug{RawUnits: raw}
	}
	return info
}

func rawLength(l Length) *RawLengthJSON {
	return &RawLengthJSON{Value: l.Value, Unit: UnitToString(l.Unit)}
}
