package parallax

import (
	"fmt"
	"math"
)

// LayoutResult is the outcome of one layout pass. It is never mutated.
type LayoutResult struct {
	ContainerSize    Size           `json:"containerSize"`
	ChildConstraints BoxConstraints `json:"childConstraints"`
	ChildSize        Size           `json:"childSize"`
	ChildOffset      Offset         `json:"childOffset"`
	Ratio            Ratio          `json:"ratio"`
}

// Displacement slides a child of extent c inside a container of extent m so
// that it traverses exactly its overflow: c-m at ratio 0 down to 0 at ratio 1.
// The ratio is clamped to [0,1]; a child that fits is never displaced.
func Displacement(m, c, ratio float64) float64 {
	if m >= c {
		return 0
	}
	interpolated := lerp(m, c, clamp(ratio, 0, 1))
	return c - interpolated
}

// MainAxis is the axis the child is displaced along: the axis of the
// resolved direction. Without a Direction override it is the source's axis.
func (p *Parallax) MainAxis() Axis {
	return ResolveDirection(p.config, p.source.Metrics()).Axis()
}

// Layout resolves the container size and the constraints handed to the child.
//
// The cross axis fills the incoming constraints and is left loose for the
// child. Along the main axis a contained container is exactly MainAxisExtent
// and the child must at least cover it; an anchored container takes the full
// incoming extent (the viewport extent when unbounded) and the child is free.
func (p *Parallax) Layout(constraints BoxConstraints) (Size, BoxConstraints, error) {
	if !constraints.IsValid() {
		return Size{}, BoxConstraints{}, fmt.Errorf("%w: constraints %+v", ErrInvalidExtent, constraints)
	}
	m := p.source.Metrics()
	axis := ResolveDirection(p.config, m).Axis()
	minMain, maxMain := constraints.MainRange(axis)
	minCross, maxCross := constraints.CrossRange(axis)

	cross := maxCross
	if math.IsInf(cross, 1) {
		cross = minCross
	}

	var main, childMin float64
	switch p.config.Mode {
	case ModeContained:
		main = clamp(p.config.MainAxisExtent, minMain, maxMain)
		childMin = main
	default:
		main = maxMain
		if math.IsInf(main, 1) {
			main = clamp(m.ViewportExtent, minMain, maxMain)
		}
	}
	if main < 0 || math.IsNaN(main) || math.IsInf(main, 0) {
		return Size{}, BoxConstraints{}, fmt.Errorf("%w: container main axis extent %v", ErrInvalidExtent, main)
	}

	size := SizeOf(axis, main, cross)
	child := constraintsOf(axis, childMin, math.Inf(1), 0, cross)
	return size, child, nil
}

// ChildOffset places a child of the given size inside container.
// The offset is -(axis unit * displacement), so it always lies in
// [-(C-M), 0] along the main axis.
func (p *Parallax) ChildOffset(container, child Size) (Offset, error) {
	off, _, err := p.childOffset(container, child)
	return off, err
}

func (p *Parallax) childOffset(container, child Size) (Offset, Ratio, error) {
	m := p.source.Metrics()
	ratio, err := p.ratio(m)
	if err != nil {
		return Offset{}, Ratio{}, err
	}
	axis := ratio.Direction.Axis()
	mainExtent := container.Main(axis)
	childExtent := child.Main(axis)
	if invalidExtent(mainExtent) || invalidExtent(childExtent) {
		return Offset{}, ratio, fmt.Errorf("%w: container %v, child %v", ErrInvalidExtent, mainExtent, childExtent)
	}
	d := Displacement(mainExtent, childExtent, ratio.Value)
	if d == 0 {
		return Offset{}, ratio, nil
	}
	return axis.Unit().Scale(d).Neg(), ratio, nil
}

// Resolve runs a full pass: container layout, then the child via layoutChild,
// then the child offset from the child's resolved size.
func (p *Parallax) Resolve(constraints BoxConstraints, layoutChild func(BoxConstraints) Size) (LayoutResult, error) {
	size, childConstraints, err := p.Layout(constraints)
	if err != nil {
		return LayoutResult{}, err
	}
	childSize := layoutChild(childConstraints)
	offset, ratio, err := p.childOffset(size, childSize)
	if err != nil {
		return LayoutResult{}, err
	}
	return LayoutResult{
		ContainerSize:    size,
		ChildConstraints: childConstraints,
		ChildSize:        childSize,
		ChildOffset:      offset,
		Ratio:            ratio,
	}, nil
}

func invalidExtent(v float64) bool {
	return v < 0 || math.IsNaN(v) || math.IsInf(v, 0)
}
