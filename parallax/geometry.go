package parallax

import (
	"encoding/json"
	"math"
)

// Size is a width/height pair in logical pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Main returns the extent of s along axis.
func (s Size) Main(axis Axis) float64 {
	if axis == AxisHorizontal {
		return s.Width
	}
	return s.Height
}

// Cross returns the extent of s orthogonal to axis.
func (s Size) Cross(axis Axis) float64 {
	if axis == AxisHorizontal {
		return s.Height
	}
	return s.Width
}

// SizeOf builds a Size from main/cross extents relative to axis.
func SizeOf(axis Axis, main, cross float64) Size {
	if axis == AxisHorizontal {
		return Size{Width: main, Height: cross}
	}
	return Size{Width: cross, Height: main}
}

// Offset is a two dimensional vector.
type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (o Offset) Add(other Offset) Offset { return Offset{X: o.X + other.X, Y: o.Y + other.Y} }
func (o Offset) Scale(f float64) Offset  { return Offset{X: o.X * f, Y: o.Y * f} }
func (o Offset) Neg() Offset             { return Offset{X: -o.X, Y: -o.Y} }

// Along returns the component of o on axis.
func (o Offset) Along(axis Axis) float64 {
	if axis == AxisHorizontal {
		return o.X
	}
	return o.Y
}

// BoxConstraints bounds the size a box may take. Max values may be +Inf.
type BoxConstraints struct {
	MinWidth  float64 `json:"minWidth"`
	MaxWidth  float64 `json:"maxWidth"`
	MinHeight float64 `json:"minHeight"`
	MaxHeight float64 `json:"maxHeight"`
}

// Tight constrains to exactly size.
func Tight(size Size) BoxConstraints {
	return BoxConstraints{MinWidth: size.Width, MaxWidth: size.Width, MinHeight: size.Height, MaxHeight: size.Height}
}

// Loose allows anything from zero up to size.
func Loose(size Size) BoxConstraints {
	return BoxConstraints{MaxWidth: size.Width, MaxHeight: size.Height}
}

// IsValid reports whether min <= max on both axes with non-negative, non-NaN mins.
func (c BoxConstraints) IsValid() bool {
	for _, v := range []float64{c.MinWidth, c.MaxWidth, c.MinHeight, c.MaxHeight} {
		if math.IsNaN(v) {
			return false
		}
	}
	return c.MinWidth >= 0 && c.MinHeight >= 0 &&
		!math.IsInf(c.MinWidth, 0) && !math.IsInf(c.MinHeight, 0) &&
		c.MinWidth <= c.MaxWidth && c.MinHeight <= c.MaxHeight
}

// Constrain clamps size into the constraints.
func (c BoxConstraints) Constrain(size Size) Size {
	return Size{
		Width:  clamp(size.Width, c.MinWidth, c.MaxWidth),
		Height: clamp(size.Height, c.MinHeight, c.MaxHeight),
	}
}

// Biggest is the largest size that satisfies the constraints.
func (c BoxConstraints) Biggest() Size {
	return c.Constrain(Size{Width: math.Inf(1), Height: math.Inf(1)})
}

// MainRange returns min/max along axis.
func (c BoxConstraints) MainRange(axis Axis) (float64, float64) {
	if axis == AxisHorizontal {
		return c.MinWidth, c.MaxWidth
	}
	return c.MinHeight, c.MaxHeight
}

// CrossRange returns min/max orthogonal to axis.
func (c BoxConstraints) CrossRange(axis Axis) (float64, float64) {
	if axis == AxisHorizontal {
		return c.MinHeight, c.MaxHeight
	}
	return c.MinWidth, c.MaxWidth
}

func constraintsOf(axis Axis, minMain, maxMain, minCross, maxCross float64) BoxConstraints {
	if axis == AxisHorizontal {
		return BoxConstraints{MinWidth: minMain, MaxWidth: maxMain, MinHeight: minCross, MaxHeight: maxCross}
	}
	return BoxConstraints{MinWidth: minCross, MaxWidth: maxCross, MinHeight: minMain, MaxHeight: maxMain}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// MarshalJSON writes unbounded maxima as null; encoding/json rejects +Inf.
func (c BoxConstraints) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		MinWidth  float64  `json:"minWidth"`
		MaxWidth  *float64 `json:"maxWidth"`
		MinHeight float64  `json:"minHeight"`
		MaxHeight *float64 `json:"maxHeight"`
	}{c.MinWidth, finiteOrNil(c.MaxWidth), c.MinHeight, finiteOrNil(c.MaxHeight)})
}

func finiteOrNil(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}
