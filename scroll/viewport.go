package scroll

import (
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/parallax/parallax"
)

// ListViewport maps a child laid out at a fixed position inside the scroll
// content of Source into viewport space. At is the child's leading edge in
// content coordinates and Cross its position on the other axis.
type ListViewport struct {
	Source parallax.ScrollSource
	At     float64
	Cross  float64
}

var (
	_ parallax.Viewport = ListViewport{}
	_ parallax.Viewport = MatrixViewport{}
)

// Transform returns the child-to-viewport matrix for the current offset.
func (v ListViewport) Transform() canvas.Matrix {
	m := v.Source.Metrics()
	shift := v.At - m.Offset
	if m.Axis == parallax.AxisHorizontal {
		return canvas.Identity.Translate(shift, v.Cross)
	}
	return canvas.Identity.Translate(v.Cross, shift)
}

func (v ListViewport) ToViewport(local parallax.Offset) parallax.Offset {
	return apply(v.Transform(), local)
}

// MatrixViewport applies a fixed affine transform.
type MatrixViewport struct {
	Matrix canvas.Matrix
}

// Chain composes transforms listed from the child outwards: the first matrix
// is applied first.
func Chain(ms ...canvas.Matrix) MatrixViewport {
	acc := canvas.Identity
	for _, m := range ms {
		acc = m.Mul(acc)
	}
	return MatrixViewport{Matrix: acc}
}

func (v MatrixViewport) ToViewport(local parallax.Offset) parallax.Offset {
	return apply(v.Matrix, local)
}

func apply(m canvas.Matrix, p parallax.Offset) parallax.Offset {
	q := m.Dot(canvas.Point{X: p.X, Y: p.Y})
	return parallax.Offset{X: q.X, Y: q.Y}
}
