package parallax

import "math"

// Ratio is a scroll ratio together with how it was obtained.
//
// Raw is the progress before direction handling, Value after it. Neither is
// clamped: an overscrolling source may push them outside [0,1] for a while.
type Ratio struct {
	Raw       float64       `json:"raw"`
	Value     float64       `json:"value"`
	Direction AxisDirection `json:"direction"`
	// Unbounded: the source has an infinite extremum, Raw fell back to 0.
	Unbounded bool `json:"unbounded,omitempty"`
	// Degenerate: the ratio denominator was zero, Raw fell back to 0.
	Degenerate bool `json:"degenerate,omitempty"`
}

// AnchoredRatio measures the source's overall progress from MinExtent to
// MaxExtent. Unbounded extrema yield 0 with unbounded set; an empty range
// yields 0 with degenerate set.
func AnchoredRatio(m ScrollMetrics) (ratio float64, unbounded, degenerate bool) {
	if !isFinite(m.MinExtent) || !isFinite(m.MaxExtent) {
		return 0, true, false
	}
	span := m.MaxExtent - m.MinExtent
	if span == 0 || math.IsNaN(m.Offset) {
		return 0, false, true
	}
	return (m.Offset - m.MinExtent) / span, false, false
}

// ContainedRatio measures how far the child's far edge has travelled through
// a span of viewport plus the child's own extent. The far edge is the local
// point extent along the scroll axis, mapped into viewport space.
func ContainedRatio(m ScrollMetrics, vp Viewport, extent float64) (ratio float64, degenerate bool) {
	edge := vp.ToViewport(m.Axis.Unit().Scale(extent))
	denominator := m.ViewportExtent + extent
	if denominator == 0 || !isFinite(denominator) {
		return 0, true
	}
	r := edge.Along(m.Axis) / denominator
	if math.IsNaN(r) {
		return 0, true
	}
	return r, false
}

// ResolveDirection picks the direction progress is measured against: the
// config override, else the source's direction, else the axis default
// (down for vertical, right for horizontal). FlipDirection swaps the result
// for its opposite.
func ResolveDirection(cfg Config, m ScrollMetrics) AxisDirection {
	d := cfg.Direction
	if d == DirectionInherit {
		d = m.Direction
	}
	if d == DirectionInherit {
		d = defaultDirection(m.Axis)
	}
	if cfg.FlipDirection {
		d = d.Flip()
	}
	return d
}

// ApplyDirection inverts ratio when d is a reversed direction.
func ApplyDirection(ratio float64, d AxisDirection) float64 {
	if d.IsReversed() {
		return 1 - ratio
	}
	return ratio
}

// Ratio computes the current scroll ratio for p.
func (p *Parallax) Ratio() (Ratio, error) {
	return p.ratio(p.source.Metrics())
}

func (p *Parallax) ratio(m ScrollMetrics) (Ratio, error) {
	var r Ratio
	switch p.config.Mode {
	case ModeContained:
		if p.viewport == nil {
			return Ratio{}, ErrMissingViewport
		}
		r.Raw, r.Degenerate = ContainedRatio(m, p.viewport, p.config.MainAxisExtent)
	default:
		r.Raw, r.Unbounded, r.Degenerate = AnchoredRatio(m)
	}
	r.Direction = ResolveDirection(p.config, m)
	r.Value = ApplyDirection(r.Raw, r.Direction)
	return r, nil
}

func defaultDirection(axis Axis) AxisDirection {
	if axis == AxisHorizontal {
		return DirectionRight
	}
	return DirectionDown
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
