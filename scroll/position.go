// Package scroll provides the scroll-side collaborators of a parallax:
// a concrete scroll source and viewport coordinate transforms.
package scroll

import (
	"math"

	"github.com/oklog/ulid/v2"

	"github.com/ByLCY/parallax/parallax"
)

// Position is a one-dimensional scroll position with change listeners.
// It is driven from a single thread, like the layout passes reading it.
type Position struct {
	id        string
	metrics   parallax.ScrollMetrics
	listeners []*listener
	nextID    uint64
}

type listener struct {
	id     uint64
	fn     func()
	active bool
}

// PositionOption configures a Position.
type PositionOption func(*Position)

// WithExtents sets the scroll range. Either end may be infinite.
func WithExtents(min, max float64) PositionOption {
	return func(p *Position) {
		p.metrics.MinExtent = min
		p.metrics.MaxExtent = max
	}
}

// WithViewportExtent sets the visible extent along the axis.
func WithViewportExtent(extent float64) PositionOption {
	return func(p *Position) { p.metrics.ViewportExtent = extent }
}

// WithDirection sets the axis direction. A direction that belongs to the
// other axis, or DirectionInherit, is ignored and the position keeps its
// default (down for vertical, right for horizontal). Callers that need to
// reject a mismatch should check d.Axis() first.
func WithDirection(d parallax.AxisDirection) PositionOption {
	return func(p *Position) {
		if d != parallax.DirectionInherit && d.Axis() == p.metrics.Axis {
			p.metrics.Direction = d
		}
	}
}

// WithOffset sets the initial offset.
func WithOffset(offset float64) PositionOption {
	return func(p *Position) { p.metrics.Offset = offset }
}

// WithID overrides the generated identity.
func WithID(id string) PositionOption {
	return func(p *Position) {
		if id != "" {
			p.id = id
		}
	}
}

// NewPosition creates a position on axis. The direction defaults to down for
// vertical and right for horizontal.
func NewPosition(axis parallax.Axis, opts ...PositionOption) *Position {
	p := &Position{id: ulid.Make().String()}
	p.metrics.Axis = axis
	p.metrics.Direction = parallax.DirectionDown
	if axis == parallax.AxisHorizontal {
		p.metrics.Direction = parallax.DirectionRight
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ parallax.ScrollSource = (*Position)(nil)

func (p *Position) ID() string                       { return p.id }
func (p *Position) Metrics() parallax.ScrollMetrics { return p.metrics }
func (p *Position) Offset() float64                  { return p.metrics.Offset }

// Subscribe registers fn and returns the function that removes it.
// Removing twice is harmless.
func (p *Position) Subscribe(fn func()) parallax.Unsubscribe {
	p.nextID++
	l := &listener{id: p.nextID, fn: fn, active: true}
	p.listeners = append(p.listeners, l)
	return func() {
		if !l.active {
			return
		}
		l.active = false
		p.compact()
	}
}

// Listeners returns the number of active listeners.
func (p *Position) Listeners() int {
	n := 0
	for _, l := range p.listeners {
		if l.active {
			n++
		}
	}
	return n
}

// JumpTo moves to offset without clamping, so overscroll is possible.
func (p *Position) JumpTo(offset float64) {
	if offset == p.metrics.Offset {
		return
	}
	p.metrics.Offset = offset
	p.notify()
}

// ScrollBy moves by delta, clamped to the finite ends of the range.
func (p *Position) ScrollBy(delta float64) {
	p.JumpTo(p.clamp(p.metrics.Offset + delta))
}

// SetExtents replaces the scroll range.
func (p *Position) SetExtents(min, max float64) {
	if min == p.metrics.MinExtent && max == p.metrics.MaxExtent {
		return
	}
	p.metrics.MinExtent = min
	p.metrics.MaxExtent = max
	p.notify()
}

// SetViewportExtent replaces the visible extent.
func (p *Position) SetViewportExtent(extent float64) {
	if extent == p.metrics.ViewportExtent {
		return
	}
	p.metrics.ViewportExtent = extent
	p.notify()
}

func (p *Position) clamp(v float64) float64 {
	if !math.IsInf(p.metrics.MinExtent, 0) && v < p.metrics.MinExtent {
		v = p.metrics.MinExtent
	}
	if !math.IsInf(p.metrics.MaxExtent, 0) && v > p.metrics.MaxExtent {
		v = p.metrics.MaxExtent
	}
	return v
}

// notify calls listeners in registration order. Listeners removed during
// notification are skipped.
func (p *Position) notify() {
	snapshot := make([]*listener, len(p.listeners))
	copy(snapshot, p.listeners)
	for _, l := range snapshot {
		if l.active {
			l.fn()
		}
	}
}

func (p *Position) compact() {
	active := p.listeners[:0]
	for _, l := range p.listeners {
		if l.active {
			active = append(active, l)
		}
	}
	for i := len(active); i < len(p.listeners); i++ {
		p.listeners[i] = nil
	}
	p.listeners = active
}
