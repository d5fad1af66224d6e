// Package parallax computes scroll-driven child offsets for parallax containers.
//
// A Parallax pairs a Config with a ScrollSource. Each layout pass derives a
// scroll ratio in [0,1] from the source (or from the child's position in an
// ancestor Viewport), then slides the child along the main axis so that it
// traverses exactly its own overflow. Node wraps a Parallax with the
// subscription and caching a host render node needs.
package parallax

import (
	"encoding/json"
	"fmt"
	"math"
)

// Mode selects how the scroll ratio is derived.
type Mode int

const (
	// ModeAnchored: the child sits outside the scrollable and follows the
	// source's overall progress.
	ModeAnchored Mode = iota
	// ModeContained: the child sits inside the scrollable and follows its own
	// position within the viewport.
	ModeContained
)

func (m Mode) String() string {
	switch m {
	case ModeAnchored:
		return "anchored"
	case ModeContained:
		return "contained"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// Config describes one parallax instance. It is a comparable value.
type Config struct {
	Mode Mode `json:"mode"`
	// MainAxisExtent is the container span along the scroll axis. Required for
	// ModeContained, ignored for ModeAnchored.
	MainAxisExtent float64 `json:"mainAxisExtent"`
	// Direction overrides the source's axis direction unless DirectionInherit.
	Direction     AxisDirection `json:"direction"`
	FlipDirection bool          `json:"flipDirection"`
}

// Contained returns a contained-mode config with the given main axis extent.
func Contained(extent float64) Config {
	return Config{Mode: ModeContained, MainAxisExtent: extent}
}

// Anchored returns an anchored-mode config.
func Anchored() Config {
	return Config{Mode: ModeAnchored}
}

// Validate reports configuration errors wrapped in ErrConfiguration.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeContained:
		if math.IsNaN(c.MainAxisExtent) || math.IsInf(c.MainAxisExtent, 0) {
			return fmt.Errorf("%w: contained mode requires a finite main axis extent, got %v", ErrConfiguration, c.MainAxisExtent)
		}
		if c.MainAxisExtent < 0 {
			return fmt.Errorf("%w: main axis extent must be non-negative, got %v", ErrConfiguration, c.MainAxisExtent)
		}
	case ModeAnchored:
	default:
		return fmt.Errorf("%w: unknown mode %v", ErrConfiguration, c.Mode)
	}
	if c.Direction < DirectionInherit || c.Direction > DirectionRight {
		return fmt.Errorf("%w: unknown direction %v", ErrConfiguration, c.Direction)
	}
	return nil
}

// ScrollMetrics is a snapshot of a scroll source. MinExtent may be -Inf and
// MaxExtent may be +Inf.
type ScrollMetrics struct {
	Offset         float64       `json:"offset"`
	MinExtent      float64       `json:"minExtent"`
	MaxExtent      float64       `json:"maxExtent"`
	ViewportExtent float64       `json:"viewportExtent"`
	Axis           Axis          `json:"axis"`
	Direction      AxisDirection `json:"direction"`
}

// Unsubscribe removes a previously registered change callback.
type Unsubscribe func()

// ScrollSource is a one-dimensional scrollable range owned by the host.
// The core only reads it and listens for changes.
type ScrollSource interface {
	// ID identifies the source across layout passes.
	ID() string
	Metrics() ScrollMetrics
	Subscribe(fn func()) Unsubscribe
}

// Viewport maps points from a child's local coordinate space into the
// coordinate space of its nearest scrollable ancestor.
type Viewport interface {
	ToViewport(local Offset) Offset
}

// Parallax binds a validated Config to its collaborators for layout.
type Parallax struct {
	config   Config
	source   ScrollSource
	viewport Viewport
}

// Option configures a Parallax.
type Option func(*Parallax)

// WithViewport supplies the coordinate transform used by contained mode.
func WithViewport(v Viewport) Option {
	return func(p *Parallax) { p.viewport = v }
}

// New validates cfg and binds it to src.
func New(cfg Config, src ScrollSource, opts ...Option) (*Parallax, error) {
	if src == nil {
		return nil, ErrMissingSource
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Parallax{config: cfg, source: src}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *Parallax) Config() Config       { return p.config }
func (p *Parallax) Source() ScrollSource { return p.source }

// Generation returns the identity used to decide whether cached layout is stale.
func (p *Parallax) Generation() Generation {
	return Generation{Config: p.config, SourceID: p.source.ID()}
}

// MarshalJSON writes infinite extrema as null.
func (m ScrollMetrics) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Offset         float64       `json:"offset"`
		MinExtent      *float64      `json:"minExtent"`
		MaxExtent      *float64      `json:"maxExtent"`
		ViewportExtent float64       `json:"viewportExtent"`
		Axis           Axis          `json:"axis"`
		Direction      AxisDirection `json:"direction"`
	}{m.Offset, finiteOrNil(m.MinExtent), finiteOrNil(m.MaxExtent), m.ViewportExtent, m.Axis, m.Direction})
}
