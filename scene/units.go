package scene

import (
	"fmt"
	"strconv"
	"strings"
)

// This file defines the length units accepted in scene files.

// Unit represents the original unit of a length value as written in the scene.
type Unit int

const (
	UnitNone    Unit = iota // bare numbers, treated as px
	UnitPX                  // logical pixels
	UnitPT                  // points
	UnitPercent             // percent of the source's viewport extent
	UnitFactor              // multiple of the container's main axis extent
)

// Conversion constants between pt and px (96 px per inch, 72 pt per inch).
const (
	PtToPx = 96.0 / 72.0
	PxToPt = 1.0 / PtToPx
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return "px"
	case UnitPT:
		return "pt"
	case UnitPercent:
		return "%"
	case UnitFactor:
		return "x"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// IsRelative reports whether resolving needs a reference extent.
func (l Length) IsRelative() bool { return l.Unit == UnitPercent || l.Unit == UnitFactor }

// Resolve converts the length to px. container is the main axis extent of the
// parallax container, viewport the extent of its scroll source.
func (l Length) Resolve(container, viewport float64) float64 {
	switch l.Unit {
	case UnitPT:
		return l.Value * PtToPx
	case UnitPercent:
		return viewport * l.Value / 100
	case UnitFactor:
		return container * l.Value
	default:
		return l.Value
	}
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// ParseLength parses a scene length such as "240", "240px", "18pt", "50%" or "8x".
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("长度为空")
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitPX}, {"pt", UnitPT}, {"%", UnitPercent}, {"x", UnitFactor}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q: %w", value, err)
	}
	if f < 0 {
		return Length{}, fmt.Errorf("长度不能为负: %q", value)
	}
	return Length{Value: f, Unit: unit}, nil
}
