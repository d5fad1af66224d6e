package parallax

import (
	"fmt"
	"strings"
)

// Axis is the axis along which a scroll source scrolls.
type Axis int

const (
	AxisVertical Axis = iota
	AxisHorizontal
)

func (a Axis) String() string {
	switch a {
	case AxisVertical:
		return "vertical"
	case AxisHorizontal:
		return "horizontal"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// MarshalText lets axes appear by name in debug JSON.
func (a Axis) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// Unit returns the unit vector of the axis: (0,1) for vertical, (1,0) for horizontal.
func (a Axis) Unit() Offset {
	if a == AxisHorizontal {
		return Offset{X: 1}
	}
	return Offset{Y: 1}
}

// ParseAxis accepts "vertical"/"v" and "horizontal"/"h".
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vertical", "v":
		return AxisVertical, nil
	case "horizontal", "h":
		return AxisHorizontal, nil
	default:
		return AxisVertical, fmt.Errorf("unknown axis %q", s)
	}
}

// AxisDirection names the edge a scroll source treats as its origin.
// The zero value DirectionInherit means "no override" inside a Config.
type AxisDirection int

const (
	DirectionInherit AxisDirection = iota
	DirectionUp
	DirectionDown
	DirectionLeft
	DirectionRight
)

func (d AxisDirection) String() string {
	switch d {
	case DirectionInherit:
		return "inherit"
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	default:
		return fmt.Sprintf("AxisDirection(%d)", int(d))
	}
}

func (d AxisDirection) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Axis reports the axis the direction belongs to. DirectionInherit reports vertical.
func (d AxisDirection) Axis() Axis {
	if d == DirectionLeft || d == DirectionRight {
		return AxisHorizontal
	}
	return AxisVertical
}

// Flip returns the opposite member of the same axis (up<->down, left<->right).
func (d AxisDirection) Flip() AxisDirection {
	switch d {
	case DirectionUp:
		return DirectionDown
	case DirectionDown:
		return DirectionUp
	case DirectionLeft:
		return DirectionRight
	case DirectionRight:
		return DirectionLeft
	default:
		return d
	}
}

// IsReversed is true for the trailing-origin member of each axis: down and right.
// Ratios measured against a reversed direction are inverted.
func (d AxisDirection) IsReversed() bool {
	return d == DirectionDown || d == DirectionRight
}

// ParseAxisDirection accepts up/down/left/right, and "" or "inherit" for no override.
func ParseAxisDirection(s string) (AxisDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "inherit", "auto":
		return DirectionInherit, nil
	case "up":
		return DirectionUp, nil
	case "down":
		return DirectionDown, nil
	case "left":
		return DirectionLeft, nil
	case "right":
		return DirectionRight, nil
	default:
		return DirectionInherit, fmt.Errorf("unknown axis direction %q", s)
	}
}
