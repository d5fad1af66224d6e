package parallax

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is reported at construction for an unusable Config.
	ErrConfiguration = errors.New("parallax: invalid configuration")
	// ErrMissingSource wraps ErrConfiguration when no scroll source was given.
	ErrMissingSource = fmt.Errorf("%w: missing scroll source", ErrConfiguration)
	// ErrMissingViewport is returned at layout time when a contained
	// parallax has no enclosing viewport to measure against.
	ErrMissingViewport = errors.New("parallax: contained layout requires an ancestor viewport")
	// ErrInvalidExtent is returned when a container or child extent is negative or NaN.
	ErrInvalidExtent = errors.New("parallax: invalid extent")
)
