package parallax

import "math"

// stubSource is a minimal ScrollSource for tests; the real one lives in
// package scroll, which imports this package.
type stubSource struct {
	id   string
	m    ScrollMetrics
	fns  map[int]func()
	next int
}

func newStubSource(id string, m ScrollMetrics) *stubSource {
	return &stubSource{id: id, m: m, fns: map[int]func(){}}
}

func (s *stubSource) ID() string             { return s.id }
func (s *stubSource) Metrics() ScrollMetrics { return s.m }

func (s *stubSource) Subscribe(fn func()) Unsubscribe {
	s.next++
	id := s.next
	s.fns[id] = fn
	return func() { delete(s.fns, id) }
}

func (s *stubSource) jumpTo(offset float64) {
	s.m.Offset = offset
	for _, fn := range s.fns {
		fn()
	}
}

// shiftViewport translates local points by a fixed vector.
type shiftViewport Offset

func (v shiftViewport) ToViewport(local Offset) Offset {
	return local.Add(Offset(v))
}

func verticalFeed(offset float64) *stubSource {
	return newStubSource("feed", ScrollMetrics{
		Offset:         offset,
		MinExtent:      0,
		MaxExtent:      1000,
		ViewportExtent: 300,
		Axis:           AxisVertical,
		Direction:      DirectionDown,
	})
}

func approx(a, b float64) bool { return math.Abs(a-b) <= 1e-9 }
