package parallax

// Generation is what a host retains between layout passes to decide whether
// its cached layout is still valid.
type Generation struct {
	Config   Config `json:"config"`
	SourceID string `json:"sourceId"`
}

// NeedsRelayout reports whether moving from old to next invalidates layout.
// Scroll notifications are handled separately by Node.
func NeedsRelayout(old, next Generation) bool {
	return old.SourceID != next.SourceID ||
		old.Config.Mode != next.Config.Mode ||
		old.Config.MainAxisExtent != next.Config.MainAxisExtent ||
		old.Config.Direction != next.Config.Direction ||
		old.Config.FlipDirection != next.Config.FlipDirection
}

// Subscription is a change callback registered on a ScrollSource.
// Release must be called on every exit path; it is safe to call repeatedly.
type Subscription struct {
	source ScrollSource
	cancel Unsubscribe
}

// Subscribe registers fn on src and returns the handle that releases it.
func Subscribe(src ScrollSource, fn func()) *Subscription {
	return &Subscription{source: src, cancel: src.Subscribe(fn)}
}

// Source returns the source the subscription listens to, nil once released.
func (s *Subscription) Source() ScrollSource {
	if s == nil || s.cancel == nil {
		return nil
	}
	return s.source
}

// Release unregisters the callback.
func (s *Subscription) Release() {
	if s == nil || s.cancel == nil {
		return
	}
	cancel := s.cancel
	s.cancel = nil
	s.source = nil
	cancel()
}
