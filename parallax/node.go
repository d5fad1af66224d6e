package parallax

// Node is the host-side holder of one parallax instance: its current
// Parallax, its scroll subscription and its last LayoutResult.
//
// A scroll notification only marks the node dirty and calls the schedule
// hook once per clean-to-dirty transition, so any number of notifications
// between two passes collapse into a single recomputation. Node is not safe
// for concurrent use; hosts drive it from their layout thread.
type Node struct {
	parallax    *Parallax
	sub         *Subscription
	schedule    func()
	dirty       bool
	cached      *LayoutResult
	constraints BoxConstraints
	layouts     int
}

// NewNode wraps p. schedule, if non-nil, is called when the node first
// needs a layout pass after being clean.
func NewNode(p *Parallax, schedule func()) *Node {
	return &Node{parallax: p, schedule: schedule, dirty: true}
}

// Attach subscribes to the current source. Attaching twice is a no-op.
func (n *Node) Attach() {
	if n.sub != nil {
		return
	}
	n.sub = Subscribe(n.parallax.source, n.MarkNeedsLayout)
}

// Detach releases the subscription.
func (n *Node) Detach() {
	n.sub.Release()
	n.sub = nil
}

// Attached reports whether the node currently listens to its source.
func (n *Node) Attached() bool { return n.sub != nil }

// Parallax returns the instance the node currently lays out.
func (n *Node) Parallax() *Parallax { return n.parallax }

// Update swaps in a new configuration and source. The config is validated
// before anything changes. When the source identity or the source value
// changes the old subscription is released before the new one is taken.
func (n *Node) Update(cfg Config, src ScrollSource, opts ...Option) error {
	if src == nil {
		return ErrMissingSource
	}
	if n.parallax.viewport != nil {
		opts = append([]Option{WithViewport(n.parallax.viewport)}, opts...)
	}
	next, err := New(cfg, src, opts...)
	if err != nil {
		return err
	}
	old := n.parallax.Generation()
	n.parallax = next
	gen := next.Generation()

	if n.sub != nil && (old.SourceID != gen.SourceID || n.sub.Source() != src) {
		n.sub.Release()
		n.sub = Subscribe(src, n.MarkNeedsLayout)
	}
	if NeedsRelayout(old, gen) {
		n.MarkNeedsLayout()
	}
	return nil
}

// MarkNeedsLayout invalidates the cached result. It never lays out.
func (n *Node) MarkNeedsLayout() {
	if n.dirty {
		return
	}
	n.dirty = true
	if n.schedule != nil {
		n.schedule()
	}
}

// NeedsLayout reports whether the next Layout call will recompute.
func (n *Node) NeedsLayout() bool { return n.dirty || n.cached == nil }

// Layout returns the cached result when the node is clean and constraints are
// unchanged, and otherwise runs a full pass. A failed pass leaves the node
// dirty.
func (n *Node) Layout(constraints BoxConstraints, layoutChild func(BoxConstraints) Size) (LayoutResult, error) {
	if !n.NeedsLayout() && n.constraints == constraints {
		return *n.cached, nil
	}
	res, err := n.parallax.Resolve(constraints, layoutChild)
	if err != nil {
		n.dirty = true
		return LayoutResult{}, err
	}
	n.cached = &res
	n.constraints = constraints
	n.dirty = false
	n.layouts++
	return res, nil
}

// Layouts counts completed recomputations.
func (n *Node) Layouts() int { return n.layouts }
