package parallax

import (
	"errors"
	"testing"
)

func fixedChild(height float64) func(BoxConstraints) Size {
	return func(c BoxConstraints) Size { return Size{Width: c.MaxWidth, Height: height} }
}

func TestNeedsRelayout(t *testing.T) {
	base := Generation{Config: Contained(150), SourceID: "a"}
	if NeedsRelayout(base, base) {
		t.Fatalf("identical generations must not relayout")
	}
	changes := []Generation{
		{Config: Contained(150), SourceID: "b"},
		{Config: Contained(151), SourceID: "a"},
		{Config: Config{Mode: ModeContained, MainAxisExtent: 150, Direction: DirectionUp}, SourceID: "a"},
		{Config: Config{Mode: ModeContained, MainAxisExtent: 150, FlipDirection: true}, SourceID: "a"},
		{Config: Config{Mode: ModeAnchored, MainAxisExtent: 150}, SourceID: "a"},
	}
	for i, next := range changes {
		if !NeedsRelayout(base, next) {
			t.Fatalf("change %d should require relayout: %+v", i, next)
		}
	}
}

func TestSubscriptionReleaseIsIdempotent(t *testing.T) {
	src := verticalFeed(0)
	calls := 0
	sub := Subscribe(src, func() { calls++ })
	if sub.Source() != src {
		t.Fatalf("subscription should report its source")
	}
	src.jumpTo(10)
	sub.Release()
	sub.Release()
	src.jumpTo(20)
	if calls != 1 {
		t.Fatalf("expected 1 notification before release, got %d", calls)
	}
	if len(src.fns) != 0 || sub.Source() != nil {
		t.Fatalf("release should drop the listener")
	}
	var nilSub *Subscription
	nilSub.Release()
}

func TestNodeCoalescesNotifications(t *testing.T) {
	src := verticalFeed(0)
	src.m.Direction = DirectionUp
	p, err := New(Anchored(), src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	scheduled := 0
	n := NewNode(p, func() { scheduled++ })
	n.Attach()
	defer n.Detach()

	constraints := BoxConstraints{MaxWidth: 400, MaxHeight: 300}
	if _, err := n.Layout(constraints, fixedChild(1300)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Layouts() != 1 || n.NeedsLayout() {
		t.Fatalf("expected one clean layout, got %d", n.Layouts())
	}

	src.jumpTo(250)
	src.jumpTo(500)
	if scheduled != 1 {
		t.Fatalf("expected a single scheduled pass, got %d", scheduled)
	}
	if n.Layouts() != 1 {
		t.Fatalf("notifications must not lay out synchronously")
	}

	res, err := n.Layout(constraints, fixedChild(1300))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Layouts() != 2 {
		t.Fatalf("expected exactly one recomputation, got %d", n.Layouts()-1)
	}
	if !approx(res.Ratio.Raw, 0.5) || !approx(res.ChildOffset.Y, -500) {
		t.Fatalf("expected latest offset to be used, got ratio %g offset %+v", res.Ratio.Raw, res.ChildOffset)
	}
}

func TestNodeReusesCachedResult(t *testing.T) {
	p, err := New(Anchored(), verticalFeed(250))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := NewNode(p, nil)
	n.Attach()
	defer n.Detach()
	constraints := BoxConstraints{MaxWidth: 400, MaxHeight: 300}
	first, err := n.Layout(constraints, fixedChild(2400))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	childCalls := 0
	second, err := n.Layout(constraints, func(c BoxConstraints) Size {
		childCalls++
		return Size{}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if childCalls != 0 || first != second || n.Layouts() != 1 {
		t.Fatalf("clean node should reuse its cached result")
	}
	// new constraints invalidate the cache
	if _, err := n.Layout(BoxConstraints{MaxWidth: 200, MaxHeight: 300}, fixedChild(2400)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Layouts() != 2 {
		t.Fatalf("changed constraints should recompute")
	}
}

func TestNodeUpdateMovesSubscription(t *testing.T) {
	a := verticalFeed(0)
	b := newStubSource("other", a.m)
	p, err := New(Anchored(), a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := NewNode(p, nil)
	n.Attach()
	constraints := BoxConstraints{MaxWidth: 400, MaxHeight: 300}
	if _, err := n.Layout(constraints, fixedChild(600)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := n.Update(Anchored(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.fns) != 0 || len(b.fns) != 1 {
		t.Fatalf("expected subscription on new source only, got old=%d new=%d", len(a.fns), len(b.fns))
	}
	if !n.NeedsLayout() {
		t.Fatalf("source swap should require relayout")
	}
	if _, err := n.Layout(constraints, fixedChild(600)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a.jumpTo(300)
	if n.NeedsLayout() {
		t.Fatalf("old source must no longer invalidate the node")
	}
	b.jumpTo(300)
	if !n.NeedsLayout() {
		t.Fatalf("new source should invalidate the node")
	}

	n.Detach()
	if len(b.fns) != 0 || n.Attached() {
		t.Fatalf("detach should release the subscription")
	}
}

func TestNodeUpdateResubscribesSameIDSource(t *testing.T) {
	a := verticalFeed(0)
	b := verticalFeed(0)
	p, err := New(Anchored(), a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := NewNode(p, nil)
	n.Attach()
	constraints := BoxConstraints{MaxWidth: 400, MaxHeight: 300}
	if _, err := n.Layout(constraints, fixedChild(600)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := n.Update(Anchored(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.fns) != 0 || len(b.fns) != 1 {
		t.Fatalf("expected subscription on new source only, got old=%d new=%d", len(a.fns), len(b.fns))
	}
	if _, err := n.Layout(constraints, fixedChild(600)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b.jumpTo(500)
	if !n.NeedsLayout() {
		t.Fatalf("replacement source sharing an id should still invalidate the node")
	}
}

func TestNodeUpdateSameConfigStaysClean(t *testing.T) {
	src := verticalFeed(0)
	p, err := New(Anchored(), src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := NewNode(p, nil)
	n.Attach()
	defer n.Detach()
	if _, err := n.Layout(BoxConstraints{MaxWidth: 10, MaxHeight: 10}, fixedChild(20)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := n.Update(Anchored(), src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.NeedsLayout() || len(src.fns) != 1 {
		t.Fatalf("unchanged generation should keep cache and subscription")
	}
	if err := n.Update(Config{FlipDirection: true}, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !n.NeedsLayout() {
		t.Fatalf("flip change should require relayout")
	}
}

func TestNodeUpdateRejectsInvalidConfig(t *testing.T) {
	src := verticalFeed(0)
	p, err := New(Contained(150), src, WithViewport(shiftViewport{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := NewNode(p, nil)
	if err := n.Update(Contained(-1), src); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if n.Parallax().Config() != Contained(150) {
		t.Fatalf("failed update must keep the previous config")
	}
	if err := n.Update(Contained(150), nil); !errors.Is(err, ErrMissingSource) {
		t.Fatalf("expected ErrMissingSource, got %v", err)
	}
}

func TestNodeFailedLayoutStaysDirty(t *testing.T) {
	p, err := New(Contained(150), verticalFeed(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := NewNode(p, nil)
	if _, err := n.Layout(BoxConstraints{MaxWidth: 10, MaxHeight: 500}, fixedChild(300)); !errors.Is(err, ErrMissingViewport) {
		t.Fatalf("expected ErrMissingViewport, got %v", err)
	}
	if !n.NeedsLayout() || n.Layouts() != 0 {
		t.Fatalf("failed layout must leave the node dirty")
	}
}
