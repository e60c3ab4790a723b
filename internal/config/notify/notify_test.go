package notify

import (
	"testing"
)

func TestSubscribePath(t *testing.T) {
	n := New()
	var all, editor, theme int
	n.Subscribe(func(Change) { all++ })
	n.SubscribePath("editor", func(Change) { editor++ })
	n.SubscribePath("theme.selection", func(Change) { theme++ })

	n.Notify(Change{Type: ChangeReload, Paths: []string{"editor.tabWidth", "logging.level"}})

	if all != 1 || editor != 1 || theme != 0 {
		t.Errorf("deliveries all=%d editor=%d theme=%d", all, editor, theme)
	}
}

func TestPrefixNeedsSegmentBoundary(t *testing.T) {
	c := Change{Paths: []string{"editorial.x"}}
	if c.Affects("editor") {
		t.Error("editor should not match editorial.x")
	}
}

func TestEmptyChangeIsDropped(t *testing.T) {
	n := New()
	called := false
	n.Subscribe(func(Change) { called = true })

	n.Notify(Change{Type: ChangeReload})
	if called {
		t.Error("observer called for a change with no paths")
	}
}

func TestUnsubscribe(t *testing.T) {
	n := New()
	calls := 0
	sub := n.Subscribe(func(Change) { calls++ })
	sub.Unsubscribe()
	sub.Unsubscribe()

	n.Notify(Change{Paths: []string{"a"}})
	if calls != 0 || n.Count() != 0 {
		t.Errorf("calls=%d count=%d after unsubscribe", calls, n.Count())
	}
}

func TestPanickingObserver(t *testing.T) {
	n := New()
	reached := false
	n.Subscribe(func(Change) { panic("boom") })
	n.Subscribe(func(Change) { reached = true })

	n.Notify(Change{Paths: []string{"a"}})
	if !reached {
		t.Error("second observer should still run")
	}
}

func TestChangeTypeString(t *testing.T) {
	if ChangeSet.String() != "set" || ChangeReload.String() != "reload" || ChangeType(9).String() != "unknown" {
		t.Error("unexpected change type names")
	}
}
