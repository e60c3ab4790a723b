package engine

import (
	"github.com/dshills/blockedit/internal/engine/pan"
)

// ============================================================================
// Navigation Operations
// ============================================================================

// navigate runs fn as a navigation intent. When the state changed, the pan
// follows the caret and the old and new caret/selection boxes are
// reported for redraw.
func (c *Controller) navigate(fn func() bool) error {
	if err := c.enter(); err != nil {
		return err
	}
	defer c.leave()

	old := c.snapshotBounds()
	oldX := c.caretX()
	if !fn() {
		return nil
	}

	reason := pan.MoveForward
	if c.caretX() < oldX {
		reason = pan.MoveBack
	}
	c.updatePan(reason)
	c.redrawMove(old)
	return nil
}

// Move applies a navigation intent. With extend the selection grows from
// the gesture anchor; without it any selection collapses.
func (c *Controller) Move(dir Direction, extend bool) error {
	return c.navigate(func() bool {
		return c.cursor.Move(dir, extend)
	})
}

// SelectAll selects the whole document.
func (c *Controller) SelectAll() error {
	return c.navigate(c.cursor.SelectAll)
}

// SelectLine selects the visible content of line.
func (c *Controller) SelectLine(line uint32) error {
	return c.navigate(func() bool {
		return c.cursor.SelectLine(line)
	})
}

// Click places the caret at p, or extends the selection to p.
func (c *Controller) Click(p Point, extend bool) error {
	return c.navigate(func() bool {
		return c.cursor.Click(p, extend)
	})
}

// Drag extends the selection to p.
func (c *Controller) Drag(p Point) error {
	return c.navigate(func() bool {
		return c.cursor.Drag(p)
	})
}

// Select sets the anchor to from and the caret to to.
func (c *Controller) Select(from, to Point) error {
	return c.navigate(func() bool {
		return c.cursor.Select(from, to)
	})
}

// Blur resets the caret, selection and pan when the widget loses focus.
func (c *Controller) Blur() error {
	return c.navigate(c.cursor.Reset)
}
