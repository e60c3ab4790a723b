package engine

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dshills/blockedit/internal/engine/cursor"
	"github.com/dshills/blockedit/internal/engine/pan"
)

// ============================================================================
// Edit Operations
// ============================================================================

// replaceSelection inserts text at the caret, replacing the selection if
// there is one, and collapses the caret after the inserted text.
//
// With a selection the text goes in at the selection end first and the
// selected range is removed afterwards, so a failed insert leaves the
// document unchanged.
func (c *Controller) replaceSelection(text string) error {
	sel, hasSel := c.cursor.Selection()
	if !hasSel {
		caret := c.cursor.Caret()
		end, err := c.buf.InsertText(caret.Line, caret.Column, text)
		if err != nil {
			return err
		}
		c.cursor.SetCaret(end)
		return nil
	}

	end, err := c.buf.InsertText(sel.End.Line, sel.End.Column, text)
	if err != nil {
		return err
	}
	// The text after the caret is not touched by the delete, so the caret
	// is found again by its distance from the end of the document.
	linesAfter := c.buf.LineCount() - 1 - end.Line
	n, err := c.buf.LineLen(end.Line)
	if err != nil {
		return err
	}
	colsAfter := n - end.Column

	if err := c.buf.DeleteRange(sel.Start.Line, sel.Start.Column, sel.End.Line, sel.End.Column); err != nil {
		// Take the inserted text back out.
		if rerr := c.buf.DeleteRange(sel.End.Line, sel.End.Column, end.Line, end.Column); rerr != nil {
			return errors.Join(err, fmt.Errorf("restoring after failed replace: %w", rerr))
		}
		return err
	}

	line := c.buf.LineCount() - 1 - linesAfter
	n, err = c.buf.LineLen(line)
	if err != nil {
		return err
	}
	c.cursor.SetCaret(Point{Line: line, Column: n - colsAfter})
	return nil
}

// deleteSelection removes the selected text and collapses the caret to its
// start.
func (c *Controller) deleteSelection(sel cursor.Selection) error {
	if err := c.buf.DeleteRange(sel.Start.Line, sel.Start.Column, sel.End.Line, sel.End.Column); err != nil {
		return err
	}
	c.cursor.SetCaret(sel.Start)
	return nil
}

// insert runs one text insertion intent.
func (c *Controller) insert(text string, reason pan.Reason) error {
	if err := c.enterEdit(); err != nil {
		return err
	}
	defer c.leave()

	if c.singleLine {
		text = flatten(text)
	}
	_, hasSel := c.cursor.Selection()
	if text == "" && !hasSel {
		return nil
	}

	old := c.snapshotBounds()
	if err := c.replaceSelection(text); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	if hasSel && reason == pan.TextInserted {
		reason = pan.BulkAddRemove
	}
	c.updatePan(reason)
	c.redraw(old)
	return nil
}

// InsertCharacter types one character at the caret, replacing the
// selection if there is one.
func (c *Controller) InsertCharacter(r rune) error {
	if r == 0 || !utf8.ValidRune(r) {
		return ErrInvalidChar
	}
	return c.insert(string(r), pan.TextInserted)
}

// InsertText inserts text at the caret, replacing the selection if there
// is one. The caret ends up after the inserted text.
func (c *Controller) InsertText(text string) error {
	reason := pan.TextInserted
	if strings.ContainsAny(text, "\r\n") {
		reason = pan.BulkAddRemove
	}
	return c.insert(text, reason)
}

// BreakLine splits the line at the caret, replacing the selection if
// there is one. It does nothing on a single-line controller.
func (c *Controller) BreakLine() error {
	if c.singleLine {
		return nil
	}
	if err := c.enterEdit(); err != nil {
		return err
	}
	defer c.leave()

	old := c.snapshotBounds()
	if err := c.replaceSelection(c.lineEnding.Sequence()); err != nil {
		return fmt.Errorf("break line: %w", err)
	}
	c.updatePan(pan.MoveBack)
	c.redraw(old)
	return nil
}

// Backspace deletes the selection, or the character before the caret.
// At the start of a line the line is merged into the previous one.
func (c *Controller) Backspace() error {
	return c.deleteDirection(cursor.DirLeft)
}

// DeleteForward deletes the selection, or the character after the caret.
// At the end of a line the next line is merged into it.
func (c *Controller) DeleteForward() error {
	return c.deleteDirection(cursor.DirRight)
}

func (c *Controller) deleteDirection(dir cursor.Direction) error {
	if err := c.enterEdit(); err != nil {
		return err
	}
	defer c.leave()

	sel, hasSel := c.cursor.Selection()
	if !hasSel {
		caret := c.cursor.Caret()
		to := c.cursor.Target(dir)
		if to == caret {
			// Document boundary.
			return nil
		}
		sel = cursor.NewSelection(caret, to)
	}

	old := c.snapshotBounds()
	if err := c.deleteSelection(sel); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	c.updatePan(pan.TextDeleted)
	c.redraw(old)
	return nil
}

// DeleteSelection removes the selected text. Without a selection it does
// nothing.
func (c *Controller) DeleteSelection() error {
	if err := c.enterEdit(); err != nil {
		return err
	}
	defer c.leave()

	sel, ok := c.cursor.Selection()
	if !ok {
		return nil
	}
	old := c.snapshotBounds()
	if err := c.deleteSelection(sel); err != nil {
		return fmt.Errorf("delete selection: %w", err)
	}
	c.updatePan(pan.TextDeleted)
	c.redraw(old)
	return nil
}

// SetText replaces the whole document and resets caret, selection and pan.
func (c *Controller) SetText(text string) error {
	if err := c.enterEdit(); err != nil {
		return err
	}
	defer c.leave()

	if c.singleLine {
		text = flatten(text)
	}
	old := c.snapshotBounds()
	if err := c.buf.SetText(text); err != nil {
		return fmt.Errorf("set text: %w", err)
	}
	if !c.lineEndingSet {
		c.lineEnding = c.buf.LineEnding()
	}
	c.cursor.Reset()
	c.pan.Reset()

	old.sel = cursor.Selection{End: Point{Line: max(old.sel.End.Line, c.buf.LineCount()-1)}}
	c.redraw(old)
	return nil
}

// ============================================================================
// Clipboard Operations
// ============================================================================

// Copy puts the selected text on the clipboard. Without a selection it
// does nothing.
func (c *Controller) Copy() error {
	if err := c.enter(); err != nil {
		return err
	}
	defer c.leave()

	if !c.cursor.HasSelection() {
		return nil
	}
	if err := c.clipboard.SetText(c.SelectedText()); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	return nil
}

// Cut copies the selection to the clipboard and deletes it. If the
// clipboard rejects the text the document is left alone.
func (c *Controller) Cut() error {
	if err := c.enterEdit(); err != nil {
		return err
	}
	defer c.leave()

	sel, ok := c.cursor.Selection()
	if !ok {
		return nil
	}
	if err := c.clipboard.SetText(c.SelectedText()); err != nil {
		return fmt.Errorf("cut: %w", err)
	}

	old := c.snapshotBounds()
	if err := c.deleteSelection(sel); err != nil {
		return fmt.Errorf("cut: %w", err)
	}
	c.updatePan(pan.TextDeleted)
	c.redraw(old)
	return nil
}

// Paste inserts the clipboard text at the caret, replacing the selection.
// An empty clipboard does nothing.
func (c *Controller) Paste() error {
	if c.busy {
		return ErrReentrant
	}
	text, ok := c.clipboard.GetText()
	if !ok || text == "" {
		return nil
	}
	return c.PasteText(text)
}

// PasteText inserts text as a paste, replacing the selection.
func (c *Controller) PasteText(text string) error {
	return c.insert(text, pan.BulkAddRemove)
}
