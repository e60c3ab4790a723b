package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/dshills/blockedit/internal/clipboard"
	"github.com/dshills/blockedit/internal/engine/buffer"
	"github.com/dshills/blockedit/internal/engine/cursor"
	"github.com/dshills/blockedit/internal/engine/pan"
	"github.com/dshills/blockedit/internal/renderer/dirty"
)

// Re-export commonly used types for convenience.
type (
	// Point represents a line/column position.
	Point = buffer.Point

	// Selection represents a normalized selection.
	Selection = cursor.Selection

	// Direction is a navigation intent.
	Direction = cursor.Direction

	// LineEnding specifies the line ending style.
	LineEnding = buffer.LineEnding
)

// Re-export constants.
const (
	DirLeft     = cursor.DirLeft
	DirRight    = cursor.DirRight
	DirUp       = cursor.DirUp
	DirDown     = cursor.DirDown
	DirHome     = cursor.DirHome
	DirEnd      = cursor.DirEnd
	DirDocStart = cursor.DirDocStart
	DirDocEnd   = cursor.DirDocEnd
)

// Clipboard is the system clipboard collaborator.
type Clipboard interface {
	// GetText returns the clipboard text, or false if it holds none.
	GetText() (string, bool)
	SetText(text string) error
}

// Renderer is the rendering and layout collaborator.
type Renderer interface {
	// ViewportWidth is the visible width of one line, in MeasureText units.
	ViewportWidth() int
	MeasureText(s string) int
	// RequestRedraw reports a region whose previous rendering is stale.
	RequestRedraw(r dirty.Region)
}

// nullRenderer never pans and discards redraw requests.
type nullRenderer struct{}

func (nullRenderer) ViewportWidth() int           { return math.MaxInt32 }
func (nullRenderer) MeasureText(s string) int     { return len(s) }
func (nullRenderer) RequestRedraw(_ dirty.Region) {}

// Controller applies edit and navigation intents to one document. Each
// intent is atomic with respect to the buffer, the cursor model and the
// pan offset.
//
// A Controller is not safe for concurrent use. Calling into it from a
// collaborator callback while an intent is running fails with
// ErrReentrant.
type Controller struct {
	buf    *buffer.Buffer
	cursor *cursor.Model
	pan    pan.Model

	clipboard Clipboard
	renderer  Renderer

	singleLine    bool
	readOnly      bool
	lineEnding    buffer.LineEnding
	lineEndingSet bool

	busy bool

	// Initialization
	initContent string
	bufOpts     []buffer.Option
}

// New creates a Controller with the given options. It fails with
// buffer.ErrAllocationFailure when the content needs more blocks than the
// buffer options allow.
func New(opts ...Option) (*Controller, error) {
	c := &Controller{
		clipboard: clipboard.NewMemory(),
		renderer:  nullRenderer{},
	}
	for _, opt := range opts {
		opt(c)
	}

	content := c.initContent
	if c.singleLine {
		content = flatten(content)
	}
	buf, err := buffer.NewBufferFromReader(strings.NewReader(content), c.bufOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}
	c.buf = buf
	if !c.lineEndingSet {
		c.lineEnding = buffer.DetectLineEnding(content)
	}
	c.cursor = cursor.New(c.buf)
	return c, nil
}

// flatten replaces every line break with a single space.
func flatten(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

// enter marks an intent as running.
func (c *Controller) enter() error {
	if c.busy {
		return ErrReentrant
	}
	c.busy = true
	return nil
}

func (c *Controller) leave() {
	c.busy = false
}

// enterEdit is enter for intents that modify the document.
func (c *Controller) enterEdit() error {
	if c.readOnly {
		return ErrReadOnly
	}
	return c.enter()
}

// ============================================================================
// Read Operations
// ============================================================================

// Buffer returns the underlying buffer. Callers must not modify it.
func (c *Controller) Buffer() *buffer.Buffer {
	return c.buf
}

// Text returns the full document.
func (c *Controller) Text() string {
	return c.buf.Text()
}

// LineCount returns the number of lines.
func (c *Controller) LineCount() uint32 {
	return c.buf.LineCount()
}

// LineText returns the visible content of line, or "" if it does not exist.
func (c *Controller) LineText(line uint32) string {
	s, err := c.buf.LineText(line)
	if err != nil {
		return ""
	}
	return s
}

// Caret returns the caret position.
func (c *Controller) Caret() Point {
	return c.cursor.Caret()
}

// Selection returns the current selection, if any.
func (c *Controller) Selection() (Selection, bool) {
	return c.cursor.Selection()
}

// SelectedText returns the selected text, or "" without a selection.
func (c *Controller) SelectedText() string {
	sel, ok := c.cursor.Selection()
	if !ok {
		return ""
	}
	s, err := c.buf.TextRange(sel.Start.Line, sel.Start.Column, sel.End.Line, sel.End.Column)
	if err != nil {
		return ""
	}
	return s
}

// PanOffset returns the horizontal pan offset of the caret line.
func (c *Controller) PanOffset() int {
	return c.pan.Offset()
}

// IsSingleLine returns true for a single-line controller.
func (c *Controller) IsSingleLine() bool {
	return c.singleLine
}

// IsReadOnly returns true if edits are rejected.
func (c *Controller) IsReadOnly() bool {
	return c.readOnly
}

// LineEnding returns the sequence BreakLine inserts.
func (c *Controller) LineEnding() LineEnding {
	return c.lineEnding
}

// ============================================================================
// Redraw and Pan
// ============================================================================

// bounds is what a redraw needs to know about the state before an intent.
type bounds struct {
	sel   cursor.Selection
	lines uint32
}

func (c *Controller) snapshotBounds() bounds {
	return bounds{sel: c.cursor.Bounds(), lines: c.buf.LineCount()}
}

// redraw reports the old caret/selection box. When the line count changed,
// every line from the box down to the old or new last line moved, so the
// region reaches there.
func (c *Controller) redraw(old bounds) {
	start, end := old.sel.Start.Line, old.sel.End.Line
	if n := c.buf.LineCount(); n != old.lines {
		end = max(end, max(n, old.lines)-1)
	}
	if start == end {
		c.renderer.RequestRedraw(dirty.NewSingleLine(start))
		return
	}
	c.renderer.RequestRedraw(dirty.NewLineRegion(start, end))
}

// redrawMove reports both the old and the new caret/selection box.
func (c *Controller) redrawMove(old bounds) {
	now := c.cursor.Bounds()
	start := min(old.sel.Start.Line, now.Start.Line)
	end := max(old.sel.End.Line, now.End.Line)
	c.redraw(bounds{sel: cursor.Selection{Start: Point{Line: start}, End: Point{Line: end}}, lines: old.lines})
}

func (c *Controller) updatePan(reason pan.Reason) {
	caret := c.cursor.Caret()
	c.pan.Update(reason, c.LineText(caret.Line), int(caret.Column), c.renderer.ViewportWidth(), c.renderer)
}

// caretX measures the caret's offset within its line.
func (c *Controller) caretX() int {
	caret := c.cursor.Caret()
	line := c.LineText(caret.Line)
	return c.renderer.MeasureText(line[:min(int(caret.Column), len(line))])
}
