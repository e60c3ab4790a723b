package renderer

import (
	"strconv"

	"github.com/dshills/blockedit/internal/engine/buffer"
	"github.com/dshills/blockedit/internal/engine/cursor"
	"github.com/dshills/blockedit/internal/renderer/backend"
	"github.com/dshills/blockedit/internal/renderer/core"
	"github.com/dshills/blockedit/internal/renderer/dirty"
	"github.com/dshills/blockedit/internal/renderer/viewport"
)

// Source is the document state a Renderer paints. *engine.Controller
// satisfies it.
type Source interface {
	LineCount() uint32
	LineText(line uint32) string
	Caret() buffer.Point
	Selection() (cursor.Selection, bool)
	PanOffset() int
}

// Options configures a Renderer.
type Options struct {
	// SingleLine paints line 0 on the first row of the rectangle and has
	// no viewport.
	SingleLine   bool
	LineNumbers  bool
	TabWidth     int
	ScrollMargin int
	Theme        core.Theme
}

// DefaultOptions returns options for a multi-line area without a gutter.
func DefaultOptions() Options {
	return Options{
		TabWidth:     core.DefaultTabWidth,
		ScrollMargin: viewport.DefaultMargin,
		Theme:        core.DefaultTheme(),
	}
}

// frame is what the screen currently shows; a change in any field moves
// every visible cell.
type frame struct {
	top    uint32
	pan    int
	gutter int
	valid  bool
}

// Renderer paints one Source into a rectangle of a backend. It is the
// controller's rendering collaborator: it measures text, reports the
// text area width and collects redraw requests until the next Paint.
//
// A Renderer is not safe for concurrent use.
type Renderer struct {
	opts     Options
	backend  backend.Backend
	rect     core.ScreenRect
	measurer core.CellMeasurer
	viewport *viewport.Viewport
	tracker  *dirty.Tracker
	src      Source
	focused  bool

	painted frame
	frames  uint64
	scratch []core.Cell
}

// New creates a renderer painting into rect.
func New(b backend.Backend, rect core.ScreenRect, opts Options) *Renderer {
	r := &Renderer{
		opts:     opts,
		backend:  b,
		rect:     rect,
		measurer: core.NewCellMeasurer(opts.TabWidth),
		tracker:  dirty.NewTracker(),
	}
	if !opts.SingleLine {
		r.viewport = viewport.NewViewport(rect.Height())
		r.viewport.SetMargin(opts.ScrollMargin)
	}
	return r
}

// SetSource sets the document to paint.
func (r *Renderer) SetSource(src Source) {
	r.src = src
	r.tracker.MarkAll()
}

// Rect returns the area the renderer paints.
func (r *Renderer) Rect() core.ScreenRect {
	return r.rect
}

// SetRect moves or resizes the painted area.
func (r *Renderer) SetRect(rect core.ScreenRect) {
	r.rect = rect
	if r.viewport != nil {
		r.viewport.Resize(rect.Height())
	}
	r.tracker.MarkAll()
}

// SetFocused controls whether Paint places the terminal cursor. Losing
// focus hides it.
func (r *Renderer) SetFocused(focused bool) {
	if r.focused && !focused {
		r.backend.HideCursor()
	}
	r.focused = focused
}

// Focused returns true if the renderer owns the terminal cursor.
func (r *Renderer) Focused() bool {
	return r.focused
}

// SetTheme changes the styles and repaints everything.
func (r *Renderer) SetTheme(theme core.Theme) {
	r.opts.Theme = theme
	r.tracker.MarkAll()
}

// SetTabWidth changes the tab stop interval and repaints everything.
func (r *Renderer) SetTabWidth(n int) {
	r.measurer = core.NewCellMeasurer(n)
	r.opts.TabWidth = r.measurer.TabWidth
	r.tracker.MarkAll()
}

// SetLineNumbers turns the line number gutter on or off.
func (r *Renderer) SetLineNumbers(on bool) {
	r.opts.LineNumbers = on
	r.tracker.MarkAll()
}

// Viewport returns the vertical viewport, or nil in single-line mode.
func (r *Renderer) Viewport() *viewport.Viewport {
	return r.viewport
}

// Tracker returns the dirty line tracker.
func (r *Renderer) Tracker() *dirty.Tracker {
	return r.tracker
}

// Measurer returns the cell measurer.
func (r *Renderer) Measurer() core.CellMeasurer {
	return r.measurer
}

// FrameCount returns the number of Paint calls that painted something.
func (r *Renderer) FrameCount() uint64 {
	return r.frames
}

// ViewportWidth returns the number of text columns the caret can move
// across without panning. One column is held back so that a caret at the
// end of the line stays on screen.
func (r *Renderer) ViewportWidth() int {
	return max(r.rect.Width()-r.gutterWidth()-1, 1)
}

// MeasureText returns the display width of s in columns.
func (r *Renderer) MeasureText(s string) int {
	return r.measurer.MeasureText(s)
}

// RequestRedraw queues a region for the next Paint.
func (r *Renderer) RequestRedraw(reg dirty.Region) {
	r.tracker.Mark(reg)
}

func (r *Renderer) lineCount() uint32 {
	if r.src == nil {
		return 1
	}
	return r.src.LineCount()
}

// gutterWidth is the line number column plus one separator; at least three
// digits wide.
func (r *Renderer) gutterWidth() int {
	if !r.opts.LineNumbers || r.opts.SingleLine {
		return 0
	}
	digits := len(strconv.FormatUint(uint64(r.lineCount()), 10))
	return max(digits, 3) + 1
}

func (r *Renderer) rows() int {
	if r.opts.SingleLine {
		return min(r.rect.Height(), 1)
	}
	return r.rect.Height()
}

func (r *Renderer) topLine() uint32 {
	if r.viewport == nil {
		return 0
	}
	return r.viewport.TopLine()
}

// Reveal scrolls the viewport so that line is visible. It returns true if
// the viewport moved.
func (r *Renderer) Reveal(line uint32) bool {
	if r.viewport == nil {
		return false
	}
	r.viewport.SetLineCount(r.lineCount())
	return r.viewport.Reveal(line)
}

// ScrollBy moves the viewport by delta lines.
func (r *Renderer) ScrollBy(delta int) bool {
	if r.viewport == nil {
		return false
	}
	r.viewport.SetLineCount(r.lineCount())
	return r.viewport.ScrollBy(delta)
}

// Contains returns true if the screen cell (x, y) is inside the renderer.
func (r *Renderer) Contains(x, y int) bool {
	return r.rect.Contains(x, y)
}

// PointAt maps a screen cell to the document position under it. Cells
// outside the text area clamp to its edges.
func (r *Renderer) PointAt(x, y int) buffer.Point {
	if r.src == nil {
		return buffer.Point{}
	}
	var line uint32
	if r.viewport != nil {
		r.viewport.SetLineCount(r.lineCount())
		row := min(max(y-r.rect.Top, 0), max(r.rect.Height()-1, 0))
		line = r.viewport.RowToLine(row)
	}
	col := max(x-r.rect.Left-r.gutterWidth(), 0) + r.src.PanOffset()
	text := r.src.LineText(line)
	return buffer.Point{Line: line, Column: uint32(r.measurer.OffsetAt(text, col))}
}

// Paint repaints the lines that changed since the last call and, when
// focused, places the terminal cursor. It does not flush the backend.
// It returns true if any line was painted.
func (r *Renderer) Paint() bool {
	if r.src == nil || r.rect.IsEmpty() {
		return false
	}
	if r.viewport != nil {
		r.viewport.SetLineCount(r.src.LineCount())
	}

	now := frame{top: r.topLine(), pan: r.src.PanOffset(), gutter: r.gutterWidth(), valid: true}
	if now != r.painted {
		r.tracker.MarkAll()
	}
	regions, full := r.tracker.Take()

	first := now.top
	last := first + uint32(r.rows()) - 1
	painted := false
	if full {
		r.paintLines(first, last, now)
		painted = true
	} else {
		for _, reg := range regions {
			if c, ok := reg.Clip(first, last); ok {
				r.paintLines(c.StartLine, c.EndLine, now)
				painted = true
			}
		}
	}
	r.painted = now
	if painted {
		r.frames++
	}
	if r.focused {
		r.placeCursor(now)
	}
	return painted
}

func (r *Renderer) paintLines(from, to uint32, f frame) {
	for line := from; line <= to; line++ {
		r.paintLine(line, r.rect.Top+int(line-f.top), f)
	}
}

func (r *Renderer) paintLine(line uint32, y int, f frame) {
	theme := r.opts.Theme
	x := r.rect.Left
	exists := line < r.src.LineCount()

	if f.gutter > 0 {
		label := ""
		if exists {
			label = strconv.FormatUint(uint64(line+1), 10)
		}
		pad := f.gutter - 1 - len(label)
		for i := range f.gutter {
			ch := ' '
			if i >= pad && i < f.gutter-1 {
				ch = rune(label[i-pad])
			}
			r.backend.SetCell(x+i, y, core.Cell{Rune: ch, Width: 1, Style: theme.Gutter})
		}
		x += f.gutter
	}

	cells := r.scratch[:0]
	if exists {
		cells = r.layoutLine(cells, line)
	}
	r.scratch = cells

	width := r.rect.Width() - f.gutter
	for i := range width {
		c := core.BlankCell(theme.Text)
		if j := f.pan + i; j < len(cells) {
			c = cells[j]
		}
		// Half a wide cluster at either edge is painted blank.
		if (c.IsContinuation() && i == 0) || i+c.Width > width {
			c = core.BlankCell(c.Style)
		}
		r.backend.SetCell(x+i, y, c)
	}
}

// layoutLine appends the cells of line with the selection highlighted. A
// selection continuing past the end of the line shows one extra cell for
// the line break.
func (r *Renderer) layoutLine(cells []core.Cell, line uint32) []core.Cell {
	theme := r.opts.Theme
	text := r.src.LineText(line)
	sel, ok := r.src.Selection()
	if !ok || line < sel.Start.Line || line > sel.End.Line {
		return r.measurer.AppendCells(cells, text, theme.Text)
	}

	from, to := 0, len(text)
	if line == sel.Start.Line {
		from = min(int(sel.Start.Column), len(text))
	}
	if line == sel.End.Line {
		to = min(int(sel.End.Column), len(text))
	}
	cells = r.measurer.AppendCells(cells, text[:from], theme.Text)
	cells = r.measurer.AppendCells(cells, text[from:to], theme.Selection)
	cells = r.measurer.AppendCells(cells, text[to:], theme.Text)
	if line < sel.End.Line {
		cells = append(cells, core.BlankCell(theme.Selection))
	}
	return cells
}

func (r *Renderer) placeCursor(f frame) {
	caret := r.src.Caret()
	y := r.rect.Top
	if r.viewport != nil {
		row, ok := r.viewport.LineToRow(caret.Line)
		if !ok {
			r.backend.HideCursor()
			return
		}
		y += row
	}

	text := r.src.LineText(caret.Line)
	x := r.measurer.MeasureText(text[:min(int(caret.Column), len(text))]) - f.pan
	if x < 0 || x >= r.rect.Width()-f.gutter {
		r.backend.HideCursor()
		return
	}
	r.backend.ShowCursor(r.rect.Left+f.gutter+x, y)
}
