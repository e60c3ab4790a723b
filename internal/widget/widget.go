// Package widget provides the terminal editing widgets: TextEdit for
// multi-line documents and TextEntry for single-line input. Both translate
// backend events into edit controller intents and paint through a
// renderer.
package widget

import (
	"time"

	"github.com/dshills/blockedit/internal/engine"
	"github.com/dshills/blockedit/internal/engine/buffer"
	"github.com/dshills/blockedit/internal/renderer"
	"github.com/dshills/blockedit/internal/renderer/backend"
	"github.com/dshills/blockedit/internal/renderer/core"
)

// DefaultDoubleClickTimeout is the longest gap between two presses that
// still counts as a double click.
const DefaultDoubleClickTimeout = 200 * time.Millisecond

// wheelLines is how far one wheel notch scrolls.
const wheelLines = 3

// Widget is an editing widget driven by backend events.
type Widget interface {
	// HandleEvent applies ev. It returns false for events the widget does
	// not use, so the caller can handle them itself.
	HandleEvent(ev backend.Event) (bool, error)
	// Paint repaints what changed. The caller flushes the backend.
	Paint() bool
	Focus()
	// Blur drops the selection and returns the caret to the origin.
	Blur() error
	IsFocused() bool
	Contains(x, y int) bool
	SetRect(rect core.ScreenRect)
	Controller() *engine.Controller
}

// Options configures a widget.
type Options struct {
	DoubleClickTimeout time.Duration
	TabWidth           int
	LineNumbers        bool
	ScrollMargin       int
	Theme              core.Theme
	ReadOnly           bool
	// Clipboard defaults to an in-memory clipboard.
	Clipboard     engine.Clipboard
	BufferOptions []buffer.Option
	// LineEnding is used by BreakLine when FixedLineEnding is set;
	// otherwise the ending detected in the content is used.
	LineEnding      buffer.LineEnding
	FixedLineEnding bool
}

// DefaultOptions returns the default widget options.
func DefaultOptions() Options {
	ropts := renderer.DefaultOptions()
	return Options{
		DoubleClickTimeout: DefaultDoubleClickTimeout,
		TabWidth:           ropts.TabWidth,
		ScrollMargin:       ropts.ScrollMargin,
		Theme:              ropts.Theme,
	}
}

// base is the state and input handling TextEdit and TextEntry share.
type base struct {
	ctrl *engine.Controller
	r    *renderer.Renderer
	opts Options

	focused   bool
	pressed   bool
	lastClick time.Time
	clock     func() time.Time
}

func newBase(b backend.Backend, rect core.ScreenRect, content string, opts Options, singleLine bool) (base, error) {
	ropts := renderer.Options{
		SingleLine:   singleLine,
		LineNumbers:  opts.LineNumbers,
		TabWidth:     opts.TabWidth,
		ScrollMargin: opts.ScrollMargin,
		Theme:        opts.Theme,
	}
	r := renderer.New(b, rect, ropts)

	copts := []engine.Option{
		engine.WithContent(content),
		engine.WithRenderer(r),
		engine.WithBufferOptions(opts.BufferOptions...),
	}
	if opts.Clipboard != nil {
		copts = append(copts, engine.WithClipboard(opts.Clipboard))
	}
	if singleLine {
		copts = append(copts, engine.WithSingleLine())
	}
	if opts.ReadOnly {
		copts = append(copts, engine.WithReadOnly())
	}
	if opts.FixedLineEnding {
		copts = append(copts, engine.WithLineEnding(opts.LineEnding))
	}
	ctrl, err := engine.New(copts...)
	if err != nil {
		return base{}, err
	}
	r.SetSource(ctrl)

	if opts.DoubleClickTimeout <= 0 {
		opts.DoubleClickTimeout = DefaultDoubleClickTimeout
	}
	return base{ctrl: ctrl, r: r, opts: opts, clock: time.Now}, nil
}

// Controller returns the edit controller.
func (w *base) Controller() *engine.Controller {
	return w.ctrl
}

// Renderer returns the widget's renderer.
func (w *base) Renderer() *renderer.Renderer {
	return w.r
}

// Text returns the widget's document.
func (w *base) Text() string {
	return w.ctrl.Text()
}

// Paint repaints what changed since the last call.
func (w *base) Paint() bool {
	return w.r.Paint()
}

// Focus gives the widget the keyboard and the terminal cursor.
func (w *base) Focus() {
	w.focused = true
	w.r.SetFocused(true)
}

// Blur takes the focus away and resets caret and selection.
func (w *base) Blur() error {
	w.focused = false
	w.pressed = false
	w.r.SetFocused(false)
	return w.ctrl.Blur()
}

// IsFocused returns true if the widget has the focus.
func (w *base) IsFocused() bool {
	return w.focused
}

// Contains returns true if the screen cell (x, y) is inside the widget.
func (w *base) Contains(x, y int) bool {
	return w.r.Contains(x, y)
}

// SetRect moves or resizes the widget.
func (w *base) SetRect(rect core.ScreenRect) {
	w.r.SetRect(rect)
}

// SetTabWidth changes the tab stop interval.
func (w *base) SetTabWidth(n int) {
	w.opts.TabWidth = n
	w.r.SetTabWidth(n)
}

// SetTheme changes the widget's styles.
func (w *base) SetTheme(theme core.Theme) {
	w.opts.Theme = theme
	w.r.SetTheme(theme)
}

// SetDoubleClickTimeout changes the double click window.
func (w *base) SetDoubleClickTimeout(d time.Duration) {
	if d > 0 {
		w.opts.DoubleClickTimeout = d
	}
}

func isWheel(ev backend.Event) bool {
	return ev.Type == backend.EventMouse &&
		(ev.MouseButton == backend.MouseWheelUp || ev.MouseButton == backend.MouseWheelDown)
}

func (w *base) eventTime(ev backend.Event) time.Time {
	if ev.When.IsZero() {
		return w.clock()
	}
	return ev.When
}

// handleKey maps the keys both widgets share onto controller intents.
func (w *base) handleKey(ev backend.Event) (bool, error) {
	c := w.ctrl
	shift := ev.Mod.Has(backend.ModShift)
	ctrl := ev.Mod.Has(backend.ModCtrl)

	switch ev.Key {
	case backend.KeyLeft:
		return true, c.Move(engine.DirLeft, shift)
	case backend.KeyRight:
		return true, c.Move(engine.DirRight, shift)
	case backend.KeyHome:
		if ctrl {
			return true, c.Move(engine.DirDocStart, shift)
		}
		return true, c.Move(engine.DirHome, shift)
	case backend.KeyEnd:
		if ctrl {
			return true, c.Move(engine.DirDocEnd, shift)
		}
		return true, c.Move(engine.DirEnd, shift)
	case backend.KeyBackspace:
		return true, c.Backspace()
	case backend.KeyDelete:
		return true, c.DeleteForward()
	case backend.KeyTab:
		return true, c.InsertCharacter('\t')
	case backend.KeyRune:
		if ctrl {
			return w.shortcut(ev.Rune)
		}
		if ev.Mod.Has(backend.ModAlt) || ev.Mod.Has(backend.ModMeta) {
			return false, nil
		}
		return true, c.InsertCharacter(ev.Rune)
	}
	return false, nil
}

// shortcut handles the Ctrl chords the widgets own. Others are left to
// the caller.
func (w *base) shortcut(r rune) (bool, error) {
	switch r {
	case 'a':
		return true, w.ctrl.SelectAll()
	case 'c':
		return true, w.ctrl.Copy()
	case 'x':
		return true, w.ctrl.Cut()
	case 'v':
		return true, w.ctrl.Paste()
	}
	return false, nil
}

// handleMouse runs the press, drag and release gestures. A second press
// within the double click timeout calls onDouble instead of placing the
// caret.
func (w *base) handleMouse(ev backend.Event, onDouble func(p buffer.Point) error) (bool, error) {
	x, y := ev.MouseX, ev.MouseY

	switch ev.MouseButton {
	case backend.MouseLeft:
		if w.pressed {
			return true, w.ctrl.Drag(w.r.PointAt(x, y))
		}
		if !w.r.Contains(x, y) {
			return false, nil
		}
		w.pressed = true
		p := w.r.PointAt(x, y)
		now := w.eventTime(ev)
		if ev.Mod.Has(backend.ModShift) {
			return true, w.ctrl.Click(p, true)
		}
		if !w.lastClick.IsZero() && now.Sub(w.lastClick) < w.opts.DoubleClickTimeout {
			w.lastClick = time.Time{}
			return true, onDouble(p)
		}
		w.lastClick = now
		return true, w.ctrl.Click(p, false)

	case backend.MouseNone:
		if w.pressed {
			w.pressed = false
			return true, nil
		}

	case backend.MouseWheelUp, backend.MouseWheelDown:
		if !w.r.Contains(x, y) {
			return false, nil
		}
		delta := wheelLines
		if ev.MouseButton == backend.MouseWheelUp {
			delta = -delta
		}
		w.r.ScrollBy(delta)
		return true, nil
	}
	return false, nil
}
