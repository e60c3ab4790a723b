package widget

import (
	"github.com/dshills/blockedit/internal/engine"
	"github.com/dshills/blockedit/internal/engine/buffer"
	"github.com/dshills/blockedit/internal/renderer/backend"
	"github.com/dshills/blockedit/internal/renderer/core"
)

// TextEdit is a multi-line editing area.
type TextEdit struct {
	base
}

// NewTextEdit creates a multi-line widget holding content, painting into
// rect of b. It fails if content does not fit in the buffer's block limit.
func NewTextEdit(b backend.Backend, rect core.ScreenRect, content string, opts Options) (*TextEdit, error) {
	bw, err := newBase(b, rect, content, opts, false)
	if err != nil {
		return nil, err
	}
	return &TextEdit{base: bw}, nil
}

// SetLineNumbers turns the line number gutter on or off.
func (w *TextEdit) SetLineNumbers(on bool) {
	w.opts.LineNumbers = on
	w.r.SetLineNumbers(on)
}

// SetText replaces the document.
func (w *TextEdit) SetText(text string) error {
	if err := w.ctrl.SetText(text); err != nil {
		return err
	}
	w.r.Reveal(0)
	return nil
}

// GoToLine moves the caret to the start of line (0-indexed), clamped to
// the document, and scrolls it into view.
func (w *TextEdit) GoToLine(line uint32) error {
	if err := w.ctrl.Click(buffer.Point{Line: line}, false); err != nil {
		return err
	}
	w.reveal()
	return nil
}

// HandleEvent applies a key, paste or mouse event.
func (w *TextEdit) HandleEvent(ev backend.Event) (bool, error) {
	handled, err := w.handle(ev)
	if handled && !isWheel(ev) {
		w.reveal()
	}
	return handled, err
}

func (w *TextEdit) handle(ev backend.Event) (bool, error) {
	switch ev.Type {
	case backend.EventKey:
		if !w.focused {
			return false, nil
		}
		switch ev.Key {
		case backend.KeyEnter:
			return true, w.ctrl.BreakLine()
		case backend.KeyUp:
			return true, w.ctrl.Move(engine.DirUp, ev.Mod.Has(backend.ModShift))
		case backend.KeyDown:
			return true, w.ctrl.Move(engine.DirDown, ev.Mod.Has(backend.ModShift))
		case backend.KeyPageUp:
			return true, w.page(engine.DirUp, ev.Mod.Has(backend.ModShift))
		case backend.KeyPageDown:
			return true, w.page(engine.DirDown, ev.Mod.Has(backend.ModShift))
		}
		return w.handleKey(ev)

	case backend.EventPaste:
		if !w.focused {
			return false, nil
		}
		return true, w.ctrl.PasteText(ev.Text)

	case backend.EventMouse:
		return w.handleMouse(ev, func(p buffer.Point) error {
			return w.ctrl.SelectLine(p.Line)
		})
	}
	return false, nil
}

// page moves the caret one screen up or down.
func (w *TextEdit) page(dir engine.Direction, extend bool) error {
	for range max(w.r.Rect().Height()-1, 1) {
		if err := w.ctrl.Move(dir, extend); err != nil {
			return err
		}
	}
	return nil
}

func (w *TextEdit) reveal() {
	w.r.Reveal(w.ctrl.Caret().Line)
}
