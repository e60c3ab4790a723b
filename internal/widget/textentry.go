package widget

import (
	"github.com/dshills/blockedit/internal/engine/buffer"
	"github.com/dshills/blockedit/internal/renderer/backend"
	"github.com/dshills/blockedit/internal/renderer/core"
)

// TextEntry is a single-line input field. Line breaks in typed or pasted
// text become spaces.
type TextEntry struct {
	base

	// OnSubmit is called with the text when Enter is pressed.
	OnSubmit func(text string)
	// OnCancel is called when Escape is pressed.
	OnCancel func()
}

// NewTextEntry creates a single-line widget painting into the first row
// of rect.
func NewTextEntry(b backend.Backend, rect core.ScreenRect, content string, opts Options) (*TextEntry, error) {
	opts.LineNumbers = false
	bw, err := newBase(b, rect, content, opts, true)
	if err != nil {
		return nil, err
	}
	return &TextEntry{base: bw}, nil
}

// SetText replaces the entry's text.
func (w *TextEntry) SetText(text string) error {
	return w.ctrl.SetText(text)
}

// HandleEvent applies a key, paste or mouse event.
func (w *TextEntry) HandleEvent(ev backend.Event) (bool, error) {
	switch ev.Type {
	case backend.EventKey:
		if !w.focused {
			return false, nil
		}
		switch ev.Key {
		case backend.KeyEnter:
			if w.OnSubmit != nil {
				w.OnSubmit(w.ctrl.Text())
			}
			return true, nil
		case backend.KeyEscape:
			if w.OnCancel != nil {
				w.OnCancel()
			}
			return true, nil
		case backend.KeyUp, backend.KeyDown, backend.KeyPageUp, backend.KeyPageDown:
			return false, nil
		}
		return w.handleKey(ev)

	case backend.EventPaste:
		if !w.focused {
			return false, nil
		}
		return true, w.ctrl.PasteText(ev.Text)

	case backend.EventMouse:
		return w.handleMouse(ev, func(buffer.Point) error {
			return w.ctrl.SelectAll()
		})
	}
	return false, nil
}
