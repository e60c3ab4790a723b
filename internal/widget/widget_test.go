package widget

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/blockedit/internal/clipboard"
	"github.com/dshills/blockedit/internal/engine"
	"github.com/dshills/blockedit/internal/engine/buffer"
	"github.com/dshills/blockedit/internal/renderer/backend"
	"github.com/dshills/blockedit/internal/renderer/core"
)

func key(k backend.Key, mod backend.ModMask) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: k, Mod: mod}
}

func char(r rune) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r}
}

func ctrlChar(r rune) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: r, Mod: backend.ModCtrl}
}

func press(x, y int, when time.Time) backend.Event {
	return backend.Event{Type: backend.EventMouse, MouseButton: backend.MouseLeft, MouseX: x, MouseY: y, When: when}
}

func release(x, y int) backend.Event {
	return backend.Event{Type: backend.EventMouse, MouseButton: backend.MouseNone, MouseX: x, MouseY: y}
}

func newEdit(t *testing.T, content string, height int) (*TextEdit, *backend.NullBackend) {
	t.Helper()
	b := backend.NewNullBackend(20, height)
	opts := DefaultOptions()
	opts.Clipboard = clipboard.NewMemory()
	w, err := NewTextEdit(b, core.RectFromSize(0, 0, height, 20), content, opts)
	require.NoError(t, err)
	w.Focus()
	return w, b
}

func send(t *testing.T, w Widget, events ...backend.Event) {
	t.Helper()
	for _, ev := range events {
		handled, err := w.HandleEvent(ev)
		require.NoError(t, err)
		require.True(t, handled, "event %+v not handled", ev)
	}
}

func TestTypingAndBreakLine(t *testing.T) {
	w, b := newEdit(t, "", 5)

	send(t, w, char('h'), char('i'), key(backend.KeyEnter, 0), char('!'))
	assert.Equal(t, "hi\n!", w.Text())

	w.Paint()
	assert.Equal(t, "hi", b.Row(0))
	assert.Equal(t, "!", b.Row(1))
	x, y, visible := b.CursorPosition()
	assert.True(t, visible)
	assert.Equal(t, 1, x)
	assert.Equal(t, 1, y)
}

func TestShiftArrowSelectsAndTypingReplaces(t *testing.T) {
	w, _ := newEdit(t, "hello", 3)

	send(t, w,
		key(backend.KeyEnd, 0),
		key(backend.KeyLeft, backend.ModShift),
		key(backend.KeyLeft, backend.ModShift),
		char('P'),
	)
	assert.Equal(t, "helP", w.Text())
}

func TestCtrlHomeEnd(t *testing.T) {
	w, _ := newEdit(t, "one\ntwo\nthree", 5)

	send(t, w, key(backend.KeyEnd, backend.ModCtrl))
	assert.Equal(t, buffer.Point{Line: 2, Column: 5}, w.Controller().Caret())

	send(t, w, key(backend.KeyHome, backend.ModCtrl|backend.ModShift))
	sel, ok := w.Controller().Selection()
	require.True(t, ok)
	assert.Equal(t, buffer.Point{}, sel.Start)
	assert.Equal(t, buffer.Point{Line: 2, Column: 5}, sel.End)
}

func TestClipboardShortcuts(t *testing.T) {
	w, _ := newEdit(t, "copy me", 3)

	send(t, w, ctrlChar('a'), ctrlChar('x'))
	assert.Equal(t, "", w.Text())

	send(t, w, ctrlChar('v'), ctrlChar('v'))
	assert.Equal(t, "copy mecopy me", w.Text())
}

func TestUnknownShortcutIsNotHandled(t *testing.T) {
	w, _ := newEdit(t, "text", 3)

	handled, err := w.HandleEvent(ctrlChar('s'))
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Equal(t, "text", w.Text())
}

func TestKeysIgnoredWithoutFocus(t *testing.T) {
	w, _ := newEdit(t, "text", 3)
	require.NoError(t, w.Blur())

	handled, err := w.HandleEvent(char('x'))
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Equal(t, "text", w.Text())
}

func TestBlurResetsCaretAndSelection(t *testing.T) {
	w, b := newEdit(t, "one\ntwo", 3)
	send(t, w, key(backend.KeyDown, 0), key(backend.KeyEnd, backend.ModShift))

	require.NoError(t, w.Blur())
	assert.False(t, w.IsFocused())
	assert.Equal(t, buffer.Point{}, w.Controller().Caret())
	_, ok := w.Controller().Selection()
	assert.False(t, ok)

	w.Paint()
	_, _, visible := b.CursorPosition()
	assert.False(t, visible)
}

func TestPasteEvent(t *testing.T) {
	w, _ := newEdit(t, "ab", 3)
	send(t, w, key(backend.KeyRight, 0))

	send(t, w, backend.Event{Type: backend.EventPaste, Text: "1\n2"})
	assert.Equal(t, "a1\n2b", w.Text())
	assert.Equal(t, buffer.Point{Line: 1, Column: 1}, w.Controller().Caret())
}

func TestClickPlacesCaret(t *testing.T) {
	w, _ := newEdit(t, "hello\nworld", 3)
	t0 := time.Unix(100, 0)

	send(t, w, press(3, 1, t0), release(3, 1))
	assert.Equal(t, buffer.Point{Line: 1, Column: 3}, w.Controller().Caret())
}

func TestDragSelects(t *testing.T) {
	w, _ := newEdit(t, "hello\nworld", 3)
	t0 := time.Unix(100, 0)

	send(t, w, press(1, 0, t0), press(2, 1, t0.Add(time.Second)), release(2, 1))
	sel, ok := w.Controller().Selection()
	require.True(t, ok)
	assert.Equal(t, buffer.Point{Line: 0, Column: 1}, sel.Start)
	assert.Equal(t, buffer.Point{Line: 1, Column: 2}, sel.End)
}

func TestShiftClickExtends(t *testing.T) {
	w, _ := newEdit(t, "hello world", 3)
	t0 := time.Unix(100, 0)

	send(t, w, press(2, 0, t0), release(2, 0))
	shifted := press(8, 0, t0.Add(time.Second))
	shifted.Mod = backend.ModShift
	send(t, w, shifted, release(8, 0))

	assert.Equal(t, "llo wo", w.Controller().SelectedText())
}

func TestDoubleClickSelectsLine(t *testing.T) {
	w, _ := newEdit(t, "first\nsecond line", 3)
	t0 := time.Unix(100, 0)

	send(t, w,
		press(2, 1, t0), release(2, 1),
		press(2, 1, t0.Add(100*time.Millisecond)), release(2, 1),
	)
	assert.Equal(t, "second line", w.Controller().SelectedText())
}

func TestSlowSecondClickIsSingle(t *testing.T) {
	w, _ := newEdit(t, "first\nsecond line", 3)
	t0 := time.Unix(100, 0)

	send(t, w,
		press(2, 1, t0), release(2, 1),
		press(4, 1, t0.Add(time.Second)), release(4, 1),
	)
	_, ok := w.Controller().Selection()
	assert.False(t, ok)
	assert.Equal(t, buffer.Point{Line: 1, Column: 4}, w.Controller().Caret())
}

func TestClickOutsideIsNotHandled(t *testing.T) {
	w, _ := newEdit(t, "text", 3)

	handled, err := w.HandleEvent(press(5, 10, time.Unix(100, 0)))
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestWheelScrolls(t *testing.T) {
	w, _ := newEdit(t, strings.Repeat("line\n", 29)+"line", 5)

	send(t, w, backend.Event{Type: backend.EventMouse, MouseButton: backend.MouseWheelDown})
	assert.Equal(t, uint32(wheelLines), w.Renderer().Viewport().TopLine())

	send(t, w, backend.Event{Type: backend.EventMouse, MouseButton: backend.MouseWheelUp})
	assert.Equal(t, uint32(0), w.Renderer().Viewport().TopLine())
}

func TestPageDownKeepsCaretVisible(t *testing.T) {
	w, _ := newEdit(t, strings.Repeat("line\n", 29)+"line", 5)

	send(t, w, key(backend.KeyPageDown, 0))
	caret := w.Controller().Caret()
	assert.Equal(t, uint32(4), caret.Line)
	assert.True(t, w.Renderer().Viewport().IsLineVisible(caret.Line))
}

func TestGoToLine(t *testing.T) {
	w, _ := newEdit(t, strings.Repeat("line\n", 29)+"line", 5)

	require.NoError(t, w.GoToLine(20))
	assert.Equal(t, buffer.Point{Line: 20}, w.Controller().Caret())
	assert.True(t, w.Renderer().Viewport().IsLineVisible(20))

	require.NoError(t, w.GoToLine(500))
	assert.Equal(t, uint32(29), w.Controller().Caret().Line)
}

func TestReadOnlyRejectsEdits(t *testing.T) {
	b := backend.NewNullBackend(20, 3)
	opts := DefaultOptions()
	opts.ReadOnly = true
	w, err := NewTextEdit(b, core.RectFromSize(0, 0, 3, 20), "fixed", opts)
	require.NoError(t, err)
	w.Focus()

	_, err = w.HandleEvent(char('x'))
	assert.ErrorIs(t, err, engine.ErrReadOnly)
	assert.Equal(t, "fixed", w.Text())

	send(t, w, key(backend.KeyEnd, 0))
	assert.Equal(t, buffer.Point{Column: 5}, w.Controller().Caret())
}

func TestNewTextEditReportsBlockLimit(t *testing.T) {
	b := backend.NewNullBackend(20, 3)
	opts := DefaultOptions()
	opts.BufferOptions = []buffer.Option{buffer.WithBlockCapacity(16), buffer.WithMaxBlocks(1)}

	w, err := NewTextEdit(b, core.RectFromSize(0, 0, 3, 20), strings.Repeat("x", 100), opts)
	assert.ErrorIs(t, err, buffer.ErrAllocationFailure)
	assert.Nil(t, w)
}

// TextEntry Tests

func newEntry(t *testing.T, content string) (*TextEntry, *backend.NullBackend) {
	t.Helper()
	b := backend.NewNullBackend(10, 1)
	opts := DefaultOptions()
	opts.Clipboard = clipboard.NewMemory()
	w, err := NewTextEntry(b, core.RectFromSize(0, 0, 1, 10), content, opts)
	require.NoError(t, err)
	w.Focus()
	return w, b
}

func TestEntrySubmitAndCancel(t *testing.T) {
	w, _ := newEntry(t, "")
	var submitted string
	cancelled := false
	w.OnSubmit = func(text string) { submitted = text }
	w.OnCancel = func() { cancelled = true }

	send(t, w, char('4'), char('2'), key(backend.KeyEnter, 0))
	assert.Equal(t, "42", submitted)
	assert.Equal(t, "42", w.Text())

	send(t, w, key(backend.KeyEscape, 0))
	assert.True(t, cancelled)
}

func TestEntryFlattensPaste(t *testing.T) {
	w, _ := newEntry(t, "")

	send(t, w, backend.Event{Type: backend.EventPaste, Text: "a\nb"})
	assert.Equal(t, "a b", w.Text())
	assert.Equal(t, uint32(1), w.Controller().LineCount())
}

func TestEntryLeavesVerticalKeys(t *testing.T) {
	w, _ := newEntry(t, "x")

	handled, err := w.HandleEvent(key(backend.KeyUp, 0))
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestEntryDoubleClickSelectsAll(t *testing.T) {
	w, _ := newEntry(t, "abc")
	t0 := time.Unix(100, 0)

	send(t, w,
		press(1, 0, t0), release(1, 0),
		press(1, 0, t0.Add(50*time.Millisecond)), release(1, 0),
	)
	assert.Equal(t, "abc", w.Controller().SelectedText())
}

func TestEntryPansLongText(t *testing.T) {
	w, b := newEntry(t, "")

	for _, r := range "abcdefghijklmno" {
		send(t, w, char(r))
	}
	w.Paint()
	pan := w.Controller().PanOffset()
	require.Greater(t, pan, 0)
	row := b.Row(0)
	assert.Equal(t, "abcdefghijklmno"[pan:], row)
	x, _, visible := b.CursorPosition()
	assert.True(t, visible)
	assert.Equal(t, len(row), x)
	assert.Less(t, x, 10)
}
