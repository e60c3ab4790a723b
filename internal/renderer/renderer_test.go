package renderer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/blockedit/internal/engine"
	"github.com/dshills/blockedit/internal/engine/buffer"
	"github.com/dshills/blockedit/internal/renderer/backend"
	"github.com/dshills/blockedit/internal/renderer/core"
)

func setup(t *testing.T, content string, rect core.ScreenRect, opts Options, copts ...engine.Option) (*Renderer, *engine.Controller, *backend.NullBackend) {
	t.Helper()
	b := backend.NewNullBackend(rect.Right, rect.Bottom)
	r := New(b, rect, opts)
	copts = append(copts, engine.WithContent(content), engine.WithRenderer(r))
	c, err := engine.New(copts...)
	require.NoError(t, err)
	r.SetSource(c)
	r.SetFocused(true)
	return r, c, b
}

func TestPaintLinesAndCursor(t *testing.T) {
	r, c, b := setup(t, "hello\nworld", core.RectFromSize(0, 0, 4, 20), DefaultOptions())

	require.True(t, r.Paint())
	assert.Equal(t, "hello", b.Row(0))
	assert.Equal(t, "world", b.Row(1))
	assert.Equal(t, "", b.Row(2))

	require.NoError(t, c.Move(engine.DirDown, false))
	require.NoError(t, c.Move(engine.DirEnd, false))
	r.Paint()
	x, y, visible := b.CursorPosition()
	assert.True(t, visible)
	assert.Equal(t, 5, x)
	assert.Equal(t, 1, y)
}

func TestPaintOnlyWhatChanged(t *testing.T) {
	r, c, b := setup(t, "one\ntwo\nthree", core.RectFromSize(0, 0, 5, 20), DefaultOptions())
	r.Paint()
	assert.Equal(t, uint64(1), r.FrameCount())

	assert.False(t, r.Paint(), "nothing changed")

	// Scribble on a row the edit does not touch; it must survive.
	b.SetCell(0, 2, core.Cell{Rune: '#', Width: 1})
	require.NoError(t, c.InsertCharacter('X'))
	assert.True(t, r.Paint())
	assert.Equal(t, "Xone", b.Row(0))
	assert.Equal(t, "#hree", b.Row(2))
}

func TestPaintSelection(t *testing.T) {
	r, c, b := setup(t, "hello\nworld", core.RectFromSize(0, 0, 3, 20), DefaultOptions())
	require.NoError(t, c.Select(buffer.Point{Line: 0, Column: 1}, buffer.Point{Line: 1, Column: 2}))
	r.Paint()

	reversed := func(x, y int) bool {
		return b.GetCell(x, y).Style.Attributes.Has(core.AttrReverse)
	}
	assert.False(t, reversed(0, 0))
	for x := 1; x <= 5; x++ {
		assert.True(t, reversed(x, 0), "row 0 col %d", x)
	}
	assert.False(t, reversed(6, 0))
	assert.True(t, reversed(0, 1))
	assert.True(t, reversed(1, 1))
	assert.False(t, reversed(2, 1))
}

func TestPaintGutter(t *testing.T) {
	opts := DefaultOptions()
	opts.LineNumbers = true
	r, _, b := setup(t, "hello\nworld", core.RectFromSize(0, 0, 3, 20), opts)
	r.Paint()

	assert.Equal(t, "  1 hello", b.Row(0))
	assert.Equal(t, "  2 world", b.Row(1))
	assert.Equal(t, 20-4-1, r.ViewportWidth())
	assert.True(t, b.GetCell(0, 0).Style.Attributes.Has(core.AttrDim))
}

func TestPaintSingleLinePanned(t *testing.T) {
	opts := DefaultOptions()
	opts.SingleLine = true
	r, c, b := setup(t, "abcdefghij", core.RectFromSize(0, 0, 1, 6), opts, engine.WithSingleLine())
	r.Paint()
	assert.Equal(t, "abcdef", b.Row(0))

	require.NoError(t, c.Move(engine.DirEnd, false))
	assert.Equal(t, 6, c.PanOffset())
	r.Paint()
	assert.Equal(t, "ghij", b.Row(0))

	x, _, visible := b.CursorPosition()
	assert.True(t, visible)
	assert.Equal(t, 4, x)
}

func TestRevealScrollsAndRepaints(t *testing.T) {
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	r, c, b := setup(t, strings.Join(lines, "\n"), core.RectFromSize(0, 0, 3, 20), DefaultOptions())
	r.Paint()

	require.NoError(t, c.Move(engine.DirDocEnd, false))
	assert.True(t, r.Reveal(c.Caret().Line))
	r.Paint()

	assert.Equal(t, uint32(7), r.Viewport().TopLine())
	assert.Equal(t, "line 7", b.Row(0))
	assert.Equal(t, "line 9", b.Row(2))
	_, y, _ := b.CursorPosition()
	assert.Equal(t, 2, y)
}

func TestPointAt(t *testing.T) {
	opts := DefaultOptions()
	opts.LineNumbers = true
	r, _, _ := setup(t, "hello\nwo世ld", core.RectFromSize(1, 0, 4, 20), opts)
	r.Paint()

	assert.Equal(t, buffer.Point{Line: 0, Column: 2}, r.PointAt(6, 1))
	// Either half of the wide rune maps to its start.
	assert.Equal(t, buffer.Point{Line: 1, Column: 2}, r.PointAt(7, 2))
	assert.Equal(t, buffer.Point{Line: 1, Column: 2}, r.PointAt(6, 2))
	// Clicks in the gutter land on column 0; clicks below the text clamp.
	assert.Equal(t, buffer.Point{Line: 0, Column: 0}, r.PointAt(1, 1))
	assert.Equal(t, buffer.Point{Line: 1, Column: 7}, r.PointAt(50, 9))
}

func TestSetFocusedHidesCursor(t *testing.T) {
	r, _, b := setup(t, "abc", core.RectFromSize(0, 0, 2, 10), DefaultOptions())
	r.Paint()
	_, _, visible := b.CursorPosition()
	require.True(t, visible)

	r.SetFocused(false)
	_, _, visible = b.CursorPosition()
	assert.False(t, visible)
}
