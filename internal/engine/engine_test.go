package engine

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/blockedit/internal/engine/buffer"
	"github.com/dshills/blockedit/internal/renderer/dirty"
)

// recordingRenderer measures one unit per byte and records redraws.
type recordingRenderer struct {
	width   int
	regions []dirty.Region
	onDraw  func()
}

func (r *recordingRenderer) ViewportWidth() int       { return r.width }
func (r *recordingRenderer) MeasureText(s string) int { return len(s) }
func (r *recordingRenderer) RequestRedraw(reg dirty.Region) {
	r.regions = append(r.regions, reg)
	if r.onDraw != nil {
		r.onDraw()
	}
}

type failingClipboard struct{}

func (failingClipboard) GetText() (string, bool) { return "", false }
func (failingClipboard) SetText(string) error    { return errors.New("clipboard unavailable") }

func newController(t *testing.T, content string, opts ...Option) (*Controller, *recordingRenderer) {
	t.Helper()
	r := &recordingRenderer{width: 80}
	opts = append([]Option{WithContent(content), WithRenderer(r)}, opts...)
	c, err := New(opts...)
	require.NoError(t, err)
	return c, r
}

// ============================================================================
// Scenarios
// ============================================================================

func TestInsertTextIntoEmpty(t *testing.T) {
	c, _ := newController(t, "")

	require.NoError(t, c.InsertText("hello\nworld"))
	assert.Equal(t, uint32(2), c.LineCount())
	assert.Equal(t, "hello", c.LineText(0))
	assert.Equal(t, "world", c.LineText(1))
	assert.Equal(t, Point{Line: 1, Column: 5}, c.Caret())
}

func TestBreakLineThenType(t *testing.T) {
	c, _ := newController(t, "hello\nworld")
	require.NoError(t, c.Click(Point{Line: 0, Column: 5}, false))

	require.NoError(t, c.BreakLine())
	assert.Equal(t, Point{Line: 1, Column: 0}, c.Caret())
	require.NoError(t, c.InsertText("X"))

	assert.Equal(t, "X", c.LineText(1))
	assert.Equal(t, uint32(3), c.LineCount())
}

func TestBackspaceOverSelection(t *testing.T) {
	c, r := newController(t, "hello\nworld")
	require.NoError(t, c.Click(Point{Line: 0, Column: 1}, false))
	require.NoError(t, c.Move(DirDown, true))
	require.NoError(t, c.Move(DirRight, true))

	sel, ok := c.Selection()
	require.True(t, ok)
	assert.Equal(t, Point{Line: 0, Column: 1}, sel.Start)
	assert.Equal(t, Point{Line: 1, Column: 2}, sel.End)

	r.regions = nil
	require.NoError(t, c.Backspace())
	assert.Equal(t, "hrld", c.Text())
	assert.Equal(t, uint32(1), c.LineCount())
	assert.Equal(t, Point{Line: 0, Column: 1}, c.Caret())

	_, ok = c.Selection()
	assert.False(t, ok)
	require.Len(t, r.regions, 1)
	assert.True(t, r.regions[0].ContainsLine(0))
	assert.True(t, r.regions[0].ContainsLine(1), "old selection box must be redrawn")
}

// ============================================================================
// Edit Operations
// ============================================================================

func TestInsertCharacterReplacesSelection(t *testing.T) {
	c, _ := newController(t, "abcdef")
	require.NoError(t, c.Select(Point{Column: 1}, Point{Column: 4}))

	require.NoError(t, c.InsertCharacter('X'))
	assert.Equal(t, "aXef", c.Text())
	assert.Equal(t, Point{Column: 2}, c.Caret())
}

func TestInsertCharacterMultibyte(t *testing.T) {
	c, _ := newController(t, "ab")
	require.NoError(t, c.Click(Point{Column: 1}, false))

	require.NoError(t, c.InsertCharacter('世'))
	assert.Equal(t, "a世b", c.Text())
	assert.Equal(t, Point{Column: 4}, c.Caret())

	assert.ErrorIs(t, c.InsertCharacter(0), ErrInvalidChar)
}

func TestInsertTextReplacesMultilineSelection(t *testing.T) {
	c, _ := newController(t, "one\ntwo\nthree")
	require.NoError(t, c.Select(Point{Line: 0, Column: 1}, Point{Line: 2, Column: 2}))

	require.NoError(t, c.InsertText("X\nYZ"))
	assert.Equal(t, "oX\nYZree", c.Text())
	assert.Equal(t, Point{Line: 1, Column: 2}, c.Caret())
}

func TestInsertTextSameLineSelectionBackwards(t *testing.T) {
	c, _ := newController(t, "abcdef")
	require.NoError(t, c.Select(Point{Column: 5}, Point{Column: 2}))

	require.NoError(t, c.InsertText("12345"))
	assert.Equal(t, "ab12345f", c.Text())
	assert.Equal(t, Point{Column: 7}, c.Caret())
}

func TestBackspaceMergesLines(t *testing.T) {
	c, _ := newController(t, "ab\ncd")
	require.NoError(t, c.Click(Point{Line: 1}, false))

	require.NoError(t, c.Backspace())
	assert.Equal(t, "abcd", c.Text())
	assert.Equal(t, Point{Column: 2}, c.Caret())
}

func TestBackspaceRemovesCRLF(t *testing.T) {
	c, _ := newController(t, "ab\r\ncd")
	require.NoError(t, c.Click(Point{Line: 1}, false))

	require.NoError(t, c.Backspace())
	assert.Equal(t, "abcd", c.Text())
}

func TestTypedCRBeforeLFJoinsEnding(t *testing.T) {
	c, _ := newController(t, "ab\ncd")
	require.NoError(t, c.Click(Point{Column: 2}, false))

	require.NoError(t, c.InsertCharacter('\r'))
	assert.Equal(t, "ab\r\ncd", c.Text())
	assert.Equal(t, uint32(2), c.LineCount())
	assert.Equal(t, Point{Line: 1}, c.Caret())
	assert.NoError(t, c.Buffer().Validate())
}

func TestDeletingBetweenCRAndLFJoinsEnding(t *testing.T) {
	c, _ := newController(t, "a\rX\nb")
	require.NoError(t, c.Select(Point{Line: 1}, Point{Line: 1, Column: 1}))

	require.NoError(t, c.Backspace())
	assert.Equal(t, "a\r\nb", c.Text())
	assert.Equal(t, uint32(2), c.LineCount())
	assert.Equal(t, "b", c.LineText(1))
	assert.Equal(t, Point{Line: 1}, c.Caret())
}

func TestReplacingSelectionWithLFAfterCR(t *testing.T) {
	c, _ := newController(t, "a\rX\nb")
	require.NoError(t, c.Select(Point{Line: 1}, Point{Line: 1, Column: 1}))

	require.NoError(t, c.InsertText("\n"))
	assert.Equal(t, "a\r\n\nb", c.Text())
	assert.Equal(t, uint32(3), c.LineCount())
	assert.Equal(t, Point{Line: 1}, c.Caret())
	assert.NoError(t, c.Buffer().Validate())
}

func TestNewReportsContentOverBlockLimit(t *testing.T) {
	content := strings.Repeat("line of text\n", 20)

	_, err := New(WithContent(content),
		WithBufferOptions(buffer.WithBlockCapacity(16), buffer.WithMaxBlocks(2)))
	assert.ErrorIs(t, err, ErrAllocationFailure)

	c, err := New(WithContent(content), WithBufferOptions(buffer.WithBlockCapacity(16)))
	require.NoError(t, err)
	assert.Equal(t, content, c.Text())
	assert.Equal(t, buffer.RevisionID(0), c.Buffer().Revision())
}

func TestBoundaryDeletesAreNoops(t *testing.T) {
	c, r := newController(t, "ab")
	rev := c.Buffer().Revision()

	require.NoError(t, c.Backspace())
	require.NoError(t, c.Move(DirDocEnd, false))
	r.regions = nil
	require.NoError(t, c.DeleteForward())

	assert.Equal(t, "ab", c.Text())
	assert.Equal(t, rev, c.Buffer().Revision())
	assert.Empty(t, r.regions)
}

func TestDeleteForward(t *testing.T) {
	c, _ := newController(t, "ab\ncd")
	require.NoError(t, c.Click(Point{Line: 0, Column: 2}, false))

	require.NoError(t, c.DeleteForward())
	assert.Equal(t, "abcd", c.Text())
	require.NoError(t, c.DeleteForward())
	assert.Equal(t, "abd", c.Text())
	assert.Equal(t, Point{Column: 2}, c.Caret())
}

func TestBreakLineUsesDocumentLineEnding(t *testing.T) {
	c, _ := newController(t, "a\r\nb")
	require.NoError(t, c.Move(DirEnd, false))

	require.NoError(t, c.BreakLine())
	assert.Equal(t, "a\r\n\r\nb", c.Text())
	assert.Equal(t, LineEnding(buffer.LineEndingCRLF), c.LineEnding())
}

func TestSetTextResetsState(t *testing.T) {
	c, _ := newController(t, "hello")
	require.NoError(t, c.SelectAll())

	require.NoError(t, c.SetText("new\ntext"))
	assert.Equal(t, "new\ntext", c.Text())
	assert.Equal(t, Point{}, c.Caret())
	_, ok := c.Selection()
	assert.False(t, ok)
	assert.Equal(t, 0, c.PanOffset())
}

// ============================================================================
// Clipboard Operations
// ============================================================================

func TestCopyCutPaste(t *testing.T) {
	c, _ := newController(t, "hello world")
	require.NoError(t, c.Select(Point{Column: 0}, Point{Column: 5}))

	require.NoError(t, c.Copy())
	assert.Equal(t, "hello world", c.Text())

	require.NoError(t, c.Cut())
	assert.Equal(t, " world", c.Text())

	require.NoError(t, c.Move(DirDocEnd, false))
	require.NoError(t, c.Paste())
	assert.Equal(t, " worldhello", c.Text())
	assert.Equal(t, Point{Column: 11}, c.Caret())
}

func TestCopyWithoutSelection(t *testing.T) {
	c, _ := newController(t, "text", WithClipboard(failingClipboard{}))

	assert.NoError(t, c.Copy())
	assert.NoError(t, c.Cut())
	assert.NoError(t, c.Paste())
	assert.Equal(t, "text", c.Text())
}

func TestCutKeepsTextWhenClipboardFails(t *testing.T) {
	c, _ := newController(t, "text", WithClipboard(failingClipboard{}))
	require.NoError(t, c.SelectAll())

	assert.Error(t, c.Cut())
	assert.Equal(t, "text", c.Text())
	assert.True(t, c.cursor.HasSelection())
}

// ============================================================================
// Single Line
// ============================================================================

func TestSingleLine(t *testing.T) {
	c, _ := newController(t, "a\nb", WithSingleLine())
	assert.Equal(t, "a b", c.Text())

	require.NoError(t, c.Move(DirDocEnd, false))
	require.NoError(t, c.BreakLine())
	assert.Equal(t, "a b", c.Text())

	require.NoError(t, c.PasteText("x\r\ny\rz"))
	assert.Equal(t, "a bx y z", c.Text())
	assert.Equal(t, uint32(1), c.LineCount())

	require.NoError(t, c.InsertCharacter('\n'))
	assert.Equal(t, "a bx y z ", c.Text())
}

// ============================================================================
// Atomicity
// ============================================================================

func TestFailedInsertLeavesStateUnchanged(t *testing.T) {
	c, r := newController(t, "0123456789",
		WithBufferOptions(buffer.WithBlockCapacity(16), buffer.WithMaxBlocks(1)))
	require.NoError(t, c.Select(Point{Column: 2}, Point{Column: 6}))
	before := c.Text()
	sel, _ := c.Selection()
	r.regions = nil

	err := c.InsertText(strings.Repeat("z", 64))
	require.ErrorIs(t, err, ErrAllocationFailure)

	assert.Equal(t, before, c.Text())
	after, ok := c.Selection()
	assert.True(t, ok)
	assert.Equal(t, sel, after)
	assert.Equal(t, Point{Column: 6}, c.Caret())
	assert.Empty(t, r.regions)
	assert.NoError(t, c.Buffer().Validate())
}

func TestReentrantCallFails(t *testing.T) {
	c, r := newController(t, "abc")
	var inner error
	r.onDraw = func() {
		inner = c.InsertText("x")
		r.onDraw = nil
	}

	require.NoError(t, c.InsertText("y"))
	assert.ErrorIs(t, inner, ErrReentrant)
	assert.Equal(t, "yabc", c.Text())
}

func TestReadOnly(t *testing.T) {
	c, _ := newController(t, "abc", WithReadOnly())

	assert.ErrorIs(t, c.InsertText("x"), ErrReadOnly)
	assert.ErrorIs(t, c.Backspace(), ErrReadOnly)
	assert.NoError(t, c.Move(DirEnd, false))
	assert.NoError(t, c.SelectAll())
	assert.NoError(t, c.Copy())
	assert.Equal(t, "abc", c.Text())
}

// ============================================================================
// Navigation and Pan
// ============================================================================

func TestPanFollowsCaret(t *testing.T) {
	c, r := newController(t, "")
	r.width = 10

	require.NoError(t, c.InsertText(strings.Repeat("x", 30)))
	assert.Equal(t, 21, c.PanOffset())

	require.NoError(t, c.Move(DirHome, false))
	assert.Equal(t, 0, c.PanOffset())

	for i := 0; i < 15; i++ {
		require.NoError(t, c.Move(DirRight, false))
	}
	assert.Equal(t, 6, c.PanOffset())
}

func TestMoveRedrawsOldAndNewBounds(t *testing.T) {
	c, r := newController(t, "a\nb\nc\nd")
	require.NoError(t, c.Select(Point{Line: 0}, Point{Line: 1, Column: 1}))
	r.regions = nil

	require.NoError(t, c.Move(DirDocEnd, false))
	require.Len(t, r.regions, 1)
	assert.Equal(t, dirty.NewLineRegion(0, 3), r.regions[0])
}

func TestNoopMoveDoesNotRedraw(t *testing.T) {
	c, r := newController(t, "abc")
	r.regions = nil

	require.NoError(t, c.Move(DirLeft, false))
	assert.Empty(t, r.regions)
}

func TestSelectLineAndBlur(t *testing.T) {
	c, _ := newController(t, "one\ntwo")

	require.NoError(t, c.SelectLine(1))
	assert.Equal(t, "two", c.SelectedText())

	require.NoError(t, c.Blur())
	assert.Equal(t, Point{}, c.Caret())
	assert.Equal(t, "", c.SelectedText())
}

func TestDrag(t *testing.T) {
	c, _ := newController(t, "hello\nworld")

	require.NoError(t, c.Click(Point{Line: 0, Column: 3}, false))
	require.NoError(t, c.Drag(Point{Line: 1, Column: 2}))
	assert.Equal(t, "lo\nwo", c.SelectedText())
}
