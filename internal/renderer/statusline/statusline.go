// Package statusline draws the two bottom rows of the editor: a status bar
// with file and caret information, and a message row that doubles as the
// prompt label for single-line input.
package statusline

import (
	"fmt"

	"github.com/dshills/blockedit/internal/renderer/backend"
	"github.com/dshills/blockedit/internal/renderer/core"
)

// MessageType selects the style of a status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageWarning
	MessageError
)

// StatusLine holds what the bottom rows display.
type StatusLine struct {
	filename   string
	modified   bool
	line       uint32 // 1-indexed
	col        uint32 // 1-indexed
	totalLines uint32
	selected   int
	lineEnding string
	readOnly   bool

	prompt      string
	message     string
	messageType MessageType

	measurer core.CellMeasurer
	barStyle core.Style
}

// New creates a status line.
func New() *StatusLine {
	return &StatusLine{
		measurer: core.NewCellMeasurer(core.DefaultTabWidth),
		barStyle: core.DefaultStyle().Reverse(),
		line:     1,
		col:      1,
	}
}

// SetFilename updates the displayed filename.
func (s *StatusLine) SetFilename(filename string) {
	s.filename = filename
}

// SetModified updates the modified indicator.
func (s *StatusLine) SetModified(modified bool) {
	s.modified = modified
}

// SetReadOnly updates the read-only indicator.
func (s *StatusLine) SetReadOnly(readOnly bool) {
	s.readOnly = readOnly
}

// SetPosition updates the caret position (1-indexed).
func (s *StatusLine) SetPosition(line, col uint32) {
	s.line = line
	s.col = col
}

// SetTotalLines updates the line count.
func (s *StatusLine) SetTotalLines(total uint32) {
	s.totalLines = total
}

// SetSelected updates the number of selected bytes; zero hides it.
func (s *StatusLine) SetSelected(n int) {
	s.selected = n
}

// SetLineEnding updates the line ending label, such as "LF".
func (s *StatusLine) SetLineEnding(name string) {
	s.lineEnding = name
}

// SetPrompt shows label on the message row in place of any message. An
// empty label ends the prompt.
func (s *StatusLine) SetPrompt(label string) {
	s.prompt = label
}

// Prompt returns the active prompt label.
func (s *StatusLine) Prompt() string {
	return s.prompt
}

// SetMessage displays a status message.
func (s *StatusLine) SetMessage(msg string, msgType MessageType) {
	s.message = msg
	s.messageType = msgType
}

// ClearMessage clears the status message.
func (s *StatusLine) ClearMessage() {
	s.message = ""
	s.messageType = MessageNone
}

// Message returns the current message.
func (s *StatusLine) Message() (string, MessageType) {
	return s.message, s.messageType
}

// Height returns the number of rows the status line uses.
func (s *StatusLine) Height() int {
	return 2
}

// Render draws the status bar on row and the message row below it. It
// returns the column at which prompt input starts.
func (s *StatusLine) Render(b backend.Backend, row, width int) int {
	s.renderBar(b, row, width)
	return s.renderMessage(b, row+1, width)
}

// put draws text from column x, stopping before limit. It returns the
// column after the last cell drawn.
func (s *StatusLine) put(b backend.Backend, x, row, limit int, text string, style core.Style) int {
	for _, c := range s.measurer.Cells(text, style) {
		if x+max(c.Width, 1) > limit {
			break
		}
		b.SetCell(x, row, c)
		x++
	}
	return x
}

func (s *StatusLine) renderBar(b backend.Backend, row, width int) {
	b.Fill(core.RectFromSize(row, 0, 1, width), core.BlankCell(s.barStyle))

	right := s.formatPosition()
	rightStart := max(width-s.measurer.MeasureText(right)-1, 0)

	name := s.filename
	if name == "" {
		name = "[No Name]"
	}
	if s.modified {
		name += " [+]"
	}
	if s.readOnly {
		name += " [RO]"
	}
	s.put(b, 1, row, rightStart-1, name, s.barStyle)
	s.put(b, rightStart, row, width, right, s.barStyle)
}

func (s *StatusLine) renderMessage(b backend.Backend, row, width int) int {
	style := core.DefaultStyle()
	text := s.message
	switch {
	case s.prompt != "":
		text = s.prompt
	case s.messageType == MessageError:
		style = style.WithForeground(core.ColorFromIndex(1))
		style.Attributes |= core.AttrBold
	case s.messageType == MessageWarning:
		style = style.WithForeground(core.ColorFromIndex(3))
	}

	b.Fill(core.RectFromSize(row, 0, 1, width), core.BlankCell(core.DefaultStyle()))
	return s.put(b, 0, row, width, text, style)
}

// formatPosition formats the right side, e.g. "Ln 3/40, Col 7 | Sel 5 | LF".
func (s *StatusLine) formatPosition() string {
	result := fmt.Sprintf("Ln %d", max(s.line, 1))
	if s.totalLines > 0 {
		result += fmt.Sprintf("/%d", s.totalLines)
	}
	result += fmt.Sprintf(", Col %d", max(s.col, 1))
	if s.selected > 0 {
		result += fmt.Sprintf(" | Sel %d", s.selected)
	}
	if s.lineEnding != "" {
		result += " | " + s.lineEnding
	}
	return result
}
