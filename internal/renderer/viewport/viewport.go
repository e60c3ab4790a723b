// Package viewport tracks which document lines a multi-line widget shows.
// Horizontal scrolling is the pan model's job; the viewport only moves
// vertically.
package viewport

import (
	"sync"
)

// DefaultMargin is the number of lines kept between the caret and the top
// or bottom edge when scrolling to reveal it.
const DefaultMargin = 2

// Viewport is a window of Height consecutive lines starting at TopLine.
type Viewport struct {
	mu sync.RWMutex

	topLine   uint32
	height    int
	margin    int
	lineCount uint32
}

// NewViewport creates a viewport showing height lines. Heights below 1
// are clamped to 1.
func NewViewport(height int) *Viewport {
	return &Viewport{
		height:    max(height, 1),
		margin:    DefaultMargin,
		lineCount: 1,
	}
}

// Height returns the number of visible rows.
func (v *Viewport) Height() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.height
}

// TopLine returns the first visible line.
func (v *Viewport) TopLine() uint32 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.topLine
}

// BottomLine returns the last visible line that exists in the document.
func (v *Viewport) BottomLine() uint32 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.bottomLine()
}

func (v *Viewport) bottomLine() uint32 {
	bottom := v.topLine + uint32(v.height) - 1
	if v.lineCount > 0 && bottom > v.lineCount-1 {
		bottom = max(v.lineCount-1, v.topLine)
	}
	return bottom
}

// effectiveMargin shrinks the margin on short viewports so that the
// scroll targets stay consistent.
func (v *Viewport) effectiveMargin() int {
	return min(v.margin, (v.height-1)/2)
}

// maxTop is the highest top line that still fills the viewport.
func (v *Viewport) maxTop() uint32 {
	if v.lineCount <= uint32(v.height) {
		return 0
	}
	return v.lineCount - uint32(v.height)
}

func (v *Viewport) setTop(top uint32) bool {
	top = min(top, v.maxTop())
	if top == v.topLine {
		return false
	}
	v.topLine = top
	return true
}

// Resize changes the number of visible rows. It returns true if the top
// line moved.
func (v *Viewport) Resize(height int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.height = max(height, 1)
	return v.setTop(v.topLine)
}

// SetMargin sets the reveal margin. Negative values are treated as zero.
func (v *Viewport) SetMargin(margin int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.margin = max(margin, 0)
}

// SetLineCount records the document length. It returns true if the top
// line had to move up.
func (v *Viewport) SetLineCount(n uint32) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.lineCount = max(n, 1)
	return v.setTop(v.topLine)
}

// IsLineVisible returns true if line is on screen.
func (v *Viewport) IsLineVisible(line uint32) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return line >= v.topLine && line < v.topLine+uint32(v.height)
}

// LineToRow returns the screen row of line, or false if it is off screen.
func (v *Viewport) LineToRow(line uint32) (int, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if line < v.topLine || line >= v.topLine+uint32(v.height) {
		return 0, false
	}
	return int(line - v.topLine), true
}

// RowToLine returns the line shown on row, clamped to the document.
func (v *Viewport) RowToLine(row int) uint32 {
	v.mu.RLock()
	defer v.mu.RUnlock()

	row = max(row, 0)
	return min(v.topLine+uint32(row), v.lineCount-1)
}

// ScrollTo makes line the top line, as far as the document allows.
func (v *Viewport) ScrollTo(line uint32) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.setTop(line)
}

// ScrollBy moves the top line by delta lines.
func (v *Viewport) ScrollBy(delta int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	top := int64(v.topLine) + int64(delta)
	return v.setTop(uint32(max(top, 0)))
}

// Reveal scrolls the minimum distance that puts line inside the margins.
// It returns true if the viewport moved.
func (v *Viewport) Reveal(line uint32) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	m := uint32(v.effectiveMargin())
	h := uint32(v.height)

	switch {
	case line < v.topLine+m:
		if line < m {
			return v.setTop(0)
		}
		return v.setTop(line - m)
	case line+m >= v.topLine+h:
		return v.setTop(line + m + 1 - h)
	}
	return false
}
