// Package pan computes the horizontal pan offset of a single visible line
// so that the caret stays inside the viewport.
package pan

// Reason says what happened to the line before the pan is recomputed.
type Reason uint8

const (
	TextInserted Reason = iota
	TextDeleted
	BulkAddRemove
	MoveBack
	MoveForward
)

// String returns the reason name.
func (r Reason) String() string {
	switch r {
	case TextInserted:
		return "text-inserted"
	case TextDeleted:
		return "text-deleted"
	case BulkAddRemove:
		return "bulk-add-remove"
	case MoveBack:
		return "move-back"
	case MoveForward:
		return "move-forward"
	default:
		return "unknown"
	}
}

// Measurer reports the rendered width of a string in viewport units.
type Measurer interface {
	MeasureText(s string) int
}

// Compute returns the new pan offset. caretX is the width of the text
// before the caret; lineWidth is the width of the whole line plus one unit
// for the caret cell. The result always lies in
// [0, max(0, lineWidth-viewportWidth)].
func Compute(reason Reason, prev, caretX, lineWidth, viewportWidth int) int {
	if lineWidth < viewportWidth {
		return 0
	}

	p := prev
	if caretX+1 >= lineWidth {
		// Caret at end of line: show the tail.
		p = lineWidth - viewportWidth
	}

	switch reason {
	case MoveBack:
		if caretX < p {
			p = caretX
		}
	case MoveForward, TextInserted, BulkAddRemove:
		if caretX > p+viewportWidth {
			p = caretX + 1 - viewportWidth
		}
	case TextDeleted:
		if lineWidth-p < viewportWidth {
			p = lineWidth - viewportWidth
		}
	}

	return clamp(p, lineWidth, viewportWidth)
}

func clamp(p, lineWidth, viewportWidth int) int {
	if hi := max(0, lineWidth-viewportWidth); p > hi {
		p = hi
	}
	return max(p, 0)
}

// Model holds the pan offset of one widget.
type Model struct {
	offset int
}

// Offset returns the current pan offset.
func (m *Model) Offset() int {
	return m.offset
}

// Reset scrolls back to the start of the line.
func (m *Model) Reset() {
	m.offset = 0
}

// Update recomputes the offset for the caret at byte column caretCol of
// line, measuring through measure, and returns it.
func (m *Model) Update(reason Reason, line string, caretCol, viewportWidth int, measure Measurer) int {
	caretCol = min(max(caretCol, 0), len(line))
	caretX := measure.MeasureText(line[:caretCol])
	lineWidth := measure.MeasureText(line) + 1
	m.offset = Compute(reason, m.offset, caretX, lineWidth, viewportWidth)
	return m.offset
}
