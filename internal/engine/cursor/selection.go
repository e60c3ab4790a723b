package cursor

import (
	"fmt"

	"github.com/dshills/blockedit/internal/engine/buffer"
)

// Point is an alias for buffer.Point for convenience.
type Point = buffer.Point

// Selection is a normalized range of selected text, Start <= End.
// Selection is an immutable value type.
type Selection struct {
	Start Point
	End   Point
}

// NewSelection creates a selection covering a and b in either order.
func NewSelection(a, b Point) Selection {
	return Selection{Start: buffer.MinPoint(a, b), End: buffer.MaxPoint(a, b)}
}

// IsEmpty returns true if the selection has no extent.
func (s Selection) IsEmpty() bool {
	return s.Start == s.End
}

// Contains returns true if p lies inside the selection, end exclusive.
func (s Selection) Contains(p Point) bool {
	return !p.Before(s.Start) && p.Before(s.End)
}

// SpansLines returns true if the selection crosses a line break.
func (s Selection) SpansLines() bool {
	return s.Start.Line != s.End.Line
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	return fmt.Sprintf("Selection(%v-%v)", s.Start, s.End)
}
