package core

// Cell is one terminal cell. A wide cluster occupies its cell and a
// following continuation cell.
type Cell struct {
	// Rune is the first code point of the cluster; Combining holds the rest.
	Rune      rune
	Combining []rune
	Width     int
	Style     Style
}

// EmptyCell returns a blank cell in the default style.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Width: 1, Style: DefaultStyle()}
}

// BlankCell returns a blank cell in the given style.
func BlankCell(style Style) Cell {
	return Cell{Rune: ' ', Width: 1, Style: style}
}

// ContinuationCell returns the trailing half of a wide cluster.
func ContinuationCell(style Style) Cell {
	return Cell{Style: style}
}

// IsContinuation returns true for the trailing half of a wide cluster.
func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Rune == 0
}

// Text returns the cluster the cell displays.
func (c Cell) Text() string {
	if c.IsContinuation() {
		return ""
	}
	return string(c.Rune) + string(c.Combining)
}

// Equals returns true if two cells display the same thing.
func (c Cell) Equals(other Cell) bool {
	if c.Rune != other.Rune || c.Width != other.Width || c.Style != other.Style {
		return false
	}
	if len(c.Combining) != len(other.Combining) {
		return false
	}
	for i := range c.Combining {
		if c.Combining[i] != other.Combining[i] {
			return false
		}
	}
	return true
}

// ScreenRect is a rectangle of cells. Top and Left are inclusive, Bottom
// and Right exclusive.
type ScreenRect struct {
	Top, Left, Bottom, Right int
}

// RectFromSize creates a rectangle from its corner and size.
func RectFromSize(top, left, height, width int) ScreenRect {
	return ScreenRect{Top: top, Left: left, Bottom: top + height, Right: left + width}
}

// Width returns the number of columns.
func (r ScreenRect) Width() int {
	return max(0, r.Right-r.Left)
}

// Height returns the number of rows.
func (r ScreenRect) Height() int {
	return max(0, r.Bottom-r.Top)
}

// IsEmpty returns true if the rectangle has no cells.
func (r ScreenRect) IsEmpty() bool {
	return r.Width() == 0 || r.Height() == 0
}

// Contains returns true if the cell (x, y) lies inside r.
func (r ScreenRect) Contains(x, y int) bool {
	return y >= r.Top && y < r.Bottom && x >= r.Left && x < r.Right
}
