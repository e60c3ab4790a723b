package core

import (
	"github.com/rivo/uniseg"
)

// DefaultTabWidth is the tab stop interval.
const DefaultTabWidth = 4

// CellMeasurer converts line text into terminal columns. Grapheme clusters
// are measured with uniseg; a tab advances to the next tab stop; control
// characters take one column.
type CellMeasurer struct {
	TabWidth int
}

// NewCellMeasurer returns a measurer with the given tab width.
func NewCellMeasurer(tabWidth int) CellMeasurer {
	if tabWidth < 1 {
		tabWidth = DefaultTabWidth
	}
	return CellMeasurer{TabWidth: tabWidth}
}

func (m CellMeasurer) tabWidth() int {
	if m.TabWidth < 1 {
		return DefaultTabWidth
	}
	return m.TabWidth
}

// clusterWidth is the width of cluster when it starts at column col.
func (m CellMeasurer) clusterWidth(cluster string, w, col int) int {
	if cluster == "\t" {
		tw := m.tabWidth()
		return tw - col%tw
	}
	return max(w, 1)
}

func plainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c < 0x20 || c >= 0x7F {
			return false
		}
	}
	return true
}

// MeasureText returns the display width of s in columns.
func (m CellMeasurer) MeasureText(s string) int {
	if plainASCII(s) {
		return len(s)
	}
	col := 0
	state := -1
	for len(s) > 0 {
		var cluster string
		var w int
		cluster, s, w, state = uniseg.FirstGraphemeClusterInString(s, state)
		col += m.clusterWidth(cluster, w, col)
	}
	return col
}

// OffsetAt returns the byte offset in s of the cluster covering display
// column col, or len(s) when col lies past the end of s.
func (m CellMeasurer) OffsetAt(s string, col int) int {
	if col <= 0 {
		return 0
	}
	if plainASCII(s) {
		return min(col, len(s))
	}
	x, off := 0, 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		x += m.clusterWidth(cluster, w, x)
		if col < x {
			return off
		}
		off += len(cluster)
	}
	return len(s)
}

// Cells lays s out as terminal cells. Tabs become runs of blanks and wide
// clusters are followed by a continuation cell.
func (m CellMeasurer) Cells(s string, style Style) []Cell {
	return m.AppendCells(make([]Cell, 0, len(s)), s, style)
}

// AppendCells lays s out after the cells already laid out, so that tab stops
// line up with the text laid out before it.
func (m CellMeasurer) AppendCells(cells []Cell, s string, style Style) []Cell {
	state := -1
	for len(s) > 0 {
		var cluster string
		var w int
		cluster, s, w, state = uniseg.FirstGraphemeClusterInString(s, state)
		w = m.clusterWidth(cluster, w, len(cells))

		runes := []rune(cluster)
		switch {
		case cluster == "\t":
			for range w {
				cells = append(cells, BlankCell(style))
			}
			continue
		case runes[0] < 0x20 || runes[0] == 0x7F:
			cells = append(cells, Cell{Rune: '?', Width: 1, Style: style})
			continue
		}

		c := Cell{Rune: runes[0], Width: w, Style: style}
		if len(runes) > 1 {
			c.Combining = runes[1:]
		}
		cells = append(cells, c)
		for i := 1; i < w; i++ {
			cells = append(cells, ContinuationCell(style))
		}
	}
	return cells
}
