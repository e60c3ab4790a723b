// Package dirty tracks which document lines need repainting. The edit
// controller reports stale line ranges as Regions; a Tracker coalesces them
// until the next paint.
package dirty

import "fmt"

// Region is an inclusive range of document lines.
type Region struct {
	StartLine uint32
	EndLine   uint32
}

// NewLineRegion creates a region covering lines start through end.
func NewLineRegion(startLine, endLine uint32) Region {
	if endLine < startLine {
		startLine, endLine = endLine, startLine
	}
	return Region{StartLine: startLine, EndLine: endLine}
}

// NewSingleLine creates a region for one line.
func NewSingleLine(line uint32) Region {
	return Region{StartLine: line, EndLine: line}
}

// LineCount returns the number of lines in the region.
func (r Region) LineCount() uint32 {
	if r.StartLine > r.EndLine {
		return 0
	}
	return r.EndLine - r.StartLine + 1
}

// ContainsLine returns true if the region covers line.
func (r Region) ContainsLine(line uint32) bool {
	return line >= r.StartLine && line <= r.EndLine
}

// Overlaps returns true if the regions share a line.
func (r Region) Overlaps(other Region) bool {
	return r.StartLine <= other.EndLine && other.StartLine <= r.EndLine
}

// Adjacent returns true if one region ends on the line before the other
// starts.
func (r Region) Adjacent(other Region) bool {
	// Guard the +1 against overflow.
	return (r.EndLine < ^uint32(0) && r.EndLine+1 == other.StartLine) ||
		(other.EndLine < ^uint32(0) && other.EndLine+1 == r.StartLine)
}

// Merge combines two overlapping or adjacent regions. It returns false if
// they are disjoint.
func (r Region) Merge(other Region) (Region, bool) {
	if !r.Overlaps(other) && !r.Adjacent(other) {
		return Region{}, false
	}
	return Region{
		StartLine: min(r.StartLine, other.StartLine),
		EndLine:   max(r.EndLine, other.EndLine),
	}, true
}

// Clip returns the part of r within [first, last], and false if none of it
// is.
func (r Region) Clip(first, last uint32) (Region, bool) {
	if r.EndLine < first || r.StartLine > last {
		return Region{}, false
	}
	return Region{StartLine: max(r.StartLine, first), EndLine: min(r.EndLine, last)}, true
}

func (r Region) String() string {
	if r.StartLine == r.EndLine {
		return fmt.Sprintf("line %d", r.StartLine)
	}
	return fmt.Sprintf("lines %d-%d", r.StartLine, r.EndLine)
}
